package permission

import (
	"time"

	"github.com/google/uuid"
)

type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key      string    `gorm:"column:permission_key;type:varchar(100);not null;uniqueIndex:uq_permission_key"`
	Category string    `gorm:"type:varchar(50);not null"`
	Label    string    `gorm:"type:varchar(150)"`
	IsActive bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPermission is a grant record. Granted=false is a soft revoke: the row
// stays for history.
type UserPermission struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_user_permission"`
	PermissionID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_user_permission"`
	Granted      bool       `gorm:"not null;default:true"`
	GrantedBy    *uuid.UUID `gorm:"type:uuid"`
	GrantedAt    *time.Time
	RevokedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
