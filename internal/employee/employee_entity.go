package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "employee"
	RoleHOD      = "hod"
	RoleAdmin    = "admin"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string     `gorm:"type:varchar(150);not null"`
	Email        string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employee_email"`
	Role         string     `gorm:"type:varchar(20);not null;default:'employee'"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
