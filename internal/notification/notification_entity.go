package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is one inbox row. SourceEventID is the outbox id, so a
// redelivered event never produces a second row.
type Notification struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_notification_recipient_created"`
	SourceEventID string         `gorm:"type:varchar(64);not null;uniqueIndex:uq_notification_source_event"`
	EventType     string         `gorm:"type:varchar(100);not null"`
	Title         string         `gorm:"type:varchar(200);not null"`
	Message       string         `gorm:"type:text;not null"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	ReadAt        *time.Time
	CreatedAt     time.Time `gorm:"index:idx_notification_recipient_created"`
}

func (Notification) TableName() string { return "notifications" }
