package authorization

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type AuthorizationRequest struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorizationType string    `gorm:"type:varchar(50);not null"`
	Title             string    `gorm:"type:varchar(200);not null"`
	Reason            string    `gorm:"type:text;not null"`
	Priority          string    `gorm:"type:varchar(10);not null;default:'medium'"`

	Status          Status     `gorm:"type:varchar(10);not null;default:'pending';index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovalComment *string    `gorm:"type:text"`
	DecidedAt       *time.Time
	ExpiryDate      *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AuthorizationRequest) TableName() string { return "authorization_requests" }

// IsExpired reports whether the request's expiry day is already over at now.
func (a AuthorizationRequest) IsExpired(now time.Time) bool {
	if a.ExpiryDate == nil {
		return false
	}
	y, m, d := a.ExpiryDate.Date()
	endOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}
