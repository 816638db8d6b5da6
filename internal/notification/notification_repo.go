package notification

import (
	"context"
	"time"

	"go-leave-portal/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create returns false when a row for the same source event already exists.
	Create(ctx context.Context, n *Notification) (bool, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	// MarkRead keeps the first read time; 0 rows means no such notification
	// for recipientID.
	MarkRead(ctx context.Context, id, recipientID string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) (bool, error) {
	res := dbtx.GetDB(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_event_id"}}, DoNothing: true}).
		Create(n)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error) {
	db := dbtx.GetDB(ctx, r.db).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		db = db.Where("read_at IS NULL")
	}
	var result []Notification
	err := db.Order("created_at DESC").Limit(200).Find(&result).Error
	return result, err
}

func (r *repository) MarkRead(ctx context.Context, id, recipientID string, at time.Time) (int64, error) {
	res := dbtx.GetDB(ctx, r.db).
		Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", at))
	return res.RowsAffected, res.Error
}
