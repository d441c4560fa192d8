package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPendingDispatchBatch = 100

// pendingDispatchRepository implements the PendingDispatchRepository interface
type pendingDispatchRepository struct {
	db *gorm.DB
}

// NewPendingDispatchRepository creates a new pending dispatch repository instance
func NewPendingDispatchRepository(db *gorm.DB) PendingDispatchRepository {
	return &pendingDispatchRepository{db: db}
}

// Record upserts on event_key. A repeated failure bumps attempts and keeps
// the latest error.
func (r *pendingDispatchRepository) Record(ctx context.Context, event *models.WebhookEvent, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	row := &models.PendingDispatch{
		EventID:   event.EventID,
		Topic:     event.Topic,
		Attempts:  1,
		LastError: msg,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
			"updated_at": time.Now(),
		}),
	}).Create(row).Error
}

// List returns the least recently attempted entries first
func (r *pendingDispatchRepository) List(ctx context.Context, limit int) ([]models.PendingDispatch, error) {
	if limit <= 0 {
		limit = defaultPendingDispatchBatch
	}
	var rows []models.PendingDispatch
	err := r.db.WithContext(ctx).Order("updated_at ASC").Order("id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *pendingDispatchRepository) Remove(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_key = ?", models.EventKeyFor(eventID)).
		Delete(&models.PendingDispatch{}).Error
}

func (r *pendingDispatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PendingDispatch{}).Count(&count).Error
	return count, err
}
