package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultWebhookEventListLimit = 50
	maxWebhookEventListLimit     = 500
)

// webhookEventRepository implements the WebhookEventRepository interface
type webhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository instance
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

// CreateIfNotExists relies on the unique event_key index: a conflicting insert
// affects zero rows instead of failing, so concurrent duplicates cannot both win.
func (r *webhookEventRepository) CreateIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_key"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// GetByEventID retrieves a stored event by its idempotency key
func (r *webhookEventRepository) GetByEventID(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	err := r.db.WithContext(ctx).Where("event_key = ?", models.EventKeyFor(eventID)).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns the newest events first
func (r *webhookEventRepository) List(ctx context.Context, filter WebhookEventFilter) ([]models.WebhookEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultWebhookEventListLimit
	}
	if limit > maxWebhookEventListLimit {
		limit = maxWebhookEventListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.WebhookEvent{})
	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if entity := strings.TrimSpace(filter.Entity); entity != "" {
		query = query.Where("entity = ?", entity)
	}

	var events []models.WebhookEvent
	err := query.Order("received_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, err
}

// Count returns the number of stored events, optionally per topic
func (r *webhookEventRepository) Count(ctx context.Context, topic string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.WebhookEvent{})
	if topic = strings.TrimSpace(topic); topic != "" {
		query = query.Where("topic = ?", topic)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *webhookEventRepository) CountByTopicSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Topic string
		Total int64
	}
	query := r.db.WithContext(ctx).Model(&models.WebhookEvent{}).Select("topic, COUNT(*) AS total")
	if !since.IsZero() {
		query = query.Where("received_at >= ?", since)
	}
	if err := query.Group("topic").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Topic] = row.Total
	}
	return counts, nil
}
