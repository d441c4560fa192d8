package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"gorm.io/gorm"
)

// WebhookEventRepository defines the append-only operations on stored webhook events
type WebhookEventRepository interface {
	// CreateIfNotExists inserts the event unless its EventID is already stored.
	// The returned bool is true only when this call created the row.
	CreateIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, error)
	GetByEventID(ctx context.Context, eventID string) (*models.WebhookEvent, error)
	List(ctx context.Context, filter WebhookEventFilter) ([]models.WebhookEvent, error)
	Count(ctx context.Context, topic string) (int64, error)
	// CountByTopicSince groups stored events by topic. A zero since counts all.
	CountByTopicSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

// VoucherRepository defines the read operations needed for voucher checks
type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Voucher, error)
}

// PendingDispatchRepository tracks stored events whose downstream hand-off
// failed and still has to be retried
type PendingDispatchRepository interface {
	Record(ctx context.Context, event *models.WebhookEvent, cause error) error
	List(ctx context.Context, limit int) ([]models.PendingDispatch, error)
	Remove(ctx context.Context, eventID string) error
	Count(ctx context.Context) (int64, error)
}

// WebhookEventFilter narrows event listings for the audit API
type WebhookEventFilter struct {
	Topic  string
	Entity string
	Offset int
	Limit  int
}

// Repositories struct holds all repository instances
type Repositories struct {
	WebhookEvent    WebhookEventRepository
	Voucher         VoucherRepository
	PendingDispatch PendingDispatchRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		WebhookEvent:    NewWebhookEventRepository(db),
		Voucher:         NewVoucherRepository(db),
		PendingDispatch: NewPendingDispatchRepository(db),
	}
}
