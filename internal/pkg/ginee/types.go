package ginee

import (
	"errors"

	"github.com/ManuelReschke/ginee-gateway/app/models"
)

// Result is the outcome of an ingestion call.
type Result string

const (
	ResultAccepted  Result = "accepted"
	ResultDuplicate Result = "duplicate"
)

var (
	// ErrStorageUnavailable wraps any failure of the event store. Callers report
	// it as a server-side failure and rely on the sender to retry.
	ErrStorageUnavailable = errors.New("ginee: event store unavailable")
	// ErrInvalidSignature is returned when a configured webhook secret does not
	// match the request signature.
	ErrInvalidSignature = errors.New("ginee: invalid webhook signature")
	// ErrEventNotFound is returned by Replay for unknown event ids.
	ErrEventNotFound = errors.New("ginee: webhook event not found")
)

// IngestResult describes what happened to an inbound event.
type IngestResult struct {
	Result  Result
	EventID string
	// Event is set only for accepted events.
	Event *models.WebhookEvent
}

// Accepted reports whether the event was stored by this call.
func (r IngestResult) Accepted() bool {
	return r.Result == ResultAccepted
}
