package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ginee-gateway/app/models"
)

// PayloadArchiver stores a copy of an accepted event outside the database and
// returns the object key it was written to.
type PayloadArchiver interface {
	ArchiveEvent(ctx context.Context, event *models.WebhookEvent) (string, error)
}

// errPermanent marks job failures that retrying cannot fix.
var errPermanent = errors.New("permanent job failure")

func (q *Queue) loadEvent(ctx context.Context, job *Job) (*models.WebhookEvent, error) {
	payload, err := WebhookEventJobPayloadFromMap(job.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payload: %v", errPermanent, err)
	}
	if payload.EventID == "" {
		return nil, fmt.Errorf("%w: job %s has no event_id", errPermanent, job.ID)
	}
	if q.events == nil {
		return nil, fmt.Errorf("no event repository configured")
	}

	event, err := q.events.GetByEventID(ctx, payload.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: event %s not found", errPermanent, payload.EventID)
		}
		return nil, fmt.Errorf("failed to load event %s: %w", payload.EventID, err)
	}
	return event, nil
}

// processGineeEventJob hands a stored event to its topic consumer
func (q *Queue) processGineeEventJob(ctx context.Context, job *Job) error {
	event, err := q.loadEvent(ctx, job)
	if err != nil {
		return err
	}
	if q.consumer == nil {
		return fmt.Errorf("%w: no consumer configured", errPermanent)
	}

	log.Debugf("[JobQueue] Consuming event %s (topic=%s, entity=%s)", event.EventID, event.Topic, event.Entity)
	if err := q.consumer.Consume(ctx, event); err != nil {
		return fmt.Errorf("consumer failed for event %s: %w", event.EventID, err)
	}
	return nil
}

// processArchivePayloadJob writes the stored payload to the archive bucket
func (q *Queue) processArchivePayloadJob(ctx context.Context, job *Job) error {
	if q.archiver == nil {
		log.Warnf("[JobQueue] Archive job %s skipped: archive is disabled", job.ID)
		return nil
	}
	event, err := q.loadEvent(ctx, job)
	if err != nil {
		return err
	}

	key, err := q.archiver.ArchiveEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("archive failed for event %s: %w", event.EventID, err)
	}
	log.Infof("[JobQueue] Archived event %s to %s", event.EventID, key)
	return nil
}
