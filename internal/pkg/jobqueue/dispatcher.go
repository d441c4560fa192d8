package jobqueue

import (
	"context"
	"fmt"

	"github.com/ManuelReschke/ginee-gateway/app/models"
)

// QueueDispatcher hands accepted webhook events to the Redis job queue. It
// satisfies ginee.Dispatcher.
type QueueDispatcher struct {
	queue  *Queue
	replay bool
}

// NewQueueDispatcher returns a dispatcher for freshly accepted events.
func NewQueueDispatcher(q *Queue) *QueueDispatcher {
	return &QueueDispatcher{queue: q}
}

// ForReplay returns a dispatcher that tags its jobs as replays. Replays are
// not archived again.
func (d *QueueDispatcher) ForReplay() *QueueDispatcher {
	return &QueueDispatcher{queue: d.queue, replay: true}
}

// Dispatch enqueues a ginee_event job and, when archiving is on, an
// archive_payload job.
func (d *QueueDispatcher) Dispatch(ctx context.Context, event *models.WebhookEvent) error {
	if event == nil {
		return fmt.Errorf("jobqueue: nil event")
	}
	payload := WebhookEventJobPayload{
		EventID: event.EventID,
		Topic:   event.Topic,
		Replay:  d.replay,
	}

	if _, err := d.queue.EnqueueJob(ctx, JobTypeGineeEvent, payload.ToMap()); err != nil {
		return err
	}
	if !d.replay && d.queue.ArchiveEnabled() {
		if _, err := d.queue.EnqueueJob(ctx, JobTypeArchivePayload, payload.ToMap()); err != nil {
			return err
		}
	}
	return nil
}
