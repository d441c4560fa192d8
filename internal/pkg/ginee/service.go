package ginee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/metrics"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Service records inbound Ginee events exactly once and hands accepted events
// to downstream processing.
type Service struct {
	repo       repository.WebhookEventRepository
	dispatcher Dispatcher
	replayer   Dispatcher
	pending    repository.PendingDispatchRepository
	now        func() time.Time
}

// NewService builds a Service. A nil dispatcher disables downstream hand-off.
func NewService(repo repository.WebhookEventRepository, dispatcher Dispatcher) *Service {
	return &Service{
		repo:       repo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// SetReplayDispatcher sets the hand-off used by Replay. Without one, Replay
// uses the regular dispatcher.
func (s *Service) SetReplayDispatcher(d Dispatcher) {
	s.replayer = d
}

// SetPendingStore enables the outbox for failed hand-offs. Without one a
// failed hand-off is only logged and counted.
func (s *Service) SetPendingStore(p repository.PendingDispatchRepository) {
	s.pending = p
}

// Ingest stores the event carried by payload unless its id was seen before.
// The payload map is not modified.
func (s *Service) Ingest(ctx context.Context, topic string, payload map[string]any) (IngestResult, error) {
	return s.ingest(ctx, topic, nil, payload)
}

// IngestRaw decodes body leniently and ingests it. A valid JSON object body is
// stored verbatim.
func (s *Service) IngestRaw(ctx context.Context, topic string, body []byte) (IngestResult, error) {
	return s.ingest(ctx, topic, body, DecodePayload(body))
}

func (s *Service) ingest(ctx context.Context, topic string, raw []byte, payload map[string]any) (IngestResult, error) {
	topic = normalizeTopic(topic)
	if payload == nil {
		payload = map[string]any{}
	}

	eventID, ok := stringField(payload, fieldID)
	if !ok {
		eventID = NewEventID(s.now())
	}

	entity, ok := stringField(payload, fieldEntity)
	if !ok {
		entity = DefaultEntity(topic)
	}

	var action *string
	if a, ok := stringField(payload, fieldAction); ok {
		action = &a
	}

	body, err := encodePayload(raw, payload)
	if err != nil {
		// Only reachable for Ingest callers passing non-serializable values.
		body = "{}"
		log.Warnf("[Ginee] Payload for event %s could not be encoded: %v", eventID, err)
	}

	event := &models.WebhookEvent{
		EventID: eventID,
		Topic:   topic,
		Entity:  entity,
		Action:  action,
		Payload: body,
	}

	start := time.Now()
	created, err := s.repo.CreateIfNotExists(ctx, event)
	metrics.WebhookIngestDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(topic, "failed").Inc()
		log.Errorf("[Ginee] Failed to persist event %s on %s: %v", eventID, topic, err)
		return IngestResult{EventID: eventID}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if !created {
		metrics.WebhookEventsTotal.WithLabelValues(topic, string(ResultDuplicate)).Inc()
		log.Debugf("[Ginee] Duplicate event %s on %s ignored", eventID, topic)
		return IngestResult{Result: ResultDuplicate, EventID: eventID}, nil
	}

	metrics.WebhookEventsTotal.WithLabelValues(topic, string(ResultAccepted)).Inc()
	log.Infow("ginee webhook accepted",
		"topic", topic,
		"event_id", eventID,
		"entity", entity,
		"action", derefString(action),
		"payload", payload,
	)

	s.dispatch(ctx, event)

	return IngestResult{Result: ResultAccepted, EventID: eventID, Event: event}, nil
}

// Replay re-dispatches a stored event. The store is not written.
func (s *Service) Replay(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	event, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	d := s.replayer
	if d == nil {
		d = s.dispatcher
	}
	if d == nil {
		return event, nil
	}
	if err := d.Dispatch(ctx, event); err != nil {
		return event, fmt.Errorf("ginee: replay of %s failed: %w", eventID, err)
	}
	log.Infof("[Ginee] Replayed event %s (%s)", eventID, event.Topic)
	return event, nil
}

func (s *Service) dispatch(ctx context.Context, event *models.WebhookEvent) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		metrics.DispatchFailuresTotal.WithLabelValues(event.Topic).Inc()
		log.Errorf("[Ginee] Event %s stored but hand-off failed: %v", event.EventID, err)
		s.markPending(ctx, event, err)
	}
}

func (s *Service) markPending(ctx context.Context, event *models.WebhookEvent, cause error) {
	if s.pending == nil {
		return
	}
	// The request may already be cancelled, the outbox write must still land.
	if err := s.pending.Record(context.WithoutCancel(ctx), event, cause); err != nil {
		log.Errorf("[Ginee] Could not record pending hand-off for %s: %v", event.EventID, err)
	}
}

// RedispatchPending retries up to limit outstanding hand-offs and returns how
// many succeeded. Entries whose event no longer exists are dropped.
func (s *Service) RedispatchPending(ctx context.Context, limit int) (int, error) {
	if s.pending == nil || s.dispatcher == nil {
		return 0, nil
	}
	rows, err := s.pending.List(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	done := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		event, err := s.repo.GetByEventID(ctx, row.EventID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.pending.Remove(ctx, row.EventID)
			continue
		}
		if err != nil {
			return done, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			metrics.DispatchFailuresTotal.WithLabelValues(event.Topic).Inc()
			log.Warnf("[Ginee] Retry %d of hand-off for %s failed: %v", row.Attempts+1, row.EventID, err)
			s.markPending(ctx, event, err)
			continue
		}
		if err := s.pending.Remove(ctx, row.EventID); err != nil {
			log.Errorf("[Ginee] Hand-off for %s succeeded but outbox entry remains: %v", row.EventID, err)
		}
		done++
	}
	if done > 0 {
		log.Infof("[Ginee] Re-dispatched %d pending event(s)", done)
	}
	return done, nil
}

// RunRedispatcher sweeps the outbox every interval until ctx is done.
func (s *Service) RunRedispatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RedispatchPending(ctx, 0); err != nil && ctx.Err() == nil {
				log.Errorf("[Ginee] Outbox sweep failed: %v", err)
			}
		}
	}
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
