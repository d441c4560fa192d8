package ginee

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"gorm.io/gorm"
)

// memoryRepo is an in-memory WebhookEventRepository with the same
// first-write-wins semantics as the unique index.
type memoryRepo struct {
	mu     sync.Mutex
	events map[string]models.WebhookEvent
	order  []string
	err    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{events: map[string]models.WebhookEvent{}}
}

func (r *memoryRepo) CreateIfNotExists(_ context.Context, e *models.WebhookEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.events[e.EventID]; ok {
		return false, nil
	}
	e.ID = uint(len(r.order) + 1)
	r.events[e.EventID] = *e
	r.order = append(r.order, e.EventID)
	return true, nil
}

func (r *memoryRepo) GetByEventID(_ context.Context, id string) (*models.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *memoryRepo) List(_ context.Context, f repository.WebhookEventFilter) ([]models.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WebhookEvent
	for i := len(r.order) - 1; i >= 0; i-- {
		e := r.events[r.order[i]]
		if f.Topic != "" && e.Topic != f.Topic {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memoryRepo) Count(_ context.Context, topic string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic == "" {
		return int64(len(r.events)), nil
	}
	var n int64
	for _, e := range r.events {
		if e.Topic == topic {
			n++
		}
	}
	return n, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e *models.WebhookEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e.EventID)
	return d.err
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

var errDown = errors.New("connection refused")

func (r *memoryRepo) CountByTopicSince(_ context.Context, since time.Time) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, e := range r.events {
		if since.IsZero() || !e.ReceivedAt.Before(since) {
			out[e.Topic]++
		}
	}
	return out, nil
}

// memoryPending is an in-memory PendingDispatchRepository.
type memoryPending struct {
	mu       sync.Mutex
	attempts map[string]int
	lastErr  map[string]string
	order    []string
}

func newMemoryPending() *memoryPending {
	return &memoryPending{attempts: map[string]int{}, lastErr: map[string]string{}}
}

func (p *memoryPending) Record(_ context.Context, e *models.WebhookEvent, cause error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.attempts[e.EventID]; !ok {
		p.order = append(p.order, e.EventID)
	}
	p.attempts[e.EventID]++
	p.lastErr[e.EventID] = cause.Error()
	return nil
}

func (p *memoryPending) List(_ context.Context, limit int) ([]models.PendingDispatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.PendingDispatch
	for _, id := range p.order {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, models.PendingDispatch{EventID: id, Attempts: p.attempts[id], LastError: p.lastErr[id]})
	}
	return out, nil
}

func (p *memoryPending) Remove(_ context.Context, eventID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.attempts, eventID)
	delete(p.lastErr, eventID)
	for i, id := range p.order {
		if id == eventID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

func (p *memoryPending) Count(_ context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.order)), nil
}

var _ repository.PendingDispatchRepository = (*memoryPending)(nil)
