package ginee

import (
	"context"
	"fmt"
	"sync"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/gofiber/fiber/v2/log"
)

// Consumer applies an accepted event to the rest of the shop backend. Order
// and master-product mapping plug in here.
type Consumer interface {
	Consume(ctx context.Context, event *models.WebhookEvent) error
}

// ConsumerFunc adapts a plain function to the Consumer interface.
type ConsumerFunc func(ctx context.Context, event *models.WebhookEvent) error

func (f ConsumerFunc) Consume(ctx context.Context, event *models.WebhookEvent) error {
	return f(ctx, event)
}

// Dispatcher hands an accepted event to downstream processing. Implementations
// must not write to the event store.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.WebhookEvent) error
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, event *models.WebhookEvent) error

func (f DispatcherFunc) Dispatch(ctx context.Context, event *models.WebhookEvent) error {
	return f(ctx, event)
}

// ConsumerRegistry routes events to consumers by topic.
type ConsumerRegistry struct {
	mu        sync.RWMutex
	consumers map[string]Consumer
	fallback  Consumer
}

// NewConsumerRegistry returns a registry whose unknown topics go to fallback.
func NewConsumerRegistry(fallback Consumer) *ConsumerRegistry {
	return &ConsumerRegistry{
		consumers: map[string]Consumer{},
		fallback:  fallback,
	}
}

// Register binds a consumer to a topic, replacing any previous binding.
func (r *ConsumerRegistry) Register(topic string, consumer Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consumers[normalizeTopic(topic)] = consumer
}

// ConsumerFor returns the consumer registered for topic, or the fallback.
func (r *ConsumerRegistry) ConsumerFor(topic string) Consumer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.consumers[normalizeTopic(topic)]; ok {
		return c
	}
	return r.fallback
}

// Consume routes the event to its topic consumer.
func (r *ConsumerRegistry) Consume(ctx context.Context, event *models.WebhookEvent) error {
	if event == nil {
		return fmt.Errorf("ginee: nil event")
	}
	c := r.ConsumerFor(event.Topic)
	if c == nil {
		return fmt.Errorf("ginee: no consumer for topic %q", event.Topic)
	}
	return c.Consume(ctx, event)
}

// Dispatch makes the registry usable as an in-process Dispatcher.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *models.WebhookEvent) error {
	return r.Consume(ctx, event)
}

// LogOnlyConsumer acknowledges events without applying them. Used until the
// entity mapping for a topic exists.
type LogOnlyConsumer struct{}

func (LogOnlyConsumer) Consume(_ context.Context, event *models.WebhookEvent) error {
	action := ""
	if event.Action != nil {
		action = *event.Action
	}
	log.Infof("[Ginee] No mapping for %s/%s (event %s, action %q); event kept for audit",
		event.Topic, event.Entity, event.EventID, action)
	return nil
}

var (
	defaultRegistry     *ConsumerRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide consumer registry. Orders and
// master products are pre-registered with LogOnlyConsumer.
func DefaultRegistry() *ConsumerRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewConsumerRegistry(LogOnlyConsumer{})
		defaultRegistry.Register(models.GineeTopicOrders, LogOnlyConsumer{})
		defaultRegistry.Register(models.GineeTopicMasterProducts, LogOnlyConsumer{})
	})
	return defaultRegistry
}
