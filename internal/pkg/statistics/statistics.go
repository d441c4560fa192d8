package statistics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/cache"
)

const (
	CacheKeyWebhooksTotal = "statistics:webhooks:total"
	CacheKeyWebhooksDaily = "statistics:webhooks:daily:%s" // Format with date YYYY-MM-DD
	CacheExpiration       = 1 * time.Minute
)

// TopicStats holds the stored event counts of one topic
type TopicStats struct {
	Topic string `json:"topic"`
	Total int64  `json:"total"`
	Today int64  `json:"today"`
}

// WebhookStats is the audit overview served by the stats endpoint
type WebhookStats struct {
	Date   string       `json:"date"`
	Total  int64        `json:"total"`
	Today  int64        `json:"today"`
	Topics []TopicStats `json:"topics"`
}

// Store is the key/value cache the counts are kept in
type Store interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
}

type cacheStore struct{}

func (cacheStore) Get(key string) (string, error) { return cache.Get(key) }

func (cacheStore) Set(key string, value interface{}, expiration time.Duration) error {
	return cache.Set(key, value, expiration)
}

// Service computes webhook statistics from the event store, caching the
// per-topic counts for CacheExpiration.
type Service struct {
	repo  repository.WebhookEventRepository
	store Store
	now   func() time.Time
}

func NewService(repo repository.WebhookEventRepository) *Service {
	return &Service{repo: repo, store: cacheStore{}, now: time.Now}
}

// SetStore replaces the Redis-backed cache
func (s *Service) SetStore(store Store) {
	s.store = store
}

// GetWebhookStats returns total and today's (UTC) counts per topic
func (s *Service) GetWebhookStats(ctx context.Context) (WebhookStats, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := dayStart.Format("2006-01-02")

	totals, err := s.counts(ctx, CacheKeyWebhooksTotal, time.Time{})
	if err != nil {
		return WebhookStats{}, err
	}
	today, err := s.counts(ctx, fmt.Sprintf(CacheKeyWebhooksDaily, date), dayStart)
	if err != nil {
		return WebhookStats{}, err
	}

	stats := WebhookStats{Date: date, Topics: []TopicStats{}}
	for topic, total := range totals {
		stats.Topics = append(stats.Topics, TopicStats{Topic: topic, Total: total, Today: today[topic]})
		stats.Total += total
	}
	for topic, n := range today {
		if _, ok := totals[topic]; !ok {
			// totals served from an older cache entry
			stats.Topics = append(stats.Topics, TopicStats{Topic: topic, Total: n, Today: n})
			stats.Total += n
		}
		stats.Today += n
	}
	sort.Slice(stats.Topics, func(i, j int) bool { return stats.Topics[i].Topic < stats.Topics[j].Topic })

	return stats, nil
}

func (s *Service) counts(ctx context.Context, key string, since time.Time) (map[string]int64, error) {
	if val, err := s.store.Get(key); err == nil {
		var cached map[string]int64
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	counts, err := s.repo.CountByTopicSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("counting webhook events: %w", err)
	}

	data, err := json.Marshal(counts)
	if err == nil {
		if err := s.store.Set(key, string(data), CacheExpiration); err != nil {
			log.Warnf("[Statistics] Could not cache %s: %v", key, err)
		}
	}
	return counts, nil
}
