package statistics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
)

type countingRepo struct {
	repository.WebhookEventRepository
	calls  int
	totals map[string]int64
	today  map[string]int64
	err    error
}

func (r *countingRepo) CountByTopicSince(_ context.Context, since time.Time) (map[string]int64, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if since.IsZero() {
		return r.totals, nil
	}
	return r.today, nil
}

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func (m *mapStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", errors.New("miss")
}

func (m *mapStore) Set(key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache down")
	}
	m.data[key] = value.(string)
	return nil
}

func newTestService(repo *countingRepo, store *mapStore) *Service {
	svc := NewService(repo)
	svc.SetStore(store)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC) }
	return svc
}

func TestGetWebhookStats(t *testing.T) {
	repo := &countingRepo{
		totals: map[string]int64{models.GineeTopicOrders: 5, models.GineeTopicMasterProducts: 2},
		today:  map[string]int64{models.GineeTopicOrders: 3},
	}
	store := &mapStore{data: map[string]string{}}
	svc := newTestService(repo, store)

	stats, err := svc.GetWebhookStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", stats.Date)
	assert.EqualValues(t, 7, stats.Total)
	assert.EqualValues(t, 3, stats.Today)
	assert.Equal(t, []TopicStats{
		{Topic: models.GineeTopicMasterProducts, Total: 2, Today: 0},
		{Topic: models.GineeTopicOrders, Total: 5, Today: 3},
	}, stats.Topics)
	assert.Equal(t, 2, repo.calls)
	assert.Contains(t, store.data, "statistics:webhooks:daily:2024-03-10")

	// second call is served from the cache
	_, err = svc.GetWebhookStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestGetWebhookStatsWithoutCache(t *testing.T) {
	repo := &countingRepo{totals: map[string]int64{}, today: map[string]int64{}}
	svc := newTestService(repo, &mapStore{data: map[string]string{}, fail: true})

	stats, err := svc.GetWebhookStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats.Topics)
	assert.NotNil(t, stats.Topics)

	_, err = svc.GetWebhookStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, repo.calls)
}

func TestGetWebhookStatsStorageError(t *testing.T) {
	repo := &countingRepo{err: errors.New("db gone")}
	svc := newTestService(repo, &mapStore{data: map[string]string{}})

	_, err := svc.GetWebhookStats(context.Background())
	assert.Error(t, err)
}
