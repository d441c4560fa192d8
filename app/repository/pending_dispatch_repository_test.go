package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingDispatchRepository_RecordListRemove(t *testing.T) {
	repo := NewPendingDispatchRepository(newTestDB(t))
	ctx := context.Background()

	first := &models.WebhookEvent{EventID: "P1", Topic: models.GineeTopicOrders}
	second := &models.WebhookEvent{EventID: "P2", Topic: models.GineeTopicMasterProducts}

	require.NoError(t, repo.Record(ctx, first, errors.New("redis down")))
	require.NoError(t, repo.Record(ctx, second, errors.New("redis down")))
	require.NoError(t, repo.Record(ctx, first, errors.New("timeout")))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	byID := map[string]models.PendingDispatch{}
	for _, r := range rows {
		byID[r.EventID] = r
	}
	assert.Equal(t, 2, byID["P1"].Attempts)
	assert.Equal(t, "timeout", byID["P1"].LastError)
	assert.Equal(t, 1, byID["P2"].Attempts)
	assert.Equal(t, models.GineeTopicMasterProducts, byID["P2"].Topic)

	// the entry that was retried most recently comes last
	assert.Equal(t, "P2", rows[0].EventID)

	rows, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, repo.Remove(ctx, "P1"))
	require.NoError(t, repo.Remove(ctx, "missing"))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
