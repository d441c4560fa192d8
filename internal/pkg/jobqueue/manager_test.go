package jobqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
)

func resetManager(t *testing.T) {
	t.Helper()
	globalManager = nil
	managerOnce = sync.Once{}
	t.Cleanup(func() {
		globalManager = nil
		managerOnce = sync.Once{}
	})
}

func TestGetManager(t *testing.T) {
	resetManager(t)

	manager1 := GetManager()
	manager2 := GetManager()

	assert.NotNil(t, manager1)
	assert.Same(t, manager1, manager2, "GetManager should return the same instance")
	assert.Same(t, manager1.queue, manager1.GetQueue())
	assert.Equal(t, defaultStatsInterval, manager1.statsInterval)
	assert.False(t, manager1.IsRunning())
}

func TestGetManagerReadsWorkerCount(t *testing.T) {
	resetManager(t)
	env.Env = map[string]string{"JOBQUEUE_WORKERS": "2"}
	t.Cleanup(func() { env.Env = nil })

	assert.Equal(t, 2, GetManager().queue.workers)
}

func TestManager_StopWithoutStart(t *testing.T) {
	resetManager(t)

	manager := GetManager()
	manager.Stop()
	assert.False(t, manager.IsRunning())
}
