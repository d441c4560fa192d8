package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/jobqueue"
)

// JobQueueInspector is the read side of the downstream job queue
type JobQueueInspector interface {
	GetJob(ctx context.Context, jobID string) (*jobqueue.Job, error)
	GetJobStats(ctx context.Context) (map[jobqueue.JobStatus]int64, error)
	GetQueueSize(ctx context.Context) (int64, error)
	GetProcessingSize(ctx context.Context) (int64, error)
}

// JobQueueController reports on the hand-off queue
type JobQueueController struct {
	queue JobQueueInspector
}

func NewJobQueueController(queue JobQueueInspector) *JobQueueController {
	return &JobQueueController{queue: queue}
}

// HandleStats handles GET /api/v1/jobs/stats
func (jc *JobQueueController) HandleStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	pending, err := jc.queue.GetQueueSize(ctx)
	if err != nil {
		return jc.queueError(c, err)
	}
	processing, err := jc.queue.GetProcessingSize(ctx)
	if err != nil {
		return jc.queueError(c, err)
	}
	stats, err := jc.queue.GetJobStats(ctx)
	if err != nil {
		return jc.queueError(c, err)
	}

	return c.JSON(fiber.Map{
		"pending":    pending,
		"processing": processing,
		"stats":      stats,
	})
}

// HandleShow handles GET /api/v1/jobs/:id
func (jc *JobQueueController) HandleShow(c *fiber.Ctx) error {
	jobID := strings.TrimSpace(c.Params("id"))
	job, err := jc.queue.GetJob(c.UserContext(), jobID)
	if errors.Is(err, redis.Nil) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Job not found"})
	}
	if err != nil {
		return jc.queueError(c, err)
	}
	return c.JSON(job)
}

func (jc *JobQueueController) queueError(c *fiber.Ctx, err error) error {
	log.Errorf("[JobQueue] Queue inspection failed: %v", err)
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "queue_unavailable"})
}
