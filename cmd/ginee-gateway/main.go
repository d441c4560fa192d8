package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/ginee-gateway/app/controllers"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/archive"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/cache"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/database"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/jobqueue"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/router"
)

func main() {
	app, service := NewApplication()

	manager := jobqueue.GetManager()
	manager.Start()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	interval := time.Duration(env.GetEnvInt("DISPATCH_RETRY_INTERVAL_SECONDS", 30)) * time.Second
	go service.RunRedispatcher(sweepCtx, interval)

	go func() {
		addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("[Server] Listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("[Server] Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("[Server] Shutdown: %v", err)
	}
	stopSweep()
	manager.Stop()
}

func NewApplication() (*fiber.App, *ginee.Service) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	repos := repository.GetGlobalRepositories()
	queue := jobqueue.GetManager().GetQueue()
	queue.SetEventRepository(repos.WebhookEvent)
	queue.SetConsumer(ginee.DefaultRegistry())
	setupArchive(queue)

	dispatcher := jobqueue.NewQueueDispatcher(queue)
	service := ginee.NewService(repos.WebhookEvent, dispatcher)
	service.SetReplayDispatcher(dispatcher.ForReplay())
	service.SetPendingStore(repos.PendingDispatch)
	controllers.InitializeControllers(service, nil)
	controllers.InitializeJobQueueController(queue)

	basePath := findBasePath()

	app := fiber.New(fiber.Config{
		AppName:   "ginee-gateway",
		BodyLimit: 4 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	openAPIFile := basePath + "public/docs/v1/openapi.yml"
	if _, err := os.Stat(openAPIFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: openAPIFile,
			Path:     "v1",
			Title:    "Ginee Gateway API",
		}))
	} else {
		log.Warnf("[Server] OpenAPI file not found at %s, docs disabled", openAPIFile)
	}

	// ROUTER
	router.InstallRouter(app)

	return app, service
}

func setupArchive(queue *jobqueue.Queue) {
	cfg, err := archive.LoadConfig()
	if err != nil {
		log.Errorf("[Archive] Invalid configuration, archiving disabled: %v", err)
		return
	}
	if !cfg.IsEnabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := archive.NewClient(ctx, cfg)
	if err != nil {
		log.Errorf("[Archive] Could not reach bucket %s, archiving disabled: %v", cfg.BucketName, err)
		return
	}
	queue.SetArchiver(client)
	log.Infof("[Archive] Archiving accepted payloads to s3://%s/%s", cfg.BucketName, cfg.Prefix)
}

func findBasePath() string {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/ginee-gateway to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); err == nil {
			return path
		}
	}
	return "./"
}
