package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App is the assembled server: the router plus the background services
// it depends on.
type App struct {
	Router *gin.Engine

	db          *database.Database
	audit       *audit.Service
	taskClient  *tasks.Client
	taskCancel  context.CancelFunc
	scheduler   *scheduler.AuditCleanupScheduler
	rateLimiter *http_controllers.RateLimiter
}

// NewApp opens the database and wires services, background workers and
// the HTTP router. Background workers are started immediately.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := database.Open(cfg.Database.Path, database.Options{
		LogLevel: database.ParseLogLevel(cfg.Database.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{db: db}

	app.audit = audit.NewService(auditRepo.NewRepository(db.DB))
	bookService := services.NewBookService(books.NewRepository(db.DB), app.audit)

	routerCfg := http_controllers.RouterConfig{
		Books:              bookService,
		Audit:              app.audit,
		Database:           db,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		UIEnabled:          cfg.UI.Enabled,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Version:            version,
	}

	// Initialize task queue if enabled
	if cfg.Tasks.Enabled {
		taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.taskClient = taskClient

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(app.audit))

		var taskCtx context.Context
		taskCtx, app.taskCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		app.scheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := app.scheduler.Start(taskCtx); err != nil {
			log.Printf("WARNING: audit cleanup will not be scheduled: %v", err)
			app.scheduler = nil
		}

		routerCfg.Tasks = taskClient
	} else {
		log.Printf("Task queue disabled, audit events will not be cleaned up")
	}

	if cfg.RateLimit.RPS > 0 {
		app.rateLimiter = http_controllers.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		routerCfg.RateLimiter = app.rateLimiter
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

// Shutdown stops background work and closes the databases.
func (a *App) Shutdown(ctx context.Context) {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.taskClient != nil {
		a.taskClient.Stop(ctx)
		a.taskCancel()
		if err := a.taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}

	a.audit.Flush()

	if err := a.db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := cfg.ShutdownTimeout()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is syscall.SIGINT, SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before tearing down what handlers use
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("%v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}
