package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/s0-shady/Task-Manager-django/internal/config"
	"github.com/s0-shady/Task-Manager-django/internal/filestore"
	"github.com/s0-shady/Task-Manager-django/internal/handlers"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/middleware"
	"github.com/s0-shady/Task-Manager-django/internal/repository"
	"github.com/s0-shady/Task-Manager-django/internal/repository/inmemory"
	"github.com/s0-shady/Task-Manager-django/internal/repository/postgres"
	"github.com/s0-shady/Task-Manager-django/internal/service"
	"github.com/s0-shady/Task-Manager-django/internal/worker"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	sweeper   *worker.OrphanSweeper
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	files, err := filestore.New(a.config.Files.Dir)
	if err != nil {
		return fmt.Errorf("инициализация файлового хранилища: %w", err)
	}

	var (
		taskRepo       repository.TaskRepository
		priorityRepo   repository.PriorityRepository
		attachmentRepo repository.AttachmentRepository
		handleLister   worker.HandleLister
		healthChecker  handlers.HealthChecker
	)

	switch a.config.Repository.Type {
	case "inmemory":
		storage := inmemory.NewStorage()
		taskRepo = inmemory.NewTaskRepo(storage)
		priorityRepo = inmemory.NewPriorityRepo(storage)
		attachments := inmemory.NewAttachmentRepo(storage, files)
		attachmentRepo = attachments
		handleLister = attachments
		logger.Info("App: Используется in-memory репозиторий")
	default:
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		if err := storage.Migrate(); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		taskRepo = postgres.NewTaskRepo(storage)
		priorityRepo = postgres.NewPriorityRepo(storage)
		attachments := postgres.NewAttachmentRepo(storage, files)
		attachmentRepo = attachments
		handleLister = attachments
		healthChecker = storage
	}

	taskService := service.NewTaskService(taskRepo, priorityRepo, attachmentRepo)
	priorityService := service.NewPriorityService(priorityRepo)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, files)

	taskHandler := handlers.NewTaskHandler(&taskService)
	priorityHandler := handlers.NewPriorityHandler(&priorityService)
	attachmentHandler := handlers.NewAttachmentHandler(&attachmentService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	a.router = buildRouter(&taskHandler, &priorityHandler, &attachmentHandler, &healthHandler)

	if a.config.Sweeper.Enabled {
		a.sweeper = worker.NewOrphanSweeper(handleLister, files, &a.config.Sweeper.Interval, nil)
	}

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func buildRouter(
	taskHandler *handlers.TaskHandler,
	priorityHandler *handlers.PriorityHandler,
	attachmentHandler *handlers.AttachmentHandler,
	healthHandler *handlers.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTaskList)  // GET /tasks
		r.Post("/", taskHandler.PostTask)    // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)     // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTask)      // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTask)   // DELETE /tasks/{id}

			r.Post("/complete", taskHandler.CompleteTask) // POST /tasks/{id}/complete
			r.Post("/restore", taskHandler.RestoreTask)   // POST /tasks/{id}/restore

			r.Get("/attachments", attachmentHandler.GetTaskAttachments) // GET /tasks/{id}/attachments
			r.Post("/attachments", attachmentHandler.PostAttachment)    // POST /tasks/{id}/attachments
		})
	})

	r.Route("/priorities", func(r chi.Router) {
		r.Get("/", priorityHandler.GetPriorities) // GET /priorities
		r.Post("/", priorityHandler.PostPriority) // POST /priorities

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", priorityHandler.UpdatePriority)    // PUT /priorities/{id}
			r.Delete("/", priorityHandler.DeletePriority) // DELETE /priorities/{id}
		})
	})

	r.Route("/attachments/{id}", func(r chi.Router) {
		r.Get("/file", attachmentHandler.GetAttachmentFile) // GET /attachments/{id}/file
		r.Delete("/", attachmentHandler.DeleteAttachment)   // DELETE /attachments/{id}
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/uncompleted", taskHandler.GetSortedUncompleted) // GET /api/tasks/uncompleted
		r.Get("/completed", taskHandler.GetSortedCompleted)     // GET /api/tasks/completed
	})

	r.Get("/health", healthHandler.HealthCheck)

	return r
}

func (a *App) Run(ctx context.Context) error {
	if a.sweeper != nil {
		go a.sweeper.Start(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.server.Shutdown(shutdownCtx)
	}()

	logger.Info("App: Сервер запущен")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("работа сервера: %w", err)
	}

	return nil
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
