package http

import (
	"log"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	health := NewHealthController(cfg.Database, cfg.Version)

	// Health endpoints stay outside the rate limit.
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware())
	}

	// Books API endpoints
	booksController := NewBooksController(cfg.Books)
	api.POST("/books", booksController.CreateBook)
	api.GET("/books", booksController.ListBooks)
	api.GET("/books/stats", booksController.GetBookStats)
	api.GET("/books/:id", booksController.GetBook)
	api.PUT("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)

	// Audit endpoints
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/audit/:id", auditController.GetAuditEvent)
	}

	// Task queue endpoints
	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	// UI routes
	if cfg.UIEnabled {
		tmpl, err := loadTemplates()
		if err != nil {
			log.Printf("Browser client disabled, failed to load templates: %v", err)
		} else {
			router.SetHTMLTemplate(tmpl)
			uiController := NewUIController(cfg.Books, cfg.Version)
			router.GET("/", uiController.BooksPage)
		}
	}

	return router
}
