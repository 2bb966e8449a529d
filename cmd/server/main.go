package main

import (
	"log"
	"time"

	"site_tools_go/config"
	"site_tools_go/db"
	"site_tools_go/handlers"
	"site_tools_go/middleware"
	"site_tools_go/models"
	"site_tools_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.MigrateAll(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Owner kinds the site log can resolve back to records
	services.RegisterObjectLoader("user", func(gormDB *gorm.DB, id string) (interface{}, error) {
		var user models.User
		if err := gormDB.First(&user, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &user, nil
	})
	services.RegisterObjectLoader("contact_message", func(gormDB *gorm.DB, id string) (interface{}, error) {
		var message models.ContactMessage
		if err := gormDB.First(&message, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &message, nil
	})
	services.RegisterObjectLoader("legal_document", func(gormDB *gorm.DB, id string) (interface{}, error) {
		var document models.LegalDocument
		if err := gormDB.First(&document, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &document, nil
	})

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Request pipeline: resolve site and user first, then apply URL policy,
	// maintenance mode and the legal acceptance gate
	e.Use(middleware.CurrentSite())
	e.Use(middleware.LoadUser())
	e.Use(middleware.SecureURL(cfg))
	e.Use(middleware.CaseInsensitiveURL(cfg))
	e.Use(middleware.Maintenance(cfg))
	e.Use(middleware.LegalAcceptance(db.DB, cfg))

	// Static files
	e.Static("/static", "static")

	// Public routes
	e.GET("/health", handlers.HealthHandler)
	e.GET("/robots.txt", handlers.RobotsHandler)
	e.POST("/login", handlers.LoginPostHandler)
	e.POST("/logout", handlers.LogoutHandler)
	e.POST("/contact", handlers.ContactPostHandler)
	e.GET("/pages/:slug", handlers.RenderDBTemplateHandler)

	// Legal document routes
	e.GET("/legal/:docid/", handlers.GetLegalDocumentHandler)
	e.GET("/legal/:docid/:version/", handlers.GetLegalDocumentHandler)

	// Acceptance flow (authentication required)
	accept := e.Group("/legal/accept")
	accept.Use(middleware.RequireAuth())
	{
		accept.GET("/:docid/", handlers.GetAcceptanceStatusHandler)
		accept.GET("/:docid/:version/", handlers.GetAcceptanceStatusHandler)
		accept.POST("/:docid/", handlers.AcceptLegalDocumentHandler)
		accept.POST("/:docid/:version/", handlers.AcceptLegalDocumentHandler)
	}

	// Administrative routes (staff only)
	admin := e.Group("/api/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/legal-documents", handlers.ListLegalDocumentsHandler)
		admin.POST("/legal-documents", handlers.CreateLegalDocumentHandler)
		admin.PUT("/legal-documents/:id", handlers.UpdateLegalDocumentHandler)
		admin.GET("/legal-documents/:id/versions", handlers.ListLegalVersionsHandler)
		admin.POST("/legal-documents/:id/versions", handlers.CreateLegalVersionHandler)
		admin.GET("/legal-versions/:versionId/acceptances", handlers.ListAcceptancesHandler)
		admin.POST("/legal-versions/:versionId/acceptances", handlers.CreateAcceptanceHandler)
		admin.DELETE("/acceptances/:id", handlers.DeleteAcceptanceHandler)

		// Site log browsing is read-only: no create or update routes
		admin.GET("/site-logs", handlers.ListSiteLogsHandler)
		admin.GET("/site-logs/export", handlers.ExportSiteLogsHandler)

		admin.GET("/sites", handlers.ListSitesHandler)
		admin.POST("/sites", handlers.CreateSiteHandler)
		admin.PUT("/sites/:id", handlers.UpdateSiteHandler)
		admin.GET("/sites/:id/vars", handlers.GetSiteVarsHandler)
		admin.POST("/sites/:id/vars", handlers.SetSiteVarHandler)
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
