package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/upclick/backend/internal/api/handlers"
	"github.com/upclick/backend/internal/api/middleware"
	"github.com/upclick/backend/internal/clickup"
	"github.com/upclick/backend/internal/config"
	"github.com/upclick/backend/internal/repository"
	"github.com/upclick/backend/internal/service"
)

func main() {
	// LOAD ENV
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	// INIT DB
	repo, err := repository.NewPostgresRepo(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer repo.Close()

	// MIGRATIONS
	if err := repo.RunMigrations(context.Background()); err != nil {
		log.Fatal("migration error: ", err)
	}

	// ADMIN SEED
	hashed, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err := repo.UpsertAdmin(context.Background(), cfg.AdminUsername, string(hashed)); err != nil {
		log.Println("failed to seed admin: ", err)
	}

	// CLICKUP CLIENT + SERVICES
	click := clickup.NewClient(cfg.ClickUpToken, cfg.ClickUpWorkspaceID, cfg.ClickUpSpaceID)
	syncService := service.NewSyncService(repo, click, cfg.ClickUpSpaceID)
	reportService := service.NewReportService(repo)

	processor := service.NewWebhookProcessor(syncService, 64)
	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()
	processor.Start(processorCtx)
	defer processor.Stop()

	// HANDLERS
	authHandler := handlers.NewAuthHandler(repo, cfg.JWTSecret)
	taskHandler := handlers.NewTaskHandler(repo, syncService)
	developerHandler := handlers.NewDeveloperHandler(repo, syncService, reportService)
	webhookHandler := handlers.NewWebhookHandler(click, processor, cfg.WebhookURL)
	settingsHandler := handlers.NewSettingsHandler(repo)
	syncHandler := handlers.NewSyncHandler(repo)

	// ROUTER
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	api := r.Group("/api")

	// AUTH ROUTES
	api.POST("/auth/login", authHandler.Login)

	// TASK ROUTES
	tasks := api.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/stats/summary", taskHandler.GetStats)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.POST("/sync", middleware.Auth(cfg.JWTSecret), taskHandler.SyncTasks)
	}

	// DEVELOPER ROUTES
	developers := api.Group("/developers")
	{
		developers.GET("", developerHandler.ListDevelopers)
		developers.GET("/lowest-points", developerHandler.GetLowestPoints)
		developers.GET("/reports/weekly", developerHandler.GetWeeklyReport)
		developers.GET("/:id", developerHandler.GetDeveloper)
		developers.POST("/time-entry", developerHandler.AddTimeEntry)
	}

	// WEBHOOK ROUTES
	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/clickup", webhookHandler.Receive)
		webhooks.POST("/register", middleware.Auth(cfg.JWTSecret), webhookHandler.Register)
		webhooks.GET("", middleware.Auth(cfg.JWTSecret), webhookHandler.List)
		webhooks.DELETE("/:id", middleware.Auth(cfg.JWTSecret), webhookHandler.Delete)
	}

	// SETTINGS + SYNC HISTORY
	settings := api.Group("/settings", middleware.Auth(cfg.JWTSecret))
	{
		settings.GET("", settingsHandler.GetAll)
		settings.PUT("", settingsHandler.Update)
		settings.GET("/:key", settingsHandler.GetByKey)
		settings.DELETE("/:key", settingsHandler.Delete)
	}
	api.GET("/sync/history", syncHandler.GetHistory)

	// START SERVER
	log.Println("server running on port:", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server error: ", err)
	}
}
