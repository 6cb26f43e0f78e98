package main

import (
	"fmt"
	"log"

	"spherify/config"
	"spherify/database"
	"spherify/handlers"
	"spherify/middleware"
	"spherify/models"
	"spherify/repositories"
	"spherify/services"
	"spherify/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting spherify storage service")

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.Entity{},
		&models.HistoryEntry{},
		&models.TeamStorageConfig{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	remote, err := storage.NewMinioStorage(&cfg.Remote)
	if err != nil {
		log.Fatalf("init remote storage failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer, remote)
	handlers.SetServices(serviceContainer)

	serviceContainer.Cleanup.Start()
	log.Println("maintenance workers started")

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.Health)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/files", handlers.ListEntities)
		protected.POST("/files/upload", handlers.UploadFiles)
		protected.GET("/files/link", handlers.GetPublicLink)
		protected.PUT("/files/:id/content", handlers.UpdateFileContent)

		protected.POST("/folders", handlers.CreateFolder)
		protected.GET("/folders/size", handlers.GetFolderSize)

		protected.PUT("/entities/:id/rename", handlers.RenameEntity)
		protected.PUT("/entities/:id/move", handlers.MoveEntity)
		protected.DELETE("/entities/:id", handlers.SoftDeleteEntity)
		protected.POST("/entities/:id/restore", handlers.RestoreEntity)
		protected.DELETE("/entities/:id/purge", handlers.PurgeEntity)
		protected.GET("/entities/:id/history", handlers.GetEntityHistory)

		protected.GET("/trash", handlers.ListTrash)
		protected.GET("/quota", handlers.GetQuota)
	}
}
