package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fileshare/config"
	"fileshare/handlers"
	"fileshare/store"
)

//go:embed public/*
var publicEmbed embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	st, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize metadata store", "error", err)
		os.Exit(1)
	}

	h, err := handlers.New(st, cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(handlers.RequestID(), handlers.RequestLogger(logger), handlers.Recovery(logger))

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API Routes
	api := r.Group("/api")
	{
		api.GET("/status", h.Status)
		api.GET("/files", h.ListFiles)
		api.POST("/upload", handlers.BodyLimit(cfg.MaxUploadSize), h.UploadFile)
		api.GET("/download/:id", h.DownloadFile)
		api.DELETE("/files/:id", h.DeleteFile)
		api.GET("/backup", h.CreateBackup)
		api.POST("/restore", h.RestoreBackup)
	}

	// Serve Embedded Landing Page
	fsys, err := fs.Sub(publicEmbed, "public")
	if err != nil {
		logger.Error("failed to load public assets", "error", err)
		os.Exit(1)
	}

	r.StaticFileFS("/style.css", "style.css", http.FS(fsys))
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(fsys, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to read index: "+err.Error())
			return
		}
		c.Header("Content-Type", "text/html")
		c.String(http.StatusOK, string(content))
	})

	logger.Info("server starting", "port", cfg.Port, "backend", cfg.StoreBackend, "dataDir", cfg.DataDir)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.StoreBackend == "sqlite" {
		return store.NewSQLiteStore(cfg.SQLitePath, logger)
	}
	return store.NewJSONStore(cfg.MetadataPath, logger)
}
