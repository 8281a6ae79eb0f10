package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/config"
	"github.com/trackboard/backend/internal/handler"
	"github.com/trackboard/backend/internal/router"
	"github.com/trackboard/backend/internal/service"
	"github.com/trackboard/backend/internal/store"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log.Level)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer store.Close(db)

	if err := store.Migrate(db); err != nil {
		slog.Error("migrate store", "error", err)
		os.Exit(1)
	}

	// Services
	projectService := service.NewProjectService(db)
	reqService := service.NewRequirementService(db)
	defectService := service.NewDefectService(db)
	importService := service.NewImportService(db)
	noteService := service.NewNoteService(db)
	retroService := service.NewRetrospectiveService(db)
	releaseService := service.NewReleaseService(db)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	router.Setup(r, router.Deps{
		HealthHandler:      handler.NewHealthHandler(db),
		ProjectHandler:     handler.NewProjectHandler(projectService),
		RequirementHandler: handler.NewRequirementHandler(reqService),
		DefectHandler:      handler.NewDefectHandler(defectService),
		ImportHandler:      handler.NewImportHandler(importService),
		NoteHandler:        handler.NewNoteHandler(noteService),
		RetroHandler:       handler.NewRetrospectiveHandler(retroService),
		ReleaseHandler:     handler.NewReleaseHandler(releaseService),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "database", cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server run", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
