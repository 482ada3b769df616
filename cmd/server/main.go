package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogpu/gg"

	"github.com/youruser/cardsheet/internal/api"
	"github.com/youruser/cardsheet/internal/cards"
	"github.com/youruser/cardsheet/internal/config"
	"github.com/youruser/cardsheet/internal/export"
	imagepkg "github.com/youruser/cardsheet/internal/image"
	"github.com/youruser/cardsheet/internal/render"
	"github.com/youruser/cardsheet/internal/settings"
	"github.com/youruser/cardsheet/internal/util"
)

func main() {
	if _, err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))

	if err := util.EnsureDir(cfg.ContentDir); err != nil {
		logger.Error("content dir", "error", err)
		os.Exit(1)
	}
	root := os.DirFS(cfg.ContentDir)

	// Best-effort: the server still renders local cards without a feed.
	content, err := cards.LoadContent(root)
	if err != nil {
		logger.Warn("failed to load content", "dir", cfg.ContentDir, "error", err)
	}
	repo := cards.NewRepository(content)

	profile := settings.Default()
	if cfg.SettingsProfile != "" {
		if profile, err = settings.LoadFile(cfg.SettingsProfile); err != nil {
			logger.Error("failed to load settings profile", "error", err)
			os.Exit(1)
		}
	}

	fetcher := imagepkg.NewFetcher(imagepkg.FetcherOptions{
		BaseURL:     cfg.ContentBaseURL,
		Root:        root,
		Timeout:     cfg.FetchTimeout,
		RemoteHosts: cfg.RemoteImageHosts,
		Logger:      logger,
	})
	composer := imagepkg.NewComposer(fetcher, imagepkg.Options{
		Scale:  cfg.ExportScale,
		Label:  cfg.PageLabel,
		Logger: logger,
	})
	pdf := export.NewPDF(export.PDFOptions{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.PDFTimeout,
		Logger:     logger,
	})
	if !pdf.Available() {
		logger.Warn("no Chrome found, PDF export disabled")
	}

	srv := api.NewServer(api.Deps{
		Repo:     repo,
		Settings: profile,
		Render:   render.Options{BaseURL: cfg.ContentBaseURL},
		Raster:   composer,
		PDF:      pdf,
		Workers:  cfg.RenderWorkers,
		Logger:   logger,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.Logging(logger))
	if strings.HasPrefix(cfg.ContentBaseURL, "/") {
		r.Static(strings.TrimSuffix(cfg.ContentBaseURL, "/"), cfg.ContentDir)
	}
	srv.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "cards", len(content.Cards))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
