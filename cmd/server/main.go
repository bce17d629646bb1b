package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"docsearcher/internal/adapter/engine/localpdf"
	"docsearcher/internal/adapter/engine/ocrmypdf"
	"docsearcher/internal/adapter/engine/poppler"
	"docsearcher/internal/api"
	redisdb "docsearcher/internal/db/redis"
	"docsearcher/internal/domain/document"
	"docsearcher/internal/platform/config"
	applog "docsearcher/internal/platform/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config load failed: %v\n", err)
		os.Exit(1)
	}

	applog.Init(applog.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	docCfg := cfg.DocumentModule()

	pdfEngine := localpdf.New()
	rasterizer := poppler.New(cfg.Raster.Binary)
	ocrEngine := ocrmypdf.New(cfg.OCR.Binary)

	store := document.NewStore(document.StoreConfig{
		Expiry:        docCfg.Expiry,
		CleanInterval: docCfg.CleanInterval,
	})
	orchestrator := document.NewOrchestrator(ocrEngine, pdfEngine, docCfg.OCR, docCfg.UploadDir)
	ingestor := document.NewIngestor(store, pdfEngine, orchestrator, docCfg)

	applog.Info("✅ Document engine initialized",
		"max_pages", docCfg.MaxPages,
		"max_upload_mb", docCfg.MaxUploadMB,
		"expiry", docCfg.Expiry,
		"render_zoom", docCfg.RenderZoom,
		"ocr_max_pages", docCfg.OCR.MaxPages,
		"ocr_timeout", docCfg.OCR.Timeout,
	)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	serverConfig.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	serverConfig.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	server := api.NewServer(serverConfig, store, ingestor, rasterizer, docCfg)

	if cfg.Redis.URL != "" && cfg.Cache.TTLSeconds > 0 {
		if opt, err := goredis.ParseURL(cfg.Redis.URL); err == nil {
			cacheRedis := goredis.NewClient(opt)
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := cacheRedis.Ping(pingCtx).Err()
			pingCancel()
			if pingErr != nil {
				applog.Warnf("⚠️  Redis ping failed, search cache disabled: %v", pingErr)
			} else {
				server.SetSearchCache(redisdb.NewSearchCache(cacheRedis, cfg.Cache.TTLSeconds))
				applog.Infof("✅ Search cache initialized (TTL: %ds)", cfg.Cache.TTLSeconds)
			}
		} else {
			applog.Warnf("⚠️  Redis URL invalid, search cache disabled: %v", err)
		}
	} else {
		applog.Info("ℹ️  No REDIS_URL set, search cache disabled")
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		applog.Info("🔄 Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			applog.Errorf("❌ Server shutdown error: %v", err)
		}
	}()

	if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
		applog.Fatalf("❌ Server error: %v", err)
	}

	applog.Info("👋 Server stopped")
}
