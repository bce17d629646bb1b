package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Document.MaxPages != 3000 {
		t.Errorf("max pages = %d, want 3000", cfg.Document.MaxPages)
	}
	if cfg.Document.MaxUploadMB != 800 {
		t.Errorf("max upload = %d, want 800", cfg.Document.MaxUploadMB)
	}
	if cfg.Document.RenderZoom != 1.6 {
		t.Errorf("render zoom = %g, want 1.6", cfg.Document.RenderZoom)
	}
	if cfg.OCR.MaxPages != 5000 || cfg.OCR.TimeoutSeconds != 1800 {
		t.Errorf("ocr limits = %d pages / %ds", cfg.OCR.MaxPages, cfg.OCR.TimeoutSeconds)
	}
	if !cfg.OCR.Deskew || !cfg.OCR.SkipText || !cfg.OCR.RotatePages {
		t.Error("ocr cleanup options should default on")
	}
	if cfg.OCR.RotateThreshold != 1.0 {
		t.Errorf("rotate threshold = %g, want 1.0", cfg.OCR.RotateThreshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DOC_MAX_PAGES", "100")
	t.Setenv("DOC_UPLOAD_DIR", "/data/uploads")
	t.Setenv("RENDER_ZOOM", "2.0")
	t.Setenv("OCR_DESKEW", "false")
	t.Setenv("OCR_LANGUAGE", "deu")
	t.Setenv("SEARCH_CACHE_TTL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Document.MaxPages != 100 {
		t.Errorf("max pages = %d", cfg.Document.MaxPages)
	}
	if cfg.Document.UploadDir != "/data/uploads" {
		t.Errorf("upload dir = %q", cfg.Document.UploadDir)
	}
	if cfg.Document.RenderZoom != 2.0 {
		t.Errorf("render zoom = %g", cfg.Document.RenderZoom)
	}
	if cfg.OCR.Deskew {
		t.Error("deskew should be off")
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("language = %q", cfg.OCR.Language)
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("cache ttl = %d", cfg.Cache.TTLSeconds)
	}
}

// TestLoadConfigFile 配置文件覆盖默认值，环境变量再覆盖文件。
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	data := []byte(`{"log_level":"debug","document":{"max_pages":42,"max_upload_mb":10,"render_zoom":1.0},"redis":{"url":"redis://localhost:6379/0"}}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("DOC_MAX_PAGES", "77")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.Document.MaxPages != 77 {
		t.Errorf("env should win over file: max pages = %d", cfg.Document.MaxPages)
	}
	if cfg.Document.MaxUploadMB != 10 {
		t.Errorf("max upload = %d, want file value 10", cfg.Document.MaxUploadMB)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("redis url = %q", cfg.Redis.URL)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.json"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DOC_MAX_PAGES", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero page limit")
	}
}

func TestDocumentModule(t *testing.T) {
	cfg := Default()
	cfg.Document.ExpirySeconds = 120
	cfg.Document.CleanIntervalSeconds = 30
	cfg.OCR.TimeoutSeconds = 5

	mod := cfg.DocumentModule()
	if mod.Expiry != 2*time.Minute {
		t.Errorf("expiry = %v", mod.Expiry)
	}
	if mod.CleanInterval != 30*time.Second {
		t.Errorf("clean interval = %v", mod.CleanInterval)
	}
	if mod.OCR.Timeout != 5*time.Second {
		t.Errorf("ocr timeout = %v", mod.OCR.Timeout)
	}
	if mod.MaxPages != cfg.Document.MaxPages || mod.OCR.MaxPages != cfg.OCR.MaxPages {
		t.Error("page limits not carried over")
	}
}
