package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"docsearcher/internal/domain/document"
)

// AppConfig 全局配置。启动时统一加载，再按模块提取使用。
type AppConfig struct {
	LogLevel  string         `json:"log_level"`
	LogFormat string         `json:"log_format"`
	Server    ServerConfig   `json:"server"`
	Document  DocumentConfig `json:"document"`
	OCR       OCRConfig      `json:"ocr"`
	Raster    RasterConfig   `json:"raster"`
	Redis     RedisConfig    `json:"redis"`
	Cache     CacheConfig    `json:"cache"`
}

type ServerConfig struct {
	Host                string `json:"host"`
	Port                int    `json:"port"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

type DocumentConfig struct {
	MaxPages             int     `json:"max_pages"`
	MaxUploadMB          int     `json:"max_upload_mb"`
	UploadDir            string  `json:"upload_dir"`
	ExpirySeconds        int     `json:"expiry_seconds"`
	CleanIntervalSeconds int     `json:"clean_interval_seconds"`
	RenderZoom           float64 `json:"render_zoom"`
}

type OCRConfig struct {
	Binary          string  `json:"binary"`
	Language        string  `json:"language"`
	Deskew          bool    `json:"deskew"`
	Optimize        int     `json:"optimize"`
	SkipText        bool    `json:"skip_text"`
	MaxPages        int     `json:"max_pages"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	RotatePages     bool    `json:"rotate_pages"`
	RotateThreshold float64 `json:"rotate_threshold"`
	Debug           bool    `json:"debug"`
}

type RasterConfig struct {
	Binary string `json:"binary"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"` // 0=禁用检索缓存
}

// Default 返回默认配置。数值沿用线上运行多年的取值：
// 渲染缩放 1.6（≈115dpi）、闲置 1 小时过期、10 分钟清理间隔。
func Default() *AppConfig {
	return &AppConfig{
		LogLevel:  "info",
		LogFormat: "text",
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8080,
			ReadTimeoutSeconds:  600,
			WriteTimeoutSeconds: 2400,
		},
		Document: DocumentConfig{
			MaxPages:             3000,
			MaxUploadMB:          800,
			ExpirySeconds:        3600,
			CleanIntervalSeconds: 600,
			RenderZoom:           1.6,
		},
		OCR: OCRConfig{
			Language:        "eng",
			Deskew:          true,
			Optimize:        3,
			SkipText:        true,
			MaxPages:        5000,
			TimeoutSeconds:  1800,
			RotatePages:     true,
			RotateThreshold: 1.0,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
	}
}

// Load 加载全局配置：默认值 -> 配置文件 -> 环境变量。
// 配置文件路径通过 APP_CONFIG_FILE 指定（JSON）。
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		// .env 非必需，忽略错误
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read APP_CONFIG_FILE %q failed: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse APP_CONFIG_FILE %q failed: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	applyString("LOG_LEVEL", &c.LogLevel)
	applyString("LOG_FORMAT", &c.LogFormat)

	applyString("HOST", &c.Server.Host)
	applyInt("PORT", &c.Server.Port)
	applyInt("SERVER_READ_TIMEOUT", &c.Server.ReadTimeoutSeconds)
	applyInt("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeoutSeconds)

	applyInt("DOC_MAX_PAGES", &c.Document.MaxPages)
	applyInt("DOC_MAX_UPLOAD_MB", &c.Document.MaxUploadMB)
	applyString("DOC_UPLOAD_DIR", &c.Document.UploadDir)
	applyInt("DOC_EXPIRY_SECONDS", &c.Document.ExpirySeconds)
	applyInt("DOC_CLEAN_INTERVAL", &c.Document.CleanIntervalSeconds)
	applyFloat64("RENDER_ZOOM", &c.Document.RenderZoom)

	applyString("OCRMYPDF_BIN", &c.OCR.Binary)
	applyString("OCR_LANGUAGE", &c.OCR.Language)
	applyBool("OCR_DESKEW", &c.OCR.Deskew)
	applyInt("OCR_OPTIMIZE", &c.OCR.Optimize)
	applyBool("OCR_SKIP_TEXT", &c.OCR.SkipText)
	applyInt("OCR_MAX_PAGES", &c.OCR.MaxPages)
	applyInt("OCR_TIMEOUT", &c.OCR.TimeoutSeconds)
	applyBool("OCR_ROTATE_PAGES", &c.OCR.RotatePages)
	applyFloat64("OCR_ROTATE_THRESHOLD", &c.OCR.RotateThreshold)
	applyBool("OCR_DEBUG", &c.OCR.Debug)

	applyString("PDFTOPPM_BIN", &c.Raster.Binary)

	applyString("REDIS_URL", &c.Redis.URL)
	applyInt("SEARCH_CACHE_TTL", &c.Cache.TTLSeconds)
}

func (c *AppConfig) validate() error {
	if c.Document.MaxPages <= 0 {
		return fmt.Errorf("DOC_MAX_PAGES must be positive")
	}
	if c.Document.MaxUploadMB <= 0 {
		return fmt.Errorf("DOC_MAX_UPLOAD_MB must be positive")
	}
	if c.Document.RenderZoom <= 0 {
		return fmt.Errorf("RENDER_ZOOM must be positive")
	}
	return nil
}

// DocumentModule 提取文档模块配置。
func (c *AppConfig) DocumentModule() *document.Config {
	return &document.Config{
		MaxPages:      c.Document.MaxPages,
		MaxUploadMB:   c.Document.MaxUploadMB,
		UploadDir:     c.Document.UploadDir,
		Expiry:        time.Duration(c.Document.ExpirySeconds) * time.Second,
		CleanInterval: time.Duration(c.Document.CleanIntervalSeconds) * time.Second,
		RenderZoom:    c.Document.RenderZoom,
		OCR: document.OCRConfig{
			Language:        c.OCR.Language,
			Deskew:          c.OCR.Deskew,
			Optimize:        c.OCR.Optimize,
			SkipText:        c.OCR.SkipText,
			MaxPages:        c.OCR.MaxPages,
			Timeout:         time.Duration(c.OCR.TimeoutSeconds) * time.Second,
			RotatePages:     c.OCR.RotatePages,
			RotateThreshold: c.OCR.RotateThreshold,
			Debug:           c.OCR.Debug,
		},
	}
}

func applyString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func applyFloat64(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*target = n
		}
	}
}

func applyBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
