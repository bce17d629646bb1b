package document

import "time"

// Config 文档模块配置。
type Config struct {
	MaxPages      int           // 索引页数上限
	MaxUploadMB   int           // 上传大小上限（MB）
	UploadDir     string        // 上传与 OCR 产物目录（默认系统临时目录）
	Expiry        time.Duration // 文档闲置过期时间
	CleanInterval time.Duration // 过期清理最小间隔
	RenderZoom    float64       // 页面渲染缩放（1.0 = 72dpi，1.6 ≈ 115dpi）
	OCR           OCRConfig
}

// OCRConfig OCR 编排配置。
type OCRConfig struct {
	Language        string
	Deskew          bool
	Optimize        int
	SkipText        bool
	MaxPages        int
	Timeout         time.Duration
	RotatePages     bool
	RotateThreshold float64
	Debug           bool // 失败时附加引擎诊断输出
}

// DefaultConfig 默认配置。
func DefaultConfig() *Config {
	return &Config{
		MaxPages:      3000,
		MaxUploadMB:   800,
		Expiry:        time.Hour,
		CleanInterval: 10 * time.Minute,
		RenderZoom:    1.6,
		OCR: OCRConfig{
			Language:        "eng",
			Deskew:          true,
			Optimize:        3,
			SkipText:        true,
			MaxPages:        5000,
			Timeout:         30 * time.Minute,
			RotatePages:     true,
			RotateThreshold: 1.0,
		},
	}
}

// Options 构造传给外部 OCR 引擎的选项集。
func (c OCRConfig) Options(lang string) OCROptions {
	if lang == "" {
		lang = c.Language
	}
	return OCROptions{
		Language:        lang,
		Deskew:          c.Deskew,
		Optimize:        c.Optimize,
		SkipText:        c.SkipText,
		RotatePages:     c.RotatePages,
		RotateThreshold: c.RotateThreshold,
		Timeout:         c.Timeout,
	}
}
