package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsearcher/internal/domain/document"
	applog "docsearcher/internal/platform/log"
)

// ServerConfig 服务配置
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration // 大文件上传与 OCR 需要较长写超时
}

// DefaultServerConfig 默认配置
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 40 * time.Minute,
	}
}

// Server HTTP 服务器
type Server struct {
	config      *ServerConfig
	store       *document.Store
	ingestor    *document.Ingestor
	rasterizer  document.Rasterizer
	docCfg      *document.Config
	searchCache document.SearchCacheStore
	httpSrv     *http.Server
}

// NewServer 创建服务器
func NewServer(config *ServerConfig, store *document.Store, ingestor *document.Ingestor,
	rasterizer document.Rasterizer, docCfg *document.Config) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	return &Server{
		config:     config,
		store:      store,
		ingestor:   ingestor,
		rasterizer: rasterizer,
		docCfg:     docCfg,
	}
}

// SetSearchCache 设置检索缓存（可选，仅在 Redis 配置时启用）
func (s *Server) SetSearchCache(cache document.SearchCacheStore) {
	s.searchCache = cache
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	applog.Infof("🚀 DocSearcher API server starting on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Stop 优雅停机
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}

// Handler 返回 HTTP Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		// 读路径顺带触发过期清理（与原首页加载等价的钩子）。
		s.store.Sweep()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	docHandler := NewDocumentHandler(s.store, s.ingestor, s.rasterizer, s.docCfg, s.searchCache)
	docHandler.RegisterRoutes(r)
	return r
}

// corsMiddleware CORS 中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
