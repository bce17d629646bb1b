package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "docsearcher/internal/platform/log"
)

// UploadInput 一次上传请求的输入。
type UploadInput struct {
	Filename string
	Size     int64 // 字节数，<=0 表示未知（以落盘后大小为准）
	Reader   io.Reader
	OCR      bool
	Language string
}

// Ingestor 上传摄取管线：落盘 -> 可选 OCR -> 建索引 -> 注册。
// 摄取期间不持有 Store 锁；Store 只在成品文档入库时被触达。
type Ingestor struct {
	store *Store
	pdf   PDFEngine
	ocr   *Orchestrator
	cfg   *Config
	now   func() time.Time
}

// NewIngestor 创建摄取器。
func NewIngestor(store *Store, pdf PDFEngine, ocr *Orchestrator, cfg *Config) *Ingestor {
	return &Ingestor{store: store, pdf: pdf, ocr: ocr, cfg: cfg, now: time.Now}
}

// Ingest 处理一次上传。提取失败中止并清理落盘文件；OCR 失败只降级。
func (ing *Ingestor) Ingest(ctx context.Context, in UploadInput) (*Document, error) {
	if !strings.HasSuffix(strings.ToLower(in.Filename), ".pdf") {
		return nil, NewError(CodeInvalidUploadType, "file must be a PDF", nil)
	}
	limit := int64(ing.cfg.MaxUploadMB) << 20
	if in.Size > 0 && in.Size > limit {
		return nil, NewError(CodeUploadTooLarge,
			fmt.Sprintf("file too large (> %d MB)", ing.cfg.MaxUploadMB), nil)
	}

	docID := strings.ReplaceAll(uuid.NewString(), "-", "")
	origPath := filepath.Join(ing.uploadDir(), fmt.Sprintf("upload_%s.pdf", docID))
	written, err := ing.saveOriginal(origPath, in.Reader, limit)
	if err != nil {
		removeQuietly(origPath)
		return nil, err
	}
	applog.Info("[Ingest] Upload saved", "doc_id", docID, "filename", in.Filename, "bytes", written)

	activePath := origPath
	ocrPath := ""
	status := OCRStatus{}
	if in.OCR {
		outcome := ing.ocr.Run(ctx, origPath, docID, strings.TrimSpace(in.Language))
		activePath = outcome.ActivePath
		ocrPath = outcome.OCRPath
		status = outcome.Status
	}

	idx, err := BuildIndex(ing.pdf, activePath, ing.cfg.MaxPages)
	if err != nil {
		removeQuietly(origPath)
		removeQuietly(ocrPath)
		applog.Warn("[Ingest] Index build failed, upload aborted", "doc_id", docID, "error", err)
		return nil, err
	}

	now := ing.now()
	doc := &Document{
		ID:           docID,
		Filename:     in.Filename,
		Pages:        idx.Pages,
		UploadedAt:   now,
		LastAccess:   now,
		OriginalPath: origPath,
		OCRPath:      ocrPath,
		ActivePath:   activePath,
		OCR:          status,
		PageText:     idx.Text,
		PageWords:    idx.Words,
	}
	ing.store.Put(doc)
	applog.Info("[Ingest] Document registered", "doc_id", docID, "pages", doc.Pages,
		"ocr_performed", status.Performed, "ocr_failed", status.Failed)
	return doc, nil
}

// saveOriginal 将上传流写入 origPath，落盘超限同样拒绝。
func (ing *Ingestor) saveOriginal(path string, r io.Reader, limit int64) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, NewError(CodeExtractionFailed, "save upload", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		return written, NewError(CodeExtractionFailed, "save upload", err)
	}
	if written > limit {
		return written, NewError(CodeUploadTooLarge,
			fmt.Sprintf("file too large (> %d MB)", ing.cfg.MaxUploadMB), nil)
	}
	return written, nil
}

func (ing *Ingestor) uploadDir() string {
	if ing.cfg.UploadDir != "" {
		return ing.cfg.UploadDir
	}
	return os.TempDir()
}
