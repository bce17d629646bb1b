package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"docsearcher/internal/domain/document"
	applog "docsearcher/internal/platform/log"
)

// DocumentHandler 文档生命周期 API：上传、元数据、检索、页面与图像。
type DocumentHandler struct {
	store       *document.Store
	ingestor    *document.Ingestor
	rasterizer  document.Rasterizer
	cfg         *document.Config
	searchCache document.SearchCacheStore
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(store *document.Store, ingestor *document.Ingestor,
	rasterizer document.Rasterizer, cfg *document.Config, searchCache document.SearchCacheStore) *DocumentHandler {
	return &DocumentHandler{
		store:       store,
		ingestor:    ingestor,
		rasterizer:  rasterizer,
		cfg:         cfg,
		searchCache: searchCache,
	}
}

// RegisterRoutes 注册文档路由
func (h *DocumentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Route("/doc/{docID}", func(r chi.Router) {
			r.Get("/meta", h.Meta)
			r.Get("/download/ocr", h.DownloadOCR)
			r.Post("/search", h.Search)
			r.Get("/page/{pageNum}", h.Page)
			r.Get("/page/{pageNum}/image", h.PageImage)
		})
	})
}

// maxMultipartOverhead 为 multipart 边界与 ocr/lang 等表单字段预留的
// 请求体空间。文件本身的大小校验在摄取器里。
const maxMultipartOverhead = 1 << 20

type uploadResponse struct {
	DocID           string   `json:"doc_id"`
	Filename        string   `json:"filename"`
	Pages           int      `json:"pages"`
	OCRPerformed    bool     `json:"ocr_performed"`
	OCRFailed       bool     `json:"ocr_failed"`
	OCRMessage      string   `json:"ocr_message,omitempty"`
	OCRTimeSeconds  *float64 `json:"ocr_time_seconds"`
	UsedOCRPDF      bool     `json:"used_ocr_pdf"`
	RotatePages     bool     `json:"rotate_pages"`
	RotateThreshold *float64 `json:"rotate_threshold"`
}

// Upload 接收 multipart 上传（字段：pdf、ocr、lang）。
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	h.store.Sweep()

	limitBytes := int64(h.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limitBytes+maxMultipartOverhead)

	file, header, err := r.FormFile("pdf")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDomainError(w,
				document.NewError(document.CodeUploadTooLarge,
					fmt.Sprintf("file too large (max %d MB)", h.cfg.MaxUploadMB), err),
				fmt.Sprintf("file too large (max %d MB)", h.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	doOCR := strings.EqualFold(r.FormValue("ocr"), "true")
	lang := strings.TrimSpace(r.FormValue("lang"))

	doc, err := h.ingestor.Ingest(r.Context(), document.UploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
		OCR:      doOCR,
		Language: lang,
	})
	if err != nil {
		applog.Error("[API] Upload failed", "filename", header.Filename, "error", err)
		writeDomainError(w, err, fmt.Sprintf("failed to process PDF: %v", err))
		return
	}

	resp := uploadResponse{
		DocID:          doc.ID,
		Filename:       doc.Filename,
		Pages:          doc.Pages,
		OCRPerformed:   doc.OCR.Performed,
		OCRFailed:      doc.OCR.Failed,
		OCRMessage:     doc.OCR.Message,
		OCRTimeSeconds: ocrSeconds(doc.OCR),
		UsedOCRPDF:     doc.ActivePath != doc.OriginalPath,
	}
	if doOCR {
		resp.RotatePages = h.cfg.OCR.RotatePages
		threshold := h.cfg.OCR.RotateThreshold
		resp.RotateThreshold = &threshold
	}
	writeJSON(w, http.StatusOK, resp)
}

type metaResponse struct {
	DocID          string   `json:"doc_id"`
	Filename       string   `json:"filename"`
	Pages          int      `json:"pages"`
	OCRPerformed   bool     `json:"ocr_performed"`
	OCRFailed      bool     `json:"ocr_failed"`
	OCRMessage     string   `json:"ocr_message,omitempty"`
	OCRTimeSeconds *float64 `json:"ocr_time_seconds"`
	DownloadOCRURL string   `json:"download_ocr_url,omitempty"`
}

// Meta 文档元数据
func (h *DocumentHandler) Meta(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDomainError(w, err, "not found")
		return
	}

	resp := metaResponse{
		DocID:          doc.ID,
		Filename:       doc.Filename,
		Pages:          doc.Pages,
		OCRPerformed:   doc.OCR.Performed,
		OCRFailed:      doc.OCR.Failed,
		OCRMessage:     doc.OCR.Message,
		OCRTimeSeconds: ocrSeconds(doc.OCR),
	}
	if doc.HasOCRPDF() {
		resp.DownloadOCRURL = fmt.Sprintf("/api/doc/%s/download/ocr", doc.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadOCR 下载 OCR 派生 PDF
func (h *DocumentHandler) DownloadOCR(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDomainError(w, err, "not found")
		return
	}
	if !doc.HasOCRPDF() {
		writeError(w, http.StatusNotFound, "no OCR PDF available")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_ocr.pdf"`, doc.ID))
	http.ServeFile(w, r, doc.OCRPath)
}

type searchRequest struct {
	Words string `json:"words"`
}

type searchResponse struct {
	Words   []string             `json:"words"`
	Results []document.PageMatch `json:"results"`
}

// Search 在文档索引中检索词表
func (h *DocumentHandler) Search(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDomainError(w, err, "not found")
		return
	}

	// 解不开的请求体按空查询处理，下面统一走空词表分支。
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Words = ""
	}

	words := document.NormalizeQuery(req.Words)
	if len(words) == 0 {
		// 空查询视为未检索，而非错误。
		writeJSON(w, http.StatusOK, searchResponse{Words: []string{}, Results: []document.PageMatch{}})
		return
	}

	if h.searchCache != nil {
		if cached, ok := h.searchCache.Get(r.Context(), doc.ID, words); ok {
			writeJSON(w, http.StatusOK, searchResponse{Words: words, Results: cached})
			return
		}
	}

	results := document.FindPages(doc, words)
	if results == nil {
		results = []document.PageMatch{}
	}
	if h.searchCache != nil {
		h.searchCache.Set(r.Context(), doc.ID, words, results)
	}
	writeJSON(w, http.StatusOK, searchResponse{Words: words, Results: results})
}

type pageResponse struct {
	Page     int                 `json:"page"`
	Tokens   []document.PageWord `json:"tokens"`
	Text     string              `json:"text"`
	ImageURL string              `json:"image_url"`
}

// Page 单页文本与词元
func (h *DocumentHandler) Page(w http.ResponseWriter, r *http.Request) {
	doc, page, ok := h.docAndPage(w, r)
	if !ok {
		return
	}

	tokens := doc.Tokens(page)
	if tokens == nil {
		tokens = []document.PageWord{}
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Page:     page,
		Tokens:   tokens,
		Text:     doc.Text(page),
		ImageURL: fmt.Sprintf("/api/doc/%s/page/%d/image", doc.ID, page),
	})
}

// PageImage 单页渲染图（PNG）
func (h *DocumentHandler) PageImage(w http.ResponseWriter, r *http.Request) {
	doc, page, ok := h.docAndPage(w, r)
	if !ok {
		return
	}

	data, err := doc.PageImage(r.Context(), h.rasterizer, h.cfg.RenderZoom, page)
	if err != nil {
		applog.Error("[API] Page render failed", "doc_id", doc.ID, "page", page, "error", err)
		writeDomainError(w, err, fmt.Sprintf("failed to render page: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="%s_page_%d.png"`, doc.ID, page))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// docAndPage 解析 docID 与页号，越界页号直接写出 InvalidPage。
func (h *DocumentHandler) docAndPage(w http.ResponseWriter, r *http.Request) (*document.Document, int, bool) {
	doc, err := h.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		writeDomainError(w, err, "not found")
		return nil, 0, false
	}
	page, err := strconv.Atoi(chi.URLParam(r, "pageNum"))
	if err != nil || page < 1 || page > doc.Pages {
		writeDomainError(w,
			document.NewError(document.CodeInvalidPage,
				fmt.Sprintf("invalid page %q", chi.URLParam(r, "pageNum")), err),
			"invalid page")
		return nil, 0, false
	}
	return doc, page, true
}

func ocrSeconds(st document.OCRStatus) *float64 {
	if !st.Performed {
		return nil
	}
	s := st.Elapsed.Seconds()
	return &s
}
