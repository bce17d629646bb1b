package document

import "time"

// PageWord 页面上的一个词元，bbox 为 (x0, y0, x1, y1)，
// 已按页面宽高归一化到 [0,1]，与渲染分辨率无关。
type PageWord struct {
	Text string     `json:"text"`
	BBox [4]float64 `json:"bbox"`
}

// OCRStatus OCR 结果摘要（文档粒度）。
type OCRStatus struct {
	Performed bool
	Failed    bool
	Message   string
	Elapsed   time.Duration
}

// Document 一份上传的 PDF 及其派生状态。
//
// ActivePath 在摄取完成后固定：成功 OCR 时指向 OCRPath，
// 否则等于 OriginalPath。索引与渲染只读取 ActivePath。
type Document struct {
	ID         string
	Filename   string
	Pages      int
	UploadedAt time.Time

	// LastAccess 由 Store 的互斥锁保护，Get 命中时更新。
	LastAccess time.Time

	OriginalPath string
	OCRPath      string // 为空表示没有可用的 OCR 产物
	ActivePath   string
	OCR          OCRStatus

	// 摄取完成后不可变。
	PageText  map[int]string
	PageWords map[int][]PageWord

	render renderCache
}

// Tokens 返回指定页的词元列表（页号越界返回 nil）。
func (d *Document) Tokens(page int) []PageWord {
	return d.PageWords[page]
}

// Text 返回指定页的全文。
func (d *Document) Text(page int) string {
	return d.PageText[page]
}

// HasOCRPDF 是否存在可下载的 OCR 派生文件。
func (d *Document) HasOCRPDF() bool {
	return d.OCR.Performed && !d.OCR.Failed && d.OCRPath != ""
}
