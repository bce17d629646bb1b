package document

import (
	"context"
	"time"
)

// RawWord is a word span as reported by the PDF engine: pixel-space
// coordinates, upper-left origin, not yet normalized.
type RawWord struct {
	Text           string
	X0, Y0, X1, Y1 float64
}

// PageSize holds the pixel dimensions of a page.
type PageSize struct {
	Width  float64
	Height float64
}

// PDFEngine is the boundary to the external PDF parsing engine.
type PDFEngine interface {
	// PageCount reads the page count without extracting content. Cheap;
	// used by upload guards and OCR inspection.
	PageCount(path string) (int, error)
	Open(path string) (PDFDocument, error)
}

// PDFDocument is one opened PDF. Pages are 1-based. Not safe for
// concurrent use; the index builder is the only consumer.
type PDFDocument interface {
	PageCount() int
	PageText(page int) (string, error)
	PageWords(page int) ([]RawWord, PageSize, error)
	Close() error
}

// RasterPage is a raw 8-bit RGB pixel buffer, row-major, 3 bytes per pixel.
type RasterPage struct {
	Width  int
	Height int
	Pix    []byte
}

// Rasterizer renders one page of a PDF at the given zoom (1.0 = 72 dpi).
type Rasterizer interface {
	RenderPage(ctx context.Context, path string, page int, zoom float64) (*RasterPage, error)
}

// OCROptions mirrors the option set passed to the external OCR engine.
type OCROptions struct {
	Language        string
	Deskew          bool
	Optimize        int
	SkipText        bool
	RotatePages     bool
	RotateThreshold float64
	Timeout         time.Duration
}

// OCREngine runs the external OCR engine: reads inputPath, writes a PDF
// with an embedded text layer to outputPath. Must respect ctx cancellation
// and the wall-clock timeout in opts.
type OCREngine interface {
	Run(ctx context.Context, inputPath, outputPath string, opts OCROptions) error
}

// SearchCacheStore caches search responses per (document, term list).
// Optional; a nil store disables caching.
type SearchCacheStore interface {
	Get(ctx context.Context, docID string, words []string) ([]PageMatch, bool)
	Set(ctx context.Context, docID string, words []string, results []PageMatch)
}
