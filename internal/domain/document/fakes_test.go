package document

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
)

// fakePDFEngine 以内存数据实现 PDF 引擎端口。
type fakePDFEngine struct {
	pages    int
	text     map[int]string
	words    map[int][]RawWord
	size     PageSize
	openErr  error
	countErr error
	textErr  map[int]error
}

func newFakePDFEngine(pages int) *fakePDFEngine {
	return &fakePDFEngine{
		pages: pages,
		text:  make(map[int]string),
		words: make(map[int][]RawWord),
		size:  PageSize{Width: 100, Height: 200},
	}
}

func (f *fakePDFEngine) PageCount(path string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.pages, nil
}

func (f *fakePDFEngine) Open(path string) (PDFDocument, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakePDFDocument{engine: f}, nil
}

type fakePDFDocument struct {
	engine *fakePDFEngine
}

func (d *fakePDFDocument) PageCount() int { return d.engine.pages }
func (d *fakePDFDocument) Close() error   { return nil }

func (d *fakePDFDocument) PageText(page int) (string, error) {
	if err := d.engine.textErr[page]; err != nil {
		return "", err
	}
	return d.engine.text[page], nil
}

func (d *fakePDFDocument) PageWords(page int) ([]RawWord, PageSize, error) {
	return d.engine.words[page], d.engine.size, nil
}

// fakeRasterizer 记录调用次数，可注入失败。
type fakeRasterizer struct {
	calls int32
	err   error
	delay chan struct{} // 非 nil 时渲染阻塞等待
}

func (f *fakeRasterizer) RenderPage(ctx context.Context, path string, page int, zoom float64) (*RasterPage, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay != nil {
		<-f.delay
	}
	if f.err != nil {
		return nil, f.err
	}
	// 2x2 像素，内容编码页号，保证不同页字节不同。
	pix := make([]byte, 2*2*3)
	for i := range pix {
		pix[i] = byte(page)
	}
	return &RasterPage{Width: 2, Height: 2, Pix: pix}, nil
}

func (f *fakeRasterizer) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

// fakeOCREngine 可配置为写出产物、写空产物、报错或阻塞到超时。
type fakeOCREngine struct {
	calls       int32
	err         error
	emptyOutput bool
	skipOutput  bool
	blockCtx    bool // 阻塞直到 ctx 取消（模拟超时）
	output      []byte
}

func (f *fakeOCREngine) Run(ctx context.Context, inputPath, outputPath string, opts OCROptions) error {
	atomic.AddInt32(&f.calls, 1)
	if f.blockCtx {
		<-ctx.Done()
		return NewError(CodeOCRFailed, "OCR timed out", ctx.Err())
	}
	if f.err != nil {
		return f.err
	}
	if f.skipOutput {
		return nil
	}
	data := f.output
	if data == nil && !f.emptyOutput {
		data = []byte("%PDF-1.7 ocr output")
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write fake output: %w", err)
	}
	return nil
}

func (f *fakeOCREngine) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}
