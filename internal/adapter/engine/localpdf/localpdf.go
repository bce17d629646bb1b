// Package localpdf 基于 ledongthuc/pdf 与 pdfcpu 实现 PDF 引擎端口：
// 页数探测、逐页全文与带坐标的词元提取。
package localpdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"docsearcher/internal/domain/document"
)

// Engine 实现 document.PDFEngine。
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// PageCount 只读页数，不做内容提取。pdfcpu 的宽松校验对
// 轻微损坏的扫描件更稳，用于上传守卫与 OCR 探测。
func (e *Engine) PageCount(path string) (int, error) {
	n, err := pdfapi.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count of %s: %w", path, err)
	}
	return n, nil
}

// Open 打开 PDF 做逐页提取。
func (e *Engine) Open(path string) (document.PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &pdfDocument{file: f, reader: r}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}

func (d *pdfDocument) PageText(page int) (string, error) {
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("plain text of page %d: %w", page, err)
	}
	return text, nil
}

// PageWords 提取页面词元。ledongthuc 给出的是 PDF 坐标系
//（原点左下、单位 point）的字符级片段，这里聚合成词并换算为
// 左上原点坐标，归一化留给索引构建器。
func (d *pdfDocument) PageWords(page int) ([]document.RawWord, document.PageSize, error) {
	p := d.reader.Page(page)
	size := mediaBoxSize(p)
	if p.V.IsNull() || size.Width <= 0 || size.Height <= 0 {
		return nil, size, nil
	}
	words := groupWords(p.Content().Text, size.Height)
	return words, size, nil
}

// mediaBoxSize 读取页面 MediaBox，必要时沿 Parent 链查找继承值。
func mediaBoxSize(p pdf.Page) document.PageSize {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() < 4 {
			continue
		}
		return document.PageSize{
			Width:  mb.Index(2).Float64() - mb.Index(0).Float64(),
			Height: mb.Index(3).Float64() - mb.Index(1).Float64(),
		}
	}
	return document.PageSize{}
}
