package document

import (
	"fmt"
	"strings"
)

// PageIndex 文档的可检索索引：每页全文 + 词元序列。
type PageIndex struct {
	Pages int
	Text  map[int]string
	Words map[int][]PageWord
}

// BuildIndex 打开 active 文件并提取全部页面的文本与词元。
//
// 页数超限直接拒绝（在逐页工作前检查）；任一页提取失败则整体失败，
// 不保留部分索引。词元 bbox 按页面宽高归一化，纯空白词元被丢弃。
func BuildIndex(engine PDFEngine, path string, maxPages int) (*PageIndex, error) {
	doc, err := engine.Open(path)
	if err != nil {
		return nil, NewError(CodeExtractionFailed, "open pdf", err)
	}
	defer doc.Close()

	pages := doc.PageCount()
	if pages > maxPages {
		return nil, NewError(CodePageLimitExceeded,
			fmt.Sprintf("PDF exceeds page limit (%d)", maxPages), nil)
	}

	idx := &PageIndex{
		Pages: pages,
		Text:  make(map[int]string, pages),
		Words: make(map[int][]PageWord, pages),
	}

	for page := 1; page <= pages; page++ {
		text, err := doc.PageText(page)
		if err != nil {
			return nil, NewError(CodeExtractionFailed,
				fmt.Sprintf("extract text of page %d", page), err)
		}
		raw, size, err := doc.PageWords(page)
		if err != nil {
			return nil, NewError(CodeExtractionFailed,
				fmt.Sprintf("extract words of page %d", page), err)
		}

		idx.Text[page] = text
		idx.Words[page] = normalizeWords(raw, size)
	}

	return idx, nil
}

// normalizeWords 将像素坐标 bbox 归一化到 [0,1] 并过滤空白词元。
func normalizeWords(raw []RawWord, size PageSize) []PageWord {
	tokens := make([]PageWord, 0, len(raw))
	if size.Width <= 0 || size.Height <= 0 {
		return tokens
	}
	for _, w := range raw {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		tokens = append(tokens, PageWord{
			Text: w.Text,
			BBox: [4]float64{
				clamp01(w.X0 / size.Width),
				clamp01(w.Y0 / size.Height),
				clamp01(w.X1 / size.Width),
				clamp01(w.Y1 / size.Height),
			},
		})
	}
	return tokens
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
