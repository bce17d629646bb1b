package localpdf

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsearcher/internal/domain/document"
)

// 字形相对基线的近似高度占比。ledongthuc 只给基线与字号，
// 词框高度按常见西文字体的 ascent/descent 估算。
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// groupWords 将字符级文本片段聚合为词。片段先按行（基线 Y）再按 X
// 排序；空白片段、换行或超过字号三成的水平间距都会结束当前词。
// 输出坐标换算为左上原点（y 向下），与光栅图像一致。
func groupWords(texts []pdf.Text, pageHeight float64) []document.RawWord {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sameBaseline(sorted[i], sorted[j]) {
			return sorted[i].Y > sorted[j].Y // PDF 坐标 Y 向上，先排上方的行
		}
		return sorted[i].X < sorted[j].X
	})

	var words []document.RawWord
	var cur strings.Builder
	var x0, x1, baseline, fontSize float64

	flush := func() {
		text := cur.String()
		cur.Reset()
		if strings.TrimSpace(text) == "" {
			return
		}
		words = append(words, document.RawWord{
			Text: text,
			X0:   x0,
			Y0:   pageHeight - baseline - fontSize*ascentRatio,
			X1:   x1,
			Y1:   pageHeight - baseline + fontSize*descentRatio,
		})
	}

	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		startNew := cur.Len() == 0
		if !startNew {
			prevEnd := x1
			if baseline != t.Y && !within(baseline, t.Y, fontSize*0.5) {
				startNew = true
			} else if t.X-prevEnd > maxGap(fontSize, t.FontSize) {
				startNew = true
			}
		}
		if startNew {
			flush()
			x0 = t.X
			baseline = t.Y
			fontSize = t.FontSize
		}
		if t.FontSize > fontSize {
			fontSize = t.FontSize
		}
		x1 = t.X + t.W
		cur.WriteString(t.S)
	}
	flush()

	return words
}

func sameBaseline(a, b pdf.Text) bool {
	tol := a.FontSize * 0.5
	if b.FontSize*0.5 > tol {
		tol = b.FontSize * 0.5
	}
	return within(a.Y, b.Y, tol)
}

func within(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func maxGap(a, b float64) float64 {
	fs := a
	if b > fs {
		fs = b
	}
	return fs * 0.3
}
