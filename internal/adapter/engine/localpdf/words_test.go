package localpdf

import (
	"math"
	"testing"

	"github.com/ledongthuc/pdf"
)

func char(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

// TestGroupWordsAdjacentChars 相邻字符聚成一个词，坐标换到左上原点。
func TestGroupWordsAdjacentChars(t *testing.T) {
	// 页高 200，基线 y=100，字号 10。
	texts := []pdf.Text{
		char("H", 10, 100, 6, 10),
		char("i", 16, 100, 3, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1: %+v", len(words), words)
	}
	w := words[0]
	if w.Text != "Hi" {
		t.Errorf("text = %q, want Hi", w.Text)
	}
	if w.X0 != 10 || w.X1 != 19 {
		t.Errorf("x range = [%g, %g], want [10, 19]", w.X0, w.X1)
	}
	// Y0 = 200 - 100 - 10*0.8 = 92, Y1 = 200 - 100 + 10*0.2 = 102
	if !approx(w.Y0, 92) || !approx(w.Y1, 102) {
		t.Errorf("y range = [%g, %g], want [92, 102]", w.Y0, w.Y1)
	}
}

// TestGroupWordsGapSplits 超过字号三成的水平间距开启新词。
func TestGroupWordsGapSplits(t *testing.T) {
	texts := []pdf.Text{
		char("a", 10, 100, 5, 10),
		char("b", 15, 100, 5, 10),
		// 上一词结束于 x=20，间距 8 > 10*0.3。
		char("c", 28, 100, 5, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[0].Text != "ab" || words[1].Text != "c" {
		t.Errorf("words = %q, %q", words[0].Text, words[1].Text)
	}
}

// TestGroupWordsWhitespaceFlushes 空白片段结束当前词且自身不进入结果。
func TestGroupWordsWhitespaceFlushes(t *testing.T) {
	texts := []pdf.Text{
		char("a", 10, 100, 5, 10),
		char(" ", 15, 100, 3, 10),
		char("b", 18, 100, 5, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
	if words[0].Text != "a" || words[1].Text != "b" {
		t.Errorf("words = %q, %q", words[0].Text, words[1].Text)
	}
}

// TestGroupWordsLineOrder 上方的行（PDF 坐标 Y 较大）先输出。
func TestGroupWordsLineOrder(t *testing.T) {
	texts := []pdf.Text{
		char("low", 10, 50, 15, 10),
		char("top", 10, 150, 15, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0].Text != "top" || words[1].Text != "low" {
		t.Errorf("order = %q, %q, want top first", words[0].Text, words[1].Text)
	}
	if !(words[0].Y0 < words[1].Y0) {
		t.Errorf("top word should have smaller top-origin Y: %g vs %g", words[0].Y0, words[1].Y0)
	}
}

// TestGroupWordsBaselineSplits 基线变化即换行，词不跨行。
func TestGroupWordsBaselineSplits(t *testing.T) {
	texts := []pdf.Text{
		char("a", 10, 100, 5, 10),
		char("b", 15, 80, 5, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2: %+v", len(words), words)
	}
}

// TestGroupWordsUnsortedInput 输入乱序也按行列重排。
func TestGroupWordsUnsortedInput(t *testing.T) {
	texts := []pdf.Text{
		char("b", 15, 100, 5, 10),
		char("a", 10, 100, 5, 10),
	}

	words := groupWords(texts, 200)
	if len(words) != 1 || words[0].Text != "ab" {
		t.Fatalf("got %+v, want single word ab", words)
	}
}

func TestGroupWordsEmpty(t *testing.T) {
	if got := groupWords(nil, 200); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
	onlySpace := []pdf.Text{char("  ", 10, 100, 5, 10)}
	if got := groupWords(onlySpace, 200); len(got) != 0 {
		t.Errorf("whitespace-only input should yield no words, got %+v", got)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
