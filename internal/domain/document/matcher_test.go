package document

import (
	"reflect"
	"testing"
)

func indexedDoc(pages map[int][]string) *Document {
	doc := &Document{
		Pages:     len(pages),
		PageText:  make(map[int]string),
		PageWords: make(map[int][]PageWord),
	}
	for page, words := range pages {
		tokens := make([]PageWord, 0, len(words))
		for _, w := range words {
			tokens = append(tokens, PageWord{Text: w})
		}
		doc.PageWords[page] = tokens
	}
	return doc
}

// TestFindPages 测试逐页命中统计与排序契约。
func TestFindPages(t *testing.T) {
	doc := indexedDoc(map[int][]string{
		1: {"apple", "banana"},
		2: {"banana"},
		3: {"cherry"},
	})

	results := FindPages(doc, []string{"apple", "banana"})

	want := []PageMatch{
		{Page: 1, Counts: map[string]int{"apple": 1, "banana": 1}, Total: 2},
		{Page: 2, Counts: map[string]int{"apple": 0, "banana": 1}, Total: 1},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("FindPages = %+v, want %+v", results, want)
	}
}

// TestFindPagesCaseInsensitive 词元大小写不影响匹配。
func TestFindPagesCaseInsensitive(t *testing.T) {
	doc := indexedDoc(map[int][]string{
		1: {"Apple", "APPLE", "apple"},
	})

	results := FindPages(doc, []string{"apple"})
	if len(results) != 1 {
		t.Fatalf("expected 1 page, got %d", len(results))
	}
	if results[0].Counts["apple"] != 3 {
		t.Errorf("expected 3 matches, got %d", results[0].Counts["apple"])
	}
	if results[0].Total != 3 {
		t.Errorf("expected total 3, got %d", results[0].Total)
	}
}

// TestFindPagesOrdering 结果必须按页号升序，与 map 遍历顺序无关。
func TestFindPagesOrdering(t *testing.T) {
	pages := make(map[int][]string)
	for p := 1; p <= 50; p++ {
		pages[p] = []string{"needle"}
	}
	doc := indexedDoc(pages)

	results := FindPages(doc, []string{"needle"})
	if len(results) != 50 {
		t.Fatalf("expected 50 pages, got %d", len(results))
	}
	for i, r := range results {
		if r.Page != i+1 {
			t.Fatalf("page at position %d is %d, want %d", i, r.Page, i+1)
		}
	}
}

// TestFindPagesNoPhraseMatch 多词查询按词表处理，不做短语匹配。
func TestFindPagesNoPhraseMatch(t *testing.T) {
	doc := indexedDoc(map[int][]string{
		1: {"hello", "world"},
		2: {"hello world"}, // 单一词元，与任一查询词都不相等
	})

	results := FindPages(doc, []string{"hello", "world"})
	if len(results) != 1 || results[0].Page != 1 {
		t.Fatalf("expected only page 1 to match, got %+v", results)
	}
}

func TestFindPagesEmptyTerms(t *testing.T) {
	doc := indexedDoc(map[int][]string{1: {"apple"}})
	if got := FindPages(doc, nil); got != nil {
		t.Errorf("expected nil for empty terms, got %+v", got)
	}
}
