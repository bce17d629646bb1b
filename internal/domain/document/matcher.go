package document

import (
	"sort"
	"strings"
)

// PageMatch 单页的命中统计。Counts 对每个查询词都有条目（含 0），
// Total 为该页所有词的命中之和。
type PageMatch struct {
	Page   int            `json:"page"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total_matches"`
}

// FindPages 在文档索引中统计各查询词的出现次数，只返回至少命中
// 一个词的页面，按页号升序排列。匹配为整词、大小写不敏感；多词查询
// 按词表处理而非短语。
func FindPages(doc *Document, words []string) []PageMatch {
	if len(words) == 0 {
		return nil
	}

	targets := make(map[string]struct{}, len(words))
	for _, w := range words {
		targets[w] = struct{}{}
	}

	results := make([]PageMatch, 0)
	for page, tokens := range doc.PageWords {
		counts := make(map[string]int, len(words))
		for _, w := range words {
			counts[w] = 0
		}
		anyMatch := false
		for _, tok := range tokens {
			lower := strings.ToLower(tok.Text)
			if _, ok := targets[lower]; ok {
				counts[lower]++
				anyMatch = true
			}
		}
		if !anyMatch {
			continue
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		results = append(results, PageMatch{Page: page, Counts: counts, Total: total})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })
	return results
}
