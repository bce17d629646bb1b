package document

import (
	"regexp"
	"strings"
)

var reQuerySplit = regexp.MustCompile(`[,;\s]+`)

// NormalizeQuery 将自由文本查询拆分为去重、保序、小写的词表。
// 分隔符为逗号、分号与空白；空输入得到空词表（调用方视为未检索）。
func NormalizeQuery(raw string) []string {
	parts := reQuerySplit.Split(strings.TrimSpace(raw), -1)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	return out
}
