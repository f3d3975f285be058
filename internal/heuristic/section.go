package heuristic

import (
	"regexp"
	"strings"

	"ats-parser-go/internal/types"
)

// Section 根据章节类型定位正文片段。
// 返回的body是首个标题关键词之后、下一个其他已知标题之前的内容；
// 找不到标题时返回 ("", false)，这不是错误。
func (e *Engine) Section(text string, kind types.SectionKind) (string, bool) {
	headers, ok := e.tables.SectionHeaders[kind]
	if !ok {
		return "", false
	}

	start, end := -1, -1
	for _, header := range headers {
		loc := headerTokenRe(header).FindStringIndex(text)
		if loc == nil {
			continue
		}
		// 首个出现的标题获胜
		if start == -1 || loc[0] < start {
			start, end = loc[0], loc[1]
		}
	}
	if start == -1 {
		return "", false
	}

	body := text[end:]
	cut := len(body)
	for _, other := range e.tables.otherHeaders(kind) {
		if loc := headerTokenRe(other).FindStringIndex(body); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	return strings.TrimSpace(body[:cut]), true
}

// headerTokenRe 标题按整词匹配，避免命中正文里的子串（如句子中的 "project experience"）
func headerTokenRe(header string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^A-Za-z])` + regexp.QuoteMeta(header) + `(?:[^A-Za-z]|$)`)
}
