package heuristic

import "ats-parser-go/internal/types"

// 短于该长度的行视为噪声（通常是残留的章节标签）
const minEducationLine = 21

// Education 逐行透传EDUCATION章节内容，按文档顺序，短行丢弃
func (e *Engine) Education(text string) []string {
	body, ok := e.Section(text, types.SectionEducation)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, line := range splitLines(body) {
		if len(line) >= minEducationLine {
			out = append(out, line)
		}
	}
	return out
}
