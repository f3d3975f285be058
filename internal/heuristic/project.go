package heuristic

import (
	"regexp"
	"strings"

	"ats-parser-go/internal/types"
)

const (
	maxProjectDetails = 4
	minProjectDetail  = 16
)

var (
	projectEntryStartRe = regexp.MustCompile(`^[–\-]\s*`)

	// 这些前缀是元信息行而不是项目内容
	projectMetaPrefixes = []string{"tool", "project link", "technologies used"}

	// 标题里出现这些短语说明拿到的是残留描述行而非真正的项目名
	genericTitlePhrases = []string{"individual project", "development project"}
)

// Projects 解析PROJECTS（或KEY PROJECTS）章节。章节缺失时返回空列表。
func (e *Engine) Projects(text string) []types.ProjectEntry {
	body, ok := e.Section(text, types.SectionProjects)
	if !ok {
		return []types.ProjectEntry{}
	}

	entries := []types.ProjectEntry{}
	for _, chunk := range splitProjectChunks(body) {
		if entry, ok := parseProjectChunk(chunk); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// splitProjectChunks 按行首破折号切分候选条目，空条目丢弃
func splitProjectChunks(body string) [][]string {
	var chunks [][]string
	var current []string

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
		}
	}

	for _, line := range splitLines(body) {
		if projectEntryStartRe.MatchString(line) {
			flush()
			line = strings.TrimSpace(projectEntryStartRe.ReplaceAllString(line, ""))
			if line == "" {
				continue
			}
		}
		current = append(current, line)
	}
	flush()
	return chunks
}

func parseProjectChunk(lines []string) (types.ProjectEntry, bool) {
	entry := types.ProjectEntry{Duration: "Not specified", Details: []string{}}

	// 首行：行尾日期为时长，其余为标题
	title, duration, found := peelTrailingDate(lines[0])
	if found {
		entry.Title = strings.TrimSpace(strings.TrimRight(title, "-–— "))
		entry.Duration = duration
	} else {
		entry.Title = collapseSpaces(lines[0])
	}

	if !validProjectTitle(entry.Title) {
		return entry, false
	}

	// 第二行若不带项目符号则视为组织/类型标签
	rest := lines[1:]
	if len(rest) > 0 && !isBulletLine(rest[0]) {
		entry.Organization = collapseSpaces(rest[0])
		rest = rest[1:]
	}

	acc := &bulletAccumulator{}
	for _, line := range rest {
		if entry.Organization != "" && collapseSpaces(line) == entry.Organization {
			continue
		}
		acc.Feed(line)
	}

	for _, detail := range acc.Finish() {
		if isProjectMeta(detail) || len(detail) < minProjectDetail {
			continue
		}
		entry.Details = append(entry.Details, detail)
		if len(entry.Details) == maxProjectDetails {
			break
		}
	}

	// 组织标签本身是元信息时省略
	if isProjectMeta(entry.Organization) {
		entry.Organization = ""
	}

	return entry, true
}

func validProjectTitle(title string) bool {
	if len(title) <= 3 {
		return false
	}
	lower := strings.ToLower(title)
	for _, phrase := range genericTitlePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

func isProjectMeta(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range projectMetaPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
