package heuristic

import (
	"regexp"
	"sort"
	"strings"

	"ats-parser-go/internal/types"
)

const (
	maxSkills   = 15
	minSkillLen = 2
	maxSkillLen = 29
)

var yearRe = regexp.MustCompile(`\d{4}`)

// Skills 提取技能列表。
// 主路径解析SKILLS章节里的竖线分隔行；一无所获时退回全文目录扫描。
// 两条路径共用同一套后过滤与去重，最终截断到15项。
func (e *Engine) Skills(text string) []string {
	raw := e.skillsFromSection(text)
	if len(raw) == 0 {
		raw = e.skillsFromCatalog(text)
	}
	return e.filterSkills(raw)
}

// skillsFromSection 对SKILLS章节内每个含竖线的行：
// 首个空白串之前的词视为类别标签丢弃，其余按"|"切分。
func (e *Engine) skillsFromSection(text string) []string {
	body, ok := e.Section(text, types.SectionSkills)
	if !ok {
		return nil
	}

	var items []string
	for _, line := range splitLines(body) {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := spaceRunRe.Split(line, 2)
		rest := parts[len(parts)-1]
		for _, item := range strings.Split(rest, "|") {
			items = append(items, strings.TrimSpace(item))
		}
	}
	return items
}

// skillsFromCatalog 在整个文档上做大小写不敏感的目录扫描
func (e *Engine) skillsFromCatalog(text string) []string {
	lower := strings.ToLower(text)
	var items []string
	for _, group := range []string{"languages", "datastores", "ml", "tools"} {
		for _, skill := range e.tables.SkillCatalog[group] {
			if containsToken(lower, strings.ToLower(skill)) {
				items = append(items, skill)
			}
		}
	}
	// 配置表里约定分组之外的自定义分组也参与扫描（按组名排序保证确定性）
	var extra []string
	for group := range e.tables.SkillCatalog {
		switch group {
		case "languages", "datastores", "ml", "tools":
		default:
			extra = append(extra, group)
		}
	}
	sort.Strings(extra)
	for _, group := range extra {
		for _, skill := range e.tables.SkillCatalog[group] {
			if containsToken(lower, strings.ToLower(skill)) {
				items = append(items, skill)
			}
		}
	}
	return items
}

// containsToken 整词出现判断。目录项可能含非字母字符（C++、Power BI），
// 因此边界按"前后不是字母数字"判定而不是\b。
func containsToken(lower, token string) bool {
	idx := 0
	for {
		pos := strings.Index(lower[idx:], token)
		if pos < 0 {
			return false
		}
		pos += idx
		beforeOK := pos == 0 || !isAlnum(lower[pos-1])
		end := pos + len(token)
		afterOK := end == len(lower) || !isAlnum(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// filterSkills 后过滤：剔除空串、长度越界、含年份或月份、命中停用词的项；
// 按首次出现顺序去重并截断。
func (e *Engine) filterSkills(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if len(item) < minSkillLen || len(item) > maxSkillLen {
			continue
		}
		if yearRe.MatchString(item) || e.containsMonth(item) || e.isStopWord(item) {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

func (e *Engine) containsMonth(item string) bool {
	lower := strings.ToLower(item)
	for _, month := range e.tables.Months {
		if containsToken(lower, strings.ToLower(month)) {
			return true
		}
	}
	return false
}

func (e *Engine) isStopWord(item string) bool {
	for _, stop := range e.tables.SkillStoplist {
		if strings.EqualFold(item, stop) {
			return true
		}
	}
	return false
}
