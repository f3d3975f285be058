package heuristic

import (
	"strings"

	"ats-parser-go/internal/types"
)

const (
	maxExperienceDetails = 5
	minExperienceDetail  = 15
)

// experienceFormat EXPERIENCE章节的版式变体。
// 三种互斥策略实现同一个"章节→条目列表"契约，由分类器先行选择。
type experienceFormat int

const (
	// formatNarrative 叙述/专长式：开头是散文而不是结构化条目
	formatNarrative experienceFormat = iota
	// formatBulleted 公司行带"•"前缀、职责行带"-"前缀
	formatBulleted
	// formatStructured 缺省："公司, 职位 | 时长"式结构化条目
	formatStructured
)

// classifyExperienceFormat 选择版式。
// 叙述式的触发条件（前两行出现整词"in"或"and"）沿用既有行为，
// 这个信号偏宽，可能把结构化条目误判为叙述——属于已知误报源，勿收紧。
func classifyExperienceFormat(lines []string) experienceFormat {
	probe := lines
	if len(probe) > 2 {
		probe = probe[:2]
	}
	for _, line := range probe {
		lower := strings.ToLower(line)
		if containsToken(lower, "in") || containsToken(lower, "and") {
			return formatNarrative
		}
	}
	if strings.HasPrefix(lines[0], "•") {
		return formatBulleted
	}
	return formatStructured
}

// Experience 解析EXPERIENCE章节为结构化经历条目。章节缺失时返回空列表。
func (e *Engine) Experience(text string) []types.ExperienceEntry {
	body, ok := e.Section(text, types.SectionExperience)
	if !ok {
		return []types.ExperienceEntry{}
	}
	lines := splitLines(body)
	if len(lines) == 0 {
		return []types.ExperienceEntry{}
	}

	switch classifyExperienceFormat(lines) {
	case formatNarrative:
		return e.narrativeEntries(lines)
	case formatBulleted:
		return e.bulletedEntries(lines)
	default:
		return e.structuredEntries(body, lines)
	}
}

// parseCompanyHeader 从公司行里剥出公司名与时长分类。
// "Acme Technologies Summer Internship" → ("Acme", "Summer Internship")
func parseCompanyHeader(line string) (company string, duration string) {
	line = stripBullet(line)

	switch {
	case hasFold(line, "Summer Internship"):
		duration = "Summer Internship"
		line = removeFold(line, "Summer Internship")
	case hasFold(line, "Internship"):
		duration = "Internship"
		line = removeFold(line, "Internship")
	case hasFold(line, "Intern"):
		duration = "Internship"
		line = removeFold(line, "Intern")
	case hasFold(line, "Current"):
		duration = "Current"
		line = removeFold(line, "Current")
	}

	// 公司名取组织后缀之前的部分
	for _, marker := range []string{"Technologies", "Technology", "Tech"} {
		if idx := indexFold(line, marker); idx >= 0 {
			line = line[:idx]
			break
		}
	}
	return collapseSpaces(line), duration
}

// narrativeEntries 叙述/专长式解析。
// (a) 找"组织+实习"标志的标题行，按实习关键词拆出公司与时长，
// 随后的含"Intern"行作为职位，要点行归并为明细；
// (b) 把含"in"+领域关键词的行汇成一条合成的领域经验条目。
func (e *Engine) narrativeEntries(lines []string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}

	headerIdx := -1
	for i, line := range lines {
		if (hasFold(line, "Technologies") || hasFold(line, "Tech")) &&
			(hasFold(line, "Intern") || hasFold(line, "Internship")) {
			headerIdx = i
			break
		}
	}

	if headerIdx >= 0 {
		company, duration := parseCompanyHeader(lines[headerIdx])
		if duration == "" {
			duration = "Internship"
		}

		role := "Software Development Intern"
		acc := &bulletAccumulator{}
		roleFound := false
		for _, line := range lines[headerIdx+1:] {
			if !roleFound && !isBulletLine(line) && hasFold(line, "Intern") {
				role = line
				roleFound = true
				continue
			}
			acc.Feed(line)
		}

		entries = append(entries, types.ExperienceEntry{
			Company:  company,
			Role:     role,
			Duration: duration,
			Details:  cleanDetails(acc.Finish(), minExperienceDetail, maxExperienceDetails),
		})
	}

	// (b) 领域经验行
	var domainLines []string
	for _, line := range lines {
		if !containsToken(strings.ToLower(line), "in") {
			continue
		}
		for _, keyword := range e.tables.DomainKeywords {
			if containsToken(strings.ToLower(line), keyword) {
				domainLines = append(domainLines, collapseSpaces(stripBullet(line)))
				break
			}
		}
	}
	if len(domainLines) > 0 {
		if len(domainLines) > maxExperienceDetails {
			domainLines = domainLines[:maxExperienceDetails]
		}
		entries = append(entries, types.ExperienceEntry{
			Company:  "Professional Experience",
			Role:     "Domain Expertise",
			Duration: "Ongoing",
			Details:  domainLines,
		})
	}

	return entries
}

// bulletedEntries 公司行带"•"、职责行带"-"的版式
func (e *Engine) bulletedEntries(lines []string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	var current *types.ExperienceEntry
	expectRole := false

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "•"):
			flush()
			company, duration := parseCompanyHeader(line)
			if duration == "" {
				duration = "Unknown Duration"
			}
			current = &types.ExperienceEntry{
				Company:  company,
				Role:     "Unknown Role",
				Duration: duration,
				Details:  []string{},
			}
			expectRole = true

		case current == nil:
			// 首个公司行之前的内容丢弃

		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "–"):
			expectRole = false
			detail := collapseSpaces(stripBullet(line))
			if len(detail) >= minExperienceDetail && len(current.Details) < maxExperienceDetails {
				current.Details = append(current.Details, detail)
			}

		case expectRole:
			current.Role = line
			expectRole = false
		}
	}
	flush()
	return entries
}

// structuredEntries 缺省的结构化版式。
// 前三行既无逗号也无竖线时退化为单条描述性条目；
// 否则按已知公司名或"大写词+企业后缀"的出现位置切分章节为块。
func (e *Engine) structuredEntries(body string, lines []string) []types.ExperienceEntry {
	probe := lines
	if len(probe) > 3 {
		probe = probe[:3]
	}
	structural := false
	for _, line := range probe {
		if strings.ContainsAny(line, ",|") {
			structural = true
			break
		}
	}
	if !structural {
		return e.descriptiveFallback(lines)
	}

	entries := []types.ExperienceEntry{}
	for _, chunk := range e.splitOnCompanyBoundaries(body) {
		if len(chunk) <= 50 {
			continue
		}
		chunkLines := splitLines(chunk)
		if len(chunkLines) == 0 {
			continue
		}

		company, role, duration := parseStructuredHeader(chunkLines[0])

		details := []string{}
		for _, line := range chunkLines[1:] {
			if !strings.HasPrefix(line, "•") && !strings.HasPrefix(line, "-") {
				continue
			}
			if len(line) <= 10 {
				continue
			}
			if len(details) < maxExperienceDetails {
				details = append(details, collapseSpaces(stripBullet(line)))
			}
		}

		entries = append(entries, types.ExperienceEntry{
			Company:  company,
			Role:     role,
			Duration: duration,
			Details:  details,
		})
	}
	return entries
}

// parseStructuredHeader 首行按第一个逗号拆出公司；
// 余下部分优先按"|"拆职位与时长，没有竖线时从行尾剥日期。
func parseStructuredHeader(line string) (company, role, duration string) {
	remainder := ""
	if idx := strings.Index(line, ","); idx >= 0 {
		company = strings.TrimSpace(line[:idx])
		remainder = strings.TrimSpace(line[idx+1:])
	} else {
		company = strings.TrimSpace(line)
	}

	role = "Unknown Role"
	duration = "Unknown Duration"
	if remainder == "" {
		return company, role, duration
	}

	if idx := strings.Index(remainder, "|"); idx >= 0 {
		role = strings.TrimSpace(remainder[:idx])
		if d := strings.TrimSpace(remainder[idx+1:]); d != "" {
			duration = d
		}
		return company, role, duration
	}

	if rest, date, found := peelTrailingDate(remainder); found {
		if rest != "" {
			role = rest
		}
		duration = date
	} else {
		role = remainder
	}
	return company, role, duration
}

// descriptiveFallback 无结构信号时收集描述行为单条条目，明细上限3
func (e *Engine) descriptiveFallback(lines []string) []types.ExperienceEntry {
	details := []string{}
	for _, line := range lines {
		if len(line) <= 10 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "experience") ||
			strings.HasPrefix(lower, "work") ||
			strings.HasPrefix(lower, "employment") {
			continue
		}
		details = append(details, collapseSpaces(line))
		if len(details) == 3 {
			break
		}
	}
	if len(details) == 0 {
		return []types.ExperienceEntry{}
	}
	return []types.ExperienceEntry{{
		Company:  "Professional Experience",
		Role:     "Various Roles",
		Duration: "Ongoing",
		Details:  details,
	}}
}

// splitOnCompanyBoundaries 在每个公司标志出现处切分章节正文
func (e *Engine) splitOnCompanyBoundaries(body string) []string {
	re := e.tables.companyBoundaryRe()
	locs := re.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return []string{body}
	}

	var chunks []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			chunks = append(chunks, body[prev:loc[0]])
		}
		prev = loc[0]
	}
	chunks = append(chunks, body[prev:])
	return chunks
}

// cleanDetails 统一的明细清洗：折叠空白、过短或悬挂结尾的丢弃、截断
func cleanDetails(details []string, minLen, limit int) []string {
	out := []string{}
	for _, detail := range details {
		detail = collapseSpaces(detail)
		if len(detail) < minLen || endsDangling(detail) {
			continue
		}
		out = append(out, detail)
		if len(out) == limit {
			break
		}
	}
	return out
}

func hasFold(s, sub string) bool {
	return indexFold(s, sub) >= 0
}

func indexFold(s, sub string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}

func removeFold(s, sub string) string {
	if idx := indexFold(s, sub); idx >= 0 {
		return collapseSpaces(s[:idx] + s[idx+len(sub):])
	}
	return s
}
