package heuristic

import (
	"regexp"
	"strings"
)

// 行尾的"月 年"（可带到另一个月年或Present的区间）被视为时长，
// 经历与项目解析都用它从标题行上剥离日期。
var trailingDateRe = regexp.MustCompile(
	`(?i)\(?((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}` +
		`(?:\s*(?:-|–|—|to)\s*(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|Present))?)\)?\s*$`)

// peelTrailingDate 剥离行尾日期。找到时返回去掉日期与尾部连接符的前段和日期串。
func peelTrailingDate(line string) (rest string, duration string, found bool) {
	m := trailingDateRe.FindStringSubmatchIndex(line)
	if m == nil {
		return line, "", false
	}
	duration = collapseSpaces(line[m[2]:m[3]])
	rest = strings.TrimRight(strings.TrimSpace(line[:m[0]]), "-–—|,")
	return strings.TrimSpace(rest), duration, true
}
