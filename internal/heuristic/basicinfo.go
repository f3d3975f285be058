package heuristic

import (
	"regexp"
	"strings"
	"unicode"

	"ats-parser-go/internal/types"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// 接受的电话形态：10位裸数字；可选括号国家码；可选+前缀国家码；分隔符最多一个空格或连字符。
	// 左右都锚定在非数字上，更长数字串的任何一段都不算电话。
	phoneRe = regexp.MustCompile(`(?:^|[^\d])((?:\+\d{1,3}[ \-]?|\(\+?\d{1,3}\)[ \-]?)?\d{10})\b`)

	namePunctRe = regexp.MustCompile(`[.,'’\-]`)
)

// ContactInfo 从全文提取姓名、邮箱、电话。
// 三项互相独立，任意一项失败不影响其余两项；缺失时为 NotFound。
func (e *Engine) ContactInfo(text string) types.ContactInfo {
	return types.ContactInfo{
		Name:  e.extractName(text),
		Email: firstMatch(emailRe, text),
		Phone: firstSubmatch(phoneRe, text),
	}
}

// extractName 只看前10行：跳过空行和通用标题行，
// 取第一个"2~4个单词、每个单词去标点后全字母且首字母大写"的行。
func (e *Engine) extractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || e.isGenericHeader(line) {
			continue
		}
		if looksLikeName(line) {
			return line
		}
	}
	return types.NotFound
}

func (e *Engine) isGenericHeader(line string) bool {
	for _, header := range e.tables.GenericHeaders {
		if strings.EqualFold(line, header) {
			return true
		}
	}
	return false
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, word := range words {
		word = namePunctRe.ReplaceAllString(word, "")
		if word == "" {
			return false
		}
		for _, r := range word {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		// 全大写的姓名行同样满足首字母大写
		if !unicode.IsUpper([]rune(word)[0]) {
			return false
		}
	}
	return true
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return types.NotFound
}

// firstSubmatch 返回第一处匹配的首个捕获组
func firstSubmatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return types.NotFound
}
