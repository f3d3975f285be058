package heuristic

import (
	"regexp"
	"strings"

	"ats-parser-go/internal/types"
)

var (
	githubTextRe   = regexp.MustCompile(`(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_.\-]+(?:/[A-Za-z0-9_.\-]+)?`)
	linkedinTextRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?linkedin\.com/(?:in|profile)/[A-Za-z0-9_%.\-]+`)

	// 个人主页URL：裸host之后恰好一个路径段，排除仓库/Gist链接；
	// www主机和尾部斜杠同样不算个人主页
	githubProfileRe = regexp.MustCompile(`^https?://github\.com/[^/]+$`)
)

// Links 合并两路来源并去重：文档内嵌超链接与正文正则扫描。
// GitHub取第一个通过个人主页过滤的候选，LinkedIn取第一个候选；都可能为空。
func (e *Engine) Links(text string, embedded []string) types.LinkSet {
	var githubCandidates, linkedinCandidates []string
	seen := make(map[string]bool)

	add := func(url string, isGitHub bool) {
		url = normalizeURL(url)
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		if isGitHub {
			githubCandidates = append(githubCandidates, url)
		} else {
			linkedinCandidates = append(linkedinCandidates, url)
		}
	}

	// 内嵌链接先于正文扫描，与原始注入顺序一致
	for _, url := range embedded {
		switch {
		case strings.Contains(url, "github.com"):
			add(url, true)
		case strings.Contains(url, "linkedin.com"):
			add(url, false)
		}
	}
	for _, url := range githubTextRe.FindAllString(text, -1) {
		add(url, true)
	}
	for _, url := range linkedinTextRe.FindAllString(text, -1) {
		add(url, false)
	}

	links := types.LinkSet{}
	for _, url := range githubCandidates {
		if githubProfileRe.MatchString(url) {
			links.GitHubProfile = url
			break
		}
	}
	if len(linkedinCandidates) > 0 {
		links.LinkedIn = linkedinCandidates[0]
	}
	return links
}

// normalizeURL 正文扫描出的链接可能缺少scheme，补齐后再进入统一过滤
func normalizeURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), ".,;)")
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}
