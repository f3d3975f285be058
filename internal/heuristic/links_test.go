package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinks(t *testing.T) {
	engine := NewEngine()

	t.Run("个人主页过滤掉仓库链接", func(t *testing.T) {
		embedded := []string{"https://github.com/alice", "https://github.com/alice/repo1"}
		links := engine.Links("", embedded)
		assert.Equal(t, "https://github.com/alice", links.GitHubProfile)
	})

	t.Run("只有仓库链接时主页为空", func(t *testing.T) {
		links := engine.Links("", []string{"https://github.com/team/repo"})
		assert.Empty(t, links.GitHubProfile)
	})

	t.Run("内嵌仓库链接不挡住正文里的主页", func(t *testing.T) {
		links := engine.Links("see github.com/dave", []string{"https://github.com/team/repo"})
		assert.Equal(t, "https://github.com/dave", links.GitHubProfile)
	})

	t.Run("正文链接补齐scheme并去掉尾部标点", func(t *testing.T) {
		links := engine.Links("Profile: github.com/carol.", nil)
		assert.Equal(t, "https://github.com/carol", links.GitHubProfile)
	})

	t.Run("www主机不算个人主页", func(t *testing.T) {
		links := engine.Links("", []string{"https://www.github.com/alice"})
		assert.Empty(t, links.GitHubProfile)
	})

	t.Run("尾部斜杠不算个人主页", func(t *testing.T) {
		links := engine.Links("", []string{"https://github.com/alice/"})
		assert.Empty(t, links.GitHubProfile)
	})

	t.Run("两路来源去重", func(t *testing.T) {
		embedded := []string{"https://github.com/alice"}
		links := engine.Links("https://github.com/alice", embedded)
		assert.Equal(t, "https://github.com/alice", links.GitHubProfile)
	})

	t.Run("LinkedIn取第一个候选", func(t *testing.T) {
		text := "linkedin.com/in/jane-doe and linkedin.com/in/other-person"
		links := engine.Links(text, nil)
		assert.Equal(t, "https://linkedin.com/in/jane-doe", links.LinkedIn)
	})

	t.Run("内嵌链接优先于正文扫描", func(t *testing.T) {
		links := engine.Links("linkedin.com/in/from-text", []string{"https://www.linkedin.com/in/from-pdf"})
		assert.Equal(t, "https://www.linkedin.com/in/from-pdf", links.LinkedIn)
	})

	t.Run("没有任何候选时两项均为空", func(t *testing.T) {
		links := engine.Links("no links here", nil)
		assert.Empty(t, links.GitHubProfile)
		assert.Empty(t, links.LinkedIn)
	})
}
