package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-parser-go/internal/types"
)

func TestSection(t *testing.T) {
	engine := NewEngine()

	text := "John Doe\njohn@example.com\n\nSKILLS\nLanguages Python | SQL\n\nEXPERIENCE\nAcme Corp, Engineer | 2020\n\nEDUCATION\nB.Tech in Computer Science, Example University"

	t.Run("定位章节并在下一个标题处截断", func(t *testing.T) {
		body, ok := engine.Section(text, types.SectionSkills)
		require.True(t, ok)
		assert.Contains(t, body, "Languages Python | SQL")
		assert.NotContains(t, body, "Acme Corp")
	})

	t.Run("最后一个章节捕获到文末", func(t *testing.T) {
		body, ok := engine.Section(text, types.SectionEducation)
		require.True(t, ok)
		assert.Contains(t, body, "Example University")
	})

	t.Run("标题缺失返回no section而不是错误", func(t *testing.T) {
		_, ok := engine.Section(text, types.SectionProjects)
		assert.False(t, ok)
	})

	t.Run("标题大小写不敏感", func(t *testing.T) {
		body, ok := engine.Section("education\nMaster of Science in Data Engineering", types.SectionEducation)
		require.True(t, ok)
		assert.Contains(t, body, "Master of Science")
	})

	t.Run("整词匹配不命中正文子串", func(t *testing.T) {
		// 句子里的"project"不应触发PROJECTS章节
		_, ok := engine.Section("I enjoyed the project experience overall", types.SectionProjects)
		assert.False(t, ok)
	})

	t.Run("KEY PROJECTS是PROJECTS的同义标题", func(t *testing.T) {
		body, ok := engine.Section("KEY PROJECTS\n– Search Engine - Jan 2024", types.SectionProjects)
		require.True(t, ok)
		assert.Contains(t, body, "Search Engine")
	})
}
