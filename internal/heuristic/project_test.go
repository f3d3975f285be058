package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects(t *testing.T) {
	engine := NewEngine()

	t.Run("标题日期组织与明细", func(t *testing.T) {
		text := "PROJECTS\n" +
			"– Resume Analyzer Jan 2024 - Mar 2024\n" +
			"Personal Project\n" +
			"• Built a parsing engine for semi structured documents\n" +
			"with configurable extraction rules\n" +
			"• Tools: Python, spaCy\n" +
			"– Chat Dashboard\n" +
			"• Implemented realtime charts over websocket streams"

		entries := engine.Projects(text)
		require.Len(t, entries, 2)

		first := entries[0]
		assert.Equal(t, "Resume Analyzer", first.Title)
		assert.Equal(t, "Jan 2024 - Mar 2024", first.Duration)
		assert.Equal(t, "Personal Project", first.Organization)
		// 续行并入，元信息行（Tools:）被剔除
		assert.Equal(t, []string{"Built a parsing engine for semi structured documents with configurable extraction rules"}, first.Details)

		second := entries[1]
		assert.Equal(t, "Chat Dashboard", second.Title)
		assert.Equal(t, "Not specified", second.Duration)
		assert.Empty(t, second.Organization)
	})

	t.Run("第二行带项目符号时没有组织标签", func(t *testing.T) {
		text := "PROJECTS\n– Inventory Tracker Apr 2023\n• Modeled stock levels across warehouses"
		entries := engine.Projects(text)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Organization)
		assert.Equal(t, []string{"Modeled stock levels across warehouses"}, entries[0].Details)
	})

	t.Run("过短的标题被丢弃", func(t *testing.T) {
		entries := engine.Projects("PROJECTS\n– App\n• Did something fairly substantial here")
		assert.Empty(t, entries)
	})

	t.Run("通用短语标题被丢弃", func(t *testing.T) {
		entries := engine.Projects("PROJECTS\n– Individual Project work\n• Wrote various scripts for coursework")
		assert.Empty(t, entries)
	})

	t.Run("明细上限4条", func(t *testing.T) {
		text := "PROJECTS\n– Data Platform Jun 2022\n" +
			"• First detail line with enough length\n" +
			"• Second detail line with enough length\n" +
			"• Third detail line with enough length\n" +
			"• Fourth detail line with enough length\n" +
			"• Fifth detail line with enough length"
		entries := engine.Projects(text)
		require.Len(t, entries, 1)
		assert.Len(t, entries[0].Details, 4)
	})

	t.Run("过短的明细被丢弃", func(t *testing.T) {
		entries := engine.Projects("PROJECTS\n– Data Platform Jun 2022\n• tiny note")
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Details)
	})

	t.Run("章节缺失返回空列表", func(t *testing.T) {
		entries := engine.Projects("EDUCATION\nB.Tech in Computer Science, Example University")
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}
