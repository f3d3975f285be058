package heuristic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsPipeDelimited(t *testing.T) {
	engine := NewEngine()

	t.Run("类别标签被丢弃", func(t *testing.T) {
		skills := engine.Skills("SKILLS\nLanguages Python | C++ | SQL")
		assert.Equal(t, []string{"Python", "C++", "SQL"}, skills)
	})

	t.Run("多行拼接保持顺序", func(t *testing.T) {
		skills := engine.Skills("SKILLS\nLanguages Python | SQL\nTools Git | Docker")
		assert.Equal(t, []string{"Python", "SQL", "Git", "Docker"}, skills)
	})

	t.Run("无竖线的行被忽略", func(t *testing.T) {
		skills := engine.Skills("SKILLS\nProficient in many things\nLanguages Go | Rust")
		assert.Equal(t, []string{"Go", "Rust"}, skills)
	})
}

func TestSkillsCatalogFallback(t *testing.T) {
	engine := NewEngine()

	t.Run("章节无产出时扫描全文目录", func(t *testing.T) {
		text := "JOHN DOE\nBuilt services in Go with Docker and PostgreSQL on Linux"
		skills := engine.Skills(text)
		assert.Contains(t, skills, "Go")
		assert.Contains(t, skills, "Docker")
		assert.Contains(t, skills, "PostgreSQL")
		assert.Contains(t, skills, "Linux")
	})

	t.Run("目录匹配是整词匹配", func(t *testing.T) {
		// "Rust"不在目录里，"Gone"不应命中"Go"
		skills := engine.Skills("Gone fishing with Rust")
		assert.NotContains(t, skills, "Go")
	})
}

func TestSkillsPostFilter(t *testing.T) {
	engine := NewEngine()

	t.Run("停用词与日期项被剔除", func(t *testing.T) {
		skills := engine.Skills("SKILLS\nMisc Python | Experience | 2021 | January Intake | Languages")
		assert.Equal(t, []string{"Python"}, skills)
	})

	t.Run("长度越界的项被剔除", func(t *testing.T) {
		long := strings.Repeat("x", 30)
		skills := engine.Skills("SKILLS\nMisc R | " + long + " | Java")
		assert.Equal(t, []string{"Java"}, skills)
	})

	t.Run("大小写不敏感去重保留首见形态", func(t *testing.T) {
		skills := engine.Skills("SKILLS\nLanguages Python | PYTHON | python | SQL")
		assert.Equal(t, []string{"Python", "SQL"}, skills)
	})

	t.Run("截断到15项", func(t *testing.T) {
		var items []string
		for i := 0; i < 20; i++ {
			items = append(items, fmt.Sprintf("Skill%02d", i))
		}
		skills := engine.Skills("SKILLS\nMisc " + strings.Join(items, " | "))
		require.Len(t, skills, 15)
		assert.Equal(t, "Skill00", skills[0])
		assert.Equal(t, "Skill14", skills[14])
	})
}
