package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-parser-go/internal/types"
)

const sampleResume = "John Doe\n" +
	"john.doe@example.com\n" +
	"+91 9876543210\n" +
	"github.com/johndoe\n" +
	"\n" +
	"SKILLS\n" +
	"Languages Python | C++ | SQL\n" +
	"Tools Git | Docker\n" +
	"\n" +
	"EXPERIENCE\n" +
	"Google, Software Engineer | Jan 2020 - Dec 2022\n" +
	"• Led development of large scale systems\n" +
	"\n" +
	"PROJECTS\n" +
	"– Resume Analyzer Jan 2024 - Mar 2024\n" +
	"• Built a parsing engine for semi structured documents\n" +
	"\n" +
	"EDUCATION\n" +
	"B.Tech in Computer Science, Example University"

func TestExtract(t *testing.T) {
	engine := NewEngine()
	record := engine.Extract(sampleResume, nil)

	assert.Equal(t, types.SourceFallback, record.Source)
	assert.Equal(t, "John Doe", record.Name)
	assert.Equal(t, "john.doe@example.com", record.Email)
	assert.Equal(t, "+91 9876543210", record.Phone)
	assert.Equal(t, "https://github.com/johndoe", record.GitHub)
	assert.Equal(t, types.NotFound, record.LinkedIn)
	assert.Equal(t, []string{"Python", "C++", "SQL", "Git", "Docker"}, record.Skills)

	require.Len(t, record.Experience, 1)
	assert.Equal(t, "Google", record.Experience[0].Company)
	assert.Equal(t, "Software Engineer", record.Experience[0].Role)

	require.Len(t, record.Projects, 1)
	assert.Equal(t, "Resume Analyzer", record.Projects[0].Title)

	assert.Equal(t, []string{"B.Tech in Computer Science, Example University"}, record.Education)
}

func TestExtractDeterministic(t *testing.T) {
	engine := NewEngine()

	// 同一文本重复解析必须产出完全相同的记录
	first := engine.Extract(sampleResume, []string{"https://github.com/johndoe/repo"})
	second := engine.Extract(sampleResume, []string{"https://github.com/johndoe/repo"})
	assert.Equal(t, first, second)
}

func TestExtractEmptyText(t *testing.T) {
	engine := NewEngine()
	record := engine.Extract("", nil)

	assert.Equal(t, types.NotFound, record.Name)
	assert.Equal(t, types.NotFound, record.Email)
	assert.Equal(t, types.NotFound, record.Phone)
	assert.Equal(t, types.NotFound, record.GitHub)
	assert.Equal(t, types.NotFound, record.LinkedIn)
	// 列表字段存在且为空，不是nil
	assert.NotNil(t, record.Skills)
	assert.Empty(t, record.Skills)
	assert.NotNil(t, record.Experience)
	assert.Empty(t, record.Experience)
	assert.NotNil(t, record.Projects)
	assert.Empty(t, record.Projects)
	assert.NotNil(t, record.Education)
	assert.Empty(t, record.Education)
	assert.Equal(t, types.SourceFallback, record.Source)
}

func TestExtractEmbeddedLinks(t *testing.T) {
	engine := NewEngine()
	record := engine.Extract("John Doe\nresume text", []string{
		"https://github.com/johndoe",
		"https://www.linkedin.com/in/johndoe",
	})

	assert.Equal(t, "https://github.com/johndoe", record.GitHub)
	assert.Equal(t, "https://www.linkedin.com/in/johndoe", record.LinkedIn)
}

func TestWithTables(t *testing.T) {
	tables := DefaultTables()
	tables.SectionHeaders[types.SectionSkills] = append(
		tables.SectionHeaders[types.SectionSkills], "COMPETENCIES")
	custom := NewEngine(WithTables(tables))

	text := "COMPETENCIES\nLanguages Go | Rust"

	_, ok := NewEngine().Section(text, types.SectionSkills)
	assert.False(t, ok)

	body, ok := custom.Section(text, types.SectionSkills)
	require.True(t, ok)
	assert.Contains(t, body, "Go | Rust")
}
