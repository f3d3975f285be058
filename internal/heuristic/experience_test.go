package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExperienceFormat(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected experienceFormat
	}{
		{"前两行含in触发叙述式", []string{"Expertise in machine learning", "Acme Corp"}, formatNarrative},
		{"前两行含and触发叙述式", []string{"Acme Corp", "Built systems and tools"}, formatNarrative},
		{"首行项目符号触发公司行版式", []string{"• Acme Technologies Internship", "Engineer"}, formatBulleted},
		{"缺省为结构化版式", []string{"Acme Corp, Engineer | 2020", "• Did things"}, formatStructured},
		{"整词判断不命中Intern里的in", []string{"• Acme Technologies Internship", "Software Engineer Intern"}, formatBulleted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyExperienceFormat(tc.lines))
		})
	}
}

func TestExperienceBulletedFormat(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\n• Acme Technologies Summer Internship\nSoftware Engineer Intern\n– Built a pipeline that reduced latency by 40%"
	entries := engine.Experience(text)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Acme", entry.Company)
	assert.Equal(t, "Summer Internship", entry.Duration)
	assert.Equal(t, "Software Engineer Intern", entry.Role)
	assert.Equal(t, []string{"Built a pipeline that reduced latency by 40%"}, entry.Details)
}

func TestExperienceBulletedDefaults(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\n• Initech Technologies\n– Maintained reporting dashboards for finance"
	entries := engine.Experience(text)
	require.Len(t, entries, 1)

	assert.Equal(t, "Initech", entries[0].Company)
	assert.Equal(t, "Unknown Duration", entries[0].Duration)
	assert.Equal(t, "Unknown Role", entries[0].Role)

	t.Run("过短的职责行被丢弃", func(t *testing.T) {
		entries := engine.Experience("EXPERIENCE\n• Initech Technologies\n- too short")
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Details)
	})
}

func TestExperienceDetailsCap(t *testing.T) {
	engine := NewEngine()

	// 6条职责只保留前5条
	text := "EXPERIENCE\n" +
		"• Initech Technologies\n" +
		"Platform Engineer\n" +
		"- Designed ingestion pipelines for audit logs\n" +
		"- Automated nightly reconciliation reports\n" +
		"- Migrated billing jobs to managed queues\n" +
		"- Reduced build times across the monorepo\n" +
		"- Mentored two junior platform engineers\n" +
		"- Documented the deployment runbooks end to end"

	entries := engine.Experience(text)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Details, 5)
	assert.Equal(t, "Designed ingestion pipelines for audit logs", entries[0].Details[0])
	assert.Equal(t, "Mentored two junior platform engineers", entries[0].Details[4])
}

func TestExperienceNarrativeFormat(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\n" +
		"Hands-on experience in building AI solutions for enterprise clients\n" +
		"Zeta Technologies Summer Internship\n" +
		"Machine Learning Intern\n" +
		"• Developed recommendation models for retail clients\n" +
		"improving offline metrics significantly\n" +
		"– Deployed pipelines to production serving millions"

	entries := engine.Experience(text)
	require.Len(t, entries, 2)

	intern := entries[0]
	assert.Equal(t, "Zeta", intern.Company)
	assert.Equal(t, "Summer Internship", intern.Duration)
	assert.Equal(t, "Machine Learning Intern", intern.Role)
	require.Len(t, intern.Details, 2)
	// 续行并入前一条明细
	assert.Equal(t, "Developed recommendation models for retail clients improving offline metrics significantly", intern.Details[0])
	assert.Equal(t, "Deployed pipelines to production serving millions", intern.Details[1])

	domain := entries[1]
	assert.Equal(t, "Professional Experience", domain.Company)
	assert.Equal(t, "Domain Expertise", domain.Role)
	require.Len(t, domain.Details, 1)
	assert.Contains(t, domain.Details[0], "AI solutions")
}

func TestExperienceNarrativeDefaults(t *testing.T) {
	engine := NewEngine()

	// 找不到含Intern的职位行时使用缺省职位
	text := "EXPERIENCE\nExperience in data engineering and analytics\nNova Tech Internship\n• Automated ingestion jobs across data sources"
	entries := engine.Experience(text)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Software Development Intern", entries[0].Role)
	assert.Equal(t, "Internship", entries[0].Duration)
}

func TestExperienceStructuredFormat(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\n" +
		"Google, Software Engineer | Jan 2020 - Dec 2022\n" +
		"• Led development of large scale systems\n" +
		"- Improved query latency across services\n" +
		"Acme Corp, Data Analyst Mar 2023 - Present\n" +
		"• Analyzed customer datasets for insights"

	entries := engine.Experience(text)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Google", first.Company)
	assert.Equal(t, "Software Engineer", first.Role)
	assert.Equal(t, "Jan 2020 - Dec 2022", first.Duration)
	assert.Equal(t, []string{
		"Led development of large scale systems",
		"Improved query latency across services",
	}, first.Details)

	second := entries[1]
	assert.Equal(t, "Acme Corp", second.Company)
	assert.Equal(t, "Data Analyst", second.Role)
	assert.Equal(t, "Mar 2023 - Present", second.Duration)
}

func TestExperienceStructuredNoDate(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\nWayne Systems, Security Engineer overseeing perimeter tooling upgrades\n• Hardened the build infrastructure rollout"
	entries := engine.Experience(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Wayne Systems", entries[0].Company)
	assert.Equal(t, "Unknown Duration", entries[0].Duration)
}

func TestExperienceDescriptiveFallback(t *testing.T) {
	engine := NewEngine()

	text := "EXPERIENCE\nBuilt dashboards for internal reporting\nMaintained legacy billing systems\nLed migration of storage clusters\nShipped four major releases yearly"
	entries := engine.Experience(text)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Professional Experience", entry.Company)
	assert.Equal(t, "Various Roles", entry.Role)
	assert.Equal(t, "Ongoing", entry.Duration)
	// 描述性兜底最多3条明细
	assert.Len(t, entry.Details, 3)
}

func TestExperienceAbsentSection(t *testing.T) {
	engine := NewEngine()

	entries := engine.Experience("SKILLS\nLanguages Python | SQL")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
