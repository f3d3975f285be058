package heuristic

import (
	"strings"

	"ats-parser-go/internal/types"
)

// Engine 启发式兜底解析引擎。
// 输入是上游已归一化的不可变文本快照（外加可选的PDF内嵌链接列表），
// 各提取器互相独立、无共享可变状态；任何一项没有命中都降级为缺省值而不是报错。
type Engine struct {
	tables *Tables
}

// Option 引擎配置选项
type Option func(*Engine)

// WithTables 替换缺省匹配表
func WithTables(tables *Tables) Option {
	return func(e *Engine) {
		if tables != nil {
			e.tables = tables
		}
	}
}

// NewEngine 创建引擎实例
func NewEngine(options ...Option) *Engine {
	e := &Engine{tables: DefaultTables()}
	for _, option := range options {
		option(e)
	}
	return e
}

// Extract 在同一文本快照上运行全部提取器并合并为一条完整记录。
// embeddedLinks 是文档内嵌超链接（没有则传nil）。输出各字段始终存在。
func (e *Engine) Extract(text string, embeddedLinks []string) *types.ResumeRecord {
	record := types.NewResumeRecord()
	record.Source = types.SourceFallback

	contact := e.ContactInfo(text)
	record.Name = contact.Name
	record.Email = contact.Email
	record.Phone = contact.Phone

	record.Skills = e.Skills(text)
	record.Experience = e.Experience(text)
	record.Projects = e.Projects(text)
	record.Education = e.Education(text)

	e.InjectLinks(record, text, embeddedLinks)

	return record
}

// InjectLinks 把链接侧通道的结果并入已有记录。
// GitHub个人主页命中时无条件覆盖，LinkedIn只在记录缺失时回填。
// LLM路径的结果也要过这一步，内嵌链接比模型输出更可靠。
func (e *Engine) InjectLinks(record *types.ResumeRecord, text string, embeddedLinks []string) {
	links := e.Links(text, embeddedLinks)
	if links.GitHubProfile != "" {
		record.GitHub = links.GitHubProfile
	}
	if links.LinkedIn != "" && (record.LinkedIn == "" || record.LinkedIn == types.NotFound) {
		record.LinkedIn = links.LinkedIn
	}
}

// splitLines 返回trim后的非空行
func splitLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
