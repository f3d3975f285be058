package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"ats-parser-go/internal/types"
)

// LLMResumeExtractor 使用LLM从简历文本提取结构化记录。
// 这是主解析路径；失败时由上层切到启发式兜底引擎。
type LLMResumeExtractor struct {
	llmModel model.ToolCallingChatModel

	promptTemplate string
	maxRetries     int
	retryDelay     time.Duration

	logger *log.Logger
}

// LLMExtractorOption LLM提取器的配置选项
type LLMExtractorOption func(*LLMResumeExtractor)

// WithPromptTemplate 覆盖内置的提取提示词
func WithPromptTemplate(template string) LLMExtractorOption {
	return func(e *LLMResumeExtractor) {
		e.promptTemplate = template
	}
}

// WithMaxRetries 设置可重试错误的最大重试次数
func WithMaxRetries(n int) LLMExtractorOption {
	return func(e *LLMResumeExtractor) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithRetryDelay 设置首次重试前的等待时间（之后逐次翻倍）
func WithRetryDelay(d time.Duration) LLMExtractorOption {
	return func(e *LLMResumeExtractor) {
		if d > 0 {
			e.retryDelay = d
		}
	}
}

// NewLLMResumeExtractor 创建LLM简历提取器
func NewLLMResumeExtractor(llmModel model.ToolCallingChatModel, logger *log.Logger, options ...LLMExtractorOption) *LLMResumeExtractor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	extractor := &LLMResumeExtractor{
		llmModel:       llmModel,
		promptTemplate: defaultExtractionPrompt,
		maxRetries:     2,
		retryDelay:     2 * time.Second,
		logger:         logger,
	}
	for _, opt := range options {
		opt(extractor)
	}
	return extractor
}

// defaultExtractionPrompt 要求模型严格输出与 types.ResumeRecord 对齐的JSON
const defaultExtractionPrompt = `You are an expert resume parser. Extract structured information from the resume text you receive and output a single JSON object, nothing else.

JSON output format:
{
  "name": "string",
  "email": "string",
  "phone": "string",
  "github": "string",
  "linkedin": "string",
  "skills": ["string"],
  "experience": [
    { "company": "string", "role": "string", "duration": "string", "details": ["string"] }
  ],
  "projects": [
    { "title": "string", "duration": "string", "organization": "string", "details": ["string"] }
  ],
  "education": ["string"]
}

Rules:
- For any scalar field that cannot be found in the resume, use exactly "Not found". Never invent information.
- "github" must be the candidate's profile URL (https://github.com/username), not a repository link.
- "skills" lists at most 15 technical skills, in the order they appear.
- Each experience entry carries at most 5 detail bullets; each project entry at most 4.
- "education" lists the raw education lines verbatim, in document order.
- Output raw JSON only. Do not wrap it in Markdown code fences and do not add commentary.`

// Extract 调用LLM解析简历文本并返回补全缺省值后的记录
func (e *LLMResumeExtractor) Extract(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("简历文本为空")
	}

	response, err := e.callLLM(ctx, e.promptTemplate, text)
	if err != nil {
		return nil, fmt.Errorf("LLM调用失败: %w", err)
	}

	record, err := e.parseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("解析LLM响应失败: %w", err)
	}
	return record, nil
}

// callLLM 带重试地调用LLM
func (e *LLMResumeExtractor) callLLM(ctx context.Context, systemContent, userContent string) (string, error) {
	messages := []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	retryDelay := e.retryDelay
	var response *einoschema.Message
	var err error

	for retry := 0; retry <= e.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
				e.logger.Printf("重试LLM调用 (第%d次)", retry)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		response, err = e.llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}
		if !isRetryableError(err) || retry >= e.maxRetries {
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	return response.Content, nil
}

// parseResponse 清理响应、反序列化并补全缺省值
func (e *LLMResumeExtractor) parseResponse(response string) (*types.ResumeRecord, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		e.logger.Printf("无法从LLM响应中提取有效的JSON。原始响应: %.200s", response)
		return nil, fmt.Errorf("无法从LLM响应中提取有效的JSON")
	}

	record := &types.ResumeRecord{}
	if err := json.Unmarshal([]byte(jsonStr), record); err != nil {
		return nil, fmt.Errorf("解析JSON失败: %w", err)
	}

	record.FillDefaults()
	record.Source = types.SourceAI
	return record, nil
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// extractJSON 从可能带Markdown围栏或解释文字的响应里抠出JSON对象
func extractJSON(text string) string {
	if matches := fencedJSONRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// 回退：按花括号配对找第一个完整对象
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
