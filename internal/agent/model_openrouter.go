package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// OpenRouter的OpenAI兼容chat completions端点
	openRouterAPIURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel = "openai/gpt-4"

	// 结构化提取要的是稳定输出，温度压低
	defaultTemperature = 0.1
	defaultMaxTokens   = 2000
)

// OpenRouterChatModel 通过OpenRouter调用OpenAI兼容模型，
// 实现 model.ToolCallingChatModel 接口供提取器使用。
type OpenRouterChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// OpenRouterOption OpenRouter模型的配置选项
type OpenRouterOption func(*OpenRouterChatModel)

// WithTemperature 设置采样温度
func WithTemperature(t float64) OpenRouterOption {
	return func(m *OpenRouterChatModel) {
		m.temperature = t
	}
}

// WithMaxTokens 设置单次响应的最大token数
func WithMaxTokens(n int) OpenRouterOption {
	return func(m *OpenRouterChatModel) {
		if n > 0 {
			m.maxTokens = n
		}
	}
}

// WithHTTPClient 替换底层HTTP客户端（测试时注入）
func WithHTTPClient(client *http.Client) OpenRouterOption {
	return func(m *OpenRouterChatModel) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// NewOpenRouterChatModel 创建OpenRouter模型客户端。
// modelName和apiURL为空时使用缺省值。
func NewOpenRouterChatModel(apiKey, modelName, apiURL string, options ...OpenRouterOption) (*OpenRouterChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultOpenRouterModel
	}
	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = openRouterAPIURL
	}

	m := &OpenRouterChatModel{
		apiKey:      apiKey,
		modelName:   mn,
		apiURL:      url,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		httpClient:  &http.Client{},
	}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

// --- OpenAI兼容的请求/响应结构 ---

type openAIChatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type openAIChatChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAICompletionResponse struct {
	Id      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// Generate 实现 model.BaseChatModel 接口
func (m *OpenRouterChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := openAIChatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp openAICompletionResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}
	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}
	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}
	return resultMessage, nil
}

// Stream 实现 model.BaseChatModel 接口。提取路径不走流式，保持未实现。
func (m *OpenRouterChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenRouterChatModel 的 Stream 方法未实现")
}

// WithTools 实现 model.ToolCallingChatModel 接口。
// 提取流程不绑定工具，直接返回自身。
func (m *OpenRouterChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

var _ model.ToolCallingChatModel = (*OpenRouterChatModel)(nil)
