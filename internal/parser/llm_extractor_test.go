package parser

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-parser-go/internal/types"
)

// mockChatModel 按调用顺序返回预置的错误或响应
type mockChatModel struct {
	responses []string
	errs      []error
	calls     int
}

func (m *mockChatModel) Generate(ctx context.Context, messages []*einoschema.Message, opts ...model.Option) (*einoschema.Message, error) {
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	response := ""
	if idx < len(m.responses) {
		response = m.responses[idx]
	} else if len(m.responses) > 0 {
		response = m.responses[len(m.responses)-1]
	}
	return &einoschema.Message{Role: "assistant", Content: response}, nil
}

func (m *mockChatModel) Stream(ctx context.Context, messages []*einoschema.Message, opts ...model.Option) (*einoschema.StreamReader[*einoschema.Message], error) {
	return nil, fmt.Errorf("stream not implemented in mock")
}

func (m *mockChatModel) WithTools(tools []*einoschema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

const validLLMResponse = `{
  "name": "John Doe",
  "email": "john@example.com",
  "phone": "9876543210",
  "github": "https://github.com/johndoe",
  "skills": ["Python", "Go"],
  "experience": [{"company": "Acme", "role": "Engineer", "duration": "2020 - 2022", "details": ["Built things"]}],
  "education": ["B.Tech in Computer Science, Example University"]
}`

func TestLLMExtract(t *testing.T) {
	mock := &mockChatModel{responses: []string{validLLMResponse}}
	extractor := NewLLMResumeExtractor(mock, nil)

	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)

	assert.Equal(t, types.SourceAI, record.Source)
	assert.Equal(t, "John Doe", record.Name)
	assert.Equal(t, []string{"Python", "Go"}, record.Skills)
	require.Len(t, record.Experience, 1)
	assert.Equal(t, "Acme", record.Experience[0].Company)

	// 响应里缺失的字段要补上缺省值
	assert.Equal(t, types.NotFound, record.LinkedIn)
	assert.NotNil(t, record.Projects)
	assert.Empty(t, record.Projects)
}

func TestLLMExtractFencedResponse(t *testing.T) {
	mock := &mockChatModel{responses: []string{"Here is the result:\n```json\n" + validLLMResponse + "\n```"}}
	extractor := NewLLMResumeExtractor(mock, nil)

	record, err := extractor.Extract(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", record.Name)
}

func TestLLMExtractInvalidResponse(t *testing.T) {
	mock := &mockChatModel{responses: []string{"I cannot parse this resume."}}
	extractor := NewLLMResumeExtractor(mock, nil)

	_, err := extractor.Extract(context.Background(), "resume text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON")
}

func TestLLMExtractEmptyText(t *testing.T) {
	extractor := NewLLMResumeExtractor(&mockChatModel{}, nil)
	_, err := extractor.Extract(context.Background(), "   \n ")
	require.Error(t, err)
}

func TestLLMExtractRetry(t *testing.T) {
	t.Run("可重试错误后成功", func(t *testing.T) {
		mock := &mockChatModel{
			errs:      []error{fmt.Errorf("request timeout")},
			responses: []string{"", validLLMResponse},
		}
		extractor := NewLLMResumeExtractor(mock, nil, WithRetryDelay(time.Millisecond))

		record, err := extractor.Extract(context.Background(), "resume text")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", record.Name)
		assert.Equal(t, 2, mock.calls)
	})

	t.Run("不可重试错误立即失败", func(t *testing.T) {
		mock := &mockChatModel{
			errs: []error{fmt.Errorf("invalid api key")},
		}
		extractor := NewLLMResumeExtractor(mock, nil, WithRetryDelay(time.Millisecond))

		_, err := extractor.Extract(context.Background(), "resume text")
		require.Error(t, err)
		assert.Equal(t, 1, mock.calls)
	})

	t.Run("重试次数耗尽后失败", func(t *testing.T) {
		mock := &mockChatModel{
			errs: []error{
				fmt.Errorf("connection refused"),
				fmt.Errorf("connection refused"),
				fmt.Errorf("connection refused"),
			},
		}
		extractor := NewLLMResumeExtractor(mock, nil, WithMaxRetries(2), WithRetryDelay(time.Millisecond))

		_, err := extractor.Extract(context.Background(), "resume text")
		require.Error(t, err)
		assert.Equal(t, 3, mock.calls)
	})
}

func TestExtractJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"纯JSON原样返回", `{"name": "x"}`, `{"name": "x"}`},
		{"json围栏内的对象", "```json\n{\"name\": \"x\"}\n```", `{"name": "x"}`},
		{"无语言标记的围栏", "```\n{\"name\": \"x\"}\n```", `{"name": "x"}`},
		{"解释文字中的对象", `Sure! {"a": {"b": 1}} hope that helps`, `{"a": {"b": 1}}`},
		{"没有对象返回空串", "no json here", ""},
		{"未闭合的对象返回空串", `{"a": 1`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractJSON(tc.input))
		})
	}
}
