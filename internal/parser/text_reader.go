package parser

import (
	"context"
	"fmt"
	"os"
	"time"
)

// PlainTextExtractor 纯文本输入的直通提取器。
// 与 EinoPDFTextExtractor 实现同一个接口，让CLI可以直接吃 .txt 文件。
type PlainTextExtractor struct{}

// NewPlainTextExtractor 创建纯文本提取器
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// ExtractFromFile 读取整个文本文件内容
func (p *PlainTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read text file %s: %w", filePath, err)
	}

	metadata := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
		"text_length":      len(data),
	}
	return string(data), metadata, nil
}
