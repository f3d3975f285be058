package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"ats-parser-go/internal/agent"
	"ats-parser-go/internal/heuristic"
	"ats-parser-go/internal/parser"
	"ats-parser-go/internal/types"
)

// resumeparser 离线解析单个简历文件，结果以JSON输出到stdout。
// 设置了 OPENROUTER_API_KEY 时走LLM主路径，失败或未设置时用启发式引擎。
func main() {
	var (
		noLLM      bool
		tablesPath string
		timeoutStr string
	)
	pflag.BoolVar(&noLLM, "no-llm", false, "跳过LLM，只用启发式引擎")
	pflag.StringVar(&tablesPath, "tables", "", "自定义启发式匹配表的YAML路径")
	pflag.StringVar(&timeoutStr, "timeout", "60s", "LLM解析超时")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "用法: %s [flags] <resume.pdf|resume.txt>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(1)
	}
	filePath := pflag.Arg(0)

	record, err := run(filePath, noLLM, tablesPath, timeoutStr)
	if err != nil {
		fail(err)
	}

	output, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fail(err)
	}
	fmt.Println(string(output))
}

func run(filePath string, noLLM bool, tablesPath, timeoutStr string) (*types.ResumeRecord, error) {
	ctx := context.Background()

	text, embeddedLinks, err := extractText(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("文件没有可提取的文本: %s", filePath)
	}

	engineOpts := []heuristic.Option{}
	if tablesPath != "" {
		tables, err := heuristic.LoadTables(tablesPath)
		if err != nil {
			return nil, fmt.Errorf("加载启发式匹配表失败: %w", err)
		}
		engineOpts = append(engineOpts, heuristic.WithTables(tables))
	}
	engine := heuristic.NewEngine(engineOpts...)

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if !noLLM && apiKey != "" {
		record, err := extractWithLLM(ctx, apiKey, text, timeoutStr)
		if err == nil {
			engine.InjectLinks(record, text, embeddedLinks)
			return record, nil
		}
		fmt.Fprintf(os.Stderr, "LLM解析失败，切换到启发式引擎: %v\n", err)
	}

	return engine.Extract(text, embeddedLinks), nil
}

// extractText 按扩展名选择提取器，PDF顺带收集注解里的内嵌超链接
func extractText(ctx context.Context, filePath string) (string, []string, error) {
	if strings.ToLower(filepath.Ext(filePath)) == ".txt" {
		text, _, err := parser.NewPlainTextExtractor().ExtractFromFile(ctx, filePath)
		return text, nil, err
	}

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("创建PDF提取器失败: %w", err)
	}
	text, _, err := pdfExtractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		return "", nil, fmt.Errorf("提取PDF文本失败: %w", err)
	}

	embeddedLinks, err := parser.ExtractEmbeddedLinks(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "提取PDF内嵌链接失败: %v\n", err)
		embeddedLinks = nil
	}
	return text, embeddedLinks, nil
}

func extractWithLLM(ctx context.Context, apiKey, text, timeoutStr string) (*types.ResumeRecord, error) {
	modelName := os.Getenv("OPENROUTER_MODEL")
	if modelName == "" {
		modelName = "openai/gpt-4"
	}
	apiURL := os.Getenv("OPENROUTER_API_URL")
	if apiURL == "" {
		apiURL = "https://openrouter.ai/api/v1/chat/completions"
	}

	llmModel, err := agent.NewOpenRouterChatModel(apiKey, modelName, apiURL,
		agent.WithTemperature(0.1),
		agent.WithMaxTokens(2000),
	)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = 60 * time.Second
	}
	llmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	extractor := parser.NewLLMResumeExtractor(llmModel, nil)
	return extractor.Extract(llmCtx, text)
}

// fail 把错误以JSON形式打到stdout，调用方按退出码判断成败
func fail(err error) {
	output, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Println(string(output))
	os.Exit(1)
}
