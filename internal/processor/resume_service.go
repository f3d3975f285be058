package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ats-parser-go/internal/agent"
	"ats-parser-go/internal/config"
	"ats-parser-go/internal/constants"
	"ats-parser-go/internal/heuristic"
	"ats-parser-go/internal/parser"
	"ats-parser-go/internal/storage"
	"ats-parser-go/internal/storage/models"
	"ats-parser-go/internal/tracing"
	"ats-parser-go/internal/types"
)

var tracer = otel.Tracer("ats-parser-go/processor")

// ResumeService 简历解析服务。
// 消费上传事件，完成"下载-提文本-去重-结构化提取-落库"的完整链路。
type ResumeService interface {
	ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error
}

// resumeServiceImpl 是ResumeService的实现
type resumeServiceImpl struct {
	cfg *config.Config

	objects objectStore
	dedupe  dedupeStore
	db      submissionStore

	pdfExtractor TextExtractor
	llmExtractor ResumeExtractor // 为nil时直接走启发式引擎
	engine       *heuristic.Engine

	extractionTimeout time.Duration
	logger            *zerolog.Logger
}

// NewResumeService 创建简历解析服务，按配置装配LLM主路径和启发式兜底引擎
func NewResumeService(cfg *config.Config, st *storage.Storage, log *zerolog.Logger) (ResumeService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if st == nil || st.MinIO == nil || st.MySQL == nil || st.Redis == nil {
		return nil, fmt.Errorf("存储组件未全部初始化")
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	pdfExtractor, err := parser.NewEinoPDFTextExtractor(context.Background())
	if err != nil {
		return nil, fmt.Errorf("创建PDF文本提取器失败: %w", err)
	}

	// 启发式引擎：自定义匹配表可选，缺省使用内置表
	engineOpts := []heuristic.Option{}
	if cfg.Heuristic.TablesPath != "" {
		tables, err := heuristic.LoadTables(cfg.Heuristic.TablesPath)
		if err != nil {
			return nil, fmt.Errorf("加载启发式匹配表失败: %w", err)
		}
		engineOpts = append(engineOpts, heuristic.WithTables(tables))
	}
	engine := heuristic.NewEngine(engineOpts...)

	// LLM主路径：没有API key或显式禁用时跳过
	var llmExtractor ResumeExtractor
	if !cfg.LLMParser.Disabled && cfg.OpenRouter.APIKey != "" {
		llmModel, err := agent.NewOpenRouterChatModel(
			cfg.OpenRouter.APIKey,
			cfg.OpenRouter.Model,
			cfg.OpenRouter.APIURL,
			agent.WithTemperature(cfg.LLMParser.Temperature),
			agent.WithMaxTokens(cfg.LLMParser.MaxTokens),
		)
		if err != nil {
			return nil, fmt.Errorf("创建OpenRouter模型失败: %w", err)
		}

		llmOpts := []parser.LLMExtractorOption{
			parser.WithMaxRetries(cfg.LLMParser.MaxRetries),
			parser.WithRetryDelay(time.Duration(cfg.LLMParser.RetryWaitSeconds) * time.Second),
		}
		if cfg.LLMParser.PromptTemplate != "" {
			llmOpts = append(llmOpts, parser.WithPromptTemplate(cfg.LLMParser.PromptTemplate))
		}
		llmExtractor = parser.NewLLMResumeExtractor(llmModel, nil, llmOpts...)
	} else {
		log.Info().Msg("LLM解析路径未启用，所有简历将走启发式引擎")
	}

	return &resumeServiceImpl{
		cfg:               cfg,
		objects:           st.MinIO,
		dedupe:            st.Redis,
		db:                st.MySQL,
		pdfExtractor:      pdfExtractor,
		llmExtractor:      llmExtractor,
		engine:            engine,
		extractionTimeout: config.GetDuration(cfg.LLMParser.ExtractionTimeout, 60*time.Second),
		logger:            log,
	}, nil
}

// ProcessUploadedResume 处理一条上传事件。
// 返回错误表示瞬时故障，消息应重新入队；永久性失败（空文本、解析失败）
// 会把提交记录标记为失败状态并返回nil，让消息被确认。
func (rs *resumeServiceImpl) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	ctx, span := tracer.Start(ctx, "ProcessUploadedResume",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	span.SetAttributes(
		attribute.String("submission_uuid", message.SubmissionUUID),
		attribute.String("source_channel", message.SourceChannel),
	)

	log := rs.logger.With().Str("submission_uuid", message.SubmissionUUID).Logger()
	log.Debug().Msg("开始处理上传的简历")

	if err := rs.db.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusProcessing); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return NewUpdateError(message.SubmissionUUID, err.Error())
	}

	// 1. 下载原始文件
	fileBytes, err := rs.objects.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		log.Error().Err(err).Msg("从MinIO下载简历失败")
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return NewDownloadError(message.SubmissionUUID, err.Error())
	}
	span.SetAttributes(attribute.Int("file_size_bytes", len(fileBytes)))

	// 2. 提取文本和PDF内嵌链接
	text, embeddedLinks, err := rs.extractText(ctx, message, fileBytes)
	if err != nil {
		log.Error().Err(err).Msg("提取简历文本失败")
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		if markErr := rs.db.MarkResumeParseFailed(ctx, message.SubmissionUUID, err.Error()); markErr != nil {
			return NewUpdateError(message.SubmissionUUID, markErr.Error())
		}
		return nil
	}
	if strings.TrimSpace(text) == "" {
		log.Warn().Msg("简历文本为空，标记解析失败")
		span.SetAttributes(attribute.String("error.type", "empty_text"))
		if markErr := rs.db.MarkResumeParseFailed(ctx, message.SubmissionUUID, ErrEmptyResumeText.Error()); markErr != nil {
			return NewUpdateError(message.SubmissionUUID, markErr.Error())
		}
		return nil
	}
	span.SetAttributes(attribute.Int("text_length", len(text)))
	span.AddEvent("text_extraction_completed")

	// 3. 文本MD5去重
	textMD5Hex := calculateMD5([]byte(text))
	if err := rs.db.UpdateResumeRawTextMD5(ctx, message.SubmissionUUID, textMD5Hex); err != nil {
		log.Warn().Err(err).Msg("写入文本MD5失败，继续处理")
	}

	exists, err := rs.dedupe.CheckAndAddParsedTextMD5(ctx, textMD5Hex)
	if err != nil {
		// Redis故障时去重降级，不阻塞解析
		log.Warn().Err(err).Msg("Redis检查文本MD5失败，本次跳过去重")
	} else if exists {
		log.Info().Str("md5", textMD5Hex).Msg("检测到重复的文本内容，跳过解析")
		span.SetAttributes(attribute.Bool("duplicate_content", true))
		if err := rs.db.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusDuplicateContent); err != nil {
			return NewUpdateError(message.SubmissionUUID, err.Error())
		}
		return nil
	}

	// 4. 解析文本归档到MinIO，失败不阻塞主流程
	if _, err := rs.objects.UploadParsedText(ctx, message.SubmissionUUID, text); err != nil {
		log.Warn().Err(err).Msg("归档解析文本到MinIO失败，继续处理")
	}

	// 5. 结构化提取：LLM优先，失败时切启发式引擎
	record, parserVersion := rs.extractRecord(ctx, &log, text, embeddedLinks)
	span.SetAttributes(attribute.String("parse.source", string(record.Source)))

	// 6. 落库
	resumeJSON, err := models.ToJSON(record)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		if markErr := rs.db.MarkResumeParseFailed(ctx, message.SubmissionUUID, err.Error()); markErr != nil {
			return NewUpdateError(message.SubmissionUUID, markErr.Error())
		}
		return nil
	}

	parsed := &models.ParsedResume{
		SubmissionUUID: message.SubmissionUUID,
		CandidateName:  record.Name,
		Email:          record.Email,
		Phone:          record.Phone,
		GitHub:         record.GitHub,
		LinkedIn:       record.LinkedIn,
		ResumeJSON:     resumeJSON,
		Source:         string(record.Source),
	}
	if err := rs.db.SaveParsedResume(ctx, parsed, parserVersion); err != nil {
		log.Error().Err(err).Msg("保存解析结果失败")
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return NewPersistError(message.SubmissionUUID, err.Error())
	}

	span.SetStatus(codes.Ok, "")
	log.Info().
		Str("source", string(record.Source)).
		Str("candidate_email", tracing.MaskPII(record.Email)).
		Msg("简历解析完成")
	return nil
}

// extractText 按扩展名选择文本提取方式。
// PDF走eino解析器并顺带收集注解里的内嵌超链接，纯文本直接按字节解码。
func (rs *resumeServiceImpl) extractText(ctx context.Context, message storage.ResumeUploadMessage, fileBytes []byte) (string, []string, error) {
	ext := strings.ToLower(filepath.Ext(message.OriginalFilename))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(message.OriginalFilePathOSS))
	}

	if ext == ".txt" {
		return string(fileBytes), nil, nil
	}

	text, _, err := rs.pdfExtractor.ExtractTextFromBytes(ctx, fileBytes, message.OriginalFilePathOSS, nil)
	if err != nil {
		return "", nil, NewExtractError(message.SubmissionUUID, err.Error())
	}

	// 内嵌链接提取失败不致命，GitHub/LinkedIn还能从文本里找
	embeddedLinks, err := parser.ExtractEmbeddedLinksFromBytes(fileBytes)
	if err != nil {
		rs.logger.Warn().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("提取PDF内嵌链接失败")
		embeddedLinks = nil
	}

	return text, embeddedLinks, nil
}

// extractRecord 结构化提取。LLM路径失败时无条件切到启发式引擎，
// 启发式引擎是确定性的，不会失败。
func (rs *resumeServiceImpl) extractRecord(ctx context.Context, log *zerolog.Logger, text string, embeddedLinks []string) (*types.ResumeRecord, string) {
	if rs.llmExtractor != nil {
		llmCtx, cancel := context.WithTimeout(ctx, rs.extractionTimeout)
		record, err := rs.llmExtractor.Extract(llmCtx, text)
		cancel()
		if err == nil {
			rs.engine.InjectLinks(record, text, embeddedLinks)
			return record, constants.LLMParserVersion
		}
		log.Warn().Err(err).Msg("LLM解析失败，切换到启发式引擎")
	}

	record := rs.engine.Extract(text, embeddedLinks)
	return record, constants.HeuristicParserVersion
}

// calculateMD5 返回数据的MD5十六进制摘要
func calculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
