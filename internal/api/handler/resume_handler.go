package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"

	"ats-parser-go/internal/config"
	"ats-parser-go/internal/constants"
	"ats-parser-go/internal/logger"
	"ats-parser-go/internal/storage"
	"ats-parser-go/internal/storage/models"
)

// ErrSubmissionNotFound 查询的提交记录不存在
var ErrSubmissionNotFound = errors.New("简历提交记录不存在")

// 上传侧依赖的存储能力，按接口注入便于测试
type uploadStore interface {
	UploadResumeFileStreaming(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, string, error)
	DeleteResumeFile(ctx context.Context, objectKey string) error
}

type fileDedupe interface {
	CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error)
	RemoveRawFileMD5(ctx context.Context, md5Hex string) error
}

type submissionDB interface {
	CreateResumeSubmission(ctx context.Context, submission *models.ResumeSubmission) error
	GetResumeSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error)
	GetParsedResume(ctx context.Context, submissionUUID string) (*models.ParsedResume, error)
}

type publisher interface {
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error
}

type recordCache interface {
	GetCachedParsedResume(ctx context.Context, submissionUUID string) ([]byte, error)
	CacheParsedResume(ctx context.Context, submissionUUID string, data []byte) error
}

// ResumeHandler 简历上传和查询的HTTP业务逻辑
type ResumeHandler struct {
	cfg     *config.Config
	objects uploadStore
	dedupe  fileDedupe
	db      submissionDB
	queue   publisher
	cache   recordCache
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(cfg *config.Config, st *storage.Storage) *ResumeHandler {
	return &ResumeHandler{
		cfg:     cfg,
		objects: st.MinIO,
		dedupe:  st.Redis,
		db:      st.MySQL,
		queue:   st.RabbitMQ,
		cache:   st.Redis,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传。
// 流程：文件MD5去重 -> 上传MinIO -> 入库 -> 发布上传事件。
// 中途失败时回滚去重集合，已上传的对象也一并清理。
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, filename string, sourceChannel string) (*ResumeUploadResponse, error) {
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("上传文件为空")
	}

	sum := md5.Sum(fileBytes)
	fileMD5Hex := hex.EncodeToString(sum[:])

	// 原子地检查并登记文件MD5，重复文件直接短路
	exists, err := h.dedupe.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询Redis文件MD5集合失败")
		return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
	}
	if exists {
		logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			Status: constants.StatusDuplicateFile,
		}, nil
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	objectKey, _, err := h.objects.UploadResumeFileStreaming(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	now := time.Now()
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    constants.StatusPendingParsing,
	}
	if err := h.db.CreateResumeSubmission(ctx, submission); err != nil {
		h.rollbackUpload(ctx, fileMD5Hex, objectKey)
		return nil, fmt.Errorf("写入简历提交记录失败: %w", err)
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5Hex,
	}
	if err := h.queue.PublishJSON(ctx, h.cfg.RabbitMQ.ResumeEventsExchange, h.cfg.RabbitMQ.UploadedRoutingKey, message, true); err != nil {
		h.rollbackUpload(ctx, fileMD5Hex, objectKey)
		return nil, fmt.Errorf("发布上传事件失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Str("object_key", objectKey).
		Msg("简历上传完成，已进入解析队列")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PROCESSING",
	}, nil
}

// rollbackFileMD5 清理去重集合里本次登记的MD5
func (h *ResumeHandler) rollbackFileMD5(ctx context.Context, fileMD5Hex string) {
	if err := h.dedupe.RemoveRawFileMD5(ctx, fileMD5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("回滚文件MD5失败")
	}
}

// rollbackUpload 清理去重集合和已上传的MinIO对象
func (h *ResumeHandler) rollbackUpload(ctx context.Context, fileMD5Hex, objectKey string) {
	h.rollbackFileMD5(ctx, fileMD5Hex)
	if err := h.objects.DeleteResumeFile(ctx, objectKey); err != nil {
		logger.Warn().Err(err).Str("object_key", objectKey).Msg("回滚MinIO对象失败")
	}
}

// ResumeQueryResponse 简历查询响应
type ResumeQueryResponse struct {
	SubmissionUUID   string          `json:"submission_uuid"`
	ProcessingStatus string          `json:"processing_status"`
	ParserVersion    string          `json:"parser_version,omitempty"`
	ProcessingError  string          `json:"processing_error,omitempty"`
	Source           string          `json:"source,omitempty"`
	Resume           json.RawMessage `json:"resume,omitempty"`
}

// HandleResumeQuery 查询一条提交记录的处理状态，解析完成时附带结构化结果。
// 已解析的记录不再变化，响应在Redis里缓存一段时间，缓存故障只降级不报错。
func (h *ResumeHandler) HandleResumeQuery(ctx context.Context, submissionUUID string) (*ResumeQueryResponse, error) {
	if cached, err := h.cache.GetCachedParsedResume(ctx, submissionUUID); err == nil {
		var resp ResumeQueryResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
		logger.Warn().Str("submission_uuid", submissionUUID).Msg("解析结果缓存内容损坏，回源查询")
	}

	submission, err := h.db.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	resp := &ResumeQueryResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		ProcessingStatus: submission.ProcessingStatus,
		ParserVersion:    submission.ParserVersion,
		ProcessingError:  submission.ProcessingError,
	}

	if submission.ProcessingStatus == constants.StatusParsed {
		parsed, err := h.db.GetParsedResume(ctx, submissionUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 状态与结果表不同步，只返回状态
				return resp, nil
			}
			return nil, err
		}
		resp.Source = parsed.Source
		resp.Resume = json.RawMessage(parsed.ResumeJSON)

		// 只缓存终态响应
		if data, err := json.Marshal(resp); err == nil {
			if err := h.cache.CacheParsedResume(ctx, submissionUUID, data); err != nil {
				logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("写入解析结果缓存失败")
			}
		}
	}

	return resp, nil
}
