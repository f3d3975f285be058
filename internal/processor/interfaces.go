package processor

import (
	"context"

	"ats-parser-go/internal/storage/models"
	"ats-parser-go/internal/types"
)

// TextExtractor 从原始文件字节提取纯文本
type TextExtractor interface {
	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error)
}

// ResumeExtractor 从简历文本提取结构化记录
type ResumeExtractor interface {
	Extract(ctx context.Context, text string) (*types.ResumeRecord, error)
}

// objectStore 消费侧用到的对象存储能力
type objectStore interface {
	GetResumeFile(ctx context.Context, objectKey string) ([]byte, error)
	UploadParsedText(ctx context.Context, submissionUUID, text string) (string, error)
}

// dedupeStore 消费侧用到的去重能力
type dedupeStore interface {
	CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error)
}

// submissionStore 消费侧用到的数据库能力
type submissionStore interface {
	UpdateResumeProcessingStatus(ctx context.Context, submissionUUID string, status string) error
	UpdateResumeRawTextMD5(ctx context.Context, submissionUUID string, rawTextMD5 string) error
	MarkResumeParseFailed(ctx context.Context, submissionUUID string, reason string) error
	SaveParsedResume(ctx context.Context, parsed *models.ParsedResume, parserVersion string) error
}
