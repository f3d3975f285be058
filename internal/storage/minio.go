package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ats-parser-go/internal/config"
)

// ObjectStorage 对象存储接口
type ObjectStorage interface {
	// UploadResumeFileStreaming 流式上传简历文件并同时计算MD5
	UploadResumeFileStreaming(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, string, error)

	// GetResumeFile 下载原始简历文件
	GetResumeFile(ctx context.Context, objectKey string) ([]byte, error)

	// GetPresignedURL 获取预签名下载URL
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// DeleteResumeFile 删除原始简历文件
	DeleteResumeFile(ctx context.Context, objectKey string) error

	// UploadParsedText 上传解析出的简历文本
	UploadParsedText(ctx context.Context, submissionUUID, text string) (string, error)

	// GetParsedText 下载解析出的简历文本
	GetParsedText(ctx context.Context, objectKey string) (string, error)
}

// 确保MinIO实现了ObjectStorage接口
var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供对象存储功能
type MinIO struct {
	client           *minio.Client
	cfg              *config.MinIOConfig
	originalBucket   string
	parsedTextBucket string
	logger           *log.Logger
}

// NewMinIO 创建MinIO客户端并确保原始简历存储桶存在
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	originalBucket := cfg.OriginalsBucket
	if originalBucket == "" {
		originalBucket = "resume-originals"
	}
	parsedTextBucket := cfg.ParsedTextBucket
	if parsedTextBucket == "" {
		parsedTextBucket = "resume-parsed-text"
	}

	m := &MinIO{
		client:           client,
		cfg:              cfg,
		originalBucket:   originalBucket,
		parsedTextBucket: parsedTextBucket,
		logger:           logger,
	}

	for _, bucket := range []string{originalBucket, parsedTextBucket} {
		if err := m.ensureBucketExists(bucket, cfg.Location); err != nil {
			return nil, fmt.Errorf("确保存储桶 %s 存在失败: %w", bucket, err)
		}
	}

	logger.Printf("[MinIO] Client initialized for endpoint %s, buckets %s/%s", cfg.Endpoint, originalBucket, parsedTextBucket)
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	exists, err := m.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		err = m.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
		m.logger.Printf("[MinIO] Bucket %s created", bucketName)
	}
	return nil
}

// resumeObjectKey 构建原始简历的对象键，例如 resume/{uuid}/original.pdf
func resumeObjectKey(submissionUUID, fileExt string) string {
	return fmt.Sprintf("resume/%s/original%s", submissionUUID, fileExt)
}

// UploadResumeFileStreaming 流式上传简历文件并同时计算MD5。
// 返回: objectKey, md5Hex, error
func (m *MinIO) UploadResumeFileStreaming(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, string, error) {
	objectName := resumeObjectKey(submissionUUID, fileExt)
	contentType := getContentType(fileExt)

	// TeeReader让上传流同时喂给MD5哈希计算器
	md5Hash := md5.New()
	teeReader := io.TeeReader(reader, md5Hash)

	info, err := m.client.PutObject(ctx, m.originalBucket, objectName, teeReader,
		fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("流式上传文件到MinIO失败: %w", err)
	}

	md5Hex := hex.EncodeToString(md5Hash.Sum(nil))
	m.logger.Printf("[MinIO] Uploaded %s, ETag: %s, Size: %d, MD5: %s", objectName, info.ETag, info.Size, md5Hex)

	return objectName, md5Hex, nil
}

// GetResumeFile 从MinIO获取原始简历文件
func (m *MinIO) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.originalBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", m.originalBucket, objectKey, err)
	}
	defer obj.Close()

	// Stat能在读取前暴露对象不存在或权限问题
	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 状态失败: %w", m.originalBucket, objectKey, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 数据失败: %w", m.originalBucket, objectKey, err)
	}
	return data, nil
}

// GetPresignedURL 获取预签名下载URL
func (m *MinIO) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presignedURL, err := m.client.PresignedGetObject(ctx, m.originalBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成MinIO预签名URL失败: %w", err)
	}
	return presignedURL.String(), nil
}

// DeleteResumeFile 删除原始简历文件，上传事务回滚时使用
func (m *MinIO) DeleteResumeFile(ctx context.Context, objectKey string) error {
	err := m.client.RemoveObject(ctx, m.originalBucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("删除对象 %s 失败: %w", objectKey, err)
	}
	return nil
}

// parsedTextObjectKey 构建解析文本的对象键
func parsedTextObjectKey(submissionUUID string) string {
	return fmt.Sprintf("resume/%s/parsed.txt", submissionUUID)
}

// UploadParsedText 把解析出的简历文本存到解析文本桶，返回对象键
func (m *MinIO) UploadParsedText(ctx context.Context, submissionUUID, text string) (string, error) {
	objectName := parsedTextObjectKey(submissionUUID)

	_, err := m.client.PutObject(ctx, m.parsedTextBucket, objectName,
		strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("上传解析文本到MinIO失败: %w", err)
	}
	return objectName, nil
}

// GetParsedText 从解析文本桶读取简历文本
func (m *MinIO) GetParsedText(ctx context.Context, objectKey string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.parsedTextBucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("获取解析文本 %s/%s 失败: %w", m.parsedTextBucket, objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", fmt.Errorf("读取解析文本 %s/%s 失败: %w", m.parsedTextBucket, objectKey, err)
	}
	return string(data), nil
}

// getContentType 按扩展名返回Content-Type
func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
