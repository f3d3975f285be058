package storage

import "time"

// ResumeUploadMessage 简历上传事件，HTTP入库后发布到消息队列，消费者据此拉取并解析
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`          // 提交UUID，主键
	SubmissionTimestamp time.Time `json:"submission_timestamp"`     // 提交时间戳
	SourceChannel       string    `json:"source_channel,omitempty"` // 来源渠道
	OriginalFilename    string    `json:"original_filename"`        // 原始文件名
	OriginalFilePathOSS string    `json:"original_file_path_oss"`   // MinIO中的对象路径
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`   // 原始文件的MD5，失败回滚时用来清理去重集合
}
