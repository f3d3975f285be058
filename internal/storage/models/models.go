package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历提交/快照表
// 每次上传产生一条记录，解析流水线通过 processing_status 推进状态。
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string    `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ProcessingError     string    `gorm:"type:text"`
	ParserVersion       string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// ParsedResume 解析结果表
// resume_json 保存完整的结构化记录，标量列冗余出来便于按联系方式检索。
type ParsedResume struct {
	SubmissionUUID string         `gorm:"type:char(36);primaryKey"`
	CandidateName  string         `gorm:"type:varchar(255);index:idx_pr_candidate_name"`
	Email          string         `gorm:"type:varchar(255);index:idx_pr_email"`
	Phone          string         `gorm:"type:varchar(50)"`
	GitHub         string         `gorm:"column:github;type:varchar(512)"`
	LinkedIn       string         `gorm:"column:linkedin;type:varchar(512)"`
	ResumeJSON     datatypes.JSON `gorm:"type:json"`
	Source         string         `gorm:"type:varchar(16)"`
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ParsedResume) TableName() string {
	return "parsed_resumes"
}

// ToJSON 将任意结构序列化为 datatypes.JSON
func ToJSON(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("序列化为JSON失败: %w", err)
	}
	return datatypes.JSON(data), nil
}
