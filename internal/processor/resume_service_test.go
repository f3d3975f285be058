package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-parser-go/internal/constants"
	"ats-parser-go/internal/heuristic"
	"ats-parser-go/internal/storage"
	"ats-parser-go/internal/storage/models"
	"ats-parser-go/internal/types"
)

type fakeObjectStore struct {
	files      map[string][]byte
	err        error
	parsedText map[string]string
}

func (f *fakeObjectStore) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.files[objectKey]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", objectKey)
	}
	return data, nil
}

func (f *fakeObjectStore) UploadParsedText(ctx context.Context, submissionUUID, text string) (string, error) {
	if f.parsedText == nil {
		f.parsedText = make(map[string]string)
	}
	f.parsedText[submissionUUID] = text
	return fmt.Sprintf("resume/%s/parsed.txt", submissionUUID), nil
}

type fakeDedupeStore struct {
	exists bool
	err    error
	seen   []string
}

func (f *fakeDedupeStore) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error) {
	f.seen = append(f.seen, md5Hex)
	return f.exists, f.err
}

type fakeSubmissionStore struct {
	statuses     []string
	rawTextMD5   string
	failedReason string
	saved        *models.ParsedResume
	savedVersion string
	saveErr      error
}

func (f *fakeSubmissionStore) UpdateResumeProcessingStatus(ctx context.Context, submissionUUID, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeSubmissionStore) UpdateResumeRawTextMD5(ctx context.Context, submissionUUID, rawTextMD5 string) error {
	f.rawTextMD5 = rawTextMD5
	return nil
}

func (f *fakeSubmissionStore) MarkResumeParseFailed(ctx context.Context, submissionUUID, reason string) error {
	f.statuses = append(f.statuses, constants.StatusParseFailed)
	f.failedReason = reason
	return nil
}

func (f *fakeSubmissionStore) SaveParsedResume(ctx context.Context, parsed *models.ParsedResume, parserVersion string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = parsed
	f.savedVersion = parserVersion
	return nil
}

type fakeResumeExtractor struct {
	record *types.ResumeRecord
	err    error
}

func (f *fakeResumeExtractor) Extract(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

const serviceSampleResume = `John Doe
john.doe@example.com
+91 9876543210
github.com/johndoe

SKILLS
Python, Go, SQL

EDUCATION
B.Tech in Computer Science, Example University, 2019 - 2023
`

func newTestService(objects objectStore, dedupe dedupeStore, db submissionStore, llm ResumeExtractor) *resumeServiceImpl {
	nop := zerolog.Nop()
	return &resumeServiceImpl{
		objects:           objects,
		dedupe:            dedupe,
		db:                db,
		llmExtractor:      llm,
		engine:            heuristic.NewEngine(),
		extractionTimeout: time.Second,
		logger:            &nop,
	}
}

func uploadMessage() storage.ResumeUploadMessage {
	return storage.ResumeUploadMessage{
		SubmissionUUID:      "11111111-2222-3333-4444-555555555555",
		OriginalFilename:    "resume.txt",
		OriginalFilePathOSS: "resume/11111111/original.txt",
	}
}

func TestProcessUploadedResumeLLMPath(t *testing.T) {
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte(serviceSampleResume),
	}}
	dedupe := &fakeDedupeStore{}
	db := &fakeSubmissionStore{}

	llmRecord := types.NewResumeRecord()
	llmRecord.Name = "John Doe"
	llmRecord.Email = "john.doe@example.com"
	llmRecord.Source = types.SourceAI
	llm := &fakeResumeExtractor{record: llmRecord}

	service := newTestService(objects, dedupe, db, llm)

	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)

	require.NotNil(t, db.saved)
	assert.Equal(t, "John Doe", db.saved.CandidateName)
	assert.Equal(t, string(types.SourceAI), db.saved.Source)
	assert.Equal(t, constants.LLMParserVersion, db.savedVersion)
	assert.Equal(t, []string{constants.StatusProcessing}, db.statuses)
	assert.NotEmpty(t, db.rawTextMD5)
	assert.Len(t, dedupe.seen, 1)

	// 链接侧通道的结果覆盖到LLM记录上
	assert.Equal(t, "https://github.com/johndoe", db.saved.GitHub)
	// 解析文本归档到MinIO
	assert.Equal(t, serviceSampleResume, objects.parsedText["11111111-2222-3333-4444-555555555555"])
}

func TestProcessUploadedResumeFallback(t *testing.T) {
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte(serviceSampleResume),
	}}
	db := &fakeSubmissionStore{}
	llm := &fakeResumeExtractor{err: fmt.Errorf("LLM调用失败")}

	service := newTestService(objects, &fakeDedupeStore{}, db, llm)

	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)

	require.NotNil(t, db.saved)
	assert.Equal(t, string(types.SourceFallback), db.saved.Source)
	assert.Equal(t, constants.HeuristicParserVersion, db.savedVersion)
	assert.Equal(t, "John Doe", db.saved.CandidateName)
	assert.Equal(t, "john.doe@example.com", db.saved.Email)
}

func TestProcessUploadedResumeNoLLM(t *testing.T) {
	// llmExtractor为nil时直接走启发式引擎
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte(serviceSampleResume),
	}}
	db := &fakeSubmissionStore{}

	service := newTestService(objects, &fakeDedupeStore{}, db, nil)

	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)
	require.NotNil(t, db.saved)
	assert.Equal(t, constants.HeuristicParserVersion, db.savedVersion)
}

func TestProcessUploadedResumeDuplicateContent(t *testing.T) {
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte(serviceSampleResume),
	}}
	db := &fakeSubmissionStore{}

	service := newTestService(objects, &fakeDedupeStore{exists: true}, db, nil)

	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)

	assert.Nil(t, db.saved)
	assert.Equal(t, []string{constants.StatusProcessing, constants.StatusDuplicateContent}, db.statuses)
}

func TestProcessUploadedResumeDedupeDegraded(t *testing.T) {
	// Redis故障时去重降级，简历仍然要被解析
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte(serviceSampleResume),
	}}
	db := &fakeSubmissionStore{}

	service := newTestService(objects, &fakeDedupeStore{err: fmt.Errorf("redis down")}, db, nil)

	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)
	assert.NotNil(t, db.saved)
}

func TestProcessUploadedResumeEmptyText(t *testing.T) {
	objects := &fakeObjectStore{files: map[string][]byte{
		"resume/11111111/original.txt": []byte("   \n  "),
	}}
	db := &fakeSubmissionStore{}

	service := newTestService(objects, &fakeDedupeStore{}, db, nil)

	// 空文本是永久性失败：标记失败后确认消息，不返回错误
	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.NoError(t, err)

	assert.Nil(t, db.saved)
	assert.Contains(t, db.statuses, constants.StatusParseFailed)
	assert.Equal(t, ErrEmptyResumeText.Error(), db.failedReason)
}

func TestProcessUploadedResumeDownloadError(t *testing.T) {
	objects := &fakeObjectStore{err: fmt.Errorf("connection refused")}
	db := &fakeSubmissionStore{}

	service := newTestService(objects, &fakeDedupeStore{}, db, nil)

	// 下载失败是瞬时故障，返回错误让消息重新入队
	err := service.ProcessUploadedResume(context.Background(), uploadMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResumeDownloadFailed)
	assert.Nil(t, db.saved)
}

func TestConsumerHandleMalformedMessage(t *testing.T) {
	nop := zerolog.Nop()
	consumer := &ResumeConsumer{logger: &nop}

	// 畸形消息和缺UUID的消息都应该被确认丢弃
	assert.True(t, consumer.handle([]byte("not json")))
	assert.True(t, consumer.handle([]byte(`{"original_filename":"a.pdf"}`)))
}

func TestConsumerHandleRequeueOnTransientError(t *testing.T) {
	nop := zerolog.Nop()
	objects := &fakeObjectStore{err: fmt.Errorf("minio unreachable")}
	service := newTestService(objects, &fakeDedupeStore{}, &fakeSubmissionStore{}, nil)
	consumer := &ResumeConsumer{service: service, logger: &nop}

	body, err := json.Marshal(uploadMessage())
	require.NoError(t, err)
	assert.False(t, consumer.handle(body))
}
