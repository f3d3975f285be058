package processor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"ats-parser-go/internal/config"
	"ats-parser-go/internal/storage"
)

// ResumeConsumer 从RabbitMQ拉取上传事件并交给ResumeService处理
type ResumeConsumer struct {
	service ResumeService
	mq      *storage.RabbitMQ
	cfg     *config.RabbitMQConfig
	logger  *zerolog.Logger
	stops   []chan<- struct{}
}

// NewResumeConsumer 创建消费者
func NewResumeConsumer(service ResumeService, mq *storage.RabbitMQ, cfg *config.RabbitMQConfig, log *zerolog.Logger) *ResumeConsumer {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &ResumeConsumer{
		service: service,
		mq:      mq,
		cfg:     cfg,
		logger:  log,
	}
}

// Start 启动配置数量的消费者worker
func (c *ResumeConsumer) Start() error {
	workers := c.cfg.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		stop, err := c.mq.StartConsumer(c.cfg.RawResumeQueue, c.cfg.PrefetchCount, c.handle)
		if err != nil {
			c.Stop()
			return err
		}
		c.stops = append(c.stops, stop)
	}

	c.logger.Info().Int("workers", workers).Str("queue", c.cfg.RawResumeQueue).Msg("简历消费者已启动")
	return nil
}

// Stop 停止所有消费者worker
func (c *ResumeConsumer) Stop() {
	for _, stop := range c.stops {
		close(stop)
	}
	c.stops = nil
}

// handle 处理一条消息。返回true确认消息，false拒绝并重新入队。
// 畸形消息直接确认丢弃，重入队也不可能修复它们。
func (c *ResumeConsumer) handle(body []byte) bool {
	var message storage.ResumeUploadMessage
	if err := json.Unmarshal(body, &message); err != nil {
		c.logger.Error().Err(err).Msg("反序列化上传消息失败，丢弃消息")
		return true
	}
	if message.SubmissionUUID == "" {
		c.logger.Error().Msg("上传消息缺少submission_uuid，丢弃消息")
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := c.service.ProcessUploadedResume(ctx, message); err != nil {
		c.logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("处理上传消息失败，重新入队")
		return false
	}
	return true
}
