package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"ats-parser-go/internal/config"
	"ats-parser-go/internal/constants"
	"ats-parser-go/internal/tracing"
)

const defaultTenantID = "default_tenant" // 临时的默认租户ID，后续应替换为实际逻辑

// ErrNotFound 键不存在时返回，封装底层的 redis.Nil
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("ats-parser-go/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// FormatKey 格式化包含租户ID的Redis键。
// keyConstant: 来自 constants 包的键常量，其中包含 TenantPlaceholder。
// parts: 附加到键的动态部分。
func (r *Redis) FormatKey(keyConstant string, parts ...string) string {
	tenantID := defaultTenantID
	base := strings.Replace(keyConstant, constants.TenantPlaceholder, tenantID, 1)
	if len(parts) > 0 {
		return base + ":" + strings.Join(parts, ":")
	}
	return base
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	return r.Client.Close()
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// CheckAndAddRawFileMD5 检查并添加原始文件MD5到集合，是一个原子操作
func (r *Redis) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, "Redis.CheckAndAddRawFileMD5", constants.RawFileMD5SetKey, md5Hex)
}

// CheckAndAddParsedTextMD5 检查并添加解析后文本MD5到集合，是一个原子操作
func (r *Redis) CheckAndAddParsedTextMD5(ctx context.Context, md5Hex string) (bool, error) {
	return r.checkAndAddMD5(ctx, "Redis.CheckAndAddParsedTextMD5", constants.ParsedTextMD5SetKey, md5Hex)
}

// checkAndAddMD5 用Lua脚本原子地完成"检查是否存在+添加+续期"三步。
// 返回true表示MD5在本次调用之前就已存在。
func (r *Redis) checkAndAddMD5(ctx context.Context, spanName, keyConstant, md5Hex string) (exists bool, err error) {
	ctx, span := redisTracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", fmt.Sprintf("%d", r.config.DB)),
		attribute.String("net.peer.name", r.config.Address),
		attribute.String("db.operation", "EVAL"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(keyConstant)),
		attribute.String("db.redis.member", md5Hex),
	)

	if r.Client == nil {
		err = fmt.Errorf("redis client is not initialized")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	key := r.FormatKey(keyConstant)

	script := `
		local exists = redis.call('SISMEMBER', KEYS[1], ARGV[1])
		redis.call('SADD', KEYS[1], ARGV[1])
		redis.call('EXPIRE', KEYS[1], ARGV[2])
		return exists
	`

	expiry := r.GetMD5ExpireDuration().Seconds()

	res, err := r.Client.Eval(ctx, script, []string{key}, md5Hex, expiry).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("执行原子检查和添加操作失败: %w", err)
	}

	// Lua脚本返回0表示不存在，1表示存在
	existsVal, ok := res.(int64)
	if !ok {
		err = fmt.Errorf("意外的Redis返回类型: %T", res)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	exists = existsVal == 1
	span.SetAttributes(attribute.Bool("already_exists", exists))
	span.SetStatus(codes.Ok, "")

	return exists, nil
}

// defaultParsedCacheTTL 解析结果查询缓存的过期时间。
// 解析完成后记录不再变化，TTL只是控制缓存体积。
const defaultParsedCacheTTL = 10 * time.Minute

// CacheParsedResume 缓存一条已解析记录的查询响应
func (r *Redis) CacheParsedResume(ctx context.Context, submissionUUID string, data []byte) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := r.FormatKey(constants.ParsedResumeCacheKey, submissionUUID)
	if err := r.Client.Set(ctx, key, data, defaultParsedCacheTTL).Err(); err != nil {
		return fmt.Errorf("写入解析结果缓存失败: %w", err)
	}
	return nil
}

// GetCachedParsedResume 读取缓存的查询响应，未命中时返回 ErrNotFound
func (r *Redis) GetCachedParsedResume(ctx context.Context, submissionUUID string) ([]byte, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}
	key := r.FormatKey(constants.ParsedResumeCacheKey, submissionUUID)
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// RemoveRawFileMD5 从集合中移除原始文件MD5，上传事务回滚时使用
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := r.FormatKey(constants.RawFileMD5SetKey)
	if err := r.Client.SRem(ctx, key, md5Hex).Err(); err != nil {
		return fmt.Errorf("移除原始文件MD5失败: %w", err)
	}
	return nil
}
