package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{tenant}:{module}:{entity}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// TenantPlaceholder 在格式化时被替换为实际租户ID
	TenantPlaceholder = "{tenant}"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// TextModulePrefix 解析文本模块
	TextModulePrefix = "text"
	// ResumeModulePrefix 简历记录模块
	ResumeModulePrefix = "resume"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityParsedCache 解析结果缓存实体
	EntityParsedCache = "parsed_cache"

	// RawFileMD5SetKey 原始文件MD5去重集合 (SET)
	// 格式: app:{tenant}:file:dedup_set
	RawFileMD5SetKey = AppPrefix + ":" + TenantPlaceholder + ":" + FileModulePrefix + ":" + EntityDedupSet

	// ParsedTextMD5SetKey 解析文本MD5去重集合 (SET)
	// 格式: app:{tenant}:text:dedup_set
	ParsedTextMD5SetKey = AppPrefix + ":" + TenantPlaceholder + ":" + TextModulePrefix + ":" + EntityDedupSet

	// ParsedResumeCacheKey 解析结果查询缓存 (STRING)，实际使用时追加submission UUID
	// 格式: app:{tenant}:resume:parsed_cache:{uuid}
	ParsedResumeCacheKey = AppPrefix + ":" + TenantPlaceholder + ":" + ResumeModulePrefix + ":" + EntityParsedCache
)
