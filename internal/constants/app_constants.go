package constants

// 简历提交的处理状态，写入 resume_submissions.processing_status
const (
	StatusPendingParsing   = "PENDING_PARSING"   // 已入库，等待消费者解析
	StatusProcessing       = "PROCESSING"        // 消费者正在解析
	StatusParsed           = "PARSED"            // 解析完成，结构化记录已落库
	StatusParseFailed      = "PARSE_FAILED"      // 文本提取或两条解析路径全部失败
	StatusDuplicateFile    = "DUPLICATE_FILE"    // 原始文件MD5命中去重集合
	StatusDuplicateContent = "DUPLICATE_CONTENT" // 解析文本MD5命中去重集合
)

// 解析器版本标识，写入 resume_submissions.parser_version
const (
	LLMParserVersion       = "llm-v1"
	HeuristicParserVersion = "heuristic-v1"
)
