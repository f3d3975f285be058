package types

// NotFound 标量字段缺省值。下游始终可以直接读取字段，无需判空。
const NotFound = "Not found"

// ExtractionSource 标记解析结果的来源路径
type ExtractionSource string

const (
	// SourceAI 结果来自LLM主路径
	SourceAI ExtractionSource = "ai"
	// SourceFallback 结果来自启发式兜底引擎
	SourceFallback ExtractionSource = "fallback"
)

// SectionKind 表示简历章节类型
type SectionKind string

const (
	// SectionSkills 技能章节
	SectionSkills SectionKind = "SKILLS"
	// SectionExperience 工作/实习经历章节
	SectionExperience SectionKind = "EXPERIENCE"
	// SectionProjects 项目经历章节
	SectionProjects SectionKind = "PROJECTS"
	// SectionEducation 教育经历章节
	SectionEducation SectionKind = "EDUCATION"
)

// ContactInfo 联系信息。每个字段只保留一个候选，缺失时为 NotFound。
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ExperienceEntry 一段工作/实习经历
type ExperienceEntry struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Duration string   `json:"duration"`
	Details  []string `json:"details"` // 最多5条
}

// ProjectEntry 一个项目条目
type ProjectEntry struct {
	Title        string   `json:"title"`
	Duration     string   `json:"duration"`
	Organization string   `json:"organization,omitempty"` // 可选，与普通描述行无法区分时省略
	Details      []string `json:"details"`                // 最多4条
}

// LinkSet 从文档内嵌链接与正文正则扫描合并去重后的档案链接。
// GitHubProfile 只接受裸的个人主页URL（host后仅一个路径段），仓库/Gist链接被过滤。
type LinkSet struct {
	GitHubProfile string `json:"github_profile,omitempty"`
	LinkedIn      string `json:"linkedin,omitempty"`
}

// ResumeRecord 解析输出的完整结构化记录。
// 所有标量字段始终存在（缺失时为 NotFound），所有列表字段已按约定截断。
type ResumeRecord struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	GitHub     string            `json:"github"`
	LinkedIn   string            `json:"linkedin"`
	Skills     []string          `json:"skills"`     // 最多15项，保持发现顺序
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Education  []string          `json:"education"` // 原文行，>20字符
	Source     ExtractionSource  `json:"source"`
}

// NewResumeRecord 返回所有字段均已填充缺省值的记录
func NewResumeRecord() *ResumeRecord {
	return &ResumeRecord{
		Name:       NotFound,
		Email:      NotFound,
		Phone:      NotFound,
		GitHub:     NotFound,
		LinkedIn:   NotFound,
		Skills:     []string{},
		Experience: []ExperienceEntry{},
		Projects:   []ProjectEntry{},
		Education:  []string{},
	}
}

// FillDefaults 把空的标量字段补成 NotFound、nil切片补成空切片。
// LLM输出反序列化后必须过一遍，保证记录满足"所有字段始终存在"的约定。
func (r *ResumeRecord) FillDefaults() {
	for _, field := range []*string{&r.Name, &r.Email, &r.Phone, &r.GitHub, &r.LinkedIn} {
		if *field == "" {
			*field = NotFound
		}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	if r.Projects == nil {
		r.Projects = []ProjectEntry{}
	}
	if r.Education == nil {
		r.Education = []string{}
	}
	for i := range r.Experience {
		if r.Experience[i].Details == nil {
			r.Experience[i].Details = []string{}
		}
	}
	for i := range r.Projects {
		if r.Projects[i].Details == nil {
			r.Projects[i].Details = []string{}
		}
	}
}
