package heuristic

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"ats-parser-go/internal/types"
)

// Tables 启发式引擎使用的全部可配置匹配表。
// 这些表原本是散落在解析逻辑里的硬编码字面量（公司名、技能目录、停用词表），
// 抽出来之后不改代码即可扩展匹配面。零值不可用，请从 DefaultTables 或 LoadTables 获取。
type Tables struct {
	// SectionHeaders 各章节可识别的标题关键词（整词匹配，大小写不敏感）
	SectionHeaders map[types.SectionKind][]string `yaml:"section_headers"`

	// GenericHeaders 姓名识别时需要跳过的文档级标题行
	GenericHeaders []string `yaml:"generic_headers"`

	// SkillCatalog 技能目录，按领域分组；仅用于技能兜底扫描
	SkillCatalog map[string][]string `yaml:"skill_catalog"`

	// SkillStoplist 技能后过滤的停用词（章节标签词及其常见误拼）
	SkillStoplist []string `yaml:"skill_stoplist"`

	// KnownCompanies 结构化经历格式里用于切分条目的已知公司名
	KnownCompanies []string `yaml:"known_companies"`

	// CorporateSuffixes 通用公司名模式的企业后缀
	CorporateSuffixes []string `yaml:"corporate_suffixes"`

	// DomainKeywords 叙述式经历格式里识别领域经验行的关键词
	DomainKeywords []string `yaml:"domain_keywords"`

	// Months 月份名，技能过滤与日期剥离共用
	Months []string `yaml:"months"`
}

// DefaultTables 返回内置缺省表
func DefaultTables() *Tables {
	return &Tables{
		SectionHeaders: map[types.SectionKind][]string{
			types.SectionSkills:     {"SKILLS"},
			types.SectionExperience: {"EXPERIENCE"},
			types.SectionProjects:   {"PROJECTS", "KEY PROJECTS"},
			types.SectionEducation:  {"EDUCATION"},
		},
		GenericHeaders: []string{"resume", "cv", "curriculum vitae"},
		SkillCatalog: map[string][]string{
			"languages":   {"Python", "Java", "C++", "C", "Go", "JavaScript", "TypeScript", "SQL", "R", "Scala"},
			"datastores":  {"MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch", "SQLite"},
			"ml":          {"TensorFlow", "PyTorch", "Scikit-learn", "Keras", "Pandas", "NumPy", "OpenCV"},
			"tools":       {"Git", "Docker", "Kubernetes", "Linux", "Excel", "Tableau", "Power BI", "Jira"},
		},
		SkillStoplist: []string{
			"experience", "projects", "education", "skills",
			"languages", "libraries", "frameworks",
			// 真实简历里常见的误拼同样需要拦住
			"experiance", "langauges", "librarys", "framworks",
		},
		KnownCompanies: []string{
			"Google", "Microsoft", "Amazon", "Infosys", "TCS", "Wipro", "Accenture",
		},
		CorporateSuffixes: []string{
			"Corp", "Inc", "LLC", "Ltd", "Company", "Systems", "Solutions", "Technologies", "Group",
		},
		DomainKeywords: []string{"ai", "data", "solution", "startup", "leadership"},
		Months: []string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
			"Jan", "Feb", "Mar", "Apr", "Jun", "Jul", "Aug", "Sep", "Sept", "Oct", "Nov", "Dec",
		},
	}
}

// LoadTables 从YAML文件加载匹配表，未出现的字段保留缺省值
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取匹配表文件失败: %w", err)
	}

	tables := DefaultTables()
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("解析匹配表文件失败: %w", err)
	}
	return tables, nil
}

// companyBoundaryRe 构造结构化经历切分用的公司标志正则：
// 已知公司名，或"大写开头的连续词 + 企业后缀"的通用模式
func (t *Tables) companyBoundaryRe() *regexp.Regexp {
	var alternatives []string
	for _, company := range t.KnownCompanies {
		alternatives = append(alternatives, regexp.QuoteMeta(company))
	}
	if len(t.CorporateSuffixes) > 0 {
		var suffixes []string
		for _, suffix := range t.CorporateSuffixes {
			suffixes = append(suffixes, regexp.QuoteMeta(suffix))
		}
		alternatives = append(alternatives,
			`(?:[A-Z][A-Za-z&.]*\s+)+(?:`+strings.Join(suffixes, "|")+`)\b`)
	}
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}

// otherHeaders 返回除指定章节外所有已知的标题关键词，用作章节捕获的终止边界
func (t *Tables) otherHeaders(kind types.SectionKind) []string {
	var out []string
	for k, headers := range t.SectionHeaders {
		if k == kind {
			continue
		}
		out = append(out, headers...)
	}
	return out
}
