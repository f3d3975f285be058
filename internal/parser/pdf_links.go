package parser

import (
	"bytes"
	"fmt"

	"github.com/dslipak/pdf"
)

// 文本层丢失的超链接要从PDF注释对象里找回来：
// 每页的 /Annots 数组里，链接注释的动作字典 /A 带有 /URI 项。
// 这条路径对GitHub/LinkedIn档案链接尤其重要——正文里往往只渲染成"GitHub"两个字。

// ExtractEmbeddedLinks 从PDF文件提取全部内嵌超链接，按页面顺序去重
func ExtractEmbeddedLinks(filePath string) ([]string, error) {
	reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for link extraction %s: %w", filePath, err)
	}
	return collectAnnotationURIs(reader)
}

// ExtractEmbeddedLinksFromBytes 从内存中的PDF内容提取内嵌超链接
func ExtractEmbeddedLinksFromBytes(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF for link extraction: %w", err)
	}
	return collectAnnotationURIs(reader)
}

// collectAnnotationURIs 遍历所有页面的注释并收集URI。
// 底层库在损坏的PDF上会panic，这里统一转换为错误返回。
func collectAnnotationURIs(reader *pdf.Reader) (links []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			links = nil
			err = fmt.Errorf("malformed PDF annotations: %v", r)
		}
	}()

	seen := make(map[string]bool)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		annots := page.V.Key("Annots")
		if annots.Kind() != pdf.Array {
			continue
		}
		for i := 0; i < annots.Len(); i++ {
			uri := annots.Index(i).Key("A").Key("URI")
			if uri.Kind() != pdf.String {
				continue
			}
			link := uri.RawString()
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
		}
	}
	return links, nil
}
