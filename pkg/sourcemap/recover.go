package sourcemap

import (
	"fmt"
	"strings"

	"github.com/twmb/murmur3"
	"SMGrab/pkg/client"
	"SMGrab/pkg/models"
)

// Recoverer 遍历 map 的 sources 列表，逐项还原出 (路径, 内容) 对
type Recoverer struct {
	client *client.Client

	// OnSkip 在某个源无法还原时回调（可为 nil），还原继续处理后续下标
	OnSkip func(source string, reason string)
}

func NewRecoverer(c *client.Client) *Recoverer {
	return &Recoverer{client: c}
}

// Recover 单遍遍历 doc.Sources，每项按优先级取内容：
// 先用内嵌的 sourcesContent，没有再按 mapBaseURL 补全地址拉取一次。
// 单个源失败只跳过该项；yield 返回 false 时提前终止。
// 产出的每一项内容均非空。
func (r *Recoverer) Recover(doc *models.SourceMapDocument, mapBaseURL string, yield func(models.RecoveredSource) bool) {
	for i, src := range doc.Sources {
		relPath := Sanitize(src, doc.SourceRoot)
		if relPath == "" {
			r.skip(src, "路径无效")
			continue
		}

		var content []byte
		embedded := false

		if i < len(doc.SourcesContent) && doc.SourcesContent[i] != nil {
			text := *doc.SourcesContent[i]
			if text == "" {
				// 内嵌了空串的源没有可还原的内容，也不再发起请求
				r.skip(src, "内嵌内容为空")
				continue
			}
			content = []byte(text)
			embedded = true
		} else {
			text := r.fetchSource(src, mapBaseURL)
			if text == "" {
				r.skip(src, "无法获取内容")
				continue
			}
			content = []byte(text)
		}

		item := models.RecoveredSource{
			Path:     relPath,
			Content:  content,
			Hash:     Hash(content),
			Embedded: embedded,
		}
		if !yield(item) {
			return
		}
	}
}

// fetchSource 按地址兜底拉取源内容，失败返回空串
func (r *Recoverer) fetchSource(source string, mapBaseURL string) string {
	candidate := ResolveURL(mapBaseURL, source)
	if candidate == "" {
		return ""
	}

	resp, err := r.client.Get(candidate)
	if err != nil {
		return ""
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return ""
	}
	if strings.TrimSpace(string(resp.Body)) == "" {
		return ""
	}
	return string(resp.Body)
}

func (r *Recoverer) skip(source string, reason string) {
	if r.OnSkip != nil {
		r.OnSkip(source, reason)
	}
}

// Hash 计算内容的 murmur3 指纹，用于结果报告
func Hash(data []byte) string {
	h32 := murmur3.New32()
	h32.Write(data)
	return fmt.Sprintf("%08x", h32.Sum32())
}
