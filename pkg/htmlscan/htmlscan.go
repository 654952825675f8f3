package htmlscan

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"SMGrab/pkg/models"
)

// Scanner 负责从页面 HTML 中提取 script 资产
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

// FindScripts 按出现顺序返回页面上的 script 条目
// 带 src 的标签解析为远程脚本（相对地址按 baseURL 补全），其余作为内联脚本
func (s *Scanner) FindScripts(html string, baseURL string) ([]models.ScriptEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, baseErr := url.Parse(baseURL)

	var entries []models.ScriptEntry
	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		src, exists := sel.Attr("src")
		if exists && strings.TrimSpace(src) != "" {
			abs := src
			if baseErr == nil {
				if ref, err := url.Parse(src); err == nil {
					abs = base.ResolveReference(ref).String()
				}
			}
			entries = append(entries, models.ScriptEntry{Src: abs})
			return
		}
		entries = append(entries, models.ScriptEntry{Inline: true, Body: sel.Text()})
	})

	return entries, nil
}
