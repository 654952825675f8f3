package sourcemap

import (
	"regexp"
	"strings"
)

// 匹配生成文件尾部的 sourceMappingURL 注释
// 兼容行注释与块注释两种写法，以及历史上的 @ 前缀
var referenceRegex = regexp.MustCompile(
	`(?m)//[#@]\s*sourceMappingURL=(.+)$|/\*[#@]\s*sourceMappingURL=(.+?)\s*\*/`)

// ExtractReference 从脚本文本中提取 sourceMappingURL 引用
// 只取第一个匹配，找不到时第二个返回值为 false
func ExtractReference(scriptText string) (string, bool) {
	match := referenceRegex.FindStringSubmatch(scriptText)
	if match == nil {
		return "", false
	}
	ref := match[1]
	if ref == "" {
		ref = match[2]
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	return ref, true
}
