package sourcemap

import (
	"path"
	"regexp"
	"strings"
)

// 匹配 webpack:/// file:/// 之类的打包器伪协议前缀
// 这些串大多不是合法 URL，按前缀剥离处理而不做完整的 URL 解析
var schemeRegex = regexp.MustCompile(`^[a-z]+:/{0,3}`)

// Sanitize 把 source map 的 sources 条目规整为安全的相对路径
// sourceRoot 非空时去掉首尾斜杠后作为父目录拼接
// 结果不会以 / 或协议开头；.. 段会被收拢并丢弃，落盘路径无法逃出输出目录
func Sanitize(sourceEntry string, sourceRoot string) string {
	cleaned := schemeRegex.ReplaceAllString(sourceEntry, "")
	cleaned = strings.TrimLeft(cleaned, "/")

	if sourceRoot != "" {
		cleaned = path.Join(strings.Trim(sourceRoot, "/"), cleaned)
	}

	cleaned = path.Clean(cleaned)
	for strings.HasPrefix(cleaned, "../") {
		cleaned = strings.TrimPrefix(cleaned, "../")
	}
	if cleaned == "." || cleaned == ".." {
		return ""
	}
	return strings.TrimLeft(cleaned, "/")
}
