package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// GetURLPattern 获取 URL 模式 (将数字 query value 替换为 ~)
// 爬取模式下用于去重，避免对同一接口的不同 id 反复访问
func GetURLPattern(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	if len(q) == 0 {
		return rawURL
	}

	numericRegex := regexp.MustCompile(`^\d+$`)
	for k, v := range q {
		if len(v) > 0 && numericRegex.MatchString(v[0]) {
			q.Set(k, "~")
		}
	}

	u.RawQuery = q.Encode()
	// Encode 会转义 ~，解码回来保持可读
	decoded, _ := url.QueryUnescape(u.String())
	return decoded
}

// StripTrailingSlash 去掉 URL 尾部的 /
func StripTrailingSlash(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
