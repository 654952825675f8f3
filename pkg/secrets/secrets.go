package secrets

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"SMGrab/pkg/models"
)

// Scanner 在还原出的源码文本中查找敏感信息
// 源码里残留的密钥和凭证是源码还原场景下最有价值的发现
type Scanner struct {
	keyRegex         *regexp2.Regexp
	sensitiveRegex   *regexp2.Regexp
	awsKeyRegex      *regexp2.Regexp
	jwtRegex         *regexp.Regexp
	privateKeyRegex  *regexp.Regexp
	githubTokenRegex *regexp.Regexp
}

func NewScanner() *Scanner {
	return &Scanner{
		keyRegex:       regexp2.MustCompile(`(?i)\b(?:api[_-]?key|access[_-]?key|secret[_-]?key|auth[_-]?key|app[_-]?key|private[_-]?key)\b\s*[:=]\s*["']?([A-Za-z0-9\-_]{16,})["']?`, 0),
		sensitiveRegex: regexp2.MustCompile(`(?i)\b(password|passwd|pwd|token|access_token|auth_token|refresh_token|bearer)\b\s*[:=]\s*["']?([A-Za-z0-9._\-!@#$%^&*]{4,64})["']?`, 0),
		awsKeyRegex:    regexp2.MustCompile(`(?i)(AKIA[0-9A-Z]{16})|(?:aws[_-]?(?:access[_-]?key|secret)[_-]?(?:id|key)?)\s*[:=]\s*["']?([A-Za-z0-9/+=]{20,})["']?`, 0),

		jwtRegex:         regexp.MustCompile(`eyJ[0-9A-Za-z_-]+\.[0-9A-Za-z_-]+\.[0-9A-Za-z_-]+`),
		privateKeyRegex:  regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
		githubTokenRegex: regexp.MustCompile(`(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36,}`),
	}
}

// Scan 扫描单个文件内容，file 仅用于结果标注
func (s *Scanner) Scan(file string, content string) []models.SecretFinding {
	limit := 200

	var findings []models.SecretFinding
	add := func(kind string, matches []string) {
		for _, m := range matches {
			findings = append(findings, models.SecretFinding{Kind: kind, Match: m, File: file})
		}
	}

	add("key", extractRegexp2Matches(s.keyRegex, content, limit, 0))
	add("credential", extractRegexp2Matches(s.sensitiveRegex, content, limit, 0))
	add("aws_key", extractRegexp2Matches(s.awsKeyRegex, content, limit, 0))
	add("jwt", unique(s.jwtRegex.FindAllString(content, limit)))
	add("private_key", unique(s.privateKeyRegex.FindAllString(content, 10)))
	add("github_token", unique(s.githubTokenRegex.FindAllString(content, limit)))

	return findings
}

// extractRegexp2Matches 辅助函数：提取 regexp2 匹配
func extractRegexp2Matches(re *regexp2.Regexp, body string, limit int, groupIdx int) []string {
	var results []string
	if m, err := re.FindStringMatch(body); err == nil && m != nil {
		cur := m
		count := 0
		for cur != nil && count < limit {
			if groupIdx > 0 && len(cur.Groups()) > groupIdx {
				results = append(results, cur.Groups()[groupIdx].String())
			} else {
				results = append(results, cur.String())
			}
			cur, _ = re.FindNextMatch(cur)
			count++
		}
	}
	return unique(results)
}

func unique(slice []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
