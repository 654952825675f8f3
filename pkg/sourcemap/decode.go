package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"SMGrab/pkg/client"
	"SMGrab/pkg/models"
)

// Decoder 把 sourceMappingURL 引用解析为 source map 文档
type Decoder struct {
	client *client.Client
}

// DecodedMap 解码结果
// BaseURL 是后续解析未内嵌源内容时的基准地址：
// 远程 map 为其重定向后的最终地址，data: 内联 map 没有自身地址，沿用宿主脚本的地址
type DecodedMap struct {
	Doc     *models.SourceMapDocument
	BaseURL string
	Hash    string
}

func NewDecoder(c *client.Client) *Decoder {
	return &Decoder{client: c}
}

// DecodeMap 解码一个引用，reference 为 data: URI 或（相对）URL
func (d *Decoder) DecodeMap(reference string, baseURL string) (*DecodedMap, error) {
	if strings.HasPrefix(reference, "data:") {
		return d.decodeDataURI(reference, baseURL)
	}
	return d.fetchRemote(reference, baseURL)
}

// decodeDataURI 处理内联 data: 引用
// 逗号前的头部声明 base64 时先解码，否则载荷按纯 JSON 解析
func (d *Decoder) decodeDataURI(reference string, baseURL string) (*DecodedMap, error) {
	parts := strings.SplitN(reference, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("data URI 缺少逗号分隔符")
	}

	payload := []byte(parts[1])
	if strings.Contains(parts[0], "base64") {
		raw, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("base64 解码失败: %w", err)
		}
		payload = raw
	}

	doc, err := parseDocument(payload)
	if err != nil {
		return nil, err
	}
	return &DecodedMap{Doc: doc, BaseURL: baseURL, Hash: Hash(payload)}, nil
}

// fetchRemote 按标准相对 URL 规则补全引用并拉取
func (d *Decoder) fetchRemote(reference string, baseURL string) (*DecodedMap, error) {
	mapURL := ResolveURL(baseURL, reference)
	if mapURL == "" {
		return nil, fmt.Errorf("无法解析 map 地址: %s", reference)
	}

	resp, err := d.client.Get(mapURL)
	if err != nil {
		return nil, fmt.Errorf("拉取 map %s 失败: %w", mapURL, err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, fmt.Errorf("拉取 map %s 返回状态码 %d", mapURL, resp.Status)
	}

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析 map %s 失败: %w", mapURL, err)
	}
	return &DecodedMap{Doc: doc, BaseURL: resp.FinalURL, Hash: Hash(resp.Body)}, nil
}

// parseDocument 解析 map JSON，缺失字段按零值处理而不是整体失败
func parseDocument(data []byte) (*models.SourceMapDocument, error) {
	var doc models.SourceMapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ResolveURL 把 ref 解析到 base 之上，绝对地址原样返回
func ResolveURL(base string, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return refURL.String()
	}
	return baseURL.ResolveReference(refURL).String()
}
