package client

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent 请求标识头，所有出站请求统一携带
const DefaultUserAgent = "smgrab/1.0"

// Client 显式构造的 HTTP 客户端
// 超时与 User-Agent 在构造时固定，所有发起网络请求的组件共用同一实例
type Client struct {
	http      *http.Client
	userAgent string
}

// Response 一次 GET 的结果
// FinalURL 为重定向后的最终地址
type Response struct {
	Body     []byte
	FinalURL string
	Status   int
}

// New 创建客户端，timeout 单位为秒
func New(timeout int, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 20
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(timeout) * time.Second,
		},
		userAgent: userAgent,
	}
}

// Get 发起一次 GET，每个请求只尝试一次，不做重试
func (c *Client) Get(rawURL string) (*Response, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Body:     body,
		FinalURL: resp.Request.URL.String(),
		Status:   resp.StatusCode,
	}, nil
}

// GetText 发起 GET 并要求 2xx，返回正文与最终 URL
func (c *Client) GetText(rawURL string) (string, string, error) {
	resp, err := c.Get(rawURL)
	if err != nil {
		return "", "", err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return "", "", fmt.Errorf("请求 %s 返回状态码 %d", rawURL, resp.Status)
	}
	return string(resp.Body), resp.FinalURL, nil
}
