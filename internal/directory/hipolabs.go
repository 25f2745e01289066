package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ai-counsellor/internal/matching"
)

// hipolabsUniversity Hipolabs /search 返回项
type hipolabsUniversity struct {
	Name     string   `json:"name"`
	WebPages []string `json:"web_pages"`
	Country  string   `json:"country"`
}

// HipolabsClient 通用院校目录（按国家检索）
type HipolabsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHipolabsClient 创建 Hipolabs 客户端
func NewHipolabsClient(baseURL string, httpClient *http.Client) *HipolabsClient {
	return &HipolabsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Search GET /search?country=<country>，返回前 limit 个名称非空的院校
func (c *HipolabsClient) Search(ctx context.Context, country string, limit int) ([]matching.UniversityCandidate, error) {
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, url.Values{"country": {country}}.Encode())

	var items []hipolabsUniversity
	if err := getJSON(ctx, c.httpClient, endpoint, &items); err != nil {
		return nil, fmt.Errorf("hipolabs: %w", err)
	}

	out := make([]matching.UniversityCandidate, 0, min(len(items), limit))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		website := ""
		if len(it.WebPages) > 0 {
			website = it.WebPages[0]
		}
		out = append(out, matching.UniversityCandidate{
			Name:       it.Name,
			Website:    website,
			Difficulty: matching.GuessDifficulty(it.Name),
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// getJSON 发起 GET 请求并解码 JSON；非 2xx 视为错误
func getJSON(ctx context.Context, client *http.Client, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, URL: redact(endpoint)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// StatusError 目录服务返回非 2xx
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("目录服务返回 HTTP %d (%s)", e.StatusCode, e.URL)
}

// redact 去掉 URL 中的 api_key，避免写入日志
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "***")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
