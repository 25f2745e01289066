package directory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ai-counsellor/internal/matching"
)

const (
	scorecardSchoolsPath  = "/v1/schools"
	scorecardSearchFields = "school.name,school.school_url"
	scorecardStatsFields  = "school.name,latest.admissions.admission_rate.overall,latest.cost.tuition.in_state,latest.student.size"
)

// scorecardPage College Scorecard 分页响应
type scorecardPage struct {
	Metadata struct {
		Page    int `json:"page"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"metadata"`
	Results []map[string]interface{} `json:"results"`
}

// USSchoolStats 美国院校统计信息
type USSchoolStats struct {
	Name           string   `json:"name"`
	AdmissionRate  *float64 `json:"admissionRate"`
	TuitionInState *float64 `json:"tuitionInState"`
	StudentSize    *float64 `json:"studentSize"`
}

// ScorecardClient 美国教育部 College Scorecard 目录（分页，API Key 认证）
type ScorecardClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewScorecardClient 创建 Scorecard 客户端
func NewScorecardClient(baseURL, apiKey string, httpClient *http.Client) *ScorecardClient {
	return &ScorecardClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Search 只取第一页，per_page = limit；country 参数被忽略（数据源仅覆盖美国）
func (c *ScorecardClient) Search(ctx context.Context, _ string, limit int) ([]matching.UniversityCandidate, error) {
	page, err := c.fetch(ctx, scorecardSearchFields, 0, limit)
	if err != nil {
		return nil, err
	}

	out := make([]matching.UniversityCandidate, 0, len(page.Results))
	for _, r := range page.Results {
		name := stringField(r, "school.name")
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, matching.UniversityCandidate{
			Name:       name,
			Website:    stringField(r, "school.school_url"),
			Difficulty: matching.GuessDifficulty(name),
		})
	}
	return out, nil
}

// Stats 第一页院校的录取率、州内学费与在校人数
func (c *ScorecardClient) Stats(ctx context.Context) ([]USSchoolStats, error) {
	page, err := c.fetch(ctx, scorecardStatsFields, 0, 0)
	if err != nil {
		return nil, err
	}

	out := make([]USSchoolStats, 0, len(page.Results))
	for _, r := range page.Results {
		out = append(out, USSchoolStats{
			Name:           stringField(r, "school.name"),
			AdmissionRate:  numberField(r, "latest.admissions.admission_rate.overall"),
			TuitionInState: numberField(r, "latest.cost.tuition.in_state"),
			StudentSize:    numberField(r, "latest.student.size"),
		})
	}
	return out, nil
}

func (c *ScorecardClient) fetch(ctx context.Context, fields string, page, perPage int) (*scorecardPage, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("fields", fields)
	q.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	endpoint := c.baseURL + scorecardSchoolsPath + "?" + q.Encode()

	var p scorecardPage
	if err := getJSON(ctx, c.httpClient, endpoint, &p); err != nil {
		return nil, fmt.Errorf("scorecard: %w", err)
	}
	return &p, nil
}

func stringField(r map[string]interface{}, key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

func numberField(r map[string]interface{}, key string) *float64 {
	if f, ok := r[key].(float64); ok {
		return &f
	}
	return nil
}
