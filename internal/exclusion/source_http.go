package exclusion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

const maxResponseSize = 5 * 1024 * 1024 // 5MB

// Source 上游假期数据源
type Source interface {
	Name() string
	Fetch(ctx context.Context, region string, start, end calendar.Date) ([]model.Period, error)
}

// HTTPSource mehr-schulferien.de v2.1 API
//
//	GET {base}/federal-states/{region}/periods?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
//	→ {"data": [{name, starts_on, ends_on, is_school_vacation, is_public_holiday}]}
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource 创建 HTTPSource；timeout<=0 时使用 10s
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "api" }

type periodsResponse struct {
	Data []model.Period `json:"data"`
}

func (s *HTTPSource) Fetch(ctx context.Context, region string, start, end calendar.Date) ([]model.Period, error) {
	q := url.Values{}
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	u := fmt.Sprintf("%s/federal-states/%s/periods?%s", s.baseURL, url.PathEscape(region), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Region: region, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Region: region, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Region: region, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var body periodsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, &FetchError{Region: region, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	if body.Data == nil {
		body.Data = []model.Period{}
	}
	return body.Data, nil
}
