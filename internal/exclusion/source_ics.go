package exclusion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── ICS 假期源 ──────────────────────────────────────────────
//
// 职责：将 iCalendar (RFC 5545) 假期订阅解析为 Period 列表。
//
//   - SUMMARY 为名称，缺失的事件跳过
//   - 全天事件的 DTEND 不包含在内，结束日取 DTEND 前一天；无 DTEND 时视为单日
//   - CATEGORIES 含 holiday / feiertag 的事件记为法定节假日，其余记为假期
//   - 只保留与查询区间有交集的事件
// ─────────────────────────────────────────────────────────────

// ICSSource 从 ICS 订阅地址读取假期，地址中的 {region} 会被替换为地区标识
type ICSSource struct {
	urlTemplate string
	client      *http.Client
}

// NewICSSource 创建 ICSSource；timeout<=0 时使用 10s
func NewICSSource(urlTemplate string, timeout time.Duration) *ICSSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ICSSource{urlTemplate: urlTemplate, client: &http.Client{Timeout: timeout}}
}

func (s *ICSSource) Name() string { return "ics" }

func (s *ICSSource) Fetch(ctx context.Context, region string, start, end calendar.Date) ([]model.Period, error) {
	u := strings.ReplaceAll(s.urlTemplate, "{region}", region)
	// webcal:// → https://
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Region: region, Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Region: region, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Region: region, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	periods, err := ParseICS(io.LimitReader(resp.Body, maxResponseSize), start, end)
	if err != nil {
		return nil, &FetchError{Region: region, Err: err}
	}
	return periods, nil
}

// ParseICS 解析 ICS 内容，返回与 [start, end] 有交集的事件
func ParseICS(r io.Reader, start, end calendar.Date) ([]model.Period, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	periods := []model.Period{}
	for _, evt := range cal.Events() {
		p, from, to, ok := parseHolidayEvent(evt)
		if !ok {
			continue
		}
		if to.Before(start) || from.After(end) {
			continue
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func parseHolidayEvent(evt *ics.VEvent) (model.Period, calendar.Date, calendar.Date, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.Period{}, calendar.Date{}, calendar.Date{}, false
	}

	from, _, err := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return model.Period{}, calendar.Date{}, calendar.Date{}, false
	}
	to := from
	if dtEnd, allDay, err := parseICSDate(evt, ics.ComponentPropertyDtEnd); err == nil {
		to = dtEnd
		if allDay && dtEnd.After(from) {
			to = dtEnd.AddDays(-1)
		}
	}
	if to.Before(from) {
		to = from
	}

	holiday := isHolidayCategory(evt)
	return model.Period{
		Name:             strings.TrimSpace(summary.Value),
		StartsOn:         from.String(),
		EndsOn:           to.String(),
		IsSchoolVacation: !holiday,
		IsPublicHoliday:  holiday,
	}, from, to, true
}

func isHolidayCategory(evt *ics.VEvent) bool {
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyCategories) {
			continue
		}
		v := strings.ToLower(prop.Value)
		if strings.Contains(v, "holiday") || strings.Contains(v, "feiertag") {
			return true
		}
	}
	return false
}

// parseICSDate 只取日期部分；allDay 表示原值为 VALUE=DATE 形式
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty) (calendar.Date, bool, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return calendar.Date{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			return calendar.FromTime(t), layout == "20060102", nil
		}
	}
	return calendar.Date{}, false, fmt.Errorf("无法解析日期: %s", val)
}
