package exclusion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
)

func TestHTTPSource_Fetch(t *testing.T) {
	var gotPath, gotStart, gotEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("start_date")
		gotEnd = r.URL.Query().Get("end_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"name":"Herbstferien","starts_on":"2024-10-21","ends_on":"2024-10-25","is_school_vacation":true,"is_public_holiday":false},
			{"name":"Reformationstag","starts_on":"2024-10-31","ends_on":"2024-10-31","is_school_vacation":false,"is_public_holiday":true}
		]}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)
	periods, err := src.Fetch(context.Background(), "brandenburg", calendar.MustParse("2024-09-02"), calendar.MustParse("2025-09-02"))
	if err != nil {
		t.Fatalf("Fetch 应成功: %v", err)
	}

	if gotPath != "/federal-states/brandenburg/periods" {
		t.Errorf("请求路径不符: %s", gotPath)
	}
	if gotStart != "2024-09-02" || gotEnd != "2025-09-02" {
		t.Errorf("查询参数不符: %s %s", gotStart, gotEnd)
	}
	if len(periods) != 2 || !periods[1].IsPublicHoliday {
		t.Errorf("解析结果不符: %+v", periods)
	}
}

func TestHTTPSource_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background(), "berlin", rangeStart, rangeEnd)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("期望 FetchError 503，实际: %v", err)
	}
	if !errors.Is(err, ErrFetch) {
		t.Error("FetchError 应匹配 ErrFetch")
	}
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background(), "berlin", rangeStart, rangeEnd)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("期望 ErrFetch，实际: %v", err)
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, time.Second).Fetch(context.Background(), "berlin", rangeStart, rangeEnd)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 0 {
		t.Errorf("期望无状态码的 FetchError，实际: %v", err)
	}
}

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//ferien//DE\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1@test\r\n" +
	"SUMMARY:Herbstferien\r\n" +
	"DTSTART;VALUE=DATE:20241021\r\n" +
	"DTEND;VALUE=DATE:20241026\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:2@test\r\n" +
	"SUMMARY:Tag der Deutschen Einheit\r\n" +
	"CATEGORIES:Feiertag\r\n" +
	"DTSTART;VALUE=DATE:20241003\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:3@test\r\n" +
	"SUMMARY:Sommerferien 2023\r\n" +
	"DTSTART;VALUE=DATE:20230710\r\n" +
	"DTEND;VALUE=DATE:20230819\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:4@test\r\n" +
	"DTSTART;VALUE=DATE:20241101\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	periods, err := ParseICS(strings.NewReader(sampleICS), rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("ParseICS 应成功: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("期望 2 条（区间外与无标题的跳过），实际 %d: %+v", len(periods), periods)
	}

	autumn := periods[0]
	if autumn.StartsOn != "2024-10-21" || autumn.EndsOn != "2024-10-25" {
		t.Errorf("全天事件 DTEND 不包含在内，期望 2024-10-21..2024-10-25，实际 %s..%s", autumn.StartsOn, autumn.EndsOn)
	}
	if !autumn.IsSchoolVacation || autumn.IsPublicHoliday {
		t.Errorf("无分类的事件应记为假期: %+v", autumn)
	}

	unity := periods[1]
	if !unity.IsPublicHoliday || unity.StartsOn != unity.EndsOn {
		t.Errorf("Feiertag 分类的单日事件不符: %+v", unity)
	}
}

func TestICSSource_Fetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sampleICS))
	}))
	defer srv.Close()

	src := NewICSSource(srv.URL+"/feeds/{region}.ics", time.Second)
	periods, err := src.Fetch(context.Background(), "hessen", rangeStart, rangeEnd)
	if err != nil {
		t.Fatalf("Fetch 应成功: %v", err)
	}
	if gotPath != "/feeds/hessen.ics" {
		t.Errorf("地区占位符未替换: %s", gotPath)
	}
	if len(periods) != 2 {
		t.Errorf("期望 2 条，实际 %d", len(periods))
	}
}

func TestICSSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewICSSource(srv.URL+"/{region}.ics", time.Second).Fetch(context.Background(), "hessen", rangeStart, rangeEnd)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("期望 ErrFetch，实际: %v", err)
	}
}
