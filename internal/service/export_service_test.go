package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() ExportService {
	logger := zap.NewNop()
	svc := NewExportService(NewLessonService(logger), logger).(*exportService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sampleSubjectPlan() *model.SubjectPlan {
	return &model.SubjectPlan{
		Type:      model.KindSubjectPlan,
		Subject:   "Mathe",
		ClassName: "5a",
		Goals:     []string{"Brüche addieren", ""},
		Rows: []model.PlanRow{
			{Week: "36", Date: calendar.MustParse("2024-09-02"), Hours: 2, Topic: "Brüche", Methods: "EA"},
			{Week: "36", Date: calendar.MustParse("2024-09-04"), Hours: 2, Topic: "Kürzen", Assessment: "Test"},
			{Hours: 1, Topic: "Reserve"},
		},
	}
}

// ── ExportSubjectPlanXLSX 测试 ──

func TestExportService_SubjectPlanXLSX(t *testing.T) {
	svc := setupTestExportService()

	buf, filename, err := svc.ExportSubjectPlanXLSX(context.Background(), sampleSubjectPlan())
	if err != nil {
		t.Fatalf("ExportSubjectPlanXLSX 应成功: %v", err)
	}
	if filename != "stoffverteilungsplan_mathe_5a_2024-09-20.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	if buf.Len() < 2 || buf.Bytes()[0] != 0x50 || buf.Bytes()[1] != 0x4B {
		t.Fatal("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出的 xlsx 失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Stoffverteilungsplan")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	var header, first []string
	for i, r := range rows {
		if len(r) > 0 && r[0] == "KW" && i+1 < len(rows) {
			header, first = r, rows[i+1]
			break
		}
	}
	if len(header) != 7 || header[1] != "Datum" || header[6] != "Leistungskontrolle" {
		t.Fatalf("表头不符: %v", header)
	}
	if len(first) < 4 || first[1] != "02.09.2024" || first[2] != "2" || first[3] != "Brüche" {
		t.Errorf("首行数据不符: %v", first)
	}
}

func TestExportService_SubjectPlanXLSX_NoRows(t *testing.T) {
	svc := setupTestExportService()

	_, _, err := svc.ExportSubjectPlanXLSX(context.Background(), &model.SubjectPlan{})
	if !errors.Is(err, ErrExportNoRows) {
		t.Errorf("期望 ErrExportNoRows，实际: %v", err)
	}
}

func TestSubjectPlanRows(t *testing.T) {
	rows := SubjectPlanRows(sampleSubjectPlan())

	if len(rows) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(rows))
	}
	want := []string{"36", "04.09.2024", "2", "Kürzen", "", "", "Test"}
	for i, w := range want {
		if rows[1][i] != w {
			t.Errorf("第 %d 列期望 %q，实际 %q", i+1, w, rows[1][i])
		}
	}
	if rows[2][1] != "" {
		t.Errorf("无日期行的日期列应为空，实际 %q", rows[2][1])
	}
}

// ── ExportLessonPlanXLSX 测试 ──

func TestExportService_LessonPlanXLSX(t *testing.T) {
	svc := setupTestExportService()

	plan := &model.LessonPlan{
		LessonTitle: "Brüche",
		StartTime:   "08:00",
		Phases: []model.Phase{
			{Duration: 15, SocialForm: "Plenum", TaskTitle: "Einstieg", Implementation: "Bild zeigen"},
			{Duration: 20, SocialForm: "EA", Materials: "AB 1"},
		},
	}
	buf, filename, err := svc.ExportLessonPlanXLSX(context.Background(), plan)
	if err != nil {
		t.Fatalf("ExportLessonPlanXLSX 应成功: %v", err)
	}
	if filename != "brüche_2024-09-20.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出的 xlsx 失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Stundenverlaufsplan")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	var data [][]string
	for i, r := range rows {
		if len(r) > 0 && r[0] == "Zeit" {
			data = rows[i+1:]
			break
		}
	}
	if len(data) != 2 {
		t.Fatalf("期望 2 行阶段，实际 %d: %v", len(data), rows)
	}
	if data[0][0] != "08:00 - 08:15" || data[0][1] != "15 Min" || data[0][2] != "Einstieg\n(Plenum)" {
		t.Errorf("第一阶段不符: %q", data[0])
	}
	if data[1][0] != "08:15 - 08:35" || data[1][2] != "(EA)" || data[1][4] != "AB 1" {
		t.Errorf("第二阶段不符: %q", data[1])
	}
}

func TestExportService_LessonPlanXLSX_NoPhases(t *testing.T) {
	svc := setupTestExportService()

	_, _, err := svc.ExportLessonPlanXLSX(context.Background(), &model.LessonPlan{})
	if !errors.Is(err, ErrExportNoRows) {
		t.Errorf("期望 ErrExportNoRows，实际: %v", err)
	}
}

// ── ExportSubjectPlanICS 测试 ──

func TestExportService_SubjectPlanICS(t *testing.T) {
	svc := setupTestExportService()

	buf, filename, err := svc.ExportSubjectPlanICS(context.Background(), sampleSubjectPlan())
	if err != nil {
		t.Fatalf("ExportSubjectPlanICS 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名不符: %s", filename)
	}
	body := buf.String()
	if !strings.Contains(body, "DTSTART;VALUE=DATE:20240902") || !strings.Contains(body, "SUMMARY:Mathe: Brüche") {
		t.Errorf("日历内容不符:\n%s", body)
	}

	// 用假期日历解析器回读：无日期的行不导出，全天事件各占一天
	periods, err := exclusion.ParseICS(strings.NewReader(body), calendar.MustParse("2024-09-01"), calendar.MustParse("2024-12-31"))
	if err != nil {
		t.Fatalf("回读日历失败: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(periods))
	}
	if periods[0].StartsOn != "2024-09-02" || periods[0].EndsOn != "2024-09-02" {
		t.Errorf("全天事件范围不符: %+v", periods[0])
	}
}

func TestExportService_SubjectPlanICS_NoDatedRows(t *testing.T) {
	svc := setupTestExportService()

	plan := &model.SubjectPlan{Rows: []model.PlanRow{{Hours: 1, Topic: "ohne Datum"}}}
	_, _, err := svc.ExportSubjectPlanICS(context.Background(), plan)
	if !errors.Is(err, ErrExportNoRows) {
		t.Errorf("期望 ErrExportNoRows，实际: %v", err)
	}
}
