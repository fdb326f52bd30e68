package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRows       = errors.New("计划中没有可导出的行")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课时分配计划导出为 Excel (.xlsx) 与日历 (.ics)
//   - 教学流程计划导出为 Excel (.xlsx)，时间段由开始时刻与阶段时长推算
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSubjectPlanXLSX 导出课时分配计划表格
	ExportSubjectPlanXLSX(ctx context.Context, plan *model.SubjectPlan) (*bytes.Buffer, string, error)
	// ExportLessonPlanXLSX 导出教学流程表格
	ExportLessonPlanXLSX(ctx context.Context, plan *model.LessonPlan) (*bytes.Buffer, string, error)
	// ExportSubjectPlanICS 有日期的行导出为全天日程
	ExportSubjectPlanICS(ctx context.Context, plan *model.SubjectPlan) (*bytes.Buffer, string, error)
}

type exportService struct {
	lesson LessonService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(lesson LessonService, logger *zap.Logger) ExportService {
	return &exportService{lesson: lesson, logger: logger, now: time.Now}
}

var (
	subjectPlanHeaders = []string{"KW", "Datum", "Std.", "Thema / Inhalt", "Lernziele", "Methoden", "Leistungskontrolle"}
	lessonPlanHeaders  = []string{"Zeit", "Dauer", "Aufgabe / Sozialform", "Durchführung", "Material"}
)

// ═══════════════════════════════════════════════════════════
// ExportSubjectPlanXLSX
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 表头信息：Fach / Klasse / Schuljahr / Lehrkraft / Lernziele
//   - 表格：KW | Datum (DD.MM.YYYY) | Std. | Thema | Lernziele | Methoden | Leistungskontrolle

func (s *exportService) ExportSubjectPlanXLSX(_ context.Context, plan *model.SubjectPlan) (*bytes.Buffer, string, error) {
	if len(plan.Rows) == 0 {
		return nil, "", ErrExportNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Stoffverteilungsplan"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{6, 12, 6, 30, 30, 22, 20}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", "Stoffverteilungsplan")
	f.MergeCell(sheetName, "A1", cell(colName(len(subjectPlanHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头信息
	row := 2
	info := [][2]string{
		{"Fach", plan.Subject},
		{"Klasse", plan.ClassName},
		{"Schuljahr", plan.SchoolYear},
		{"Lehrkraft", plan.TeacherName},
	}
	for _, kv := range info {
		if kv[1] == "" {
			continue
		}
		f.SetCellValue(sheetName, cell("A", row), kv[0])
		f.SetCellValue(sheetName, cell("B", row), kv[1])
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), boldStyle)
		row++
	}
	if goals := nonEmpty(plan.Goals); len(goals) > 0 {
		f.SetCellValue(sheetName, cell("A", row), "Lernziele")
		f.SetCellValue(sheetName, cell("B", row), "• "+strings.Join(goals, "\n• "))
		f.SetCellStyle(sheetName, cell("A", row), cell("A", row), boldStyle)
		f.SetCellStyle(sheetName, cell("B", row), cell("B", row), wrapStyle)
		row++
	}
	row++

	// 表头
	for i, h := range subjectPlanHeaders {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(subjectPlanHeaders)-1), row), headerStyle)
	row++

	// 数据行
	first := row
	for _, r := range SubjectPlanRows(plan) {
		for i, v := range r {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}
	f.SetCellStyle(sheetName, cell("A", first), cell(colName(len(subjectPlanHeaders)-1), row-1), wrapStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, SubjectPlanFileName(plan, s.now(), "xlsx"), nil
}

// SubjectPlanRows 表格行：[KW, Datum, Std., Thema, Lernziele, Methoden, Leistungskontrolle]
func SubjectPlanRows(plan *model.SubjectPlan) [][]string {
	rows := make([][]string, 0, len(plan.Rows))
	for _, r := range plan.Rows {
		rows = append(rows, []string{
			r.Week,
			r.Date.FormatDE(),
			strconv.Itoa(r.Hours),
			r.Topic,
			r.Goals,
			r.Methods,
			r.Assessment,
		})
	}
	return rows
}

// ═══════════════════════════════════════════════════════════
// ExportLessonPlanXLSX
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportLessonPlanXLSX(_ context.Context, plan *model.LessonPlan) (*bytes.Buffer, string, error) {
	plan.ApplyDefaults()
	if len(plan.Phases) == 0 {
		return nil, "", ErrExportNoRows
	}
	rows, err := s.lessonPlanRows(plan)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Stundenverlaufsplan"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	widths := []float64{16, 9, 28, 45, 22}
	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	title := plan.LessonTitle
	if title == "" {
		title = "Stundenverlaufsplan"
	}
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(len(lessonPlanHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 2
	if objectives := nonEmpty(plan.Objectives); len(objectives) > 0 {
		f.SetCellValue(sheetName, cell("A", row), "Lernziele")
		f.SetCellValue(sheetName, cell("B", row), "• "+strings.Join(objectives, "\n• "))
		f.MergeCell(sheetName, cell("B", row), cell(colName(len(lessonPlanHeaders)-1), row))
		f.SetCellStyle(sheetName, cell("B", row), cell("B", row), wrapStyle)
		row++
	}
	row++

	for i, h := range lessonPlanHeaders {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(lessonPlanHeaders)-1), row), headerStyle)
	row++

	first := row
	for _, r := range rows {
		for i, v := range r {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}
	f.SetCellStyle(sheetName, cell("A", first), cell(colName(len(lessonPlanHeaders)-1), row-1), wrapStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, LessonPlanFileName(plan, s.now(), "xlsx"), nil
}

// lessonPlanRows 表格行：[时间段, "N Min", "任务\n(社交形式)", 实施, 材料]
func (s *exportService) lessonPlanRows(plan *model.LessonPlan) ([][]string, error) {
	timeline, err := s.lesson.BuildTimeline(plan)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(plan.Phases))
	for i, p := range plan.Phases {
		task := "(" + p.SocialForm + ")"
		if p.TaskTitle != "" {
			task = p.TaskTitle + "\n" + task
		}
		rows = append(rows, []string{
			timeline.Phases[i].Range,
			fmt.Sprintf("%d Min", timeline.Phases[i].Duration),
			task,
			p.Implementation,
			p.Materials,
		})
	}
	return rows, nil
}

// ═══════════════════════════════════════════════════════════
// ExportSubjectPlanICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportSubjectPlanICS(_ context.Context, plan *model.SubjectPlan) (*bytes.Buffer, string, error) {
	now := s.now()

	cal := ics.NewCalendarFor("fast-lessonplan")
	cal.SetMethod(ics.MethodPublish)
	calName := strings.TrimSpace(plan.Subject + " " + plan.ClassName)
	if calName == "" {
		calName = "Stoffverteilungsplan"
	}
	cal.SetXWRCalName(calName)

	count := 0
	for i, r := range plan.Rows {
		if r.Date.IsZero() {
			continue
		}
		day := r.Date.Time()
		ev := cal.AddEvent(fmt.Sprintf("%s-%d@fast-lessonplan", r.Date.String(), i))
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(eventSummary(plan, r))
		if desc := eventDescription(r); desc != "" {
			ev.SetDescription(desc)
		}
		ev.AddCategory("Unterricht")
		count++
	}
	if count == 0 {
		return nil, "", ErrExportNoRows
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写入日历失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, SubjectPlanFileName(plan, now, "ics"), nil
}

func eventSummary(plan *model.SubjectPlan, r model.PlanRow) string {
	parts := make([]string, 0, 2)
	if plan.Subject != "" {
		parts = append(parts, plan.Subject)
	}
	if r.Topic != "" {
		parts = append(parts, r.Topic)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Unterricht (%d Std.)", r.Hours)
	}
	return strings.Join(parts, ": ")
}

func eventDescription(r model.PlanRow) string {
	var lines []string
	if r.Goals != "" {
		lines = append(lines, "Lernziele: "+r.Goals)
	}
	if r.Methods != "" {
		lines = append(lines, "Methoden: "+r.Methods)
	}
	if r.Assessment != "" {
		lines = append(lines, "Leistungskontrolle: "+r.Assessment)
	}
	return strings.Join(lines, "\n")
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
