package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── 文档模块业务错误 ──

var (
	// ErrEmptyContent 内容计划没有任何条目
	ErrEmptyContent = errors.New("文档中没有教学内容")
	// ErrDocumentNotExportable 仅内容的计划需先导入排课后才能导出
	ErrDocumentNotExportable = errors.New("该文档类型不能直接导出")
)

const (
	// 内容计划未给出每周课时时按 1 计
	contentDefaultHoursPerWeek = 1

	warnUndatedFormat = "%d 条内容未能在搜索年限内排上日期"
)

// DocumentService 计划文档导入导出
type DocumentService interface {
	// Import 解码并规范化文档；仅内容的计划按 settings 排课生成日期
	Import(ctx context.Context, req *dto.ImportDocumentRequest) (*dto.ImportDocumentResponse, error)
	// Export 补上版本与时间戳，并给出建议文件名
	Export(ctx context.Context, req *dto.ExportDocumentRequest) (*dto.ExportDocumentResponse, error)
}

type documentService struct {
	plan   PlanService
	lesson LessonService
	logger *zap.Logger
	now    func() time.Time
}

// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(plan PlanService, lesson LessonService, logger *zap.Logger) DocumentService {
	return &documentService{
		plan:   plan,
		lesson: lesson,
		logger: logger,
		now:    time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// Import
// ═══════════════════════════════════════════════════════════

func (s *documentService) Import(ctx context.Context, req *dto.ImportDocumentRequest) (*dto.ImportDocumentResponse, error) {
	doc, err := model.DecodeDocument(req.Document)
	if err != nil {
		return nil, err
	}

	switch d := doc.(type) {
	case *model.SubjectPlan:
		d.ApplyDefaults()
		return &dto.ImportDocumentResponse{Kind: d.Kind(), SubjectPlan: d}, nil

	case *model.ContentPlan:
		return s.importContent(ctx, d, req.Settings)

	case *model.LessonPlan:
		d.ApplyDefaults()
		timeline, err := s.lesson.BuildTimeline(d)
		if err != nil {
			return nil, err
		}
		return &dto.ImportDocumentResponse{Kind: d.Kind(), LessonPlan: d, Timeline: timeline}, nil

	default:
		return nil, model.ErrUnrecognizedFormat
	}
}

// importContent 每条内容对应一次课，日期来自排课结果
func (s *documentService) importContent(ctx context.Context, doc *model.ContentPlan, settings *dto.ScheduleSettings) (*dto.ImportDocumentResponse, error) {
	if settings == nil {
		return nil, ErrMissingSettings
	}
	if len(doc.Content) == 0 {
		return nil, ErrEmptyContent
	}

	today := calendar.FromTime(s.now())
	effective := *settings
	if effective.HoursPerWeek <= 0 {
		effective.HoursPerWeek = contentDefaultHoursPerWeek
	}
	if effective.StartDate.IsZero() {
		effective.StartDate = calendar.NextMonday(today)
	}
	schoolYear := doc.SchoolYear
	if schoolYear == "" {
		schoolYear = calendar.SchoolYear(today)
	}

	sched, err := s.plan.ScheduleContent(ctx, &effective, len(doc.Content))
	if err != nil {
		return nil, err
	}

	rows := make([]model.PlanRow, 0, len(doc.Content))
	for i, item := range doc.Content {
		row := model.PlanRow{
			Hours:      sched.HoursPerDay,
			Topic:      item.Topic,
			Goals:      item.Goals,
			Methods:    item.Methods,
			Assessment: item.Assessment,
		}
		if i < len(sched.Events) {
			ev := sched.Events[i]
			row.Week = strconv.Itoa(ev.WeekNumber)
			row.Date = ev.Date
			row.Hours = ev.Hours
		}
		rows = append(rows, row)
	}

	goals := doc.Goals
	if goals == nil {
		goals = []string{}
	}
	plan := &model.SubjectPlan{
		Type:             model.KindSubjectPlan,
		Subject:          doc.Subject,
		ClassName:        doc.ClassName,
		SchoolYear:       schoolYear,
		TeacherName:      doc.TeacherName,
		FederalState:     effective.Region,
		StartDate:        effective.StartDate,
		TotalLessonHours: len(doc.Content) * sched.HoursPerDay,
		HoursPerWeek:     effective.HoursPerWeek,
		Weekdays:         append([]int(nil), effective.Weekdays...),
		ExcludeVacations: effective.ExcludeVacations,
		ExcludeHolidays:  effective.ExcludeHolidays,
		Goals:            goals,
		Rows:             rows,
	}

	warnings := sched.Warnings
	if undated := len(doc.Content) - len(sched.Events); undated > 0 {
		warnings = append(warnings, fmt.Sprintf(warnUndatedFormat, undated))
		s.logger.Info("内容导入存在未排期条目", zap.Int("undated", undated))
	}

	summary := sched.PlanSummary
	return &dto.ImportDocumentResponse{
		Kind:        plan.Kind(),
		SubjectPlan: plan,
		Summary:     &summary,
		Warnings:    warnings,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// Export
// ═══════════════════════════════════════════════════════════

func (s *documentService) Export(_ context.Context, req *dto.ExportDocumentRequest) (*dto.ExportDocumentResponse, error) {
	doc, err := model.DecodeDocument(req.Document)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stamp := now.UTC()
	switch d := doc.(type) {
	case *model.SubjectPlan:
		d.ApplyDefaults()
		d.CreatedAt = &stamp
		d.Version = model.SubjectPlanVersion
		return &dto.ExportDocumentResponse{
			FileName: SubjectPlanFileName(d, now, "json"),
			Document: d,
		}, nil

	case *model.LessonPlan:
		d.ApplyDefaults()
		d.Type = ""
		d.CreatedAt = &stamp
		d.Version = model.LessonPlanVersion
		return &dto.ExportDocumentResponse{
			FileName: LessonPlanFileName(d, now, "json"),
			Document: d,
		}, nil

	case *model.ContentPlan:
		return nil, ErrDocumentNotExportable

	default:
		return nil, model.ErrUnrecognizedFormat
	}
}

// ── 文件名 ──

var unsafeFileChars = regexp.MustCompile(`(?i)[^a-z0-9äöüß\s]`)

// sanitizeFileStem 非字母数字（保留德语变音字母与空白）替换为 _ 后转小写
func sanitizeFileStem(s, fallback string) string {
	stem := strings.ToLower(unsafeFileChars.ReplaceAllString(s, "_"))
	if stem == "" {
		return fallback
	}
	return stem
}

// SubjectPlanFileName stoffverteilungsplan_<fach>_<klasse>_<YYYY-MM-DD>.<ext>
func SubjectPlanFileName(p *model.SubjectPlan, now time.Time, ext string) string {
	stem := sanitizeFileStem("stoffverteilungsplan_"+p.Subject+"_"+p.ClassName, "stoffverteilungsplan")
	return stem + "_" + now.Format("2006-01-02") + "." + ext
}

// LessonPlanFileName <titel>_<YYYY-MM-DD>.<ext>，无标题时为 stundenverlaufsplan
func LessonPlanFileName(p *model.LessonPlan, now time.Time, ext string) string {
	stem := sanitizeFileStem(p.LessonTitle, "stundenverlaufsplan")
	return stem + "_" + now.Format("2006-01-02") + "." + ext
}
