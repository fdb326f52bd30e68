package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
)

var (
	exportFormat    string
	exportOut       string
	exportStart     string
	exportPerWeek   int
	exportWeekdays  []int
	exportRegion    string
	exportVacations bool
	exportHolidays  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <plan.json>",
	Short: "将计划文档导出为 xlsx、ics 或带版本的 json",
	Long: `读取计划文档（课时分配计划、仅内容的计划或教学流程计划）并导出。

仅内容的计划需要通过 --start 与 --weekdays 提供排课设置，每条内容对应一次课。
未指定 --out 时按文档内容生成文件名，写入当前目录。

Examples:
  planctl export plan.json --format xlsx
  planctl export stunde.json --format xlsx --out stunde.xlsx
  planctl export inhalte.json --format ics --start 2024-09-02 --weekdays 1,4 --region berlin --vacations`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "导出格式：xlsx | ics | json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "输出文件路径")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "仅内容的计划：开始日期 YYYY-MM-DD")
	exportCmd.Flags().IntVar(&exportPerWeek, "per-week", 0, "仅内容的计划：每周课时（默认 1）")
	exportCmd.Flags().IntSliceVar(&exportWeekdays, "weekdays", nil, "仅内容的计划：上课日，1=周一 … 7=周日")
	exportCmd.Flags().StringVar(&exportRegion, "region", "", "仅内容的计划：联邦州标识")
	exportCmd.Flags().BoolVar(&exportVacations, "vacations", false, "仅内容的计划：跳过学校假期")
	exportCmd.Flags().BoolVar(&exportHolidays, "holidays", false, "仅内容的计划：跳过法定节假日")
}

func runExport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("读取文档失败: %w", err)
	}

	settings, err := exportSettings()
	if err != nil {
		return err
	}

	app, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	imported, err := app.Service.Document.Import(ctx, &dto.ImportDocumentRequest{Document: raw, Settings: settings})
	if err != nil {
		return err
	}
	writeWarnings(cmd.ErrOrStderr(), imported.Warnings)

	buf, filename, err := render(ctx, app.Service, imported)
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = filename
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Clean(path))
	return nil
}

// exportSettings 未给出 --start 时返回 nil，仅内容的计划会因此报缺少设置
func exportSettings() (*dto.ScheduleSettings, error) {
	if exportStart == "" {
		return nil, nil
	}
	start, err := calendar.Parse(exportStart)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}
	return &dto.ScheduleSettings{
		StartDate:        start,
		HoursPerWeek:     exportPerWeek,
		Weekdays:         exportWeekdays,
		Region:           exportRegion,
		ExcludeVacations: exportVacations,
		ExcludeHolidays:  exportHolidays,
	}, nil
}

func render(ctx context.Context, svc *service.Service, imported *dto.ImportDocumentResponse) (*bytes.Buffer, string, error) {
	switch {
	case imported.SubjectPlan != nil:
		plan := imported.SubjectPlan
		switch exportFormat {
		case "xlsx":
			return svc.Export.ExportSubjectPlanXLSX(ctx, plan)
		case "ics":
			return svc.Export.ExportSubjectPlanICS(ctx, plan)
		case "json":
			return exportJSON(ctx, svc, plan)
		}

	case imported.LessonPlan != nil:
		plan := imported.LessonPlan
		switch exportFormat {
		case "xlsx":
			return svc.Export.ExportLessonPlanXLSX(ctx, plan)
		case "json":
			return exportJSON(ctx, svc, plan)
		case "ics":
			return nil, "", fmt.Errorf("教学流程计划不支持 ics 导出")
		}
	}
	return nil, "", fmt.Errorf("不支持的导出格式: %s", exportFormat)
}

func exportJSON(ctx context.Context, svc *service.Service, doc interface{}) (*bytes.Buffer, string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, "", err
	}
	res, err := svc.Document.Export(ctx, &dto.ExportDocumentRequest{Document: raw})
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, res.Document); err != nil {
		return nil, "", err
	}
	return &buf, res.FileName, nil
}
