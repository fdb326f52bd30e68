package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/dto"
)

var (
	scheduleStart     string
	scheduleTotal     int
	schedulePerWeek   int
	scheduleWeekdays  []int
	scheduleRegion    string
	scheduleVacations bool
	scheduleHolidays  bool
	schedulePreview   bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "按总课时与上课日生成课次日期",
	Long: `从开始日期起逐日查找允许的上课日，跳过假期与节假日，直到分配完全部课时。

Examples:
  planctl schedule --start 2024-09-02 --hours 40 --per-week 4 --weekdays 1,3
  planctl schedule --start 2024-09-02 --hours 40 --per-week 4 --weekdays 1,3 --region berlin --vacations --holidays
  planctl schedule --start 2024-09-02 --hours 40 --per-week 4 --weekdays 1,3 --preview --json`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "开始日期 YYYY-MM-DD（默认下周一）")
	scheduleCmd.Flags().IntVar(&scheduleTotal, "hours", 0, "总课时（必填）")
	scheduleCmd.Flags().IntVar(&schedulePerWeek, "per-week", 0, "每周课时（必填）")
	scheduleCmd.Flags().IntSliceVar(&scheduleWeekdays, "weekdays", nil, "上课日，1=周一 … 7=周日（必填）")
	scheduleCmd.Flags().StringVar(&scheduleRegion, "region", "", "联邦州标识，如 berlin")
	scheduleCmd.Flags().BoolVar(&scheduleVacations, "vacations", false, "跳过学校假期")
	scheduleCmd.Flags().BoolVar(&scheduleHolidays, "holidays", false, "跳过法定节假日")
	scheduleCmd.Flags().BoolVar(&schedulePreview, "preview", false, "只输出结束日期与统计")
	_ = scheduleCmd.MarkFlagRequired("hours")
	_ = scheduleCmd.MarkFlagRequired("per-week")
	_ = scheduleCmd.MarkFlagRequired("weekdays")
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	start := calendar.NextMonday(calendar.Today())
	if scheduleStart != "" {
		var err error
		if start, err = calendar.Parse(scheduleStart); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	app, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()
	defer logger.Sync()

	req := &dto.ScheduleRequest{
		StartDate:        start,
		TotalHours:       scheduleTotal,
		HoursPerWeek:     schedulePerWeek,
		Weekdays:         scheduleWeekdays,
		Region:           scheduleRegion,
		ExcludeVacations: scheduleVacations,
		ExcludeHolidays:  scheduleHolidays,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	plan := app.Service.Plan
	run := plan.Schedule
	if schedulePreview {
		run = plan.Preview
	}
	result, err := run(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeWarnings(cmd.ErrOrStderr(), result.Warnings)
	if jsonOutput {
		if schedulePreview {
			return writeJSON(out, result.PlanSummary)
		}
		return writeJSON(out, result)
	}
	return printSchedule(out, result)
}

func printSchedule(w io.Writer, result *dto.ScheduleResponse) error {
	if len(result.Events) > 0 {
		tw := newTable(w)
		fmt.Fprintln(tw, "KW\tDatum\tStd.")
		for _, ev := range result.Events {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", ev.WeekNumber, ev.Date.FormatDE(), ev.Hours)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	end := "-"
	if result.EndDate != nil {
		end = result.EndDate.FormatDE()
	}
	fmt.Fprintf(w, "Ende: %s\n", end)
	fmt.Fprintf(w, "Unterrichtstage: %d (ausgefallen: %d)\n", result.MatchedDayCount, result.ExcludedDayCount)
	fmt.Fprintf(w, "Stunden: %d (%d pro Tag)\n", result.AssignedHours, result.HoursPerDay)
	return nil
}
