package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
	"github.com/HansTydecks/fast-lessonplan/internal/service"
)

var (
	timelineStart     string
	timelineDurations []int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "计算教学流程各阶段的时间段",
	Long: `按开始时刻与各阶段时长（分钟）计算每个阶段的起止时刻，跨越午夜时回绕。

Examples:
  planctl timeline --start 08:00 --durations 15,20,10`,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.Flags().StringVar(&timelineStart, "start", "08:00", "开始时刻 HH:MM")
	timelineCmd.Flags().IntSliceVar(&timelineDurations, "durations", nil, "各阶段时长（分钟）")
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc := service.NewLessonService(zap.NewNop())
	result, err := svc.Timeline(ctx, &dto.TimelineRequest{
		StartTime: timelineStart,
		Durations: timelineDurations,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "#\tZeit\tDauer")
	for _, p := range result.Phases {
		fmt.Fprintf(tw, "%d\t%s\t%d Min\n", p.Index+1, p.Range, p.Duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nEnde: %s (%d Min)\n", result.EndTime, result.TotalMinutes)
	return nil
}
