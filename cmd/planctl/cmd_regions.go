package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HansTydecks/fast-lessonplan/internal/dto"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "列出支持的地区标识",
	RunE:  runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, _ []string) error {
	app, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close()
	defer logger.Sync()

	regions := app.Service.Plan.Regions()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, dto.RegionsResponse{Regions: regions})
	}
	for _, r := range regions {
		fmt.Fprintln(out, r)
	}
	return nil
}
