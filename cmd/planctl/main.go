// planctl 命令行排课工具：与 HTTP 服务共用同一套 Service。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/config"
	"github.com/HansTydecks/fast-lessonplan/internal/bootstrap"
	applogger "github.com/HansTydecks/fast-lessonplan/pkg/logger"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Stoffverteilungsplan 与 Stundenverlaufsplan 命令行工具",
	Long: `planctl 在命令行中生成课次日期、计算教学流程时间轴并导出计划文档。

假期数据源与缓存后端沿用服务端配置（config.yaml / LESSONPLAN_* 环境变量 / .env）。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "日志级别，日志输出到 stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "以 JSON 输出结果")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp 加载配置并组装依赖（需要假期数据的命令调用）
func loadApp() (*bootstrap.App, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, nil, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, logger, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	logCfg.Level = logLevel
	logCfg.Format = "console"
	logger, err := applogger.NewLogger(&logCfg)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return logger, nil
}
