package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/HansTydecks/fast-lessonplan/config"
	"github.com/HansTydecks/fast-lessonplan/internal/api/handler"
	"github.com/HansTydecks/fast-lessonplan/internal/api/router"
	"github.com/HansTydecks/fast-lessonplan/internal/bootstrap"
	"github.com/HansTydecks/fast-lessonplan/internal/metrics"
	applogger "github.com/HansTydecks/fast-lessonplan/pkg/logger"
)

func main() {
	// 0. 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("LESSONPLAN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("calendar_source", cfg.Calendar.Source),
	)

	// 3. 指标
	m := metrics.New()

	// 4. 依赖注入: 数据源/缓存 → Service → Handler
	app, err := bootstrap.New(cfg, m, logger)
	if err != nil {
		logger.Fatal("初始化失败", zap.Error(err))
	}
	app.StartPurge()

	h := handler.NewHandler(app.Service)

	// 5. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(cfg, h, app.Redis, m, logger)

	// 6. 启动 HTTP 服务器（优雅关闭）
	// 上游假期请求可能接近 calendar.timeout，写超时需留出余量
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Calendar.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 7. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库与 Redis 连接
	app.Close()

	logger.Info("服务器已关闭")
}
