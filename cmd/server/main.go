package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"office-duty/config"
	"office-duty/internal/api/handler"
	"office-duty/internal/api/middleware"
	"office-duty/internal/api/router"
	"office-duty/internal/repository"
	"office-duty/internal/service"
	"office-duty/pkg/database"
	"office-duty/pkg/jwt"
	applogger "office-duty/pkg/logger"
	"office-duty/pkg/metrics"
	"office-duty/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
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
		zap.String("timezone", cfg.Rotation.Timezone),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时月份锁与限流降级）
	var (
		locker  service.MonthLocker
		limiter middleware.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，月份锁与限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		locker, limiter = rdb, rdb
	}

	// 5. JWT 与指标
	jwtMgr := jwt.NewManager(&cfg.Auth)
	prom := metrics.NewPrometheus("duty")

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, locker, prom, logger)
	h := handler.NewHandler(svc)

	// 7. 定时生成下月草稿
	var job *service.AutoGenerateJob
	if cfg.Rotation.AutoGenerate {
		job = service.NewAutoGenerateJob(&cfg.Rotation, svc.Rotation, logger)
		if err := job.Start(); err != nil {
			logger.Fatal("定时任务启动失败", zap.Error(err))
		}
	}

	// 8. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(cfg, router.Deps{
		Handler:        h,
		JWT:            jwtMgr,
		Limiter:        limiter,
		Recorder:       prom,
		MetricsHandler: prom.Handler(),
		Logger:         logger,
	})

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	if job != nil {
		job.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
