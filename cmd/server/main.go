package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"course-planner/config"
	"course-planner/internal/api/handler"
	"course-planner/internal/api/router"
	"course-planner/internal/repository"
	"course-planner/internal/service"
	"course-planner/pkg/database"
	"course-planner/pkg/jwt"
	"course-planner/pkg/logger"
	"course-planner/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "启动失败:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// ── 基础设施 ──
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		return err
	}

	redisClient, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close() //nolint:errcheck

	// ── 组装各层 ──
	jwtManager := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	services := service.NewServices(repo, cfg, jwtManager, redisClient, log)
	h := handler.NewHandler(services, log)
	engine := router.New(cfg, h, jwtManager, redisClient, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── 启动与优雅退出 ──
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("收到退出信号，开始优雅关闭", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭 HTTP 服务失败: %w", err)
	}

	log.Info("服务已退出")
	return nil
}
