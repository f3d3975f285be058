package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"ats-parser-go/internal/api/handler"
	"ats-parser-go/internal/api/router"
	"ats-parser-go/internal/config"
	"ats-parser-go/internal/logger"
	"ats-parser-go/internal/processor"
	"ats-parser-go/internal/storage"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	logger.Init(cfg.Logger)
	// Hertz内部日志也走zerolog
	glog.SetLogger(hertzadapter.From(logger.Logger))
	logger.Info().Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	logger.Info().Msg("存储服务初始化成功")

	resumeService, err := processor.NewResumeService(cfg, storageManager, &logger.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化简历解析服务失败")
	}

	consumer := processor.NewResumeConsumer(resumeService, storageManager.RabbitMQ, &cfg.RabbitMQ, &logger.Logger)
	if err := consumer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("启动简历消费者失败")
	}

	resumeHandler := handler.NewResumeHandler(cfg, storageManager)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler)
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出")

	consumer.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}
