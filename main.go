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

	"startup-tycoon/config"
	"startup-tycoon/controller"
	"startup-tycoon/logger"
	"startup-tycoon/middleware"
	"startup-tycoon/recorder"
	"startup-tycoon/repository"
	"startup-tycoon/router"
	"startup-tycoon/service"
	"startup-tycoon/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gameLog repository.GameLog
	if cfg.UseRedis() {
		rdb, err := repository.NewRedis(ctx, repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		gameLog = repository.NewRedisGameLog(rdb, cfg.GameLogLimit, cfg.GameLogTTL)
		log.Info("Redis 连接成功", zap.String("addr", cfg.RedisAddr))
	} else {
		gameLog = repository.NewMemoryGameLog(cfg.GameLogLimit)
		log.Info("未配置 Redis，游戏日志保存在内存")
	}

	rec := recorder.New(gameLog, cfg.RecorderBuffer, log.Named("recorder"))
	recCtx, stopRecorder := context.WithCancel(context.Background())
	recDone := make(chan struct{})
	go func() {
		rec.Run(recCtx)
		close(recDone)
	}()

	hub := ws.NewHub(log.Named("hub"), cfg.WSSendBuffer)
	rooms := service.NewRoomService(hub, log.Named("rooms"), service.WithRecorder(rec))

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log.Named("http")))
	r.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	router.InitRouter(r,
		controller.New(rooms, rec, log.Named("controller")),
		ws.NewHandler(hub, rooms, log.Named("ws")))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stopRecorder()
			<-recDone
			return fmt.Errorf("listen %s: %w", cfg.Addr, err)
		}
	case <-ctx.Done():
	}

	log.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	// websocket 连接是被接管的，Shutdown 不会等它们，先让 hub 关掉
	hub.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP 服务关闭失败", zap.Error(err))
	}
	stopRecorder()
	<-recDone
	log.Info("服务已关闭")
	return nil
}

// corsConfig 没有配置来源时允许所有域名
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
