package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"bombarena/internal/config"
	"bombarena/internal/engine"
)

func main() {
	// 命令行参数
	rounds := flag.Int("rounds", 0, "每个房间的局数，0 表示无限")
	address := flag.String("addr", "", "HTTP 监听地址，默认取 ARENA_HTTP_ADDR")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	if *address != "" {
		cfg.Server.HTTPAddr = *address
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := engine.NewManager(ctx, engine.RoomOptions{
		Game:    cfg.Game,
		Engine:  cfg.Engine,
		Rounds:  *rounds,
		Metrics: engine.NewMetrics(reg),
		Logger:  log.WithField("component", "room"),
	})
	manager.Run()

	for i := 0; i < cfg.Server.Sessions; i++ {
		room, err := manager.Create(nil)
		if err != nil {
			log.Fatalf("创建房间失败: %v", err)
		}
		log.WithField("room", room.ID()).Info("房间已启动")
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine.NewRouter(manager, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("HTTP 服务异常退出: %v", err)
			stop()
		}
	}()

	log.WithFields(log.Fields{
		"addr":     cfg.Server.HTTPAddr,
		"sessions": cfg.Server.Sessions,
		"tps":      cfg.Engine.TPS,
		"players":  cfg.Game.Game.Players,
		"strategy": cfg.Game.AI.Strategy,
	}).Info("模拟服务器已启动，按 Ctrl+C 停止")

	<-ctx.Done()
	log.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP 关闭超时: %v", err)
	}
	manager.Shutdown()
	log.Info("服务器已关闭")
}
