package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"bombarena/internal/config"
	"bombarena/internal/engine"
	"bombarena/internal/term"
)

func main() {
	rounds := flag.Int("rounds", 0, "局数，0 表示无限")
	logPath := flag.String("log", "", "日志文件，默认丢弃（终端被游戏画面占用）")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置错误: %v\n", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "打开日志文件失败: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	room, err := engine.NewRoom(ctx, "term", engine.RoomOptions{
		Game:   cfg.Game,
		Engine: cfg.Engine,
		Rounds: *rounds,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建对局失败: %v\n", err)
		os.Exit(1)
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go room.Run(&wg)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	term.NewApp(screen, room, log.WithField("component", "term")).Run(ctx)

	screen.Fini()
	room.Shutdown()
	wg.Wait()
}
