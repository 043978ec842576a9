package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"bombarena/internal/client"
	"bombarena/internal/config"
)

func main() {
	arrows := flag.Bool("arrows", false, "使用方向键+回车代替 WASD+空格")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置错误: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	scheme := client.ControlWASD
	if *arrows {
		scheme = client.ControlArrow
	}

	game, err := client.NewGame(cfg.Game, scheme, cfg.Engine.Seed, log.WithField("component", "client"))
	if err != nil {
		log.Fatalf("创建对局失败: %v", err)
	}

	w, h := game.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Bomb Arena [" + scheme.String() + "]")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Engine.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
