package client

import (
	"errors"
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"

	"bombarena/pkg/ai"
	"bombarena/pkg/core"
)

// Game 本地单机对局（Ebiten 游戏循环），模拟核心在 Update 里同步推进
type Game struct {
	core          *core.Game
	controlScheme ControlScheme
	logger        *log.Entry

	mapRenderer       *MapRenderer
	bombRenderer      *BombRenderer
	explosionRenderer *ExplosionRenderer
	playerRenderer    *PlayerRenderer

	snapshot      *core.Snapshot
	width, height int
	sizedFor      [2]int
}

// NewGame 创建本地对局，电脑角色使用 cfg.AI 指定的策略
func NewGame(cfg core.Config, scheme ControlScheme, seed int64, logger *log.Entry) (*Game, error) {
	if logger == nil {
		logger = log.WithField("component", "client")
	}
	opts := []core.Option{
		core.WithLogger(logger),
		core.WithAI(ai.NewController(cfg.AI, nil)),
	}
	if seed != 0 {
		opts = append(opts, core.WithRand(rand.New(rand.NewSource(seed))))
	}
	cg, err := core.NewGame(cfg, opts...)
	if err != nil {
		return nil, err
	}

	g := &Game{
		core:              cg,
		controlScheme:     scheme,
		logger:            logger,
		mapRenderer:       &MapRenderer{OffsetY: HUDHeight},
		bombRenderer:      &BombRenderer{Fuse: cfg.Bomb.Fuse, OffsetY: HUDHeight},
		explosionRenderer: &ExplosionRenderer{Duration: cfg.Bomb.ExplodeDuration, OffsetY: HUDHeight},
		playerRenderer:    NewPlayerRenderer(HUDHeight),
	}
	cg.SetListeners(core.Listeners{
		OnStateChange: func(from, to core.GameState) {
			logger.WithFields(log.Fields{"from": from, "to": to}).Info("状态切换")
		},
		OnWin: func(winnerID string) {
			logger.WithField("winner", winnerID).Info("对局胜利")
		},
		OnGameOver: func(reason core.EndReason) {
			logger.WithField("reason", reason).Info("游戏结束")
		},
	})
	g.snapshot = cg.Snapshot()
	return g, nil
}

// Core 底层模拟对象
func (g *Game) Core() *core.Game {
	return g.core
}

// WindowSize 默认格子大小下的窗口尺寸
func (g *Game) WindowSize() (int, int) {
	s := g.snapshot
	return s.Cols * s.CellSize, s.Rows*s.CellSize + HUDHeight
}

// Update 处理按键，推进定时事件和一个 tick
func (g *Game) Update() error {
	if g.width > 0 && g.sizedFor != [2]int{g.width, g.height} {
		g.sizedFor = [2]int{g.width, g.height}
		g.core.Resize(g.width, g.height-HUDHeight, 0)
	}

	if err := g.handleControlKeys(); err != nil {
		return err
	}
	forwardInput(g.core, g.controlScheme)

	g.core.FireDue()
	g.core.Step()
	g.snapshot = g.core.Snapshot()
	return nil
}

// handleControlKeys 开局、重开、退出
func (g *Game) handleControlKeys() error {
	state := g.core.State()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case state == core.StateStart && inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		if err := g.core.Start(); err != nil && !errors.Is(err, core.ErrInvalidState) {
			return err
		}
		g.playerRenderer.Reset()
	case state.Terminal() && inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.core.Reset()
		g.playerRenderer.Reset()
		return g.core.Start()
	}
	return nil
}

// Draw 绘制游戏画面
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.snapshot
	screen.Fill(color.RGBA{10, 10, 14, 255})
	size := float32(s.CellSize)
	now := time.Now()

	g.mapRenderer.Draw(screen, s)
	for _, e := range s.Explosions {
		g.explosionRenderer.Draw(screen, e, size)
	}
	for _, b := range s.Bombs {
		g.bombRenderer.Draw(screen, b, size)
	}
	g.playerRenderer.Draw(screen, s, now)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	drawHUD(screen, s, g.controlScheme, w)
	drawBanner(screen, s, w, h)
}

// Layout 记录窗口尺寸，下一次 Update 时重新计算格子大小
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
