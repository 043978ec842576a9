package client

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"bombarena/pkg/core"
)

// HUDHeight 顶部信息栏高度
// basicfont 只有 ASCII 字形，界面文字用英文
const HUDHeight = 40

var hudFont = text.NewGoXFace(basicfont.Face7x13)

func drawText(screen *ebiten.Image, x, y int, msg string, clr color.Color) {
	options := &text.DrawOptions{}
	options.GeoM.Translate(float64(x), float64(y))
	options.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, hudFont, options)
}

// drawHUD 状态、计时和每个角色的生命与分数
func drawHUD(screen *ebiten.Image, s *core.Snapshot, scheme ControlScheme, width int) {
	vector.DrawFilledRect(screen, 0, 0, float32(width), HUDHeight, color.RGBA{20, 24, 32, 255}, false)

	elapsed := time.Duration(s.Stats.TimeElapsedMs) * time.Millisecond
	drawText(screen, 8, 4, fmt.Sprintf("%s  %s  [%s, P pause]", s.State, formatElapsed(elapsed), scheme), color.White)

	x := 8
	for _, p := range s.Players {
		clr := color.Color(GetCharacterInfo(p.Color).BodyColor)
		if !p.IsAlive {
			clr = color.RGBA{120, 120, 120, 255}
		}
		line := fmt.Sprintf("%s L%d S%d", p.ID, p.Lives, p.Score)
		drawText(screen, x, 22, line, clr)
		x += len(line)*7 + 16
	}
}

// drawBanner 非 PLAYING 状态下的提示
func drawBanner(screen *ebiten.Image, s *core.Snapshot, width, height int) {
	var msg string
	switch s.State {
	case core.StatePlaying:
		return
	case core.StateStart:
		msg = "Press Enter to start"
	case core.StatePaused:
		msg = "Paused - press P to resume"
	case core.StateWin:
		msg = fmt.Sprintf("%s wins! Press R to restart", s.Outcome.WinnerID)
	case core.StateGameOver:
		msg = "Game over. Press R to restart"
	}

	vector.DrawFilledRect(screen, 0, HUDHeight, float32(width), float32(height-HUDHeight), color.RGBA{0, 0, 0, 128}, false)
	drawText(screen, width/2-len(msg)*7/2, height/2, msg, color.White)
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
