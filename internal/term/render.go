// Package term 终端前端：用 tcell 把快照画成字符网格，键盘输入转给房间。
package term

import (
	"fmt"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"bombarena/pkg/core"
)

// 每个格子占两列，看起来接近正方形
const cellWidth = 2

// hudRows 顶部状态栏行数
const hudRows = 2

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorDimGray).Background(tcell.ColorDimGray)
	styleSolid  = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	styleBrick  = tcell.StyleDefault.Foreground(tcell.ColorSandyBrown).Background(tcell.ColorSaddleBrown)
	styleEmpty  = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	styleBomb   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkGreen).Bold(true)
	styleFire   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Glyphs 格子对应的字符
const (
	GlyphBorder  = '█'
	GlyphSolid   = '▓'
	GlyphBrick   = '▒'
	GlyphBomb    = '●'
	GlyphFire    = '*'
	GlyphExtra   = '+'
	GlyphRange   = '^'
	GlyphUnknown = '?'
)

// Origin 网格左上角在屏幕上的位置
func Origin() (x, y int) {
	return 0, hudRows
}

// CellAt 网格坐标对应的屏幕坐标
func CellAt(p core.GridPos) (x, y int) {
	ox, oy := Origin()
	return ox + p.Col*cellWidth, oy + p.Row
}

func putCell(s tcell.Screen, p core.GridPos, r rune, style tcell.Style) {
	x, y := CellAt(p)
	s.SetContent(x, y, r, nil, style)
	fill := r
	if r != GlyphBorder && r != GlyphSolid && r != GlyphBrick {
		fill = ' '
	}
	s.SetContent(x+1, y, fill, nil, style)
}

func putString(s tcell.Screen, x, y int, msg string, style tcell.Style) {
	for _, r := range msg {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Render 把快照完整画到屏幕上，不调用 Show
func Render(s tcell.Screen, snap *core.Snapshot) {
	s.Clear()
	if snap == nil {
		return
	}

	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Cols; col++ {
			p := core.GridPos{Row: row, Col: col}
			switch snap.Tile(p) {
			case core.TileBorder:
				putCell(s, p, GlyphBorder, styleBorder)
			case core.TileSolid:
				putCell(s, p, GlyphSolid, styleSolid)
			case core.TileBrick:
				putCell(s, p, GlyphBrick, styleBrick)
			default:
				putCell(s, p, ' ', styleEmpty)
			}
		}
	}

	for _, pu := range snap.Powerups {
		r := GlyphUnknown
		switch pu.Type {
		case core.PowerupExtraBomb:
			r = GlyphExtra
		case core.PowerupIncreaseRange:
			r = GlyphRange
		}
		putCell(s, pu.Pos, r, styleBomb.Foreground(tcell.ColorAqua))
	}

	for _, e := range snap.Explosions {
		for _, c := range e.Cells {
			putCell(s, c, GlyphFire, styleFire)
		}
	}

	for _, b := range snap.Bombs {
		style := styleBomb
		if b.Chained || b.FuseLeft < 500 {
			style = style.Foreground(tcell.ColorRed)
		}
		putCell(s, b.Pos, GlyphBomb, style)
	}

	for i, p := range snap.Players {
		if !p.IsAlive {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.GetColor(p.Color)).Bold(true)
		if slices.Contains(snap.Damaged, p.ID) {
			style = style.Reverse(true)
		}
		putCell(s, core.GridPos{Row: p.Row, Col: p.Col}, rune('1'+i), style)
	}

	renderHUD(s, snap)
}

func renderHUD(s tcell.Screen, snap *core.Snapshot) {
	elapsed := time.Duration(snap.Stats.TimeElapsedMs) * time.Millisecond
	putString(s, 0, 0, fmt.Sprintf("%-9s %s  WASD/arrows move  space bomb  p pause  q quit",
		snap.State, formatElapsed(elapsed)), styleText)

	x := 0
	for i, p := range snap.Players {
		style := styleText.Foreground(tcell.GetColor(p.Color))
		if !p.IsAlive {
			style = styleText.Foreground(tcell.ColorGray)
		}
		line := fmt.Sprintf("%d:%s L%d S%d", i+1, p.ID, p.Lives, p.Score)
		putString(s, x, 1, line, style)
		x += len(line) + 2
	}

	if msg := banner(snap); msg != "" {
		_, oy := Origin()
		y := oy + snap.Rows/2
		x := (snap.Cols*cellWidth - len(msg)) / 2
		putString(s, max(x, 0), y, msg, styleText.Reverse(true))
	}
}

func banner(snap *core.Snapshot) string {
	switch snap.State {
	case core.StatePaused:
		return " PAUSED "
	case core.StateWin:
		return fmt.Sprintf(" %s WINS ", snap.Outcome.WinnerID)
	case core.StateGameOver:
		return " GAME OVER "
	}
	return ""
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
