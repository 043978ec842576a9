package client

import (
	"image/color"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"bombarena/pkg/core"
)

// ControlScheme 按键方案
type ControlScheme int

const (
	ControlWASD  ControlScheme = iota // WASD + 空格键
	ControlArrow                      // 方向键+回车键
)

func (c ControlScheme) String() string {
	switch c {
	case ControlWASD:
		return "WASD+Space"
	case ControlArrow:
		return "Arrows+Enter"
	}
	return "unknown"
}

// keyBinding 一个按键对应的动作
type keyBinding struct {
	Key    ebiten.Key
	Action core.Action
}

// Bindings 按键方案对应的绑定，P 键暂停在两种方案里都有效
func (c ControlScheme) Bindings() []keyBinding {
	var b []keyBinding
	if c == ControlArrow {
		b = []keyBinding{
			{ebiten.KeyArrowUp, core.ActionUp},
			{ebiten.KeyArrowDown, core.ActionDown},
			{ebiten.KeyArrowLeft, core.ActionLeft},
			{ebiten.KeyArrowRight, core.ActionRight},
			{ebiten.KeyEnter, core.ActionBomb},
		}
	} else {
		b = []keyBinding{
			{ebiten.KeyW, core.ActionUp},
			{ebiten.KeyS, core.ActionDown},
			{ebiten.KeyA, core.ActionLeft},
			{ebiten.KeyD, core.ActionRight},
			{ebiten.KeySpace, core.ActionBomb},
		}
	}
	return append(b, keyBinding{ebiten.KeyP, core.ActionPause})
}

// forwardInput 把本帧的按下/松开边沿转给模拟核心
func forwardInput(g *core.Game, scheme ControlScheme) {
	for _, b := range scheme.Bindings() {
		if inpututil.IsKeyJustPressed(b.Key) {
			g.Press(b.Action)
		}
		if inpututil.IsKeyJustReleased(b.Key) {
			g.Release(b.Action)
		}
	}
}

// animState 每个角色的渲染状态
type animState struct {
	last      core.GridPos
	facing    core.Direction
	frame     int
	changedAt time.Time
}

// PlayerRenderer 玩家渲染器
type PlayerRenderer struct {
	OffsetY float32
	anims   map[string]*animState
}

// NewPlayerRenderer 创建玩家渲染器
func NewPlayerRenderer(offsetY float32) *PlayerRenderer {
	return &PlayerRenderer{OffsetY: offsetY, anims: make(map[string]*animState)}
}

// Reset 新对局开始时清掉动画状态
func (r *PlayerRenderer) Reset() {
	clear(r.anims)
}

// update 根据格子变化推断朝向，换格时切换动画帧
func (r *PlayerRenderer) update(p core.PlayerStats, now time.Time) *animState {
	pos := core.GridPos{Row: p.Row, Col: p.Col}
	a, ok := r.anims[p.ID]
	if !ok {
		a = &animState{last: pos, facing: core.DirDown}
		r.anims[p.ID] = a
	}
	if pos != a.last {
		switch {
		case pos.Row < a.last.Row:
			a.facing = core.DirUp
		case pos.Row > a.last.Row:
			a.facing = core.DirDown
		case pos.Col < a.last.Col:
			a.facing = core.DirLeft
		default:
			a.facing = core.DirRight
		}
		a.last = pos
		a.frame = 1
		a.changedAt = now
	} else if now.Sub(a.changedAt) >= 150*time.Millisecond {
		a.frame = 0
	}
	return a
}

// Draw 绘制所有存活角色
func (r *PlayerRenderer) Draw(screen *ebiten.Image, s *core.Snapshot, now time.Time) {
	size := float32(s.CellSize)
	for _, p := range s.Players {
		if !p.IsAlive {
			delete(r.anims, p.ID)
			continue
		}
		a := r.update(p, now)
		// 受伤闪烁
		if slices.Contains(s.Damaged, p.ID) && (now.UnixMilli()/100)%2 == 0 {
			continue
		}
		r.drawBody(screen, GetCharacterInfo(p.Color), a, float32(p.Col)*size, float32(p.Row)*size+r.OffsetY, size)
	}
}

func (r *PlayerRenderer) drawBody(screen *ebiten.Image, info CharacterInfo, a *animState, x, y, size float32) {
	bodyWidth := size * 0.6
	bodyHeight := size * 0.65
	drawX := x + (size-bodyWidth)/2
	drawY := y + size*0.1

	vector.DrawFilledRect(screen, drawX, drawY, bodyWidth, bodyHeight, info.BodyColor, false)
	vector.StrokeRect(screen, drawX, drawY, bodyWidth, bodyHeight, 2, info.OutlineColor, false)

	// 手脚随动画帧摆动
	swing := float32(0)
	if a.frame == 1 {
		swing = 2
	}

	handSize := bodyWidth * 0.15
	vector.DrawFilledCircle(screen, drawX-swing-2, drawY+bodyHeight*0.6, handSize, info.HandColor, false)
	vector.DrawFilledCircle(screen, drawX+bodyWidth+swing+2, drawY+bodyHeight*0.6, handSize, info.HandColor, false)

	footSize := bodyWidth * 0.3
	vector.DrawFilledRect(screen, drawX+bodyWidth*0.2-swing, drawY+bodyHeight, footSize, footSize*0.6, info.ShoeColor, false)
	vector.DrawFilledRect(screen, drawX+bodyWidth*0.6+swing, drawY+bodyHeight, footSize, footSize*0.6, info.ShoeColor, false)

	// 眼睛（根据朝向）
	eyeSize := bodyWidth * 0.12
	eyeY := drawY + bodyHeight*0.3
	eyeSpacing := bodyWidth * 0.2
	var lx, ly, rx, ry float32
	switch a.facing {
	case core.DirUp:
		lx, ly = drawX+bodyWidth*0.3, eyeY-2
		rx, ry = drawX+bodyWidth*0.7, eyeY-2
	case core.DirDown:
		lx, ly = drawX+bodyWidth*0.3, eyeY+2
		rx, ry = drawX+bodyWidth*0.7, eyeY+2
	case core.DirLeft:
		lx, ly = drawX+bodyWidth*0.3-eyeSpacing/2, eyeY
		rx, ry = drawX+bodyWidth*0.5-eyeSpacing/2, eyeY
	case core.DirRight:
		lx, ly = drawX+bodyWidth*0.5+eyeSpacing/2, eyeY
		rx, ry = drawX+bodyWidth*0.7+eyeSpacing/2, eyeY
	}

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	vector.DrawFilledCircle(screen, lx, ly, eyeSize, white, false)
	vector.DrawFilledCircle(screen, rx, ry, eyeSize, white, false)
	vector.DrawFilledCircle(screen, lx, ly, eyeSize*0.5, black, false)
	vector.DrawFilledCircle(screen, rx, ry, eyeSize*0.5, black, false)
}
