package client

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"bombarena/pkg/core"
)

// BombRenderer 炸弹渲染器
type BombRenderer struct {
	Fuse    time.Duration
	OffsetY float32
}

// fuseRatio 引信已燃烧的比例
func fuseRatio(leftMs int64, fuse time.Duration) float64 {
	total := fuse.Milliseconds()
	if total <= 0 {
		return 1
	}
	return math.Min(1, math.Max(0, 1-float64(leftMs)/float64(total)))
}

// Draw 绘制炸弹
func (b *BombRenderer) Draw(screen *ebiten.Image, bomb core.BombView, size float32) {
	cx := float32(bomb.Pos.Col)*size + size/2
	cy := float32(bomb.Pos.Row)*size + size/2 + b.OffsetY

	ratio := fuseRatio(bomb.FuseLeft, b.Fuse)
	radius := size * 0.3

	// 剩余时间越少闪得越快
	blink := math.Sin(ratio * ratio * 60)
	alpha := uint8(200 + 55*blink)

	vector.DrawFilledCircle(screen, cx, cy, radius, color.RGBA{0, 0, 0, alpha}, false)
	vector.StrokeCircle(screen, cx, cy, radius, 2, color.RGBA{50, 50, 50, 255}, false)

	// 引线（根据时间变短）
	fuseLength := size * 0.3 * float32(1-ratio)
	if fuseLength > 0 {
		fuseX := cx - radius*0.5
		fuseY := cy - radius
		vector.StrokeLine(screen, fuseX, fuseY, fuseX-fuseLength*0.5, fuseY-fuseLength,
			2, color.RGBA{139, 69, 19, 255}, false)

		if blink > 0 {
			sparkColor := color.RGBA{255, uint8(100 + 155*blink), 0, 255}
			vector.DrawFilledCircle(screen, fuseX-fuseLength*0.5, fuseY-fuseLength, 3, sparkColor, false)
		}
	}

	// 接近爆炸时的警告圈；被连锁的炸弹直接显示
	if ratio > 0.7 || bomb.Chained {
		w := math.Max(ratio-0.7, 0) / 0.3
		if bomb.Chained {
			w = 1
		}
		vector.StrokeCircle(screen, cx, cy, radius+float32(10*w), 2,
			color.RGBA{255, 0, 0, uint8(100 * w)}, false)
	}
}

// ExplosionRenderer 爆炸渲染器
type ExplosionRenderer struct {
	Duration time.Duration
	OffsetY  float32
}

// Draw 绘制爆炸效果
func (e *ExplosionRenderer) Draw(screen *ebiten.Image, exp core.ExplosionView, size float32) {
	ratio := fuseRatio(exp.Left, e.Duration)

	// 爆炸逐渐消失
	alpha := uint8(255 * (1 - ratio))

	var fire color.RGBA
	switch {
	case ratio < 0.3:
		fire = color.RGBA{255, 255, 0, alpha} // 亮黄
	case ratio < 0.6:
		fire = color.RGBA{255, 165, 0, alpha} // 橙
	default:
		fire = color.RGBA{255, 0, 0, alpha} // 红
	}

	// 从中心扩散
	scale := float32(0.3 + 0.7*math.Min(ratio*2, 1.0))
	offset := size * (1 - scale) / 2

	for _, cell := range exp.Cells {
		px := float32(cell.Col) * size
		py := float32(cell.Row)*size + e.OffsetY

		vector.DrawFilledRect(screen, px+offset, py+offset, size*scale, size*scale, fire, false)

		// 白色中心
		if ratio < 0.5 {
			innerAlpha := uint8(200 * (1 - ratio*2))
			innerScale := scale * 0.6
			innerOffset := size * (1 - innerScale) / 2
			vector.DrawFilledRect(screen, px+innerOffset, py+innerOffset,
				size*innerScale, size*innerScale, color.RGBA{255, 255, 255, innerAlpha}, false)
		}

		vector.StrokeRect(screen, px+offset, py+offset, size*scale, size*scale,
			2, color.RGBA{255, 100, 0, alpha}, false)
	}
}
