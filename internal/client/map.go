package client

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"bombarena/pkg/core"
)

// MapRenderer 地图渲染器
type MapRenderer struct {
	OffsetY float32 // HUD 占用的高度
}

// Draw 绘制地图和道具
func (m *MapRenderer) Draw(screen *ebiten.Image, s *core.Snapshot) {
	size := float32(s.CellSize)
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			px := float32(col) * size
			py := float32(row)*size + m.OffsetY

			tile := s.Tile(core.GridPos{Row: row, Col: col})
			var c color.Color
			switch tile {
			case core.TileEmpty:
				c = color.RGBA{34, 139, 34, 255} // 草地绿
			case core.TileBorder:
				c = color.RGBA{60, 60, 60, 255}
			case core.TileSolid:
				c = color.RGBA{80, 80, 80, 255} // 灰色墙
			case core.TileBrick:
				c = color.RGBA{205, 133, 63, 255} // 砖块棕色
			}

			vector.DrawFilledRect(screen, px, py, size, size, c, false)
			vector.StrokeRect(screen, px, py, size, size, 1, color.RGBA{0, 0, 0, 100}, false)

			// 砖块横线纹理
			if tile == core.TileBrick {
				for i := 1; i <= 3; i++ {
					lineY := py + size*float32(i)/4
					vector.StrokeLine(screen, px+2, lineY, px+size-2, lineY, 1,
						color.RGBA{180, 118, 53, 255}, false)
				}
			}

			// 固定墙十字纹理
			if tile == core.TileSolid {
				inset := size / 8
				vector.StrokeLine(screen, px+size/2, py+inset, px+size/2, py+size-inset,
					2, color.RGBA{60, 60, 60, 255}, false)
				vector.StrokeLine(screen, px+inset, py+size/2, px+size-inset, py+size/2,
					2, color.RGBA{60, 60, 60, 255}, false)
			}
		}
	}

	for _, pu := range s.Powerups {
		m.drawPowerup(screen, pu, size)
	}
}

func (m *MapRenderer) drawPowerup(screen *ebiten.Image, pu core.PowerupView, size float32) {
	cx := float32(pu.Pos.Col)*size + size/2
	cy := float32(pu.Pos.Row)*size + size/2 + m.OffsetY
	r := size / 4

	switch pu.Type {
	case core.PowerupExtraBomb:
		vector.DrawFilledCircle(screen, cx, cy, r, color.RGBA{30, 30, 30, 255}, false)
		vector.StrokeCircle(screen, cx, cy, r+2, 2, color.RGBA{255, 215, 0, 255}, false)
	case core.PowerupIncreaseRange:
		vector.DrawFilledRect(screen, cx-r, cy-r/3, 2*r, 2*r/3, color.RGBA{255, 140, 0, 255}, false)
		vector.DrawFilledRect(screen, cx-r/3, cy-r, 2*r/3, 2*r, color.RGBA{255, 140, 0, 255}, false)
	}
}
