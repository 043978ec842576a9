package core

import (
	"sort"
	"time"
)

// 四个方向扩散：上、下、左、右
var blastDirections = []GridPos{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// BlastCells 计算爆炸影响的所有格子
// 中心格总是包含；每个方向最多延伸 range-1 格。
// 边界墙和固定墙挡住爆炸且不计入；砖块和炸弹计入后停止；道具不阻挡。
func BlastCells(m *GameMap, center GridPos, rangeVal int) []GridPos {
	cells := []GridPos{center}
	steps := max(0, rangeVal-1)

	for _, d := range blastDirections {
		for i := 1; i <= steps; i++ {
			p := GridPos{Row: center.Row + d.Row*i, Col: center.Col + d.Col*i}
			c, ok := m.Cell(p)
			if !ok {
				break
			}
			if c.Bomb || c.Type == TileBrick {
				cells = append(cells, p)
				break
			}
			if c.Type == TileBorder || c.Type == TileSolid {
				break
			}
			cells = append(cells, p)
		}
	}
	return cells
}

// BlastCell 残留伤害格子
type BlastCell struct {
	Pos     GridPos
	OwnerID string
	Until   time.Time
}

// BlastField 爆炸刚结束的格子仍会伤害走进来的角色
type BlastField struct {
	cells map[GridPos]BlastCell
}

// NewBlastField 创建残留伤害表
func NewBlastField() *BlastField {
	return &BlastField{cells: make(map[GridPos]BlastCell)}
}

// Add 登记一次爆炸的格子，已存在时取更晚的过期时间
func (f *BlastField) Add(cells []GridPos, ownerID string, until time.Time) {
	for _, p := range cells {
		if old, ok := f.cells[p]; ok && old.Until.After(until) {
			continue
		}
		f.cells[p] = BlastCell{Pos: p, OwnerID: ownerID, Until: until}
	}
}

// Prune 清理过期格子，返回清理数量
func (f *BlastField) Prune(now time.Time) int {
	n := 0
	for p, c := range f.cells {
		if !now.Before(c.Until) {
			delete(f.cells, p)
			n++
		}
	}
	return n
}

// At 查询格子上仍有效的残留伤害
func (f *BlastField) At(p GridPos, now time.Time) (BlastCell, bool) {
	c, ok := f.cells[p]
	if !ok || !now.Before(c.Until) {
		return BlastCell{}, false
	}
	return c, true
}

// Cells 全部残留格子，按行列排序
func (f *BlastField) Cells() []BlastCell {
	out := make([]BlastCell, 0, len(f.cells))
	for _, c := range f.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Row != out[j].Pos.Row {
			return out[i].Pos.Row < out[j].Pos.Row
		}
		return out[i].Pos.Col < out[j].Pos.Col
	})
	return out
}

// Len 残留格子数量
func (f *BlastField) Len() int {
	return len(f.cells)
}

// Clear 清空
func (f *BlastField) Clear() {
	f.cells = make(map[GridPos]BlastCell)
}
