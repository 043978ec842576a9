package core

import (
	"math/rand"
)

// TileType 地图块类型
type TileType int

const (
	TileEmpty  TileType = iota // 空地
	TileBorder                 // 边界墙
	TileSolid                  // 棋盘格固定墙
	TileBrick                  // 可破坏砖块
)

func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileBorder:
		return "border"
	case TileSolid:
		return "solid"
	case TileBrick:
		return "brick"
	}
	return "unknown"
}

// PowerupType 道具类型
type PowerupType int

const (
	PowerupNone          PowerupType = iota
	PowerupExtraBomb                 // 炸弹容量 +1
	PowerupIncreaseRange             // 爆炸范围 +1
)

// PowerupTypes 可掉落的道具，掉落时均匀随机
var PowerupTypes = []PowerupType{PowerupExtraBomb, PowerupIncreaseRange}

func (p PowerupType) String() string {
	switch p {
	case PowerupExtraBomb:
		return "extraBomb"
	case PowerupIncreaseRange:
		return "increaseRange"
	}
	return "none"
}

// GridPos 格子坐标，行向下、列向右，原点在左上角
type GridPos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add 偏移
func (p GridPos) Add(d GridPos) GridPos {
	return GridPos{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Manhattan 曼哈顿距离
func (p GridPos) Manhattan(o GridPos) int {
	return abs(p.Row-o.Row) + abs(p.Col-o.Col)
}

// Cell 单个格子的运行时状态
type Cell struct {
	Type    TileType
	Solid   bool // 是否阻挡移动
	Bomb    bool // 是否有已布置的炸弹
	Powerup PowerupType
}

// CellData 布局生成结果中的格子
type CellData struct {
	Index int
	Row   int
	Col   int
	Type  TileType
}

// Layout 一次布局生成的结果
type Layout struct {
	Cells  []CellData
	Spawns []GridPos
}

// GameMap 游戏地图（核心逻辑，不包含渲染）
type GameMap struct {
	Rows     int
	Cols     int
	CellSize int // 当前像素尺寸，只影响表现

	cfg    GridConfig
	rng    *rand.Rand
	cells  []Cell
	spawns []GridPos
}

// NewGameMap 按配置生成地图
func NewGameMap(cfg GridConfig, rng *rand.Rand) *GameMap {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	m := &GameMap{
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		CellSize: cfg.CellSize,
		cfg:      cfg,
		rng:      rng,
	}
	m.Reset()
	return m
}

// Reset 重新生成整张地图，清除炸弹和道具
func (m *GameMap) Reset() {
	layout := GenerateLayout(m.cfg, m.rng)
	m.cells = make([]Cell, m.Rows*m.Cols)
	for _, cd := range layout.Cells {
		m.cells[cd.Index] = Cell{Type: cd.Type, Solid: cd.Type != TileEmpty}
	}
	m.spawns = m.resolveSpawns(layout.Spawns)
}

// GenerateLayout 生成地图布局：边界、棋盘格墙、随机砖块
func GenerateLayout(cfg GridConfig, rng *rand.Rand) Layout {
	total := cfg.Rows * cfg.Cols
	cells := make([]CellData, 0, total)
	coverage := clampFloat(cfg.Coverage, 0, 1)

	for i := 0; i < total; i++ {
		row, col := i/cfg.Cols, i%cfg.Cols
		t := TileEmpty
		switch {
		case isBorderCell(cfg, row, col):
			t = TileBorder
		case isSolidPatternCell(cfg, row, col):
			t = TileSolid
		case !isInSpawnZone(cfg, row, col) && rng.Float64() < coverage:
			t = TileBrick
		}
		cells = append(cells, CellData{Index: i, Row: row, Col: col, Type: t})
	}

	return Layout{Cells: cells, Spawns: cornerSpawns(cfg)}
}

func isBorderCell(cfg GridConfig, row, col int) bool {
	return row == 0 || row == cfg.Rows-1 || col == 0 || col == cfg.Cols-1
}

func isSolidPatternCell(cfg GridConfig, row, col int) bool {
	return (row+cfg.RowOffset)%2 == 1 && (col+cfg.ColOffset)%2 == 1
}

// isInSpawnZone 四个出生角内侧 cornerSafeSize×cornerSafeSize 的安全区
func isInSpawnZone(cfg GridConfig, row, col int) bool {
	size := cfg.CornerSafeSize
	if size <= 0 {
		return false
	}
	minRow, minCol := 1, 1
	maxRow, maxCol := cfg.Rows-2, cfg.Cols-2

	top := row >= minRow && row < minRow+size
	bottom := row > maxRow-size && row <= maxRow
	left := col >= minCol && col < minCol+size
	right := col > maxCol-size && col <= maxCol

	return (top || bottom) && (left || right)
}

// cornerSpawns 四角出生点：左上、右上、左下、右下
func cornerSpawns(cfg GridConfig) []GridPos {
	return []GridPos{
		{Row: 1, Col: 1},
		{Row: 1, Col: cfg.Cols - 2},
		{Row: cfg.Rows - 2, Col: 1},
		{Row: cfg.Rows - 2, Col: cfg.Cols - 2},
	}
}

// 螺旋搜索方向：右、下、左、上，然后是四个对角
var spiralDirections = []GridPos{
	{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: -1, Col: 0},
	{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: -1}, {Row: -1, Col: 1},
}

// resolveSpawns 出生点不可走时向外螺旋搜索，仍找不到则清空该格
func (m *GameMap) resolveSpawns(nominal []GridPos) []GridPos {
	out := make([]GridPos, 0, len(nominal))
	for _, base := range nominal {
		out = append(out, m.resolveSpawn(base))
	}
	return out
}

func (m *GameMap) resolveSpawn(base GridPos) GridPos {
	if m.IsWalkable(base.Row, base.Col) {
		return base
	}
	for radius := 1; radius <= SpawnSearchRadius; radius++ {
		for _, d := range spiralDirections {
			p := GridPos{Row: base.Row + d.Row*radius, Col: base.Col + d.Col*radius}
			if m.IsWalkable(p.Row, p.Col) {
				return p
			}
		}
	}
	if m.InBounds(base.Row, base.Col) {
		m.cells[m.index(base.Row, base.Col)] = Cell{Type: TileEmpty}
	}
	return base
}

// SpawnPositions 返回 4 个出生点（均可走）
func (m *GameMap) SpawnPositions() []GridPos {
	out := make([]GridPos, len(m.spawns))
	copy(out, m.spawns)
	return out
}

// InBounds 是否在地图内
func (m *GameMap) InBounds(row, col int) bool {
	return row >= 0 && row < m.Rows && col >= 0 && col < m.Cols
}

func (m *GameMap) index(row, col int) int {
	return row*m.Cols + col
}

// Cell 获取格子状态，越界返回 false
func (m *GameMap) Cell(p GridPos) (Cell, bool) {
	if !m.InBounds(p.Row, p.Col) {
		return Cell{Type: TileBorder, Solid: true}, false
	}
	return m.cells[m.index(p.Row, p.Col)], true
}

// GetTile 获取指定位置的地图块，越界视为边界墙
func (m *GameMap) GetTile(p GridPos) TileType {
	c, _ := m.Cell(p)
	return c.Type
}

// IsWalkable 格子是否可走：越界或 solid 均不可走
func (m *GameMap) IsWalkable(row, col int) bool {
	if !m.InBounds(row, col) {
		return false
	}
	return !m.cells[m.index(row, col)].Solid
}

func (m *GameMap) cellRef(p GridPos) *Cell {
	if !m.InBounds(p.Row, p.Col) {
		return nil
	}
	return &m.cells[m.index(p.Row, p.Col)]
}

// markBomb 布置炸弹：格子变为 solid
func (m *GameMap) markBomb(p GridPos) {
	if c := m.cellRef(p); c != nil {
		c.Bomb = true
		c.Solid = true
	}
}

// clearBomb 清除炸弹标记，砖块仍保持 solid
func (m *GameMap) clearBomb(p GridPos) {
	if c := m.cellRef(p); c != nil {
		c.Bomb = false
		c.Solid = c.Type != TileEmpty
	}
}

// destroyBrick 炸毁砖块，返回是否确实有砖块
func (m *GameMap) destroyBrick(p GridPos) bool {
	c := m.cellRef(p)
	if c == nil || c.Type != TileBrick {
		return false
	}
	c.Type = TileEmpty
	c.Solid = c.Bomb
	return true
}

// SetPowerup 在格子上放置道具
func (m *GameMap) SetPowerup(p GridPos, t PowerupType) {
	if c := m.cellRef(p); c != nil {
		c.Powerup = t
	}
}

// TakePowerup 拾取并移除道具
func (m *GameMap) TakePowerup(p GridPos) PowerupType {
	c := m.cellRef(p)
	if c == nil || c.Powerup == PowerupNone {
		return PowerupNone
	}
	t := c.Powerup
	c.Powerup = PowerupNone
	return t
}

// Bricks 所有可破坏砖块位置
func (m *GameMap) Bricks() []GridPos {
	return m.positionsWhere(func(c Cell) bool { return c.Type == TileBrick })
}

// Powerups 所有道具位置
func (m *GameMap) Powerups() []GridPos {
	return m.positionsWhere(func(c Cell) bool { return c.Powerup != PowerupNone })
}

func (m *GameMap) positionsWhere(pred func(Cell) bool) []GridPos {
	var out []GridPos
	for i, c := range m.cells {
		if pred(c) {
			out = append(out, GridPos{Row: i / m.Cols, Col: i % m.Cols})
		}
	}
	return out
}

// Resize 根据视口重新计算像素格子大小，不影响格子类型
func (m *GameMap) Resize(viewWidth, viewHeight, padding int) int {
	maxW := (viewWidth - padding*2) / m.Cols
	maxH := (viewHeight - padding*2) / m.Rows
	size := min(m.cfg.CellSize, maxW, maxH)
	if size < MinCellSize {
		size = MinCellSize
	}
	m.CellSize = size
	return size
}

// GridToPixel 格子坐标转像素坐标（左上角）
func (m *GameMap) GridToPixel(p GridPos) PixelPos {
	return PixelPos{X: p.Col * m.CellSize, Y: p.Row * m.CellSize}
}

// PixelPos 像素坐标，由格子坐标推导
type PixelPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
