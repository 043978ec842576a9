package core

import (
	"sort"
	"time"
)

// BombView 炸弹快照
type BombView struct {
	Pos      GridPos `json:"pos"`
	OwnerID  string  `json:"ownerId"`
	Range    int     `json:"range"`
	FuseLeft int64   `json:"fuseLeftMs"`
	Chained  bool    `json:"chained"`
}

// ExplosionView 爆炸快照
type ExplosionView struct {
	Center  GridPos   `json:"center"`
	OwnerID string    `json:"ownerId"`
	Cells   []GridPos `json:"cells"`
	Left    int64     `json:"leftMs"`
}

// PowerupView 道具快照
type PowerupView struct {
	Pos  GridPos     `json:"pos"`
	Type PowerupType `json:"type"`
}

// Snapshot 对局只读快照，交给渲染层或 HTTP 使用
// 构造后不再与 Game 共享任何可变数据。
type Snapshot struct {
	State      GameState       `json:"state"`
	Outcome    Outcome         `json:"outcome"`
	Tick       uint64          `json:"tick"`
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
	CellSize   int             `json:"cellSize"`
	Tiles      []TileType      `json:"tiles"`
	Powerups   []PowerupView   `json:"powerups"`
	Bombs      []BombView      `json:"bombs"`
	Explosions []ExplosionView `json:"explosions"`
	Players    []PlayerStats   `json:"players"`
	Damaged    []string        `json:"damaged,omitempty"`
	Stats      GameStats       `json:"stats"`
}

// Tile 快照中的格子类型，越界视为边界
func (s *Snapshot) Tile(p GridPos) TileType {
	if p.Row < 0 || p.Row >= s.Rows || p.Col < 0 || p.Col >= s.Cols {
		return TileBorder
	}
	return s.Tiles[p.Row*s.Cols+p.Col]
}

// Snapshot 生成当前快照
func (g *Game) Snapshot() *Snapshot {
	now := g.clock.Now()
	m := g.Map

	s := &Snapshot{
		State:    g.state,
		Outcome:  g.outcome,
		Tick:     g.tick,
		Rows:     m.Rows,
		Cols:     m.Cols,
		CellSize: m.CellSize,
		Tiles:    make([]TileType, 0, m.Rows*m.Cols),
		Players:  g.Tracker.PlayerStats(),
		Stats:    g.Tracker.Stats(),
	}
	for i, c := range m.cells {
		s.Tiles = append(s.Tiles, c.Type)
		if c.Powerup != PowerupNone {
			s.Powerups = append(s.Powerups, PowerupView{
				Pos:  GridPos{Row: i / m.Cols, Col: i % m.Cols},
				Type: c.Powerup,
			})
		}
	}
	for _, b := range g.Bombs.Armed() {
		s.Bombs = append(s.Bombs, BombView{
			Pos:      b.Pos,
			OwnerID:  b.OwnerID,
			Range:    b.Range,
			FuseLeft: remainingMs(b.DetonateAt, now),
			Chained:  b.Chained,
		})
	}
	for _, e := range g.Bombs.Explosions() {
		cells := make([]GridPos, len(e.Cells))
		copy(cells, e.Cells)
		s.Explosions = append(s.Explosions, ExplosionView{
			Center:  e.Center,
			OwnerID: e.OwnerID,
			Cells:   cells,
			Left:    remainingMs(e.Until, now),
		})
	}
	sort.Slice(s.Explosions, func(i, j int) bool {
		return s.Explosions[i].Left > s.Explosions[j].Left
	})
	for _, c := range g.Chars.All() {
		if c.ShowingDamage(now) {
			s.Damaged = append(s.Damaged, c.ID)
		}
	}
	return s
}

func remainingMs(until, now time.Time) int64 {
	d := until.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
