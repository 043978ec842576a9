package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// openConfig 没有砖块、不掉落道具的配置
func openConfig() Config {
	cfg := DefaultConfig()
	cfg.Grid.Coverage = 0
	cfg.Powerup.DropChance = 0
	return cfg
}

func newOpenMap(t *testing.T) *GameMap {
	t.Helper()
	return NewGameMap(openConfig().Grid, rand.New(rand.NewSource(1)))
}

func countInDirection(cells []GridPos, center, dir GridPos) int {
	n := 0
	for _, c := range cells {
		dr, dc := c.Row-center.Row, c.Col-center.Col
		switch {
		case dir.Row != 0 && dc == 0 && dr*dir.Row > 0:
			n++
		case dir.Col != 0 && dr == 0 && dc*dir.Col > 0:
			n++
		}
	}
	return n
}

func TestBlastCellsUnobstructed(t *testing.T) {
	m := newOpenMap(t)
	center := GridPos{Row: 1, Col: 1}
	right := GridPos{Col: 1}
	// 第 1 行从第 2 列到第 13 列都是空地
	edgeDistance := m.Cols - 2 - center.Col

	tests := []struct {
		name  string
		rng   int
		right int
	}{
		{"range 1 only center", 1, 0},
		{"range 2", 2, 1},
		{"range 3", 3, 2},
		{"range beyond edge", 20, edgeDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := BlastCells(m, center, tt.rng)
			assert.Contains(t, cells, center)
			assert.Equal(t, min(tt.rng-1, edgeDistance), countInDirection(cells, center, right))
			assert.Equal(t, tt.right, countInDirection(cells, center, right))
			// 上、左是边界墙，不计入
			assert.Equal(t, 0, countInDirection(cells, center, GridPos{Row: -1}))
			assert.Equal(t, 0, countInDirection(cells, center, GridPos{Col: -1}))
		})
	}

	assert.Equal(t, []GridPos{center}, BlastCells(m, center, 1))
	assert.Equal(t, []GridPos{center}, BlastCells(m, center, 0))
}

func TestBlastCellsStopsAtBrickAndPassesPowerup(t *testing.T) {
	m := newOpenMap(t)
	center := GridPos{Row: 1, Col: 1}

	m.SetPowerup(GridPos{Row: 1, Col: 2}, PowerupExtraBomb)
	setTile(m, GridPos{Row: 1, Col: 4}, TileBrick)

	cells := BlastCells(m, center, 6)
	assert.Contains(t, cells, GridPos{Row: 1, Col: 2})
	assert.Contains(t, cells, GridPos{Row: 1, Col: 3})
	assert.Contains(t, cells, GridPos{Row: 1, Col: 4})
	assert.NotContains(t, cells, GridPos{Row: 1, Col: 5})
}

func TestBlastCellsStopsAtSolidWall(t *testing.T) {
	m := newOpenMap(t)
	// (2,2) 是棋盘格固定墙
	cells := BlastCells(m, GridPos{Row: 1, Col: 2}, 4)
	assert.NotContains(t, cells, GridPos{Row: 2, Col: 2})
	assert.NotContains(t, cells, GridPos{Row: 3, Col: 2})
}

type bombFixture struct {
	m     *GameMap
	tp    *ManualTimeProvider
	bombs *BombSystem

	detonated []GridPos
	blocks    map[string]int
}

func newBombFixture(t *testing.T, mutate func(*Config)) *bombFixture {
	t.Helper()
	cfg := openConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	f := &bombFixture{
		m:      NewGameMap(cfg.Grid, rand.New(rand.NewSource(1))),
		tp:     NewManualTimeProvider(testStart),
		blocks: make(map[string]int),
	}
	f.bombs = NewBombSystem(f.m, f.tp, rand.New(rand.NewSource(2)), cfg, BombHooks{
		BlockDestroyed: func(owner string, _ GridPos) { f.blocks[owner]++ },
		Detonated:      func(b *Bomb, _ []GridPos) { f.detonated = append(f.detonated, b.Pos) },
	}, nil)
	return f
}

func (f *bombFixture) advance(d time.Duration) int {
	f.tp.Advance(d)
	return f.bombs.FireDue(f.tp.Now())
}

func TestArmRejections(t *testing.T) {
	f := newBombFixture(t, nil)

	_, err := f.bombs.Arm(GridPos{Row: -1, Col: 0}, BombOptions{})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = f.bombs.Arm(GridPos{Row: 0, Col: 0}, BombOptions{})
	assert.ErrorIs(t, err, ErrNotBombable)

	_, err = f.bombs.Arm(GridPos{Row: 2, Col: 2}, BombOptions{})
	assert.ErrorIs(t, err, ErrNotBombable)

	p := GridPos{Row: 1, Col: 1}
	_, err = f.bombs.Arm(p, BombOptions{Fuse: time.Second})
	require.NoError(t, err)
	_, err = f.bombs.Arm(p, BombOptions{Fuse: time.Second})
	assert.ErrorIs(t, err, ErrCellOccupied)

	assert.False(t, f.m.IsWalkable(p.Row, p.Col))
	b, ok := f.bombs.BombAt(p)
	require.True(t, ok)
	assert.Equal(t, BombArmed, b.State)
}

func TestArmOnBrickAndPowerup(t *testing.T) {
	f := newBombFixture(t, nil)

	brick := GridPos{Row: 1, Col: 3}
	setTile(f.m, brick, TileBrick)
	_, err := f.bombs.Arm(brick, BombOptions{Fuse: time.Second})
	assert.NoError(t, err)

	pu := GridPos{Row: 1, Col: 5}
	f.m.SetPowerup(pu, PowerupIncreaseRange)
	_, err = f.bombs.Arm(pu, BombOptions{Fuse: time.Second})
	assert.NoError(t, err)
}

func TestBombLifecycle(t *testing.T) {
	f := newBombFixture(t, nil)
	p := GridPos{Row: 1, Col: 1}

	var detonateCells []GridPos
	var visual time.Duration
	exploded := 0
	b, err := f.bombs.Arm(p, BombOptions{
		Fuse:       DefaultFuseDuration,
		BlastRange: 2,
		OwnerID:    "a",
		OnDetonate: func(cells []GridPos, d time.Duration) { detonateCells, visual = cells, d },
		OnExplode:  func([]GridPos) { exploded++ },
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.advance(DefaultFuseDuration-time.Millisecond))
	assert.Nil(t, detonateCells)

	assert.Equal(t, 1, f.advance(time.Millisecond))
	assert.Equal(t, BombDetonating, b.State)
	assert.Len(t, detonateCells, 3)
	assert.Equal(t, DefaultExplodeDuration, visual)
	assert.True(t, f.m.IsWalkable(p.Row, p.Col))
	assert.Len(t, f.bombs.Explosions(), 1)
	assert.Equal(t, 0, exploded)

	f.advance(DefaultExplodeDuration)
	assert.Equal(t, 1, exploded)
	assert.Equal(t, BombResolved, b.State)
	assert.Empty(t, f.bombs.Explosions())
	assert.Equal(t, 0, f.bombs.Pending())
}

func TestZeroFuseDestroysAdjacentBrick(t *testing.T) {
	f := newBombFixture(t, nil)
	brick := GridPos{Row: 1, Col: 2}
	setTile(f.m, brick, TileBrick)

	_, err := f.bombs.Arm(GridPos{Row: 1, Col: 1}, BombOptions{BlastRange: 3, OwnerID: "a"})
	require.NoError(t, err)
	f.advance(0)

	assert.Equal(t, TileEmpty, f.m.GetTile(brick))
	assert.True(t, f.m.IsWalkable(brick.Row, brick.Col))
	assert.Equal(t, 1, f.blocks["a"])
}

func TestChainReactionDetonatesOnce(t *testing.T) {
	f := newBombFixture(t, nil)
	first := GridPos{Row: 1, Col: 1}
	second := GridPos{Row: 1, Col: 3}

	releases := map[string]int{}
	release := func(owner string) func([]GridPos) {
		return func([]GridPos) { releases[owner]++ }
	}
	_, err := f.bombs.Arm(first, BombOptions{Fuse: 0, BlastRange: 3, OwnerID: "a", OnExplode: release("a")})
	require.NoError(t, err)
	chained, err := f.bombs.Arm(second, BombOptions{Fuse: 10 * time.Second, BlastRange: 2, OwnerID: "b", OnExplode: release("b")})
	require.NoError(t, err)

	f.advance(0)
	assert.Equal(t, []GridPos{first}, f.detonated)
	assert.Equal(t, BombChained, chained.State)
	assert.False(t, f.bombs.sched.Pending(chained.key(EventFuse)))

	f.advance(ChainReactionDelay)
	assert.Equal(t, []GridPos{first, second}, f.detonated)
	assert.True(t, chained.Chained)

	f.advance(20 * time.Second)
	assert.Equal(t, []GridPos{first, second}, f.detonated, "original fuse must not fire")
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, releases)
}

func TestMutualChainDoesNotLoop(t *testing.T) {
	f := newBombFixture(t, nil)
	a := GridPos{Row: 1, Col: 1}
	b := GridPos{Row: 1, Col: 2}

	_, err := f.bombs.Arm(a, BombOptions{Fuse: 0, BlastRange: 2, OwnerID: "a"})
	require.NoError(t, err)
	_, err = f.bombs.Arm(b, BombOptions{Fuse: time.Second, BlastRange: 2, OwnerID: "b"})
	require.NoError(t, err)

	f.advance(0)
	f.advance(ChainReactionDelay)
	f.advance(5 * time.Second)
	assert.Len(t, f.detonated, 2)
}

func TestPowerupDrop(t *testing.T) {
	f := newBombFixture(t, func(c *Config) { c.Powerup.DropChance = 1 })
	brick := GridPos{Row: 1, Col: 2}
	setTile(f.m, brick, TileBrick)

	_, err := f.bombs.Arm(GridPos{Row: 1, Col: 1}, BombOptions{BlastRange: 2})
	require.NoError(t, err)
	f.advance(0)

	c, _ := f.m.Cell(brick)
	assert.Contains(t, PowerupTypes, c.Powerup)
}

func TestClearCancelsEverything(t *testing.T) {
	f := newBombFixture(t, nil)
	called := false
	_, err := f.bombs.Arm(GridPos{Row: 1, Col: 1}, BombOptions{
		Fuse:       time.Second,
		BlastRange: 2,
		OnDetonate: func([]GridPos, time.Duration) { called = true },
	})
	require.NoError(t, err)

	f.bombs.Clear()
	assert.Equal(t, 0, f.advance(5*time.Second))
	assert.False(t, called)
	assert.Empty(t, f.bombs.Armed())
	assert.True(t, f.m.IsWalkable(1, 1))
}

func TestBlastField(t *testing.T) {
	bf := NewBlastField()
	cells := []GridPos{{Row: 1, Col: 1}, {Row: 1, Col: 2}}
	bf.Add(cells, "a", testStart.Add(350*time.Millisecond))

	c, ok := bf.At(GridPos{Row: 1, Col: 2}, testStart)
	require.True(t, ok)
	assert.Equal(t, "a", c.OwnerID)

	_, ok = bf.At(GridPos{Row: 1, Col: 2}, testStart.Add(350*time.Millisecond))
	assert.False(t, ok)

	assert.Equal(t, 0, bf.Prune(testStart.Add(100*time.Millisecond)))
	assert.Equal(t, 2, bf.Prune(testStart.Add(time.Second)))
	assert.Equal(t, 0, bf.Len())
}
