package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLayoutProperties(t *testing.T) {
	cfg := DefaultConfig().Grid
	for seed := int64(1); seed <= 25; seed++ {
		m := NewGameMap(cfg, rand.New(rand.NewSource(seed)))
		for row := 0; row < m.Rows; row++ {
			for col := 0; col < m.Cols; col++ {
				c, ok := m.Cell(GridPos{Row: row, Col: col})
				require.True(t, ok)

				if isBorderCell(cfg, row, col) {
					assert.Equal(t, TileBorder, c.Type, "seed %d (%d,%d)", seed, row, col)
					assert.True(t, c.Solid)
					continue
				}
				if isSolidPatternCell(cfg, row, col) {
					assert.Equal(t, TileSolid, c.Type, "seed %d (%d,%d)", seed, row, col)
					assert.True(t, c.Solid)
					continue
				}
				if isInSpawnZone(cfg, row, col) {
					assert.NotEqual(t, TileBrick, c.Type, "brick in spawn zone seed %d (%d,%d)", seed, row, col)
				}
				if c.Type == TileBrick {
					assert.True(t, c.Solid)
				}
			}
		}
	}
}

func TestCoverageBounds(t *testing.T) {
	cfg := DefaultConfig().Grid

	cfg.Coverage = 0
	m := NewGameMap(cfg, rand.New(rand.NewSource(3)))
	assert.Empty(t, m.Bricks())

	cfg.Coverage = 1
	m = NewGameMap(cfg, rand.New(rand.NewSource(3)))
	for _, cd := range GenerateLayout(cfg, rand.New(rand.NewSource(3))).Cells {
		if cd.Type == TileEmpty {
			assert.True(t, isInSpawnZone(cfg, cd.Row, cd.Col), "(%d,%d) left empty", cd.Row, cd.Col)
		}
	}
	assert.NotEmpty(t, m.Bricks())
}

func TestSpawnPositionsAlwaysWalkable(t *testing.T) {
	cfg := DefaultConfig().Grid
	m := NewGameMap(cfg, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		m.Reset()
		spawns := m.SpawnPositions()
		require.Len(t, spawns, 4)
		for _, p := range spawns {
			assert.True(t, m.IsWalkable(p.Row, p.Col), "spawn %v blocked", p)
		}
	}
}

func TestSpawnFallbackWithoutSafeZone(t *testing.T) {
	cfg := DefaultConfig().Grid
	cfg.CornerSafeSize = 0
	cfg.Coverage = 1

	m := NewGameMap(cfg, rand.New(rand.NewSource(11)))
	spawns := m.SpawnPositions()
	require.Len(t, spawns, 4)
	for _, p := range spawns {
		assert.True(t, m.IsWalkable(p.Row, p.Col))
	}
	// 全部被砖块覆盖时清空名义出生点
	assert.Equal(t, GridPos{Row: 1, Col: 1}, spawns[0])
	assert.Equal(t, TileEmpty, m.GetTile(spawns[0]))
}

func TestIsWalkableOutOfBounds(t *testing.T) {
	m := NewGameMap(DefaultConfig().Grid, rand.New(rand.NewSource(1)))
	assert.False(t, m.IsWalkable(-1, 0))
	assert.False(t, m.IsWalkable(0, -1))
	assert.False(t, m.IsWalkable(m.Rows, 1))
	assert.False(t, m.IsWalkable(1, m.Cols))
	assert.Equal(t, TileBorder, m.GetTile(GridPos{Row: 99, Col: 99}))
}

func TestResetClearsDynamicState(t *testing.T) {
	cfg := DefaultConfig().Grid
	cfg.Coverage = 0
	m := NewGameMap(cfg, rand.New(rand.NewSource(1)))

	p := GridPos{Row: 1, Col: 2}
	m.SetPowerup(p, PowerupExtraBomb)
	m.markBomb(GridPos{Row: 1, Col: 3})
	require.False(t, m.IsWalkable(1, 3))

	m.Reset()
	assert.Empty(t, m.Powerups())
	assert.True(t, m.IsWalkable(1, 3))
}

func TestBombCellSolidity(t *testing.T) {
	cfg := DefaultConfig().Grid
	cfg.Coverage = 0
	m := NewGameMap(cfg, rand.New(rand.NewSource(1)))

	p := GridPos{Row: 1, Col: 2}
	m.markBomb(p)
	assert.False(t, m.IsWalkable(p.Row, p.Col))
	m.clearBomb(p)
	assert.True(t, m.IsWalkable(p.Row, p.Col))

	setTile(m, p, TileBrick)
	m.markBomb(p)
	m.clearBomb(p)
	assert.False(t, m.IsWalkable(p.Row, p.Col), "brick stays solid")
	assert.True(t, m.destroyBrick(p))
	assert.True(t, m.IsWalkable(p.Row, p.Col))
	assert.False(t, m.destroyBrick(p))
}

func TestResizeKeepsTiles(t *testing.T) {
	m := NewGameMap(DefaultConfig().Grid, rand.New(rand.NewSource(5)))
	before := tileTypes(m)

	size := m.Resize(400, 300, 10)
	assert.Equal(t, min((400-20)/m.Cols, (300-20)/m.Rows), size)
	assert.Equal(t, size, m.CellSize)
	assert.Equal(t, before, tileTypes(m))

	assert.Equal(t, MinCellSize, m.Resize(10, 10, 0))
	assert.Equal(t, DefaultCellSize, m.Resize(5000, 5000, 0))
	assert.Equal(t, PixelPos{X: 3 * DefaultCellSize, Y: 2 * DefaultCellSize}, m.GridToPixel(GridPos{Row: 2, Col: 3}))
}

func tileTypes(m *GameMap) []TileType {
	out := make([]TileType, 0, len(m.cells))
	for _, c := range m.cells {
		out = append(out, c.Type)
	}
	return out
}

func setTile(m *GameMap, p GridPos, t TileType) {
	c := m.cellRef(p)
	c.Type = t
	c.Solid = t != TileEmpty || c.Bomb
}
