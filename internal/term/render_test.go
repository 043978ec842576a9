package term

import (
	"math/rand"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombarena/pkg/core"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func startedSnapshot(t *testing.T) *core.Snapshot {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Grid.Coverage = 0
	cfg.Game.Players = 2
	g, err := core.NewGame(cfg, core.WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g.Snapshot()
}

func runeAt(s tcell.Screen, p core.GridPos) rune {
	x, y := CellAt(p)
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestRenderTilesAndPlayers(t *testing.T) {
	screen := newScreen(t)
	snap := startedSnapshot(t)
	Render(screen, snap)

	assert.Equal(t, GlyphBorder, runeAt(screen, core.GridPos{}))
	assert.Equal(t, GlyphSolid, runeAt(screen, core.GridPos{Row: 2, Col: 2}))

	for i, p := range snap.Players {
		assert.Equal(t, rune('1'+i), runeAt(screen, core.GridPos{Row: p.Row, Col: p.Col}), p.ID)
	}
}

func TestRenderBombsAndExplosions(t *testing.T) {
	screen := newScreen(t)
	snap := startedSnapshot(t)
	snap.Players = nil
	snap.Bombs = []core.BombView{{Pos: core.GridPos{Row: 1, Col: 3}, FuseLeft: 1000}}
	snap.Explosions = []core.ExplosionView{{Cells: []core.GridPos{{Row: 3, Col: 1}, {Row: 4, Col: 1}}}}
	snap.Powerups = []core.PowerupView{{Pos: core.GridPos{Row: 1, Col: 5}, Type: core.PowerupIncreaseRange}}
	Render(screen, snap)

	assert.Equal(t, GlyphBomb, runeAt(screen, core.GridPos{Row: 1, Col: 3}))
	assert.Equal(t, GlyphFire, runeAt(screen, core.GridPos{Row: 3, Col: 1}))
	assert.Equal(t, GlyphFire, runeAt(screen, core.GridPos{Row: 4, Col: 1}))
	assert.Equal(t, GlyphRange, runeAt(screen, core.GridPos{Row: 1, Col: 5}))
}

func TestRenderSkipsDeadPlayers(t *testing.T) {
	screen := newScreen(t)
	snap := startedSnapshot(t)
	dead := snap.Players[1]
	snap.Players[1].IsAlive = false
	Render(screen, snap)

	assert.Equal(t, ' ', runeAt(screen, core.GridPos{Row: dead.Row, Col: dead.Col}))
}

func TestBanner(t *testing.T) {
	tests := []struct {
		state core.GameState
		want  string
	}{
		{core.StatePlaying, ""},
		{core.StateStart, ""},
		{core.StatePaused, " PAUSED "},
		{core.StateGameOver, " GAME OVER "},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, banner(&core.Snapshot{State: tt.state}))
		})
	}

	win := &core.Snapshot{State: core.StateWin, Outcome: core.Outcome{State: core.StateWin, WinnerID: "player-1"}}
	assert.Equal(t, " player-1 WINS ", banner(win))
}

func TestRenderNilSnapshot(t *testing.T) {
	screen := newScreen(t)
	assert.NotPanics(t, func() { Render(screen, nil) })
}
