package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*GameTracker, *ManualTimeProvider) {
	t.Helper()
	tp := NewManualTimeProvider(testStart)
	return NewGameTracker(tp, DefaultConfig().Score, nil), tp
}

func TestElapsedExcludesPause(t *testing.T) {
	tr, tp := newTestTracker(t)
	assert.Equal(t, time.Duration(0), tr.Elapsed())

	tr.StartGame()
	tp.Advance(3 * time.Second)
	before := tr.Elapsed()
	assert.Equal(t, 3*time.Second, before)

	tr.PauseGame()
	tp.Advance(10 * time.Second)
	assert.Equal(t, before, tr.Elapsed(), "frozen while paused")
	tr.ResumeGame()
	assert.Equal(t, before, tr.Elapsed(), "no time accrued across pause")

	tp.Advance(time.Second)
	assert.Equal(t, 4*time.Second, tr.Elapsed())
}

func TestPauseResumeIdempotent(t *testing.T) {
	tr, tp := newTestTracker(t)
	tr.StartGame()
	tr.PauseGame()
	tp.Advance(time.Second)
	tr.PauseGame()
	tp.Advance(time.Second)
	tr.ResumeGame()
	tr.ResumeGame()
	assert.Equal(t, time.Duration(0), tr.Elapsed())
}

func TestStopFreezesElapsed(t *testing.T) {
	tr, tp := newTestTracker(t)
	tr.StartGame()
	tp.Advance(2 * time.Second)
	tr.PauseGame()
	tp.Advance(time.Second)
	tr.StopGame()
	assert.False(t, tr.IsRunning())

	tp.Advance(time.Minute)
	assert.Equal(t, 2*time.Second, tr.Elapsed())

	tr.Reset()
	assert.Equal(t, time.Duration(0), tr.Elapsed())
	assert.Empty(t, tr.Players())
}

func TestApplyExplosionDamageImmunity(t *testing.T) {
	tr, _ := newTestTracker(t)
	cfg := DefaultConfig()
	victim := NewHuman("v", "", GridPos{Row: 1, Col: 1}, cfg)
	tr.RegisterPlayer(victim)

	cells := []GridPos{{Row: 1, Col: 1}}
	assert.Equal(t, []string{"v"}, tr.ApplyExplosionDamage(cells, "v", testStart))
	assert.Empty(t, tr.ApplyExplosionDamage(cells, "v", testStart.Add(100*time.Millisecond)))
	assert.Equal(t, cfg.Player.Lives-1, victim.Lives)

	tr.ApplyExplosionDamage(cells, "v", testStart.Add(DamageCooldown))
	assert.Equal(t, cfg.Player.Lives-2, victim.Lives)
}

func TestKillCredit(t *testing.T) {
	tr, _ := newTestTracker(t)
	cfg := DefaultConfig()
	killer := NewHuman("k", "", GridPos{Row: 1, Col: 1}, cfg)
	victim := NewComputer("v", "", GridPos{Row: 1, Col: 2}, cfg)
	tr.RegisterPlayer(killer)
	tr.RegisterPlayer(victim)
	victim.Lives = 1

	victims := tr.ApplyExplosionDamage([]GridPos{{Row: 1, Col: 2}}, "k", testStart)
	assert.Equal(t, []string{"v"}, victims)
	assert.False(t, victim.IsAlive())

	k, ok := tr.Player("k")
	require.True(t, ok)
	assert.Equal(t, 1, k.Kills)
	assert.Equal(t, cfg.Score.EliminationPoints, k.Score)

	// 死亡角色不再受伤
	assert.Empty(t, tr.ApplyExplosionDamage([]GridPos{{Row: 1, Col: 2}}, "k", testStart.Add(time.Hour)))
}

func TestSelfKillNotCredited(t *testing.T) {
	tr, _ := newTestTracker(t)
	c := NewHuman("a", "", GridPos{Row: 1, Col: 1}, DefaultConfig())
	tr.RegisterPlayer(c)
	c.Lives = 1

	tr.ApplyExplosionDamage([]GridPos{{Row: 1, Col: 1}}, "a", testStart)
	p, _ := tr.Player("a")
	assert.Equal(t, 0, p.Kills)
	assert.Equal(t, 0, p.Score)
}

func TestRecordBlockDestructionFallback(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.RecordBlockDestruction(1, "ghost")

	a := NewHuman("a", "", GridPos{}, DefaultConfig())
	tr.RegisterPlayer(a)
	tr.RecordBlockDestruction(2, "a")
	tr.RecordBlockDestruction(1, "ghost")

	p, _ := tr.Player("a")
	assert.Equal(t, 3, p.BlocksDestroyed)
	assert.Equal(t, 3*PointsPerBlock, p.Score)
	assert.Equal(t, 3, tr.Stats().TotalBlocksDestroyed)
}

func TestPlayerTrackerBombAccounting(t *testing.T) {
	tr, _ := newTestTracker(t)
	c := NewHuman("a", "", GridPos{Row: 1, Col: 2}, DefaultConfig())
	p := tr.RegisterPlayer(c)

	assert.True(t, p.CanPlaceBomb())
	p.BombPlaced()
	assert.False(t, p.CanPlaceBomb())
	assert.Equal(t, 0, p.Stats().BombsAvailable)

	p.BombReleased()
	p.BombReleased()
	assert.Equal(t, 0, p.ActiveBombs)
	assert.Equal(t, 1, p.BombsPlaced)

	s := p.Stats()
	assert.Equal(t, "a", s.ID)
	assert.True(t, s.IsHuman)
	assert.Equal(t, 1, s.Row)
	assert.Equal(t, 2, s.Col)
	assert.Equal(t, 100, s.X)

	gs := tr.Stats()
	assert.Equal(t, 1, gs.PlayerCount)
	assert.Equal(t, 1, gs.ActivePlayers)
	assert.Equal(t, 1, gs.TotalBombsPlaced)
}
