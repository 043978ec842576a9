package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombarena/internal/config"
	"bombarena/pkg/core"
)

// fastOptions 空地图、高频 tick，方便在真实时间里跑完一局
func fastOptions(players int, timeLimit time.Duration) RoomOptions {
	cfg := core.DefaultConfig()
	cfg.Grid.Coverage = 0
	cfg.Powerup.DropChance = 0
	cfg.Game.Players = players
	cfg.Game.TimeLimit = timeLimit
	return RoomOptions{
		Game:         cfg,
		Engine:       config.EngineConfig{TPS: 200, Seed: 1},
		Rounds:       1,
		RestartDelay: 10 * time.Millisecond,
	}
}

func startRoom(t *testing.T, opts RoomOptions) (*Room, *sync.WaitGroup) {
	t.Helper()
	room, err := NewRoom(context.Background(), "test", opts)
	require.NoError(t, err)
	var wg sync.WaitGroup
	wg.Add(1)
	go room.Run(&wg)
	t.Cleanup(func() {
		room.Shutdown()
		wg.Wait()
	})
	return room, &wg
}

func waitDone(t *testing.T, room *Room) {
	t.Helper()
	select {
	case <-room.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("room did not finish")
	}
}

func TestNewRoomRejectsInvalidConfig(t *testing.T) {
	opts := fastOptions(1, 0)
	opts.Game.Grid.Rows = 1
	_, err := NewRoom(context.Background(), "bad", opts)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestRoomPlaysConfiguredRounds(t *testing.T) {
	opts := fastOptions(2, 80*time.Millisecond)
	opts.Rounds = 2
	opts.Metrics = NewMetrics(nil)
	room, _ := startRoom(t, opts)

	waitDone(t, room)
	info := room.Info()
	assert.Equal(t, 2, info.Round)
	assert.True(t, info.Finished)
	assert.True(t, info.State.Terminal())

	finished := testutil.ToFloat64(opts.Metrics.RoundsFinished.WithLabelValues(ResultWin)) +
		testutil.ToFloat64(opts.Metrics.RoundsFinished.WithLabelValues(ResultGameOver))
	assert.Equal(t, 2.0, finished)
	assert.Greater(t, testutil.CollectAndCount(opts.Metrics.TickDuration), 0)
}

func TestRoomShutdownStopsRound(t *testing.T) {
	opts := fastOptions(1, 0)
	opts.Metrics = NewMetrics(nil)
	room, _ := startRoom(t, opts)

	require.Eventually(t, func() bool {
		return room.Snapshot().State == core.StatePlaying
	}, time.Second, 5*time.Millisecond)

	room.Shutdown()
	waitDone(t, room)
	assert.Equal(t, core.StateStart, room.Snapshot().State)
	assert.Equal(t, core.ReasonStopped, room.Snapshot().Outcome.Reason)
	assert.True(t, room.Finished())
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.RoundsFinished.WithLabelValues(ResultStopped)))

	// 关闭后投递输入不阻塞
	room.Press(core.ActionUp)
	room.TogglePause()
}

func TestRoomAppliesInput(t *testing.T) {
	room, _ := startRoom(t, fastOptions(1, 0))

	require.Eventually(t, func() bool {
		return room.Snapshot().State == core.StatePlaying
	}, time.Second, 5*time.Millisecond)

	room.Press(core.ActionRight)
	room.Release(core.ActionRight)
	require.Eventually(t, func() bool {
		p := room.Snapshot().Players
		return len(p) == 1 && p[0].Col == 2
	}, time.Second, 5*time.Millisecond)

	room.TogglePause()
	require.Eventually(t, func() bool {
		return room.Snapshot().State == core.StatePaused
	}, time.Second, 5*time.Millisecond)

	// 暂停时移动被丢弃
	room.Press(core.ActionDown)
	room.Release(core.ActionDown)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, room.Snapshot().Players[0].Row)
}

func TestRoomBombMetrics(t *testing.T) {
	opts := fastOptions(1, 0)
	opts.Game.Bomb.Fuse = 20 * time.Millisecond
	opts.Game.Bomb.ExplodeDuration = core.MinExplodeDuration
	opts.Metrics = NewMetrics(nil)
	room, _ := startRoom(t, opts)

	require.Eventually(t, func() bool {
		return room.Snapshot().State == core.StatePlaying
	}, time.Second, 5*time.Millisecond)

	// 单人局：自己的炸弹炸死自己之前先跑开
	room.Press(core.ActionBomb)
	room.Release(core.ActionBomb)
	for _, a := range []core.Action{core.ActionRight, core.ActionRight, core.ActionRight} {
		room.Press(a)
		room.Release(a)
	}

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(opts.Metrics.Detonations) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.BombsPlaced))
}
