// Package engine 在真实时间上驱动 core.Game：每个 Room 一个 goroutine，
// ticker 推进 tick，唤醒定时器负责 tick 之间到期的引信。
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"bombarena/internal/config"
	"bombarena/pkg/ai"
	"bombarena/pkg/core"
)

// DefaultRestartDelay 一局结束到下一局开始的间隔
const DefaultRestartDelay = 3 * time.Second

// RoomOptions 创建房间的参数
type RoomOptions struct {
	Game   core.Config
	Engine config.EngineConfig

	// Rounds 总局数，<= 0 表示无限
	Rounds       int
	RestartDelay time.Duration

	AI      core.AIController // nil 时按 Game.AI 创建
	Clock   core.TimeProvider // nil 时使用系统时间
	Metrics *Metrics
	Logger  *log.Entry
}

// Info 房间概要
type Info struct {
	ID        string         `json:"id"`
	Round     int            `json:"round"`
	State     core.GameState `json:"state"`
	Tick      uint64         `json:"tick"`
	Outcome   core.Outcome   `json:"outcome"`
	Finished  bool           `json:"finished"`
	CreatedAt time.Time      `json:"createdAt"`
}

type inputEvent struct {
	action core.Action
	press  bool
}

// Room 独占一个 core.Game，所有对局逻辑只在 Run 所在的 goroutine 里执行
type Room struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	opts    RoomOptions
	game    *core.Game
	logger  *log.Entry
	metrics *Metrics

	resetAt   time.Time
	createdAt time.Time
	round     atomic.Int32
	finished  atomic.Bool
	endedAt   atomic.Int64 // UnixNano
	snapshot  atomic.Pointer[core.Snapshot]

	inputCh chan inputEvent
	pauseCh chan struct{}
	done    chan struct{}
}

func NewRoom(parent context.Context, id string, opts RoomOptions) (*Room, error) {
	if opts.RestartDelay <= 0 {
		opts.RestartDelay = DefaultRestartDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("session", id)
	}

	seed := opts.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	controller := opts.AI
	if controller == nil {
		controller = ai.NewController(opts.Game.AI, nil)
	}
	gameOpts := []core.Option{
		core.WithRand(rand.New(rand.NewSource(seed))),
		core.WithLogger(logger),
		core.WithAI(controller),
	}
	if opts.Clock != nil {
		gameOpts = append(gameOpts, core.WithTimeProvider(opts.Clock))
	}
	game, err := core.NewGame(opts.Game, gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("new room %s: %w", id, err)
	}

	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:        id,
		ctx:       ctx,
		cancel:    cancel,
		opts:      opts,
		game:      game,
		logger:    logger,
		metrics:   opts.Metrics,
		createdAt: time.Now(),
		inputCh:   make(chan inputEvent, 64),
		pauseCh:   make(chan struct{}, 8),
		done:      make(chan struct{}),
	}
	game.SetListeners(r.listeners())
	r.publish()
	return r, nil
}

func (r *Room) ID() string { return r.id }

// Done 房间循环退出后关闭
func (r *Room) Done() <-chan struct{} { return r.done }

// Finished 最后一局已经结束或房间已关闭
func (r *Room) Finished() bool { return r.finished.Load() }

// Snapshot 最近一次发布的快照，可在任意 goroutine 调用
func (r *Room) Snapshot() *core.Snapshot { return r.snapshot.Load() }

func (r *Room) Info() Info {
	s := r.Snapshot()
	return Info{
		ID:        r.id,
		Round:     int(r.round.Load()),
		State:     s.State,
		Tick:      s.Tick,
		Outcome:   s.Outcome,
		Finished:  r.Finished(),
		CreatedAt: r.createdAt,
	}
}

func (r *Room) Run(wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(r.done)

	ticker := time.NewTicker(r.opts.Engine.TickInterval())
	defer ticker.Stop()
	wake := time.NewTimer(time.Hour)
	wake.Stop()
	defer wake.Stop()

	r.logger.WithField("tps", r.opts.Engine.TPS).Info("房间循环启动")
	if err := r.startRound(); err != nil {
		r.logger.WithError(err).Error("开局失败")
		r.markFinished()
		return
	}

	for {
		select {
		case <-r.ctx.Done():
			r.stop()
			r.logger.Info("房间循环停止")
			return

		case ev := <-r.inputCh:
			if ev.press {
				r.game.Press(ev.action)
			} else {
				r.game.Release(ev.action)
			}
			r.publish()

		case <-r.pauseCh:
			r.game.TogglePause()
			r.publish()

		case <-ticker.C:
			r.tick()

		case <-wake.C:
			r.game.FireDue()
			r.publish()
		}

		if r.finished.Load() {
			r.logger.Info("全部对局结束")
			return
		}
		r.armWake(wake)
	}
}

// armWake 把唤醒定时器对准下一个到期事件
func (r *Room) armWake(wake *time.Timer) {
	if d, ok := r.game.NextDue(); ok {
		wake.Reset(d)
		return
	}
	wake.Stop()
}

func (r *Room) startRound() error {
	if err := r.game.Start(); err != nil {
		return err
	}
	r.resetAt = time.Time{}
	n := r.round.Add(1)
	r.logger.WithField("round", n).Info("开局")
	r.publish()
	return nil
}

func (r *Room) tick() {
	if !r.resetAt.IsZero() {
		if time.Now().After(r.resetAt) {
			r.game.Reset()
			if err := r.startRound(); err != nil {
				r.logger.WithError(err).Error("重新开局失败")
				r.markFinished()
			}
		}
		return
	}

	start := time.Now()
	r.game.FireDue()
	r.game.Step()
	r.metrics.TickDuration.Observe(time.Since(start).Seconds())
	r.publish()
}

func (r *Room) stop() {
	if s := r.game.State(); s == core.StatePlaying || s == core.StatePaused {
		r.metrics.RoundsFinished.WithLabelValues(ResultStopped).Inc()
	}
	r.game.Stop()
	r.markFinished()
	r.publish()
}

func (r *Room) onRoundEnd(state core.GameState) {
	result := ResultGameOver
	if state == core.StateWin {
		result = ResultWin
	}
	r.metrics.RoundsFinished.WithLabelValues(result).Inc()

	round := int(r.round.Load())
	out := r.game.Outcome()
	r.logger.WithFields(log.Fields{
		"round":  round,
		"result": result,
		"winner": out.WinnerID,
		"reason": out.Reason,
	}).Info("对局结果")

	if r.opts.Rounds > 0 && round >= r.opts.Rounds {
		r.markFinished()
		return
	}
	r.resetAt = time.Now().Add(r.opts.RestartDelay)
}

func (r *Room) markFinished() {
	if r.endedAt.CompareAndSwap(0, time.Now().UnixNano()) {
		r.finished.Store(true)
	}
}

// finishedFor 结束了多久；未结束返回 false
func (r *Room) finishedFor(now time.Time) (time.Duration, bool) {
	if !r.finished.Load() {
		return 0, false
	}
	return now.Sub(time.Unix(0, r.endedAt.Load())), true
}

func (r *Room) listeners() core.Listeners {
	return core.Listeners{
		OnStateChange: func(from, to core.GameState) {
			r.logger.WithFields(log.Fields{"from": from, "to": to}).Debug("状态切换")
			if to.Terminal() {
				r.onRoundEnd(to)
			}
		},
		OnPlayerDead: func(string) { r.metrics.Eliminations.Inc() },
		OnBombPlaced: func(string, core.GridPos) { r.metrics.BombsPlaced.Inc() },
		OnBombExplode: func(ev core.BombEvent) {
			r.metrics.Detonations.Inc()
			if ev.Chained {
				r.metrics.ChainReactions.Inc()
			}
		},
		OnBlock: func(string, core.GridPos) { r.metrics.BlocksDestroyed.Inc() },
	}
}

func (r *Room) publish() {
	r.snapshot.Store(r.game.Snapshot())
}

// Press 投递一次按下，房间关闭后丢弃
func (r *Room) Press(a core.Action) {
	r.send(inputEvent{action: a, press: true})
}

func (r *Room) Release(a core.Action) {
	r.send(inputEvent{action: a})
}

func (r *Room) send(ev inputEvent) {
	select {
	case <-r.ctx.Done():
	case <-r.done:
	case r.inputCh <- ev:
	}
}

// TogglePause 在 PLAYING 与 PAUSED 之间切换
func (r *Room) TogglePause() {
	select {
	case <-r.ctx.Done():
	case <-r.done:
	case r.pauseCh <- struct{}{}:
	}
}

func (r *Room) Shutdown() {
	r.cancel()
}
