package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签只有固定几个取值
const (
	ResultWin      = "win"
	ResultGameOver = "game_over"
	ResultStopped  = "stopped"
)

// Metrics 模拟相关的指标，不带任何按玩家区分的标签
type Metrics struct {
	TickDuration    prometheus.Histogram
	BombsPlaced     prometheus.Counter
	Detonations     prometheus.Counter
	ChainReactions  prometheus.Counter
	BlocksDestroyed prometheus.Counter
	Eliminations    prometheus.Counter
	RoundsFinished  *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// NewMetrics 注册到 reg；reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_tick_duration_seconds",
			Help:    "Time spent in one simulation tick",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
		}),
		BombsPlaced: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_bombs_placed_total",
			Help: "Bombs armed by any character",
		}),
		Detonations: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_detonations_total",
			Help: "Bomb detonations, chained ones included",
		}),
		ChainReactions: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_chain_reactions_total",
			Help: "Detonations triggered by another blast",
		}),
		BlocksDestroyed: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_blocks_destroyed_total",
			Help: "Destructible blocks removed by blasts",
		}),
		Eliminations: f.NewCounter(prometheus.CounterOpts{
			Name: "arena_eliminations_total",
			Help: "Characters whose lives reached zero",
		}),
		RoundsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_rounds_finished_total",
			Help: "Finished rounds by result",
		}, []string{"result"}), // win | game_over | stopped
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "arena_active_sessions",
			Help: "Sessions currently held by the manager",
		}),
	}
}
