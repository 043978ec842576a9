package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// GridConfig 地图生成参数
type GridConfig struct {
	Rows           int
	Cols           int
	CellSize       int     // 像素
	Coverage       float64 // 砖块概率 0~1
	CornerSafeSize int
	RowOffset      int
	ColOffset      int
}

// PlayerConfig 角色初始属性
type PlayerConfig struct {
	Lives           int
	Inventory       int
	ImmunityWindow  time.Duration
	DamageAnimation time.Duration
}

// BombConfig 炸弹参数
type BombConfig struct {
	Range             int
	MaxRange          int
	MaxBombs          int
	Fuse              time.Duration
	ExplodeDuration   time.Duration
	BlastLinger       time.Duration
	ChainDelay        time.Duration
	PlacementCooldown time.Duration
}

// ScoreConfig 计分参数
type ScoreConfig struct {
	PointsPerBlock    int
	EliminationPoints int
}

// PowerupConfig 道具掉落参数
type PowerupConfig struct {
	DropChance float64
}

// GameConfig 对局参数
type GameConfig struct {
	TimeLimit time.Duration // 0 表示不限时
	Players   int
}

// AIStrategy 电脑角色决策策略
type AIStrategy string

const (
	AIStrategyRandom    AIStrategy = "random"
	AIStrategyObjective AIStrategy = "objective"
)

// AIConfig 电脑角色参数
type AIConfig struct {
	Strategy     AIStrategy
	MinMoveDelay time.Duration
	MaxMoveDelay time.Duration
	BombChance   float64 // 每次移动后尝试放炸弹的概率
}

// Config 模拟核心的全部参数
type Config struct {
	Grid    GridConfig
	Player  PlayerConfig
	Bomb    BombConfig
	Score   ScoreConfig
	Powerup PowerupConfig
	Game    GameConfig
	AI      AIConfig
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Rows:           DefaultGridRows,
			Cols:           DefaultGridCols,
			CellSize:       DefaultCellSize,
			Coverage:       DefaultCoverage,
			CornerSafeSize: DefaultCornerSafeSize,
			RowOffset:      DefaultRowOffset,
			ColOffset:      DefaultColOffset,
		},
		Player: PlayerConfig{
			Lives:           DefaultLives,
			Inventory:       DefaultInventory,
			ImmunityWindow:  DamageCooldown,
			DamageAnimation: DamageAnimationDuration,
		},
		Bomb: BombConfig{
			Range:             DefaultBombRange,
			MaxRange:          DefaultMaxRange,
			MaxBombs:          DefaultMaxBombs,
			Fuse:              DefaultFuseDuration,
			ExplodeDuration:   DefaultExplodeDuration,
			BlastLinger:       BlastLingerDuration,
			ChainDelay:        ChainReactionDelay,
			PlacementCooldown: BombPlacementCooldown,
		},
		Score: ScoreConfig{
			PointsPerBlock:    PointsPerBlock,
			EliminationPoints: EliminationPoints,
		},
		Powerup: PowerupConfig{
			DropChance: DefaultDropChance,
		},
		Game: GameConfig{
			TimeLimit: DefaultTimeLimit,
			Players:   MinPlayers,
		},
		AI: AIConfig{
			Strategy:     AIStrategyRandom,
			MinMoveDelay: AIMinMoveDelay,
			MaxMoveDelay: AIMaxMoveDelay,
			BombChance:   DefaultAIBombRate,
		},
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	g := c.Grid
	if g.Rows < 5 || g.Cols < 5 {
		return fmt.Errorf("%w: grid %dx%d too small", ErrInvalidConfig, g.Rows, g.Cols)
	}
	if g.CellSize < MinCellSize {
		return fmt.Errorf("%w: cell size %d", ErrInvalidConfig, g.CellSize)
	}
	if g.Coverage < 0 || g.Coverage > 1 {
		return fmt.Errorf("%w: coverage %.2f outside [0,1]", ErrInvalidConfig, g.Coverage)
	}
	if g.CornerSafeSize < 0 {
		return fmt.Errorf("%w: corner safe size %d", ErrInvalidConfig, g.CornerSafeSize)
	}
	if c.Player.Lives <= 0 || c.Player.Inventory <= 0 {
		return fmt.Errorf("%w: lives=%d inventory=%d", ErrInvalidConfig, c.Player.Lives, c.Player.Inventory)
	}
	b := c.Bomb
	if b.Range < 1 || b.MaxRange < b.Range {
		return fmt.Errorf("%w: bomb range %d / max %d", ErrInvalidConfig, b.Range, b.MaxRange)
	}
	if b.MaxBombs < c.Player.Inventory {
		return fmt.Errorf("%w: max bombs %d below inventory %d", ErrInvalidConfig, b.MaxBombs, c.Player.Inventory)
	}
	if b.Fuse < 0 || b.ExplodeDuration < 0 || b.BlastLinger < 0 || b.ChainDelay < 0 || b.PlacementCooldown < 0 {
		return fmt.Errorf("%w: negative bomb timing", ErrInvalidConfig)
	}
	if c.Powerup.DropChance < 0 || c.Powerup.DropChance > 1 {
		return fmt.Errorf("%w: drop chance %.2f outside [0,1]", ErrInvalidConfig, c.Powerup.DropChance)
	}
	if c.Game.TimeLimit < 0 {
		return fmt.Errorf("%w: negative time limit", ErrInvalidConfig)
	}
	switch c.AI.Strategy {
	case AIStrategyRandom, AIStrategyObjective:
	default:
		return fmt.Errorf("%w: unknown ai strategy %q", ErrInvalidConfig, c.AI.Strategy)
	}
	if c.AI.MinMoveDelay < 0 || c.AI.MaxMoveDelay < c.AI.MinMoveDelay {
		return fmt.Errorf("%w: ai move delay [%s, %s]", ErrInvalidConfig, c.AI.MinMoveDelay, c.AI.MaxMoveDelay)
	}
	if c.AI.BombChance < 0 || c.AI.BombChance > 1 {
		return fmt.Errorf("%w: ai bomb chance %.2f", ErrInvalidConfig, c.AI.BombChance)
	}
	return nil
}

// ClampPlayers 把玩家数限制在 1~4
func ClampPlayers(n int) int {
	if n < MinPlayers {
		return MinPlayers
	}
	if n > MaxPlayers {
		return MaxPlayers
	}
	return n
}
