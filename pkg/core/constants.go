package core

import "time"

// 地图配置
const (
	DefaultGridRows       = 13
	DefaultGridCols       = 15
	DefaultCellSize       = 50 // 像素
	MinCellSize           = 8
	DefaultCoverage       = 0.8 // 可破坏砖块覆盖率
	DefaultCornerSafeSize = 2   // 出生角安全区边长
	DefaultRowOffset      = 1
	DefaultColOffset      = 1
	SpawnSearchRadius     = 3 // 出生点螺旋搜索半径
)

// 角色配置
const (
	DefaultLives            = 3
	DefaultInventory        = 1
	DamageCooldown          = 500 * time.Millisecond // 受伤后的无敌时间
	DamageAnimationDuration = 250 * time.Millisecond // 受伤动画（纯表现）
)

// 炸弹配置
const (
	DefaultBombRange       = 2 // 含中心格
	DefaultMaxRange        = 6
	DefaultMaxBombs        = 5
	DefaultFuseDuration    = 1000 * time.Millisecond
	DefaultExplodeDuration = 750 * time.Millisecond // 爆炸视觉持续时间
	MinExplodeDuration     = 100 * time.Millisecond
	BlastLingerDuration    = 350 * time.Millisecond // 爆炸残留伤害时间
	ChainReactionDelay     = 10 * time.Millisecond
	BombPlacementCooldown  = 250 * time.Millisecond
)

// 计分配置
const (
	PointsPerBlock    = 100
	EliminationPoints = 1000
)

// 道具配置
const (
	DefaultDropChance = 0.2
)

// 对局配置
const (
	DefaultTimeLimit  = 300 * time.Second
	MinPlayers        = 1
	MaxPlayers        = 4
	DefaultTickRate   = 60
	DefaultAIBombRate = 0.1
	AIMinMoveDelay    = 500 * time.Millisecond
	AIMaxMoveDelay    = 1500 * time.Millisecond
)

// 电脑角色目标判定距离（曼哈顿距离）
const (
	BarrelObjectiveDistance  = 3
	PowerupObjectiveDistance = 5
	PlayerObjectiveDistance  = 6
	KillBombChance           = 0.3
	RoamBombChance           = 0.1
)
