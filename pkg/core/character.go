package core

import (
	"time"
)

// Direction 移动方向
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions 四个基本方向
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Offset 方向对应的格子偏移
func (d Direction) Offset() GridPos {
	switch d {
	case DirUp:
		return GridPos{Row: -1}
	case DirDown:
		return GridPos{Row: 1}
	case DirLeft:
		return GridPos{Col: -1}
	case DirRight:
		return GridPos{Col: 1}
	}
	return GridPos{}
}

// CharacterKind 角色类型
type CharacterKind int

const (
	KindHuman    CharacterKind = iota // 玩家控制
	KindComputer                      // 电脑控制
)

func (k CharacterKind) String() string {
	if k == KindComputer {
		return "computer"
	}
	return "human"
}

// ObjectiveType 电脑角色当前目标
type ObjectiveType int

const (
	ObjectiveFreeRoam ObjectiveType = iota
	ObjectiveDestroyBarrel
	ObjectiveCollectPowerup
	ObjectiveKillPlayer
)

func (o ObjectiveType) String() string {
	switch o {
	case ObjectiveDestroyBarrel:
		return "destroy-barrel"
	case ObjectiveCollectPowerup:
		return "collect-powerup"
	case ObjectiveKillPlayer:
		return "kill-player"
	}
	return "free-roaming"
}

// Objective 目标类型 + 目标格子
type Objective struct {
	Type     ObjectiveType
	Target   GridPos
	TargetID string // kill-player 时的目标角色
}

// ComputerState 电脑角色专属状态
type ComputerState struct {
	Objective  Objective
	MoveDelay  time.Duration
	LastMoveAt time.Time

	lastBombPos GridPos
	hasLastBomb bool
}

// CharacterLimits 属性上限与时间窗口
type CharacterLimits struct {
	MaxBombs        int
	MaxRange        int
	ImmunityWindow  time.Duration
	DamageAnimation time.Duration
}

// Character 角色（纯逻辑，不包含渲染）
// 格子坐标是权威位置，像素坐标由格子坐标推导。
type Character struct {
	ID        string
	Color     string
	Kind      CharacterKind
	Position  PixelPos
	GridPos   GridPos
	Lives     int
	Inventory int // 同时可存在的炸弹数
	BombRange int // 爆炸范围，含中心格

	Computer *ComputerState // 仅电脑角色非空

	limits          CharacterLimits
	cellSize        int
	immuneUntil     time.Time
	damageAnimUntil time.Time
}

// NewCharacter 创建角色
func NewCharacter(id, color string, kind CharacterKind, pos GridPos, cfg Config) *Character {
	c := &Character{
		ID:        id,
		Color:     color,
		Kind:      kind,
		GridPos:   pos,
		Lives:     cfg.Player.Lives,
		Inventory: cfg.Player.Inventory,
		BombRange: cfg.Bomb.Range,
		limits: CharacterLimits{
			MaxBombs:        cfg.Bomb.MaxBombs,
			MaxRange:        cfg.Bomb.MaxRange,
			ImmunityWindow:  cfg.Player.ImmunityWindow,
			DamageAnimation: cfg.Player.DamageAnimation,
		},
		cellSize: cfg.Grid.CellSize,
	}
	if kind == KindComputer {
		c.Computer = &ComputerState{MoveDelay: cfg.AI.MinMoveDelay}
	}
	c.syncPixel()
	return c
}

// NewHuman 创建玩家角色
func NewHuman(id, color string, pos GridPos, cfg Config) *Character {
	return NewCharacter(id, color, KindHuman, pos, cfg)
}

// NewComputer 创建电脑角色
func NewComputer(id, color string, pos GridPos, cfg Config) *Character {
	return NewCharacter(id, color, KindComputer, pos, cfg)
}

// IsHuman 是否玩家控制
func (c *Character) IsHuman() bool {
	return c.Kind == KindHuman
}

// IsAlive 生命大于 0
func (c *Character) IsAlive() bool {
	return c.Lives > 0
}

// Move 无条件移动一格，不检查可走性（由调用方负责）
func (c *Character) Move(dir Direction) {
	c.GridPos = c.GridPos.Add(dir.Offset())
	c.syncPixel()
}

// SetGridPos 直接放置到某格
func (c *Character) SetGridPos(p GridPos) {
	c.GridPos = p
	c.syncPixel()
}

// SetCellSize 格子像素尺寸变化时重算像素坐标
func (c *Character) SetCellSize(size int) {
	c.cellSize = size
	c.syncPixel()
}

func (c *Character) syncPixel() {
	c.Position = PixelPos{X: c.GridPos.Col * c.cellSize, Y: c.GridPos.Row * c.cellSize}
}

// TakeDamage 扣 1 条命（最低 0），开始受伤动画；已死亡时无效果
func (c *Character) TakeDamage(now time.Time) {
	if !c.IsAlive() {
		return
	}
	c.Lives--
	c.damageAnimUntil = now.Add(c.limits.DamageAnimation)
}

// SetImmune 开始无敌窗口
func (c *Character) SetImmune(now time.Time) {
	c.immuneUntil = now.Add(c.limits.ImmunityWindow)
}

// IsImmune 是否处于无敌窗口
func (c *Character) IsImmune(now time.Time) bool {
	return now.Before(c.immuneUntil)
}

// ShowingDamage 是否处于受伤动画（纯表现）
func (c *Character) ShowingDamage(now time.Time) bool {
	return now.Before(c.damageAnimUntil)
}

// AddBomb 炸弹容量 +1，不超过上限
func (c *Character) AddBomb() {
	c.Inventory = min(c.Inventory+1, c.limits.MaxBombs)
}

// IncreaseBombRange 爆炸范围 +1，不超过上限
func (c *Character) IncreaseBombRange() {
	c.BombRange = min(c.BombRange+1, c.limits.MaxRange)
}

// ApplyPowerup 应用道具效果
func (c *Character) ApplyPowerup(t PowerupType) {
	switch t {
	case PowerupExtraBomb:
		c.AddBomb()
	case PowerupIncreaseRange:
		c.IncreaseBombRange()
	}
}
