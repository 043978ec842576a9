package core

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrOutOfBounds 目标格子不在地图内
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrNotBombable 目标格子是墙
	ErrNotBombable = errors.New("cell is not bombable")
	// ErrCellOccupied 目标格子已有炸弹
	ErrCellOccupied = errors.New("cell already holds a bomb")
)

// BombState 炸弹状态
type BombState int

const (
	BombArmed      BombState = iota // 引信计时中
	BombChained                     // 被连锁波及，等待引爆
	BombDetonating                  // 已爆炸，视觉持续中
	BombResolved                    // 结束
)

func (s BombState) String() string {
	switch s {
	case BombArmed:
		return "armed"
	case BombChained:
		return "chained"
	case BombDetonating:
		return "detonating"
	case BombResolved:
		return "resolved"
	}
	return "unknown"
}

// BombOptions 布置炸弹的参数
type BombOptions struct {
	Fuse       time.Duration
	BlastRange int
	OwnerID    string

	// OnDetonate 爆炸瞬间同步调用，用于结算伤害、登记残留格子
	OnDetonate func(cells []GridPos, visual time.Duration)
	// OnExplode 爆炸视觉结束后调用，用于释放炸弹占用
	OnExplode func(cells []GridPos)
}

// Bomb 一颗已布置的炸弹（纯逻辑结构，不包含渲染）
type Bomb struct {
	Pos        GridPos
	Gen        uint64
	OwnerID    string
	Range      int
	ArmedAt    time.Time
	DetonateAt time.Time
	State      BombState
	Chained    bool // 由连锁引爆

	opts  BombOptions
	cells []GridPos
}

func (b *Bomb) key(kind EventKind) EventKey {
	return EventKey{Cell: b.Pos, Gen: b.Gen, Kind: kind}
}

// Explosion 正在显示的爆炸
type Explosion struct {
	Center  GridPos
	OwnerID string
	Cells   []GridPos
	Until   time.Time
	Chained bool
}

// BombHooks 炸弹系统对外的通知
type BombHooks struct {
	BlockDestroyed func(ownerID string, pos GridPos)
	PowerupDropped func(pos GridPos, t PowerupType)
	Detonated      func(b *Bomb, cells []GridPos)
}

// BombSystem 炸弹/爆炸子系统
// 所有定时都走 Scheduler，按游戏时间推进。
type BombSystem struct {
	m      *GameMap
	clock  TimeProvider
	sched  *Scheduler
	rng    *rand.Rand
	cfg    BombConfig
	drop   float64
	hooks  BombHooks
	logger *log.Entry

	gen        uint64
	epoch      uint64 // Clear 时递增，旧回调据此失效
	armed      map[GridPos]*Bomb
	explosions map[uint64]*Explosion
}

// NewBombSystem 创建炸弹系统
func NewBombSystem(m *GameMap, clock TimeProvider, rng *rand.Rand, cfg Config, hooks BombHooks, logger *log.Entry) *BombSystem {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &BombSystem{
		m:          m,
		clock:      clock,
		sched:      NewScheduler(),
		rng:        rng,
		cfg:        cfg.Bomb,
		drop:       cfg.Powerup.DropChance,
		hooks:      hooks,
		logger:     logger,
		armed:      make(map[GridPos]*Bomb),
		explosions: make(map[uint64]*Explosion),
	}
}

// Arm 在格子上布置炸弹，fuse 到时后引爆
// 墙上（非砖块且没有道具的 solid 格子）不能布置。
func (s *BombSystem) Arm(pos GridPos, opts BombOptions) (*Bomb, error) {
	cell, ok := s.m.Cell(pos)
	if !ok {
		return nil, fmt.Errorf("arm at %v: %w", pos, ErrOutOfBounds)
	}
	if cell.Bomb {
		return nil, fmt.Errorf("arm at %v: %w", pos, ErrCellOccupied)
	}
	if cell.Solid && cell.Type != TileBrick && cell.Powerup == PowerupNone {
		return nil, fmt.Errorf("arm at %v: %w", pos, ErrNotBombable)
	}

	now := s.clock.Now()
	fuse := max(opts.Fuse, 0)
	s.gen++
	b := &Bomb{
		Pos:        pos,
		Gen:        s.gen,
		OwnerID:    opts.OwnerID,
		Range:      max(opts.BlastRange, 1),
		ArmedAt:    now,
		DetonateAt: now.Add(fuse),
		State:      BombArmed,
		opts:       opts,
	}
	s.armed[pos] = b
	s.m.markBomb(pos)
	s.sched.Schedule(b.key(EventFuse), b.DetonateAt, func(at time.Time) {
		s.detonate(b, at)
	})
	return b, nil
}

// detonate 引爆：计算格子、结算伤害、连锁、炸砖、掉落，并安排视觉结束
func (s *BombSystem) detonate(b *Bomb, now time.Time) {
	if b.State != BombArmed && b.State != BombChained {
		return
	}
	b.State = BombDetonating
	delete(s.armed, b.Pos)
	s.m.clearBomb(b.Pos)

	cells := BlastCells(s.m, b.Pos, b.Range)
	b.cells = cells
	visual := max(s.cfg.ExplodeDuration, MinExplodeDuration)

	epoch := s.epoch
	if b.opts.OnDetonate != nil {
		b.opts.OnDetonate(cells, visual)
	}
	if s.epoch != epoch {
		return
	}

	for _, p := range cells {
		other, ok := s.armed[p]
		if !ok || other.State != BombArmed {
			continue
		}
		s.chain(other, now)
	}

	for _, p := range cells {
		if !s.m.destroyBrick(p) {
			continue
		}
		if s.hooks.BlockDestroyed != nil {
			s.hooks.BlockDestroyed(b.OwnerID, p)
		}
		s.rollDrop(p)
	}

	s.explosions[b.Gen] = &Explosion{
		Center:  b.Pos,
		OwnerID: b.OwnerID,
		Cells:   cells,
		Until:   now.Add(visual),
		Chained: b.Chained,
	}
	if s.hooks.Detonated != nil {
		s.hooks.Detonated(b, cells)
	}

	s.sched.Schedule(b.key(EventExplodeEnd), now.Add(visual), func(time.Time) {
		s.resolve(b)
	})
}

// chain 连锁：取消被波及炸弹的引信，短暂延迟后用它自己的参数引爆
func (s *BombSystem) chain(b *Bomb, now time.Time) {
	s.sched.Cancel(b.key(EventFuse))
	b.State = BombChained
	b.Chained = true
	b.DetonateAt = now.Add(s.cfg.ChainDelay)
	s.sched.Schedule(b.key(EventChain), b.DetonateAt, func(at time.Time) {
		s.detonate(b, at)
	})
	s.logger.WithFields(log.Fields{"cell": b.Pos, "owner": b.OwnerID}).Debug("连锁引爆")
}

func (s *BombSystem) resolve(b *Bomb) {
	if b.State != BombDetonating {
		return
	}
	b.State = BombResolved
	delete(s.explosions, b.Gen)
	if b.opts.OnExplode != nil {
		b.opts.OnExplode(b.cells)
	}
}

func (s *BombSystem) rollDrop(p GridPos) {
	if s.drop <= 0 || s.rng.Float64() >= s.drop {
		return
	}
	t := PowerupTypes[s.rng.Intn(len(PowerupTypes))]
	s.m.SetPowerup(p, t)
	if s.hooks.PowerupDropped != nil {
		s.hooks.PowerupDropped(p, t)
	}
}

// FireDue 执行到期的炸弹事件
func (s *BombSystem) FireDue(now time.Time) int {
	return s.sched.FireDue(now)
}

// NextDue 下一个炸弹事件的游戏时间
func (s *BombSystem) NextDue() (time.Time, bool) {
	return s.sched.NextDue()
}

// Pending 待执行事件数量
func (s *BombSystem) Pending() int {
	return s.sched.Len()
}

// BombAt 格子上的炸弹
func (s *BombSystem) BombAt(p GridPos) (*Bomb, bool) {
	b, ok := s.armed[p]
	return b, ok
}

// Armed 所有未爆炸的炸弹，按代号排序
func (s *BombSystem) Armed() []*Bomb {
	out := make([]*Bomb, 0, len(s.armed))
	for _, b := range s.armed {
		out = append(out, b)
	}
	sortBombs(out)
	return out
}

// Explosions 正在显示的爆炸
func (s *BombSystem) Explosions() []Explosion {
	out := make([]Explosion, 0, len(s.explosions))
	for _, e := range s.explosions {
		out = append(out, *e)
	}
	return out
}

// Clear 取消全部定时并丢弃所有炸弹，不触发任何回调
func (s *BombSystem) Clear() {
	s.epoch++
	s.sched.Clear()
	for p := range s.armed {
		s.m.clearBomb(p)
	}
	s.armed = make(map[GridPos]*Bomb)
	s.explosions = make(map[uint64]*Explosion)
}

func sortBombs(bs []*Bomb) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].Gen < bs[j].Gen })
}
