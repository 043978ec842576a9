package ai

import (
	"math/rand"
	"time"

	"bombarena/pkg/core"
)

// Controller 驱动所有电脑角色，一个对局只用一种策略
type Controller struct {
	cfg     core.AIConfig
	profile Profile
	rng     *rand.Rand

	boards map[string]*Blackboard
	tree   node
	danger DangerField
}

type Option func(*Controller)

// WithProfile 设置目标型策略的难度
func WithProfile(p Profile) Option {
	return func(c *Controller) { c.profile = p }
}

// NewController rng 为 nil 时使用对局自己的随机源
func NewController(cfg core.AIConfig, rng *rand.Rand, opts ...Option) *Controller {
	if cfg.Strategy == "" {
		cfg.Strategy = core.AIStrategyRandom
	}
	c := &Controller{
		cfg:     cfg,
		profile: ProfileNormal,
		rng:     rng,
		boards:  make(map[string]*Blackboard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Strategy == core.AIStrategyObjective {
		c.tree = newObjectiveTree()
	}
	return c
}

func (c *Controller) Strategy() core.AIStrategy {
	return c.cfg.Strategy
}

// Think 每个 tick 调用一次
func (c *Controller) Think(g *core.Game, now time.Time) {
	rng := c.rng
	if rng == nil {
		rng = g.Rand()
	}

	dangerReady := false
	for _, ch := range g.Chars.Computers() {
		// 上一个角色的行动可能结束了对局
		if g.State() != core.StatePlaying {
			return
		}
		if !ch.IsAlive() || ch.Computer == nil {
			continue
		}

		if c.tree == nil {
			c.thinkRandom(g, ch, now, rng)
			continue
		}
		if !dangerReady {
			c.danger.Update(g, now, c.profile.FullChainRecursion)
			dangerReady = true
		}
		if c.thinkObjective(g, ch, now, rng) {
			dangerReady = false
		}
	}
}

// board 角色对象换了（新一局）就重建黑板
func (c *Controller) board(ch *core.Character, rng *rand.Rand) *Blackboard {
	bb, ok := c.boards[ch.ID]
	if !ok || bb.Self != ch {
		bb = &Blackboard{
			Self:    ch,
			Danger:  &c.danger,
			Profile: &c.profile,
		}
		c.boards[ch.ID] = bb
	}
	bb.RNG = rng
	return bb
}
