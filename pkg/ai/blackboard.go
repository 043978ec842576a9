package ai

import (
	"math/rand"
	"time"

	"bombarena/pkg/core"
)

// Blackboard 单个电脑角色的决策上下文
type Blackboard struct {
	Game    *core.Game
	Self    *core.Character
	Now     time.Time
	RNG     *rand.Rand
	Danger  *DangerField
	Profile *Profile

	Objective core.Objective
	EscapeTo  *core.GridPos

	// 本次决策结果
	Move    core.Direction
	HasMove bool
	Bomb    bool

	// 游荡方向，跨决策保持
	WanderDirection core.Direction
	WanderSteps     int
}

func (bb *Blackboard) ResetDecision(game *core.Game, self *core.Character, now time.Time) {
	bb.Game = game
	bb.Self = self
	bb.Now = now
	bb.HasMove = false
	bb.Bomb = false
	// EscapeTo 保留，到达或失效时在 actFindSafe 中替换
}

func (bb *Blackboard) setMove(d core.Direction) {
	bb.Move = d
	bb.HasMove = true
}

// stepDelay 估算走一格需要的时间
func (bb *Blackboard) stepDelay() time.Duration {
	if bb.Profile.PanicDelay > 0 {
		return bb.Profile.PanicDelay
	}
	return bb.Game.Config().AI.MinMoveDelay
}
