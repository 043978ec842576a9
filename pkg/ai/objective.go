package ai

import (
	"math/rand"
	"time"

	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

type node = bt.Node[*Blackboard]

// newObjectiveTree 逃生 > 放炸弹 > 走向目标 > 游荡
func newObjectiveTree() node {
	return &bt.Selector[*Blackboard]{Children: []node{
		&bt.Sequence[*Blackboard]{Children: []node{
			&bt.Condition[*Blackboard]{Check: condInDanger},
			&bt.Action[*Blackboard]{Do: actFindSafe},
			&bt.Action[*Blackboard]{Do: actMoveToSafe},
		}},
		&bt.Sequence[*Blackboard]{Children: []node{
			&bt.Action[*Blackboard]{Do: actEvaluateObjective},
			&bt.Condition[*Blackboard]{Check: condShouldBomb},
			&bt.Action[*Blackboard]{Do: actPreCheckEscape},
			&bt.Action[*Blackboard]{Do: actPlaceBomb},
		}},
		&bt.Sequence[*Blackboard]{Children: []node{
			&bt.Condition[*Blackboard]{Check: condHasTarget},
			&bt.Action[*Blackboard]{Do: actMoveToObjective},
		}},
		&bt.Action[*Blackboard]{Do: actWander},
	}}
}

// thinkObjective 跑一次行为树；返回是否放下了炸弹
func (c *Controller) thinkObjective(g *core.Game, ch *core.Character, now time.Time, rng *rand.Rand) bool {
	st := ch.Computer
	delay := st.MoveDelay
	if c.danger.InDanger(ch.GridPos) && c.profile.PanicDelay > 0 && c.profile.PanicDelay < delay {
		delay = c.profile.PanicDelay
	}
	if now.Sub(st.LastMoveAt) <= delay {
		return false
	}

	board := c.board(ch, rng)
	board.ResetDecision(g, ch, now)
	c.tree.Tick(board)

	placed := false
	if board.Bomb && g.PlaceBomb(ch) {
		placed = true
		// 立刻按新的危险场找逃生方向
		c.danger.Update(g, now, c.profile.FullChainRecursion)
		board.EscapeTo = nil
		board.ResetDecision(g, ch, now)
		c.tree.Tick(board)
	}

	c.applyMistake(board, rng)

	moved := board.HasMove && g.TryMove(ch, board.Move)
	if moved || placed {
		st.LastMoveAt = now
		st.MoveDelay = g.RandomMoveDelay()
	}
	return placed
}

// applyMistake 随机失误：不动或换一个随机方向
func (c *Controller) applyMistake(board *Blackboard, rng *rand.Rand) {
	if c.profile.MistakeRate <= 0 || rng.Float64() >= c.profile.MistakeRate {
		return
	}
	switch rng.Intn(3) {
	case 0:
		board.HasMove = false
	case 1:
		board.setMove(core.Directions[rng.Intn(len(core.Directions))])
	case 2:
		// 保持原决策
	}
}
