package ai

import (
	"math/rand"
	"time"

	"bombarena/pkg/core"
)

// thinkRandom 打乱四个方向，走第一个可走的；走动后小概率放炸弹
func (c *Controller) thinkRandom(g *core.Game, ch *core.Character, now time.Time, rng *rand.Rand) {
	st := ch.Computer
	if now.Sub(st.LastMoveAt) <= st.MoveDelay {
		return
	}

	moved := false
	for _, i := range rng.Perm(len(core.Directions)) {
		d := core.Directions[i]
		if !g.CanMoveTo(ch, ch.GridPos.Add(d.Offset())) {
			continue
		}
		if g.TryMove(ch, d) {
			moved = true
			st.LastMoveAt = now
			st.MoveDelay = g.RandomMoveDelay()
		}
		break
	}

	if moved && rng.Float64() < c.cfg.BombChance {
		g.PlaceBomb(ch)
	}
}
