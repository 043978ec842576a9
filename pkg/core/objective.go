package core

import (
	"math/rand"
)

// SetObjective 设置电脑角色目标，玩家角色忽略
func (c *Character) SetObjective(t ObjectiveType, target GridPos) {
	if c.Computer == nil {
		return
	}
	c.Computer.Objective = Objective{Type: t, Target: target}
}

// EvaluateObjective 按固定优先级选择目标：
// 炸砖（距离 ≤3）> 捡道具（≤5）> 追击玩家（≤6）> 游荡
func (c *Character) EvaluateObjective(others []*Character, powerups, barrels []GridPos) Objective {
	if c.Computer == nil {
		return Objective{}
	}

	obj := Objective{Type: ObjectiveFreeRoam, Target: c.GridPos}
	if p, ok := nearestWithin(c.GridPos, barrels, BarrelObjectiveDistance); ok {
		obj = Objective{Type: ObjectiveDestroyBarrel, Target: p}
	} else if p, ok := nearestWithin(c.GridPos, powerups, PowerupObjectiveDistance); ok {
		obj = Objective{Type: ObjectiveCollectPowerup, Target: p}
	} else if target := c.nearestOpponent(others, PlayerObjectiveDistance); target != nil {
		obj = Objective{Type: ObjectiveKillPlayer, Target: target.GridPos, TargetID: target.ID}
	}

	c.Computer.Objective = obj
	return obj
}

func (c *Character) nearestOpponent(others []*Character, maxDist int) *Character {
	var best *Character
	bestDist := maxDist + 1
	for _, o := range others {
		if o == nil || o.ID == c.ID || !o.IsAlive() {
			continue
		}
		if d := c.GridPos.Manhattan(o.GridPos); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

func nearestWithin(from GridPos, candidates []GridPos, maxDist int) (GridPos, bool) {
	var best GridPos
	bestDist := maxDist + 1
	for _, p := range candidates {
		if d := from.Manhattan(p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist <= maxDist
}

// ShouldPlaceBomb 根据当前目标判断是否放炸弹
// 不会在刚放过炸弹的同一格再次放置。
func (c *Character) ShouldPlaceBomb(others []*Character, barrels []GridPos, rng *rand.Rand) bool {
	st := c.Computer
	if st == nil || !c.IsAlive() {
		return false
	}
	if st.hasLastBomb && st.lastBombPos == c.GridPos {
		return false
	}

	switch st.Objective.Type {
	case ObjectiveDestroyBarrel:
		for _, b := range barrels {
			if c.GridPos.Manhattan(b) == 1 {
				return true
			}
		}
		return false
	case ObjectiveKillPlayer:
		for _, o := range others {
			if o == nil || o.ID == c.ID || !o.IsAlive() {
				continue
			}
			if o.GridPos.Row == c.GridPos.Row || o.GridPos.Col == c.GridPos.Col {
				return rng.Float64() < KillBombChance
			}
		}
		return false
	case ObjectiveFreeRoam:
		return rng.Float64() < RoamBombChance
	}
	return false
}

// RecordBombPlaced 记录放炸弹的位置，用于同格冷却
func (c *Character) RecordBombPlaced(p GridPos) {
	if c.Computer == nil {
		return
	}
	c.Computer.lastBombPos = p
	c.Computer.hasLastBomb = true
}
