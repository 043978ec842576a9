package ai

import (
	"container/list"
	"time"

	"bombarena/pkg/core"
)

type stepNode struct {
	Pos   core.GridPos
	Steps int
	Prev  *stepNode
}

// firstStep 沿前驱回溯到起点后的第一步
func firstStep(n *stepNode, start core.GridPos) (core.Direction, bool) {
	for n.Prev != nil && n.Prev.Pos != start {
		n = n.Prev
	}
	if n.Prev == nil {
		return 0, false
	}
	return directionTo(start, n.Pos)
}

func directionTo(from, to core.GridPos) (core.Direction, bool) {
	for _, d := range core.Directions {
		if from.Add(d.Offset()) == to {
			return d, true
		}
	}
	return 0, false
}

// nextStepToward BFS 求朝 target 的第一步
// target 本身不可走（砖块、角色）时，走到相邻格即视为到达。
func nextStepToward(game *core.Game, self *core.Character, target core.GridPos) (core.Direction, bool) {
	start := self.GridPos
	if start == target {
		return 0, false
	}
	queue := list.New()
	visited := map[core.GridPos]bool{start: true}
	queue.PushBack(&stepNode{Pos: start})

	for queue.Len() > 0 {
		n := queue.Remove(queue.Front()).(*stepNode)
		for _, d := range core.Directions {
			npos := n.Pos.Add(d.Offset())
			if visited[npos] {
				continue
			}
			visited[npos] = true
			if npos == target {
				if game.CanMoveTo(self, npos) {
					return firstStep(&stepNode{Pos: npos, Prev: n}, start)
				}
				if n.Pos == start {
					// 已经贴着目标
					return 0, false
				}
				return firstStep(n, start)
			}
			if !game.CanMoveTo(self, npos) {
				continue
			}
			queue.PushBack(&stepNode{Pos: npos, Steps: n.Steps + 1, Prev: n})
		}
	}
	return 0, false
}

// findNearestSafe 找最近的不在任何爆炸路径上的格子
// 路径上的每一格在到达时都必须还没被炸到。
func findNearestSafe(game *core.Game, self *core.Character, danger *DangerField, now time.Time, stepDelay time.Duration) (core.GridPos, bool) {
	n, ok := searchSafe(game, self, danger, self.GridPos, now, stepDelay, -1)
	if !ok {
		return core.GridPos{}, false
	}
	return n.Pos, true
}

// canEscapeAfterPlacement 放炸弹后能否在 budget 步内走到安全格
func canEscapeAfterPlacement(game *core.Game, self *core.Character, danger *DangerField, now time.Time, stepDelay time.Duration, budget int) bool {
	_, ok := searchSafe(game, self, danger, self.GridPos, now, stepDelay, budget)
	return ok
}

func searchSafe(game *core.Game, self *core.Character, danger *DangerField, start core.GridPos, now time.Time, stepDelay time.Duration, budget int) (*stepNode, bool) {
	queue := list.New()
	visited := map[core.GridPos]bool{start: true}
	queue.PushBack(&stepNode{Pos: start})

	for queue.Len() > 0 {
		n := queue.Remove(queue.Front()).(*stepNode)
		if n.Pos != start && !danger.InDanger(n.Pos) {
			return n, true
		}
		if budget >= 0 && n.Steps >= budget {
			continue
		}
		for _, d := range core.Directions {
			npos := n.Pos.Add(d.Offset())
			if visited[npos] || !game.CanMoveTo(self, npos) {
				continue
			}
			arrive := now.Add(time.Duration(n.Steps+1) * stepDelay)
			if !danger.SafeAt(npos, arrive) {
				continue
			}
			visited[npos] = true
			queue.PushBack(&stepNode{Pos: npos, Steps: n.Steps + 1, Prev: n})
		}
	}
	return nil, false
}

// escapeBudget 引信时间内能走的步数
func escapeBudget(fuse, stepDelay time.Duration) int {
	if stepDelay <= 0 {
		return 1
	}
	return max(1, int(fuse/stepDelay))
}
