package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

func actWander(board *Blackboard) bt.Status {
	if board.RNG == nil {
		return bt.StatusFailure
	}

	// 当前方向仍然可行且步数未用完，继续保持
	if board.WanderSteps > 0 {
		board.WanderSteps--
		if canWanderInDirection(board, board.WanderDirection) {
			board.setMove(board.WanderDirection)
			return bt.StatusRunning
		}
		board.WanderSteps = 0
	}

	safe := safeWalkableDirections(board)
	if len(safe) == 0 {
		// 没有安全方向，随机选一个可走方向
		walkable := walkableDirections(board)
		if len(walkable) == 0 {
			return bt.StatusRunning // 完全被困，不动
		}
		board.WanderDirection = walkable[board.RNG.Intn(len(walkable))]
	} else {
		board.WanderDirection = safe[board.RNG.Intn(len(safe))]
	}

	board.WanderSteps = board.Profile.WanderSteps
	board.setMove(board.WanderDirection)
	return bt.StatusRunning
}

// canWanderInDirection 检查指定方向是否可以移动且安全
func canWanderInDirection(board *Blackboard, dir core.Direction) bool {
	next := board.Self.GridPos.Add(dir.Offset())
	return board.Game.CanMoveTo(board.Self, next) && !board.Danger.InDanger(next)
}

func safeWalkableDirections(board *Blackboard) []core.Direction {
	result := make([]core.Direction, 0, len(core.Directions))
	for _, d := range core.Directions {
		if canWanderInDirection(board, d) {
			result = append(result, d)
		}
	}
	return result
}

// walkableDirections 可走方向（不考虑危险）
func walkableDirections(board *Blackboard) []core.Direction {
	result := make([]core.Direction, 0, len(core.Directions))
	for _, d := range core.Directions {
		if board.Game.CanMoveTo(board.Self, board.Self.GridPos.Add(d.Offset())) {
			result = append(result, d)
		}
	}
	return result
}
