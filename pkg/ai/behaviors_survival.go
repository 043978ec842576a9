package ai

import (
	"bombarena/pkg/ai/bt"
)

func condInDanger(board *Blackboard) bool {
	return board.Danger.InDanger(board.Self.GridPos)
}

func actFindSafe(board *Blackboard) bt.Status {
	// 旧目标仍然安全就继续走
	if board.EscapeTo != nil && *board.EscapeTo != board.Self.GridPos && !board.Danger.InDanger(*board.EscapeTo) {
		return bt.StatusSuccess
	}
	board.EscapeTo = nil
	best, ok := findNearestSafe(board.Game, board.Self, board.Danger, board.Now, board.stepDelay())
	if !ok {
		return bt.StatusFailure
	}
	board.EscapeTo = &best
	return bt.StatusSuccess
}

func actMoveToSafe(board *Blackboard) bt.Status {
	if board.EscapeTo == nil {
		return bt.StatusFailure
	}
	dir, ok := nextStepToward(board.Game, board.Self, *board.EscapeTo)
	if !ok {
		board.EscapeTo = nil
		return bt.StatusFailure
	}
	board.setMove(dir)
	return bt.StatusRunning
}
