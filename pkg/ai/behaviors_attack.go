package ai

import (
	"bombarena/pkg/ai/bt"
	"bombarena/pkg/core"
)

func actEvaluateObjective(board *Blackboard) bt.Status {
	g := board.Game
	board.Objective = board.Self.EvaluateObjective(g.Opponents(board.Self), g.Map.Powerups(), g.Map.Bricks())
	return bt.StatusSuccess
}

func condShouldBomb(board *Blackboard) bool {
	pt, ok := board.Game.Tracker.Player(board.Self.ID)
	if !ok || !pt.CanPlaceBomb() {
		return false
	}
	if _, occupied := board.Game.Bombs.BombAt(board.Self.GridPos); occupied {
		return false
	}
	g := board.Game
	return board.Self.ShouldPlaceBomb(g.Opponents(board.Self), g.Map.Bricks(), board.RNG)
}

// actPreCheckEscape 假设在脚下放炸弹，确认引信时间内能逃到安全格
func actPreCheckEscape(board *Blackboard) bt.Status {
	g := board.Game
	self := board.Self
	temp := board.Danger.WithBomb(g, self.GridPos, self.BombRange, board.Profile.FullChainRecursion)
	delay := board.stepDelay()
	budget := escapeBudget(g.Config().Bomb.Fuse, delay)
	if !canEscapeAfterPlacement(g, self, temp, board.Now, delay, budget) {
		return bt.StatusFailure
	}
	return bt.StatusSuccess
}

func actPlaceBomb(board *Blackboard) bt.Status {
	board.Bomb = true
	return bt.StatusSuccess
}

func condHasTarget(board *Blackboard) bool {
	return board.Objective.Type != core.ObjectiveFreeRoam
}

func actMoveToObjective(board *Blackboard) bt.Status {
	target := board.Objective.Target
	if target == board.Self.GridPos {
		return bt.StatusSuccess
	}
	dir, ok := nextStepToward(board.Game, board.Self, target)
	if !ok {
		// 已贴着不可走的目标，等下一次放炸弹判定
		if board.Self.GridPos.Manhattan(target) == 1 {
			return bt.StatusSuccess
		}
		return bt.StatusFailure
	}
	// 不主动走进爆炸路径
	if board.Danger.InDanger(board.Self.GridPos.Add(dir.Offset())) {
		return bt.StatusFailure
	}
	board.setMove(dir)
	return bt.StatusRunning
}
