package core

// Action 玩家的离散输入
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionBomb
	ActionPause
	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionBomb:
		return "bomb"
	case ActionPause:
		return "pause"
	}
	return "unknown"
}

// ParseAction 按名字解析输入，大小写敏感
func ParseAction(name string) (Action, bool) {
	for a := ActionUp; a < actionCount; a++ {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// Direction 移动类输入对应的方向
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return 0, false
}

// ActionForDirection 方向对应的输入
func ActionForDirection(d Direction) Action {
	switch d {
	case DirDown:
		return ActionDown
	case DirLeft:
		return ActionLeft
	case DirRight:
		return ActionRight
	}
	return ActionUp
}

// Input 边沿触发的按键锁存
// 按下时只触发一次，松开后才能再次触发；按住不会重复。
type Input struct {
	held [actionCount]bool
}

// Press 按键按下，返回是否是一次新的按下
func (in *Input) Press(a Action) bool {
	if a < 0 || a >= actionCount || in.held[a] {
		return false
	}
	in.held[a] = true
	return true
}

// Release 按键松开
func (in *Input) Release(a Action) {
	if a < 0 || a >= actionCount {
		return
	}
	in.held[a] = false
}

// Held 当前是否按住
func (in *Input) Held(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return in.held[a]
}

// Reset 清空按键状态
func (in *Input) Reset() {
	in.held = [actionCount]bool{}
}
