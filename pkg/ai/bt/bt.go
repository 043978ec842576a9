// Package bt 是一个最小的行为树实现，黑板类型由使用方决定。
package bt

// Status 节点执行状态
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusRunning:
		return "running"
	}
	return "unknown"
}

// Node 行为树节点
type Node[B any] interface {
	Tick(bb B) Status
}

// Selector 选择节点：遇到 Success 或 Running 停止，全 Failure 才 Failure
type Selector[B any] struct {
	Children []Node[B]
}

func (s *Selector[B]) Tick(bb B) Status {
	for _, child := range s.Children {
		if status := child.Tick(bb); status != StatusFailure {
			return status
		}
	}
	return StatusFailure
}

// Sequence 顺序节点：遇到 Failure 或 Running 停止，全 Success 才 Success
type Sequence[B any] struct {
	Children []Node[B]
}

func (s *Sequence[B]) Tick(bb B) Status {
	for _, child := range s.Children {
		if status := child.Tick(bb); status != StatusSuccess {
			return status
		}
	}
	return StatusSuccess
}

// Condition 条件节点
type Condition[B any] struct {
	Check func(bb B) bool
}

func (c *Condition[B]) Tick(bb B) Status {
	if c.Check == nil || !c.Check(bb) {
		return StatusFailure
	}
	return StatusSuccess
}

// Action 动作节点
type Action[B any] struct {
	Do func(bb B) Status
}

func (a *Action[B]) Tick(bb B) Status {
	if a.Do == nil {
		return StatusFailure
	}
	return a.Do(bb)
}

// Inverter 取反：Success 与 Failure 互换，Running 不变
type Inverter[B any] struct {
	Child Node[B]
}

func (i *Inverter[B]) Tick(bb B) Status {
	switch i.Child.Tick(bb) {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	}
	return StatusRunning
}
