package core

import (
	"container/heap"
	"time"
)

// EventKind 调度事件类型
type EventKind int

const (
	EventFuse       EventKind = iota // 引信到时
	EventChain                       // 连锁引爆
	EventExplodeEnd                  // 爆炸视觉结束，释放炸弹
)

// EventKey 调度事件的稳定键：格子 + 炸弹代号 + 类型
type EventKey struct {
	Cell GridPos
	Gen  uint64
	Kind EventKind
}

type scheduledEvent struct {
	key   EventKey
	due   time.Time
	seq   uint64
	fn    func(now time.Time)
	index int
}

type eventHeap []*scheduledEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(*scheduledEvent)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[:n-1]
	return ev
}

// Scheduler 按游戏时间排序的事件队列
// 同一个键只保留一个待执行事件，重复调度即替换。
type Scheduler struct {
	events eventHeap
	byKey  map[EventKey]*scheduledEvent
	seq    uint64
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	return &Scheduler{byKey: make(map[EventKey]*scheduledEvent)}
}

// Schedule 在 due 时刻执行 fn，已存在同键事件时替换
func (s *Scheduler) Schedule(key EventKey, due time.Time, fn func(now time.Time)) {
	s.Cancel(key)
	s.seq++
	ev := &scheduledEvent{key: key, due: due, seq: s.seq, fn: fn}
	heap.Push(&s.events, ev)
	s.byKey[key] = ev
}

// Cancel 取消事件，返回是否存在
func (s *Scheduler) Cancel(key EventKey) bool {
	ev, ok := s.byKey[key]
	if !ok {
		return false
	}
	delete(s.byKey, key)
	if ev.index >= 0 {
		heap.Remove(&s.events, ev.index)
	}
	return true
}

// Pending 事件是否仍待执行
func (s *Scheduler) Pending(key EventKey) bool {
	_, ok := s.byKey[key]
	return ok
}

// FireDue 执行所有到期事件（含执行过程中新加入且已到期的），返回执行数量
func (s *Scheduler) FireDue(now time.Time) int {
	fired := 0
	for len(s.events) > 0 {
		next := s.events[0]
		if next.due.After(now) {
			break
		}
		heap.Pop(&s.events)
		delete(s.byKey, next.key)
		next.fn(now)
		fired++
	}
	return fired
}

// NextDue 最近的到期时间
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.events) == 0 {
		return time.Time{}, false
	}
	return s.events[0].due, true
}

// Len 待执行事件数
func (s *Scheduler) Len() int {
	return len(s.events)
}

// Clear 丢弃全部事件
func (s *Scheduler) Clear() {
	s.events = nil
	s.byKey = make(map[EventKey]*scheduledEvent)
}
