package core

import (
	"sync"
	"time"
)

// TimeProvider 提供当前时间
type TimeProvider interface {
	Now() time.Time
}

// SystemTime 真实时钟
type SystemTime struct{}

func (SystemTime) Now() time.Time { return time.Now() }

// ManualTimeProvider 可控时钟，用于测试和确定性回放
type ManualTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualTimeProvider 创建可控时钟
func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{now: start}
}

func (m *ManualTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance 推进时间
func (m *ManualTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set 直接设置时间
func (m *ManualTimeProvider) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// PausableClock 游戏时间：暂停期间冻结
// 引信、爆炸持续、无敌窗口等都以游戏时间计算，暂停时一并挂起。
// 只在模拟线程上使用，不加锁。
type PausableClock struct {
	real        TimeProvider
	start       time.Time
	paused      bool
	pausedAt    time.Time
	totalPaused time.Duration
}

// NewPausableClock 创建游戏时钟
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = SystemTime{}
	}
	return &PausableClock{real: real, start: real.Now()}
}

// Now 返回当前游戏时间
func (c *PausableClock) Now() time.Time {
	ref := c.real.Now()
	if c.paused {
		ref = c.pausedAt
	}
	return c.start.Add(ref.Sub(c.start) - c.totalPaused)
}

// Pause 冻结游戏时间，重复调用无效果
func (c *PausableClock) Pause() {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.real.Now()
}

// Resume 恢复游戏时间
func (c *PausableClock) Resume() {
	if !c.paused {
		return
	}
	c.totalPaused += c.real.Now().Sub(c.pausedAt)
	c.paused = false
	c.pausedAt = time.Time{}
}

// IsPaused 是否处于暂停
func (c *PausableClock) IsPaused() bool {
	return c.paused
}

// RealUntil 把游戏时间点换算成距现在的真实等待时长（暂停时返回 false）
func (c *PausableClock) RealUntil(t time.Time) (time.Duration, bool) {
	if c.paused {
		return 0, false
	}
	d := t.Sub(c.Now())
	if d < 0 {
		d = 0
	}
	return d, true
}
