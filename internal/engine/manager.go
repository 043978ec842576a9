package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultMaxSessions = 100
	DefaultRetention   = 5 * time.Minute // 结束的会话保留多久
	cleanupInterval    = 30 * time.Second
)

var ErrTooManySessions = errors.New("too many sessions")

// Manager 管理并发运行的房间，按 uuid 索引
type Manager struct {
	ctx      context.Context
	defaults RoomOptions
	metrics  *Metrics

	MaxSessions int
	Retention   time.Duration

	rooms    map[string]*Room
	mu       sync.RWMutex
	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

func NewManager(ctx context.Context, defaults RoomOptions) *Manager {
	if defaults.Metrics == nil {
		defaults.Metrics = NewMetrics(nil)
	}
	return &Manager{
		ctx:         ctx,
		defaults:    defaults,
		metrics:     defaults.Metrics,
		MaxSessions: DefaultMaxSessions,
		Retention:   DefaultRetention,
		rooms:       make(map[string]*Room),
		shutdown:    make(chan struct{}),
	}
}

// Run 启动清理协程
func (m *Manager) Run() {
	m.wg.Add(1)
	go m.cleanupLoop()
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.shutdown:
			return
		case now := <-ticker.C:
			m.cleanupFinished(now)
		}
	}
}

// cleanupFinished 移除结束超过保留时间的房间
func (m *Manager) cleanupFinished(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, room := range m.rooms {
		ended, ok := room.finishedFor(now)
		if !ok || ended < m.Retention {
			continue
		}
		log.WithField("session", id).Info("清理已结束的会话")
		room.Shutdown()
		delete(m.rooms, id)
		removed++
	}
	m.metrics.ActiveSessions.Set(float64(len(m.rooms)))
	return removed
}

// Create 用默认参数创建并启动一个房间；mutate 可以改写本次的参数
func (m *Manager) Create(mutate func(*RoomOptions)) (*Room, error) {
	opts := m.defaults
	if mutate != nil {
		mutate(&opts)
	}
	opts.Metrics = m.metrics

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rooms) >= m.MaxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrTooManySessions, m.MaxSessions)
	}

	id := uuid.NewString()
	if opts.Logger == nil {
		opts.Logger = log.WithField("session", id)
	} else {
		opts.Logger = opts.Logger.WithField("session", id)
	}
	room, err := NewRoom(m.ctx, id, opts)
	if err != nil {
		return nil, err
	}
	m.rooms[id] = room
	m.metrics.ActiveSessions.Set(float64(len(m.rooms)))

	m.wg.Add(1)
	go room.Run(&m.wg)

	log.WithField("session", id).Info("创建会话")
	return room, nil
}

func (m *Manager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// List 按创建时间排序
func (m *Manager) List() []*Room {
	m.mu.RLock()
	out := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		out = append(out, room)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].createdAt.Equal(out[j].createdAt) {
			return out[i].id < out[j].id
		}
		return out[i].createdAt.Before(out[j].createdAt)
	})
	return out
}

// Remove 停止并移除房间
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	room, ok := m.rooms[id]
	if ok {
		delete(m.rooms, id)
		m.metrics.ActiveSessions.Set(float64(len(m.rooms)))
	}
	m.mu.Unlock()

	if ok {
		room.Shutdown()
		<-room.Done()
	}
	return ok
}

// Shutdown 关闭所有房间并等待循环退出
func (m *Manager) Shutdown() {
	m.once.Do(func() { close(m.shutdown) })

	m.mu.Lock()
	log.Infof("关闭 %d 个会话...", len(m.rooms))
	for _, room := range m.rooms {
		room.Shutdown()
	}
	m.mu.Unlock()

	m.wg.Wait()
	log.Info("所有会话已关闭")
}
