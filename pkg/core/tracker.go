package core

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// PlayerStats 单个角色的统计快照
type PlayerStats struct {
	ID              string `json:"id"`
	Color           string `json:"color"`
	IsHuman         bool   `json:"isHuman"`
	IsAlive         bool   `json:"isAlive"`
	Lives           int    `json:"lives"`
	Score           int    `json:"score"`
	Kills           int    `json:"kills"`
	BombsPlaced     int    `json:"bombsPlaced"`
	BlocksDestroyed int    `json:"blocksDestroyed"`
	ActiveBombs     int    `json:"activeBombs"`
	BombsAvailable  int    `json:"bombsAvailable"`
	BombRange       int    `json:"bombRange"`
	Row             int    `json:"row"`
	Col             int    `json:"col"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
}

// GameStats 全局统计快照
type GameStats struct {
	TimeElapsedMs        int64 `json:"timeElapsedMs"`
	TotalBombsPlaced     int   `json:"totalBombsPlaced"`
	TotalBlocksDestroyed int   `json:"totalBlocksDestroyed"`
	TotalKills           int   `json:"totalKills"`
	PlayerCount          int   `json:"playerCount"`
	ActivePlayers        int   `json:"activePlayers"`
}

// PlayerTracker 单个角色的记账，生命和无敌状态由 Character 自己维护
type PlayerTracker struct {
	Character       *Character
	BombsPlaced     int
	BlocksDestroyed int
	Kills           int
	Score           int
	ActiveBombs     int
}

// ID 角色 id
func (p *PlayerTracker) ID() string {
	return p.Character.ID
}

// CanPlaceBomb 活动炸弹数是否低于容量
func (p *PlayerTracker) CanPlaceBomb() bool {
	return p.Character.IsAlive() && p.ActiveBombs < p.Character.Inventory
}

// BombPlaced 记录一次成功布置
func (p *PlayerTracker) BombPlaced() {
	p.BombsPlaced++
	p.ActiveBombs++
}

// BombReleased 炸弹结束，释放占用
func (p *PlayerTracker) BombReleased() {
	if p.ActiveBombs > 0 {
		p.ActiveBombs--
	}
}

// Stats 统计快照
func (p *PlayerTracker) Stats() PlayerStats {
	c := p.Character
	return PlayerStats{
		ID:              c.ID,
		Color:           c.Color,
		IsHuman:         c.IsHuman(),
		IsAlive:         c.IsAlive(),
		Lives:           c.Lives,
		Score:           p.Score,
		Kills:           p.Kills,
		BombsPlaced:     p.BombsPlaced,
		BlocksDestroyed: p.BlocksDestroyed,
		ActiveBombs:     p.ActiveBombs,
		BombsAvailable:  max(c.Inventory-p.ActiveBombs, 0),
		BombRange:       c.BombRange,
		Row:             c.GridPos.Row,
		Col:             c.GridPos.Col,
		X:               c.Position.X,
		Y:               c.Position.Y,
	}
}

// GameTracker 一局的统计与计时
// 计时用真实时间，自己累计暂停时长。
type GameTracker struct {
	clock  TimeProvider
	score  ScoreConfig
	logger *log.Entry

	order   []string
	players map[string]*PlayerTracker

	running     bool
	paused      bool
	startedAt   time.Time
	stoppedAt   time.Time
	pausedAt    time.Time
	totalPaused time.Duration
}

// NewGameTracker 创建统计器
func NewGameTracker(clock TimeProvider, score ScoreConfig, logger *log.Entry) *GameTracker {
	if clock == nil {
		clock = SystemTime{}
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &GameTracker{
		clock:   clock,
		score:   score,
		logger:  logger,
		players: make(map[string]*PlayerTracker),
	}
}

// RegisterPlayer 登记角色，重复登记返回已有记录
func (t *GameTracker) RegisterPlayer(c *Character) *PlayerTracker {
	if p, ok := t.players[c.ID]; ok {
		p.Character = c
		return p
	}
	p := &PlayerTracker{Character: c}
	t.players[c.ID] = p
	t.order = append(t.order, c.ID)
	return p
}

// Player 按 id 查找
func (t *GameTracker) Player(id string) (*PlayerTracker, bool) {
	p, ok := t.players[id]
	return p, ok
}

// Players 按登记顺序返回
func (t *GameTracker) Players() []*PlayerTracker {
	out := make([]*PlayerTracker, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.players[id])
	}
	return out
}

// resolve 查找归属；找不到时退回第一个登记的角色
func (t *GameTracker) resolve(id string) *PlayerTracker {
	if p, ok := t.players[id]; ok {
		return p
	}
	if len(t.order) == 0 {
		return nil
	}
	t.logger.WithField("owner", id).Debug("统计归属不存在，使用默认角色")
	return t.players[t.order[0]]
}

// StartGame 开始计时
func (t *GameTracker) StartGame() {
	t.running = true
	t.paused = false
	t.startedAt = t.clock.Now()
	t.stoppedAt = time.Time{}
	t.pausedAt = time.Time{}
	t.totalPaused = 0
}

// StopGame 停止计时，耗时冻结在停止时刻
func (t *GameTracker) StopGame() {
	if !t.running {
		return
	}
	now := t.clock.Now()
	if t.paused {
		t.totalPaused += now.Sub(t.pausedAt)
		t.paused = false
	}
	t.stoppedAt = now
	t.running = false
}

// PauseGame 暂停计时
func (t *GameTracker) PauseGame() {
	if !t.running || t.paused {
		return
	}
	t.paused = true
	t.pausedAt = t.clock.Now()
}

// ResumeGame 恢复计时
func (t *GameTracker) ResumeGame() {
	if !t.running || !t.paused {
		return
	}
	t.totalPaused += t.clock.Now().Sub(t.pausedAt)
	t.paused = false
	t.pausedAt = time.Time{}
}

// IsRunning 是否在计时
func (t *GameTracker) IsRunning() bool {
	return t.running
}

// IsPaused 是否暂停
func (t *GameTracker) IsPaused() bool {
	return t.paused
}

// Elapsed 对局耗时，不含暂停时长
func (t *GameTracker) Elapsed() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	end := t.clock.Now()
	switch {
	case !t.running:
		end = t.stoppedAt
	case t.paused:
		end = t.pausedAt
	}
	d := end.Sub(t.startedAt) - t.totalPaused
	if d < 0 {
		return 0
	}
	return d
}

// ApplyDamage 对单个角色结算一次伤害，返回是否造成伤害
// 存活且不在无敌窗口才会扣血；击杀且不是自己时给来源记一次击杀。
func (t *GameTracker) ApplyDamage(c *Character, sourceID string, now time.Time) bool {
	if !c.IsAlive() || c.IsImmune(now) {
		return false
	}
	c.TakeDamage(now)
	c.SetImmune(now)

	if !c.IsAlive() && c.ID != sourceID {
		if src := t.resolve(sourceID); src != nil && src.ID() != c.ID {
			src.Kills++
			src.Score += t.score.EliminationPoints
		}
	}
	return true
}

// ApplyExplosionDamage 对站在爆炸格子上的角色结算伤害，返回受伤角色 id
func (t *GameTracker) ApplyExplosionDamage(cells []GridPos, sourceID string, now time.Time) []string {
	hit := make(map[GridPos]struct{}, len(cells))
	for _, p := range cells {
		hit[p] = struct{}{}
	}

	var victims []string
	for _, p := range t.Players() {
		c := p.Character
		if _, ok := hit[c.GridPos]; !ok {
			continue
		}
		if t.ApplyDamage(c, sourceID, now) {
			victims = append(victims, c.ID)
		}
	}
	return victims
}

// RecordBlockDestruction 记录炸毁砖块，每块计分一次
func (t *GameTracker) RecordBlockDestruction(count int, ownerID string) {
	if count <= 0 {
		return
	}
	p := t.resolve(ownerID)
	if p == nil {
		return
	}
	p.BlocksDestroyed += count
	p.Score += count * t.score.PointsPerBlock
}

// Stats 全局统计
func (t *GameTracker) Stats() GameStats {
	s := GameStats{
		TimeElapsedMs: t.Elapsed().Milliseconds(),
		PlayerCount:   len(t.order),
	}
	for _, p := range t.Players() {
		s.TotalBombsPlaced += p.BombsPlaced
		s.TotalBlocksDestroyed += p.BlocksDestroyed
		s.TotalKills += p.Kills
		if p.Character.IsAlive() {
			s.ActivePlayers++
		}
	}
	return s
}

// PlayerStats 按登记顺序返回所有角色统计
func (t *GameTracker) PlayerStats() []PlayerStats {
	out := make([]PlayerStats, 0, len(t.order))
	for _, p := range t.Players() {
		out = append(out, p.Stats())
	}
	return out
}

// Reset 清空全部角色和计时
func (t *GameTracker) Reset() {
	t.order = nil
	t.players = make(map[string]*PlayerTracker)
	t.running = false
	t.paused = false
	t.startedAt = time.Time{}
	t.stoppedAt = time.Time{}
	t.pausedAt = time.Time{}
	t.totalPaused = 0
}
