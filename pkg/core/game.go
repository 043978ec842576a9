package core

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrInvalidState 当前状态不允许该操作
var ErrInvalidState = errors.New("invalid game state")

// GameState 对局状态
type GameState int

const (
	StateStart GameState = iota
	StatePlaying
	StatePaused
	StateGameOver
	StateWin
)

func (s GameState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateGameOver:
		return "GAME_OVER"
	case StateWin:
		return "WIN"
	}
	return "UNKNOWN"
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(b []byte) error {
	for st := StateStart; st <= StateWin; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", b)
}

// Terminal 是否为结束状态
func (s GameState) Terminal() bool {
	return s == StateGameOver || s == StateWin
}

// EndReason 对局结束原因
type EndReason string

const (
	ReasonNone         EndReason = ""
	ReasonLastStanding EndReason = "last-standing"
	ReasonPlayerDead   EndReason = "player-dead"
	ReasonTimeOver     EndReason = "time-over"
	ReasonAllDead      EndReason = "all-dead"
	ReasonStopped      EndReason = "stopped"
)

// Outcome 对局结果
type Outcome struct {
	State    GameState `json:"state"`
	WinnerID string    `json:"winnerId,omitempty"`
	Reason   EndReason `json:"reason,omitempty"`
}

// AIController 电脑角色的决策，每个 tick 调用一次
type AIController interface {
	Think(g *Game, now time.Time)
}

// BombEvent 爆炸通知
type BombEvent struct {
	OwnerID string
	Center  GridPos
	Cells   []GridPos
	Chained bool
	Victims []string
}

// Listeners 对局事件回调，全部在模拟线程上同步调用
type Listeners struct {
	OnStateChange func(from, to GameState)
	OnWin         func(winnerID string)
	OnGameOver    func(reason EndReason)
	OnPlayerDead  func(id string)
	OnBombPlaced  func(ownerID string, pos GridPos)
	OnBombExplode func(ev BombEvent)
	OnBlock       func(ownerID string, pos GridPos)
}

// Option 构造参数
type Option func(*Game)

// WithRand 注入随机源
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithLogger 注入日志
func WithLogger(l *log.Entry) Option {
	return func(g *Game) { g.logger = l }
}

// WithTimeProvider 注入真实时钟
func WithTimeProvider(tp TimeProvider) Option {
	return func(g *Game) { g.real = tp }
}

// WithAI 注入电脑角色控制器
func WithAI(ai AIController) Option {
	return func(g *Game) { g.ai = ai }
}

// 出生顺序：左上玩家，右上/左下/右下电脑
var characterColors = []string{"#4A90E2", "#E74C3C", "#F39C12", "#9B59B6"}

// Game 一局游戏（纯逻辑，不包含渲染）
// 所有方法都必须在同一个逻辑线程上调用。
type Game struct {
	cfg    Config
	real   TimeProvider
	clock  *PausableClock
	rng    *rand.Rand
	logger *log.Entry
	ai     AIController

	Map     *GameMap
	Chars   *Registry
	Tracker *GameTracker
	Bombs   *BombSystem
	Blasts  *BlastField

	input    Input
	pending  []Action
	limiters map[string]*rate.Limiter

	state          GameState
	outcome        Outcome
	desiredPlayers int
	tick           uint64

	listeners Listeners
}

// NewGame 创建新游戏
func NewGame(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:            cfg,
		desiredPlayers: ClampPlayers(cfg.Game.Players),
		limiters:       make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.real == nil {
		g.real = SystemTime{}
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = log.NewEntry(log.StandardLogger())
	}

	g.clock = NewPausableClock(g.real)
	g.Map = NewGameMap(cfg.Grid, g.rng)
	g.Chars = NewRegistry()
	g.Tracker = NewGameTracker(g.real, cfg.Score, g.logger)
	g.Blasts = NewBlastField()
	g.Bombs = NewBombSystem(g.Map, g.clock, g.rng, cfg, BombHooks{
		BlockDestroyed: g.onBlockDestroyed,
	}, g.logger)
	return g, nil
}

// SetListeners 设置事件回调
func (g *Game) SetListeners(l Listeners) {
	g.listeners = l
}

// Config 当前配置
func (g *Game) Config() Config {
	return g.cfg
}

// Rand 对局随机源
func (g *Game) Rand() *rand.Rand {
	return g.rng
}

// Logger 对局日志
func (g *Game) Logger() *log.Entry {
	return g.logger
}

// Now 当前游戏时间（暂停时冻结）
func (g *Game) Now() time.Time {
	return g.clock.Now()
}

// State 当前状态
func (g *Game) State() GameState {
	return g.state
}

// Outcome 对局结果
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Tick 已执行的 tick 数
func (g *Game) Tick() uint64 {
	return g.tick
}

// DesiredPlayers 本局角色数
func (g *Game) DesiredPlayers() int {
	return g.desiredPlayers
}

// SetDesiredPlayers 设置角色数（1~4），下次 Start 生效
func (g *Game) SetDesiredPlayers(n int) int {
	g.desiredPlayers = ClampPlayers(n)
	return g.desiredPlayers
}

func (g *Game) setState(to GameState) {
	from := g.state
	if from == to {
		return
	}
	g.state = to
	g.logger.WithFields(log.Fields{"from": from, "to": to}).Debug("状态切换")
	if g.listeners.OnStateChange != nil {
		g.listeners.OnStateChange(from, to)
	}
}

// Start 开局：在四角生成角色并登记统计
func (g *Game) Start() error {
	if g.state != StateStart {
		return fmt.Errorf("start from %s: %w", g.state, ErrInvalidState)
	}
	g.Tracker.Reset()
	g.spawnCharacters()
	g.Tracker.StartGame()
	g.outcome = Outcome{}
	g.tick = 0
	g.setState(StatePlaying)
	return nil
}

func (g *Game) spawnCharacters() {
	spawns := g.Map.SpawnPositions()
	n := min(g.desiredPlayers, len(spawns))
	for i := 0; i < n; i++ {
		var c *Character
		if i == 0 {
			c = NewHuman("player-1", characterColors[i], spawns[i], g.cfg)
		} else {
			c = NewComputer(fmt.Sprintf("computer-%d", i), characterColors[i], spawns[i], g.cfg)
			c.Computer.MoveDelay = g.randomMoveDelay()
		}
		c.SetCellSize(g.Map.CellSize)
		g.AddCharacter(c)
	}
}

// AddCharacter 注册角色：角色表、统计、放炸弹限速
func (g *Game) AddCharacter(c *Character) {
	g.Chars.Register(c)
	g.Tracker.RegisterPlayer(c)
	g.limiters[c.ID] = rate.NewLimiter(rate.Every(g.cfg.Bomb.PlacementCooldown), 1)
}

func (g *Game) randomMoveDelay() time.Duration {
	lo, hi := g.cfg.AI.MinMoveDelay, g.cfg.AI.MaxMoveDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(g.rng.Int63n(int64(hi-lo)+1))
}

// RandomMoveDelay 为电脑角色抽一个新的移动间隔
func (g *Game) RandomMoveDelay() time.Duration {
	return g.randomMoveDelay()
}

// halt 取消全部定时，清空炸弹、残留格子、角色表
func (g *Game) halt() {
	g.Bombs.Clear()
	g.Blasts.Clear()
	g.Chars.Clear()
	g.limiters = make(map[string]*rate.Limiter)
	g.pending = nil
	g.input.Reset()
	if g.clock.IsPaused() {
		g.clock.Resume()
	}
}

// Stop 停止对局，回到 START；统计保留到 Reset
func (g *Game) Stop() {
	if g.state == StateStart {
		return
	}
	g.Tracker.StopGame()
	g.halt()
	if !g.state.Terminal() {
		g.outcome = Outcome{State: StateStart, Reason: ReasonStopped}
	}
	g.setState(StateStart)
}

// Reset 停止对局并重新生成地图，清空统计
func (g *Game) Reset() {
	g.Tracker.StopGame()
	g.halt()
	g.Tracker.Reset()
	g.Map.Reset()
	g.outcome = Outcome{}
	g.tick = 0
	g.setState(StateStart)
}

// TogglePause PLAYING 与 PAUSED 互相切换，暂停时游戏时间冻结
func (g *Game) TogglePause() bool {
	switch g.state {
	case StatePlaying:
		g.pending = nil
		g.clock.Pause()
		g.Tracker.PauseGame()
		g.setState(StatePaused)
		return true
	case StatePaused:
		g.clock.Resume()
		g.Tracker.ResumeGame()
		g.setState(StatePlaying)
		return true
	}
	return false
}

// Press 按键按下（边沿触发），暂停键立即生效
func (g *Game) Press(a Action) {
	if !g.input.Press(a) {
		return
	}
	if a == ActionPause {
		g.TogglePause()
		return
	}
	// 非 PLAYING 状态下的输入直接丢弃
	if g.state == StatePlaying {
		g.pending = append(g.pending, a)
	}
}

// Release 按键松开
func (g *Game) Release(a Action) {
	g.input.Release(a)
}

// Step 执行一个 tick：清理残留格子 → 玩家输入 → 电脑角色 → 时间限制
func (g *Game) Step() {
	if g.state != StatePlaying {
		return
	}
	g.tick++
	now := g.clock.Now()

	g.Blasts.Prune(now)
	g.processInput()

	if g.state == StatePlaying && g.ai != nil {
		g.ai.Think(g, now)
	}

	if g.state == StatePlaying {
		g.checkTimeLimit()
	}
}

// FireDue 执行到期的定时事件（引信、连锁、爆炸结束）
func (g *Game) FireDue() int {
	if g.state != StatePlaying {
		return 0
	}
	return g.Bombs.FireDue(g.clock.Now())
}

// NextDue 距下一个定时事件的真实等待时长；暂停或没有事件时返回 false
func (g *Game) NextDue() (time.Duration, bool) {
	if g.state != StatePlaying {
		return 0, false
	}
	due, ok := g.Bombs.NextDue()
	if !ok {
		return 0, false
	}
	return g.clock.RealUntil(due)
}

func (g *Game) processInput() {
	actions := g.pending
	g.pending = nil

	player := g.controlledHuman()
	if player == nil {
		return
	}
	for _, a := range actions {
		if g.state != StatePlaying || !player.IsAlive() {
			return
		}
		if dir, ok := a.Direction(); ok {
			g.TryMove(player, dir)
			continue
		}
		if a == ActionBomb {
			g.PlaceBomb(player)
		}
	}
}

// controlledHuman 第一个玩家角色
func (g *Game) controlledHuman() *Character {
	humans := g.Chars.Humans()
	if len(humans) == 0 {
		return nil
	}
	return humans[0]
}

func (g *Game) checkTimeLimit() {
	limit := g.cfg.Game.TimeLimit
	if limit > 0 && g.Tracker.Elapsed() >= limit {
		g.finish(StateGameOver, "", ReasonTimeOver)
	}
}

// CanMoveTo 目标格是否在地图内、可走且没有其他存活角色
func (g *Game) CanMoveTo(c *Character, target GridPos) bool {
	if !g.Map.IsWalkable(target.Row, target.Col) {
		return false
	}
	_, occupied := g.Chars.OccupiedBy(target, c.ID)
	return !occupied
}

// TryMove 尝试移动一格，成功后结算残留伤害与道具拾取
func (g *Game) TryMove(c *Character, dir Direction) bool {
	if g.state != StatePlaying || c == nil || !c.IsAlive() {
		return false
	}
	if !g.CanMoveTo(c, c.GridPos.Add(dir.Offset())) {
		return false
	}
	c.Move(dir)

	now := g.clock.Now()
	g.checkBlastDamage(c, now)
	if t := g.Map.TakePowerup(c.GridPos); t != PowerupNone {
		c.ApplyPowerup(t)
	}
	return true
}

// checkBlastDamage 走进残留爆炸格子受到一次伤害
func (g *Game) checkBlastDamage(c *Character, now time.Time) {
	cell, ok := g.Blasts.At(c.GridPos, now)
	if !ok {
		return
	}
	if g.Tracker.ApplyDamage(c, cell.OwnerID, now) {
		g.afterDamage([]string{c.ID})
	}
}

// PlaceBomb 在角色当前位置放炸弹
// 活动炸弹数已满或冷却未结束时失败；只有布置成功才消耗冷却和名额。
func (g *Game) PlaceBomb(c *Character) bool {
	if g.state != StatePlaying || c == nil || !c.IsAlive() {
		return false
	}
	pt, ok := g.Tracker.Player(c.ID)
	if !ok || !pt.CanPlaceBomb() {
		return false
	}
	now := g.clock.Now()
	lim := g.limiters[c.ID]
	if lim != nil && lim.TokensAt(now) < 1 {
		return false
	}

	ownerID := c.ID
	var bomb *Bomb
	var err error
	bomb, err = g.Bombs.Arm(c.GridPos, BombOptions{
		Fuse:       g.cfg.Bomb.Fuse,
		BlastRange: c.BombRange,
		OwnerID:    ownerID,
		OnDetonate: func(cells []GridPos, _ time.Duration) {
			g.onDetonate(bomb, cells)
		},
		OnExplode: func([]GridPos) {
			if p, ok := g.Tracker.Player(ownerID); ok {
				p.BombReleased()
			}
		},
	})
	if err != nil {
		g.logger.WithError(err).WithField("owner", ownerID).Debug("放置炸弹失败")
		return false
	}

	if lim != nil {
		lim.AllowN(now, 1)
	}
	pt.BombPlaced()
	c.RecordBombPlaced(c.GridPos)
	if g.listeners.OnBombPlaced != nil {
		g.listeners.OnBombPlaced(ownerID, c.GridPos)
	}
	return true
}

// onDetonate 爆炸瞬间：结算伤害、登记残留格子、检查胜负
func (g *Game) onDetonate(b *Bomb, cells []GridPos) {
	if g.state != StatePlaying {
		return
	}
	now := g.clock.Now()
	victims := g.Tracker.ApplyExplosionDamage(cells, b.OwnerID, now)
	g.Blasts.Add(cells, b.OwnerID, now.Add(g.cfg.Bomb.BlastLinger))

	if g.listeners.OnBombExplode != nil {
		g.listeners.OnBombExplode(BombEvent{
			OwnerID: b.OwnerID,
			Center:  b.Pos,
			Cells:   cells,
			Chained: b.Chained,
			Victims: victims,
		})
	}
	g.afterDamage(victims)
}

func (g *Game) onBlockDestroyed(ownerID string, pos GridPos) {
	g.Tracker.RecordBlockDestruction(1, ownerID)
	if g.listeners.OnBlock != nil {
		g.listeners.OnBlock(ownerID, pos)
	}
}

func (g *Game) afterDamage(victims []string) {
	for _, id := range victims {
		c, ok := g.Chars.Get(id)
		if !ok || c.IsAlive() {
			continue
		}
		g.logger.WithField("player", id).Info("角色被淘汰")
		if g.listeners.OnPlayerDead != nil {
			g.listeners.OnPlayerDead(id)
		}
	}
	g.checkWinConditions()
}

// checkWinConditions 多人模式剩最后一人获胜；单人模式玩家死亡即失败
func (g *Game) checkWinConditions() {
	if g.state != StatePlaying {
		return
	}
	alive := g.Chars.Alive()

	if g.Chars.Len() > 1 {
		switch len(alive) {
		case 1:
			g.finish(StateWin, alive[0].ID, ReasonLastStanding)
		case 0:
			g.finish(StateGameOver, "", ReasonAllDead)
		}
		return
	}

	if h := g.controlledHuman(); h != nil && !h.IsAlive() {
		g.finish(StateGameOver, "", ReasonPlayerDead)
	}
}

func (g *Game) finish(state GameState, winnerID string, reason EndReason) {
	if g.state != StatePlaying {
		return
	}
	g.Tracker.StopGame()
	g.outcome = Outcome{State: state, WinnerID: winnerID, Reason: reason}
	g.setState(state)

	g.logger.WithFields(log.Fields{"state": state, "winner": winnerID, "reason": reason}).Info("对局结束")
	switch state {
	case StateWin:
		if g.listeners.OnWin != nil {
			g.listeners.OnWin(winnerID)
		}
	case StateGameOver:
		if g.listeners.OnGameOver != nil {
			g.listeners.OnGameOver(reason)
		}
	}
}

// Resize 视口变化时重算格子像素尺寸，不影响格子类型
func (g *Game) Resize(viewWidth, viewHeight, padding int) int {
	size := g.Map.Resize(viewWidth, viewHeight, padding)
	for _, c := range g.Chars.All() {
		c.SetCellSize(size)
	}
	return size
}

// Opponents 除 c 以外的存活角色
func (g *Game) Opponents(c *Character) []*Character {
	var out []*Character
	for _, o := range g.Chars.Alive() {
		if o.ID != c.ID {
			out = append(out, o)
		}
	}
	return out
}
