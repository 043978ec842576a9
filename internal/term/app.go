package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"bombarena/pkg/core"
)

// Session 终端前端驱动的对局，engine.Room 实现了它
type Session interface {
	Press(a core.Action)
	Release(a core.Action)
	Snapshot() *core.Snapshot
	Done() <-chan struct{}
}

// DefaultFrameInterval 重绘间隔
const DefaultFrameInterval = 33 * time.Millisecond

// App 终端前端
type App struct {
	screen  tcell.Screen
	session Session
	logger  *log.Entry

	FrameInterval time.Duration
}

// NewApp screen 需要已经 Init
func NewApp(screen tcell.Screen, session Session, logger *log.Entry) *App {
	if logger == nil {
		logger = log.WithField("component", "term")
	}
	return &App{
		screen:        screen,
		session:       session,
		logger:        logger,
		FrameInterval: DefaultFrameInterval,
	}
}

// KeyAction 按键对应的动作；终端收不到松开事件，按一次即一次完整的按下松开
func KeyAction(ev *tcell.EventKey) (core.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return core.ActionUp, true
	case tcell.KeyDown:
		return core.ActionDown, true
	case tcell.KeyLeft:
		return core.ActionLeft, true
	case tcell.KeyRight:
		return core.ActionRight, true
	case tcell.KeyEnter:
		return core.ActionBomb, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return core.ActionUp, true
		case 's', 'S':
			return core.ActionDown, true
		case 'a', 'A':
			return core.ActionLeft, true
		case 'd', 'D':
			return core.ActionRight, true
		case ' ':
			return core.ActionBomb, true
		case 'p', 'P':
			return core.ActionPause, true
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// handleEvent 返回 false 表示退出
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if action, ok := KeyAction(ev); ok {
			a.session.Press(action)
			a.session.Release(action)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) draw() {
	Render(a.screen, a.session.Snapshot())
	a.screen.Show()
}

// Run 事件循环，直到按下退出键、ctx 取消或对局结束
func (a *App) Run(ctx context.Context) {
	ticker := time.NewTicker(a.FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		// Fini 之后 PollEvent 返回 nil
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.session.Done():
			a.draw()
			a.logger.Info("对局已结束")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.draw()
		}
	}
}
