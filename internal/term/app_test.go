package term

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"bombarena/pkg/core"
)

type fakeSession struct {
	mu       sync.Mutex
	pressed  []core.Action
	released []core.Action
	snap     *core.Snapshot
	done     chan struct{}
}

func (f *fakeSession) Press(a core.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pressed = append(f.pressed, a)
}

func (f *fakeSession) Release(a core.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, a)
}

func (f *fakeSession) Snapshot() *core.Snapshot { return f.snap }
func (f *fakeSession) Done() <-chan struct{}    { return f.done }

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want core.Action
		ok   bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), core.ActionUp, true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), core.ActionRight, true},
		{"enter bombs", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), core.ActionBomb, true},
		{"a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), core.ActionLeft, true},
		{"S", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), core.ActionDown, true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), core.ActionBomb, true},
		{"pause", tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), core.ActionPause, true},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyAction(tt.ev)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAppForwardsKeysUntilQuit(t *testing.T) {
	screen := newScreen(t)
	session := &fakeSession{snap: startedSnapshot(t), done: make(chan struct{})}
	app := NewApp(screen, session, nil)
	app.FrameInterval = time.Millisecond

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		app.Run(context.Background())
	}()

	screen.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("app did not quit")
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, []core.Action{core.ActionRight, core.ActionBomb}, session.pressed)
	assert.Equal(t, session.pressed, session.released)
}

func TestAppStopsWhenSessionEnds(t *testing.T) {
	screen := newScreen(t)
	session := &fakeSession{snap: startedSnapshot(t), done: make(chan struct{})}
	app := NewApp(screen, session, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	close(session.done)
	app.Run(ctx)
	assert.NoError(t, ctx.Err())
}
