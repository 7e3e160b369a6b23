package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/loom/internal/app"
	"github.com/dshills/loom/internal/input/key"
)

// redrawInterval bounds how stale an async highlight result can look.
const redrawInterval = 100 * time.Millisecond

// UI owns the terminal screen and the main event loop.
type UI struct {
	screen   tcell.Screen
	renderer *Renderer
}

// New initializes the terminal screen.
func New() (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &UI{screen: screen, renderer: NewRenderer(screen)}, nil
}

// NewWithScreen wraps an existing screen. Tests pass a simulation screen.
func NewWithScreen(screen tcell.Screen) *UI {
	return &UI{screen: screen, renderer: NewRenderer(screen)}
}

// Run drives the application until it quits. The screen is released on
// return.
func (u *UI) Run(a *app.Application) error {
	defer u.screen.Fini()

	quit := make(chan struct{})
	defer close(quit)
	events := make(chan tcell.Event, 16)
	go u.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	u.renderer.Draw(a)
	for {
		select {
		case <-a.Done():
			return nil
		case <-ticker.C:
			u.renderer.Draw(a)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			u.handleEvent(a, ev)
			u.renderer.Draw(a)
		}
	}
}

func (u *UI) handleEvent(a *app.Application, ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		kev := TranslateKey(tev)
		if kev.Key == key.KeyNone {
			return
		}
		a.SetStatus("")
		a.HandleKey(kev)
	case *tcell.EventResize:
		u.screen.Sync()
	}
}
