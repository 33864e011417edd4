// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/router"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/screens/history"
	"github.com/abhisek/emtquiz/internal/screens/play"
	"github.com/abhisek/emtquiz/internal/screens/score"
	"github.com/abhisek/emtquiz/internal/screens/start"
	"github.com/abhisek/emtquiz/internal/screens/welcome"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/store"
	"github.com/abhisek/emtquiz/internal/ui/layout"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// themeSavedMsg reports the outcome of persisting the theme preference.
type themeSavedMsg struct{ err error }

// AppModel is the root Bubble Tea model. The active screen always matches
// the session phase, except for the splash screen shown at launch.
type AppModel struct {
	deps   *screen.Deps
	kv     store.KV
	router *router.Router[session.Phase] // keyed "" while the splash is up
	init   tea.Cmd
	width  int
	height int
}

// newAppModel creates an AppModel. With splash unset it opens straight on
// the screen for the current phase.
func newAppModel(deps *screen.Deps, kv store.KV, splash bool) AppModel {
	m := AppModel{deps: deps, kv: kv}
	m.router = router.New(func(phase session.Phase) screen.Screen {
		return screenFor(deps, phase)
	})
	if splash {
		m.init = m.router.Show(welcome.New())
	} else {
		m.init = m.router.Follow(deps.Session.Phase())
	}
	return m
}

// screenFor builds the screen that presents phase.
func screenFor(deps *screen.Deps, phase session.Phase) screen.Screen {
	switch phase {
	case session.PhaseInProgress:
		return play.New(deps)
	case session.PhaseCompleted, session.PhaseReviewing:
		return score.New(deps)
	case session.PhaseHistory:
		return history.New(deps)
	default:
		return start.New(deps)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.SyncMsg:
		return m, m.sync()

	case screen.GeneratedMsg:
		if !m.deps.Session.Complete(msg.Outcome) {
			m.deps.Logger.Debug("discarded stale generation outcome",
				"kind", msg.Outcome.Job.Kind.String(), "token", msg.Outcome.Job.Token)
			return m, nil
		}
		return m, m.sync()

	case themeSavedMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("failed to save theme preference", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		if !m.capturing() && m.router.Key() != "" {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "t":
				return m, m.toggleTheme()
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

// sync swaps in a fresh screen when the session phase differs from the one
// on display. Screens read session state on every render, so staying in the
// same phase needs no swap.
func (m *AppModel) sync() tea.Cmd {
	phase, from := m.deps.Session.Phase(), m.router.Key()
	if phase == from {
		return nil
	}
	if phase == session.PhaseInProgress {
		m.deps.Tracker.Reset()
	}
	m.deps.Logger.Debug("screen change", "from", string(from), "to", string(phase))
	return m.router.Follow(phase)
}

func (m AppModel) toggleTheme() tea.Cmd {
	next := theme.Current().Toggle()
	theme.Apply(next)
	kv := m.kv
	if kv == nil {
		return nil
	}
	return func() tea.Msg {
		return themeSavedMsg{err: theme.Save(context.Background(), kv, next)}
	}
}

// status is the header's right-hand text.
func (m AppModel) status() string {
	switch st := m.deps.Session.State().(type) {
	case session.InProgress:
		answered, total := m.deps.Session.Progress()
		return fmt.Sprintf("%s · %d/%d", st.Config.Difficulty, answered, total)
	case session.Completed:
		return fmt.Sprintf("%d%%", st.Result.Percentage)
	case session.Browsing:
		return fmt.Sprintf("%d quizzes", len(st.History))
	}
	return string(theme.Current())
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	if m.router.Key() == "" {
		// The splash owns the whole frame.
		v.SetContent(active.View(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(active.Title(), m.status(), m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	if m.capturing() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "t", Description: "Theme"},
			layout.KeyHint{Key: "q", Description: "Quit"},
		)
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run loads the saved theme and starts the Bubble Tea program.
func Run(ctx context.Context, deps *screen.Deps, kv store.KV) error {
	if kv != nil {
		theme.Apply(theme.Load(ctx, kv))
	}
	p := tea.NewProgram(newAppModel(deps, kv, true), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
