package screen

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/explain"
	"github.com/abhisek/emtquiz/internal/history"
	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that are currently reading free
// text, so global shortcuts must not fire.
type InputCapturer interface {
	CapturingInput() bool
}

// SyncMsg asks the app to show the screen for the session's current phase.
// Screens send it after driving the session machine to a new phase.
type SyncMsg struct{}

// Sync is a tea.Cmd that emits SyncMsg.
func Sync() tea.Msg { return SyncMsg{} }

// GeneratedMsg carries a finished generation job back to the event loop.
type GeneratedMsg struct {
	Outcome session.Outcome
}

// Deps are the services screens drive. Session is owned by the UI loop; the
// other services are safe for concurrent use.
type Deps struct {
	Session   *session.Machine
	Topics    *knowledge.Store
	History   *history.Store
	Explainer *explain.Service
	Tracker   *explain.Tracker
	Logger    *slog.Logger
}

// RunJob returns a command that runs job off the UI loop and delivers the
// outcome as a GeneratedMsg.
func (d *Deps) RunJob(job session.Job) tea.Cmd {
	return func() tea.Msg {
		return GeneratedMsg{Outcome: d.Session.Run(context.Background(), job)}
	}
}
