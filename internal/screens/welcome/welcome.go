// Package welcome is the splash screen shown at launch.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const crossArt = `      ╭───╮
      │   │
  ╭───╯   ╰───╮
  │     ✚     │
  ╰───╮   ╭───╯
      │   │
      ╰───╯`

// pulse frames beat beside the cross.
var pulseFrames = []string{"─╮╭─", "─╯╰─"}

type tickMsg time.Time

// WelcomeScreen shows a short splash animation. Any key skips it; once it
// finishes the app moves to the screen for the session's phase.
type WelcomeScreen struct {
	elapsed   time.Duration
	tickCount int
	done      bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New() *WelcomeScreen {
	return &WelcomeScreen{}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.done {
			return w, nil
		}
		w.elapsed += tickInterval
		w.tickCount++
		if w.elapsed >= totalDur {
			return w, w.finish()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.finish()
	}

	return w, nil
}

func (w *WelcomeScreen) finish() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	return screen.Sync
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Error).Render(crossArt)

	if w.elapsed >= phase1End {
		beat := lipgloss.NewStyle().Foreground(theme.Primary).
			Render(pulseFrames[w.tickCount%len(pulseFrames)])
		lines := strings.Split(rendered, "\n")
		if len(lines) > 3 {
			lines[3] = beat + lines[3] + beat
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Practice questions for Emergency Medical Technicians"))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
