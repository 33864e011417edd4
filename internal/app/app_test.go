package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/screen/screentest"
	"github.com/abhisek/emtquiz/internal/screens/history"
	"github.com/abhisek/emtquiz/internal/screens/play"
	"github.com/abhisek/emtquiz/internal/screens/score"
	"github.com/abhisek/emtquiz/internal/screens/start"
	"github.com/abhisek/emtquiz/internal/screens/welcome"
	"github.com/abhisek/emtquiz/internal/store"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func TestAppModel_SplashThenStart(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, true)
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("active = %T, want splash", m.router.Active())
	}

	// Global shortcuts are off during the splash; any key skips it.
	m, cmd := update(t, m, screentest.Key('q'))
	if cmd == nil {
		t.Fatal("keypress should finish the splash")
	}
	m, _ = update(t, m, cmd())
	if _, ok := m.router.Active().(*start.StartScreen); !ok {
		t.Fatalf("active = %T, want start", m.router.Active())
	}
}

func TestAppModel_FollowsPhase(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)

	f.StartQuiz(2)
	m, _ = update(t, m, screen.SyncMsg{})
	if _, ok := m.router.Active().(*play.PlayScreen); !ok {
		t.Fatalf("active = %T, want play", m.router.Active())
	}

	f.Complete(1)
	m, _ = update(t, m, screen.SyncMsg{})
	if _, ok := m.router.Active().(*score.ScoreScreen); !ok {
		t.Fatalf("active = %T, want score", m.router.Active())
	}

	f.Deps.Session.Restart()
	if err := f.Deps.Session.ViewHistory(); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, screen.SyncMsg{})
	if _, ok := m.router.Active().(*history.HistoryScreen); !ok {
		t.Fatalf("active = %T, want history", m.router.Active())
	}
}

func TestAppModel_SamePhaseKeepsScreen(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)
	before := m.router.Active()
	m, cmd := update(t, m, screen.SyncMsg{})
	if cmd != nil || m.router.Active() != before {
		t.Error("sync within the same phase should keep the screen")
	}
}

func TestAppModel_GeneratedOutcome(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)

	job, err := f.Deps.Session.BeginStart(screentest.Config(), 3)
	if err != nil {
		t.Fatal(err)
	}
	outcome := f.Deps.Session.Run(context.Background(), job)

	m, _ = update(t, m, screen.GeneratedMsg{Outcome: outcome})
	if _, ok := m.router.Active().(*play.PlayScreen); !ok {
		t.Fatalf("active = %T, want play", m.router.Active())
	}

	// A second delivery of the same outcome is stale.
	m, cmd := update(t, m, screen.GeneratedMsg{Outcome: outcome})
	if cmd != nil {
		t.Error("stale outcome should be ignored")
	}
	if _, ok := m.router.Active().(*play.PlayScreen); !ok {
		t.Errorf("active = %T after stale outcome", m.router.Active())
	}
}

func TestAppModel_ThemeToggle(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)
	theme.Apply(theme.Dark)
	t.Cleanup(func() { theme.Apply(theme.Dark) })

	m, cmd := update(t, m, screentest.Key('t'))
	if theme.Current() != theme.Light {
		t.Fatalf("theme = %s, want light", theme.Current())
	}
	if cmd == nil {
		t.Fatal("toggle should save the preference")
	}
	update(t, m, cmd())
	if v, _, _ := f.KV.Get(context.Background(), store.KeyTheme); v != string(theme.Light) {
		t.Errorf("stored theme = %q", v)
	}
}

func TestAppModel_ShortcutsBlockedWhileTyping(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)
	theme.Apply(theme.Dark)
	t.Cleanup(func() { theme.Apply(theme.Dark) })

	// Focus the topic search box on the start screen.
	for range 3 {
		m, _ = update(t, m, screentest.Special(tea.KeyTab))
	}
	m, _ = update(t, m, screentest.Key('/'))
	if !m.capturing() {
		t.Fatal("search should capture input")
	}
	update(t, m, screentest.Key('t'))
	if theme.Current() != theme.Dark {
		t.Error("typing t in search toggled the theme")
	}
}

func TestAppModel_View(t *testing.T) {
	f := screentest.New()
	m := newAppModel(f.Deps, f.KV, false)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.View().Content == nil {
		t.Error("empty view")
	}
}
