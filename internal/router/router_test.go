package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emtquiz/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	keys    int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.keys++
	}
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func newTestRouter(built *int) *Router[string] {
	return New(func(key string) screen.Screen {
		*built++
		return &stubScreen{title: key}
	})
}

func TestFollowBuildsScreenForKey(t *testing.T) {
	var built int
	r := newTestRouter(&built)
	assert.Nil(t, r.Active())
	assert.Equal(t, "", r.View(80, 24))

	r.Follow("start")
	require.NotNil(t, r.Active())
	assert.Equal(t, "start", r.Active().Title())
	assert.Equal(t, "start", r.Key())
	assert.True(t, r.Active().(*stubScreen).initRan)
	assert.Equal(t, 1, built)
}

func TestFollowSameKeyKeepsScreen(t *testing.T) {
	var built int
	r := newTestRouter(&built)
	r.Follow("play")
	first := r.Active()
	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	assert.Nil(t, r.Follow("play"))
	assert.Same(t, first, r.Active())
	assert.Equal(t, 1, r.Active().(*stubScreen).keys, "local state kept")
	assert.Equal(t, 1, built)

	r.Follow("score")
	assert.Equal(t, "score", r.View(80, 24))
	assert.Equal(t, 2, built)
}

func TestShowUsesZeroKey(t *testing.T) {
	var built int
	r := newTestRouter(&built)
	splash := &stubScreen{title: "splash"}
	r.Show(splash)

	assert.Same(t, splash, r.Active())
	assert.Equal(t, "", r.Key())
	assert.True(t, splash.initRan)
	assert.Equal(t, 0, built)

	// The splash holds the zero key, so following it keeps the splash.
	assert.Nil(t, r.Follow(""))
	assert.Same(t, splash, r.Active())

	r.Follow("start")
	assert.Equal(t, "start", r.Active().Title())
}

func TestUpdateForwardsToActive(t *testing.T) {
	var built int
	r := newTestRouter(&built)
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"}), "no screen yet")

	r.Follow("history")
	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 1, r.Active().(*stubScreen).keys)
}
