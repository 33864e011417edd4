// Package router holds the screen on display and swaps it when the state
// it presents changes.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/screen"
)

// Router shows one screen at a time. Each screen is built for a key (the
// app uses the session phase); asking for the key already on display keeps
// the existing screen and its local state.
type Router[K comparable] struct {
	key    K
	active screen.Screen
	build  func(K) screen.Screen
}

// New creates a Router that builds screens with build. Nothing is shown
// until Show or Follow is called.
func New[K comparable](build func(K) screen.Screen) *Router[K] {
	return &Router[K]{build: build}
}

// Show displays s under the zero key, for screens that belong to no state
// such as a splash.
func (r *Router[K]) Show(s screen.Screen) tea.Cmd {
	var zero K
	r.key, r.active = zero, s
	return s.Init()
}

// Follow displays the screen for key. It is a no-op returning nil when a
// screen for key is already shown.
func (r *Router[K]) Follow(key K) tea.Cmd {
	if r.active != nil && key == r.key {
		return nil
	}
	r.key = key
	r.active = r.build(key)
	return r.active.Init()
}

// Key returns the key of the screen on display.
func (r *Router[K]) Key() K {
	return r.key
}

// Active returns the screen on display, or nil.
func (r *Router[K]) Active() screen.Screen {
	return r.active
}

// Update forwards msg to the active screen.
func (r *Router[K]) Update(msg tea.Msg) tea.Cmd {
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active screen.
func (r *Router[K]) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
