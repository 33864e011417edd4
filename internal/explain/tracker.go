package explain

import "sync"

// State is the per-question explanation status.
type State struct {
	Loading bool
	Text    string
	Err     string
}

// Tracker records explanation state per question id. It does not
// deduplicate: two overlapping requests for the same id both run and the
// last one to finish wins. Callers that want at most one request in flight
// check IsLoading first.
type Tracker struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[int64]State)}
}

// Begin marks id as loading and clears any previous text or error.
func (t *Tracker) Begin(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = State{Loading: true}
}

// Resolve records a successful explanation.
func (t *Tracker) Resolve(id int64, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = State{Text: text}
}

// Fail records a failed explanation with a display message.
func (t *Tracker) Fail(id int64, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = State{Err: msg}
}

// State returns the state for id, if any request was ever made for it.
func (t *Tracker) State(id int64) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[id]
	return s, ok
}

// IsLoading reports whether a request for id is in flight.
func (t *Tracker) IsLoading(id int64) bool {
	s, _ := t.State(id)
	return s.Loading
}

// Reset forgets every state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.states)
}
