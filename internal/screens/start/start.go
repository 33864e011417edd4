// Package start implements the quiz configuration screen.
package start

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/ui/components"
	"github.com/abhisek/emtquiz/internal/ui/layout"
)

// QuestionCounts are the batch sizes offered.
var QuestionCounts = []int{5, 10, 15, 20}

type section int

const (
	sectionCount section = iota
	sectionType
	sectionDifficulty
	sectionTopics
	sectionStart
	numSections
)

var (
	questionTypes = []quiz.QuestionType{quiz.QuestionTypeKnowledge, quiz.QuestionTypeScenario}
	difficulties  = []quiz.Difficulty{quiz.DifficultyEasy, quiz.DifficultyHard}
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputFile
)

// StartScreen collects the quiz configuration and starts generation.
type StartScreen struct {
	deps *screen.Deps

	focus    section
	countIdx int
	typeIdx  int // -1 until chosen
	diffIdx  int // -1 until chosen
	selected selection
	cursor   int // index into the filtered topic list

	search  components.TextInput
	file    components.TextInput
	mode    inputMode
	confirm components.Confirm
	pending string // custom topic awaiting delete confirmation

	notice  string
	spinner spinner.Model
}

var _ screen.Screen = (*StartScreen)(nil)
var _ screen.KeyHintProvider = (*StartScreen)(nil)
var _ screen.InputCapturer = (*StartScreen)(nil)

// New creates a StartScreen.
func New(deps *screen.Deps) *StartScreen {
	return &StartScreen{
		deps:    deps,
		typeIdx: -1,
		diffIdx: -1,
		search:  components.NewTextInput("Search: ", "type to filter topics", 64),
		file:    components.NewTextInput("File: ", "path to a .txt or .md file", 512),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *StartScreen) Init() tea.Cmd {
	if s.loading() {
		return s.spinner.Tick
	}
	return nil
}

func (s *StartScreen) Title() string {
	return "New Quiz"
}

// CapturingInput reports whether a text field or prompt has the keyboard.
func (s *StartScreen) CapturingInput() bool {
	return s.mode != inputNone || s.confirm.Open
}

func (s *StartScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading():
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}, {Key: "h", Description: "History"}}
	case s.confirm.Open:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Keep"}}
	case s.mode != inputNone:
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}, {Key: "Esc", Description: "Cancel"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "←→", Description: "Change"},
	}
	if s.focus == sectionTopics {
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Toggle"},
			layout.KeyHint{Key: "a", Description: "All"},
			layout.KeyHint{Key: "/", Description: "Search"},
			layout.KeyHint{Key: "+", Description: "Add"},
			layout.KeyHint{Key: "d", Description: "Delete"},
		)
	}
	return append(hints, layout.KeyHint{Key: "h", Description: "History"})
}

func (s *StartScreen) state() session.NotStarted {
	ns, _ := s.deps.Session.State().(session.NotStarted)
	return ns
}

func (s *StartScreen) loading() bool {
	return s.state().Loading
}

// visibleTopics returns the topics matching the search box.
func (s *StartScreen) visibleTopics() []knowledge.Topic {
	return s.deps.Topics.Filter(s.search.Value())
}

func (s *StartScreen) visibleNames() []string {
	topics := s.visibleTopics()
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

// ready reports whether every choice needed to start has been made.
func (s *StartScreen) ready() bool {
	return len(s.selected) > 0 && s.typeIdx >= 0 && s.diffIdx >= 0 && !s.loading()
}

// Config returns the configuration currently chosen.
func (s *StartScreen) Config() (quiz.Config, int) {
	cfg := quiz.Config{Topics: []string(s.selected)}
	if s.typeIdx >= 0 {
		cfg.QuestionType = questionTypes[s.typeIdx]
	}
	if s.diffIdx >= 0 {
		cfg.Difficulty = difficulties[s.diffIdx]
	}
	return cfg, QuestionCounts[s.countIdx]
}

func (s *StartScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *StartScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.mode {
	case inputSearch:
		s.search, cmd = s.search.Update(msg)
	case inputFile:
		s.file, cmd = s.file.Update(msg)
	}
	return s, cmd
}

func (s *StartScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.loading() {
		switch key {
		case "esc":
			s.deps.Session.Restart()
			return s, screen.Sync
		case "h":
			return s, s.viewHistory()
		}
		return s, nil
	}

	if s.confirm.Open {
		if s.confirm.Update(msg) == components.ConfirmYes {
			s.deleteTopic(s.pending)
		}
		if !s.confirm.Open {
			s.pending = ""
		}
		return s, nil
	}

	switch s.mode {
	case inputSearch:
		switch key {
		case "enter", "esc":
			s.search.Blur()
			s.mode = inputNone
			s.clampCursor()
			return s, nil
		}
		updated, cmd := s.forwardToInput(msg)
		s.cursor = 0
		return updated, cmd
	case inputFile:
		switch key {
		case "esc":
			s.file.Blur()
			s.file.Reset()
			s.mode = inputNone
			return s, nil
		case "enter":
			s.file.Blur()
			s.mode = inputNone
			s.addTopicFromFile(s.file.Value())
			s.file.Reset()
			return s, nil
		}
		return s.forwardToInput(msg)
	}

	switch key {
	case "tab", "down":
		if key == "down" && s.focus == sectionTopics {
			s.moveCursor(1)
			return s, nil
		}
		s.focus = (s.focus + 1) % numSections
		return s, nil
	case "shift+tab", "up":
		if key == "up" && s.focus == sectionTopics && s.cursor > 0 {
			s.moveCursor(-1)
			return s, nil
		}
		s.focus = (s.focus + numSections - 1) % numSections
		return s, nil
	case "left", "right":
		s.cycle(key == "right")
		return s, nil
	case "h":
		return s, s.viewHistory()
	case "enter":
		if s.focus == sectionStart {
			return s, s.start()
		}
		if s.focus == sectionTopics {
			s.toggleCursor()
			return s, nil
		}
		s.focus++
		return s, nil
	case "s":
		return s, s.start()
	}

	if s.focus == sectionTopics {
		switch key {
		case "space", "x":
			s.toggleCursor()
		case "a":
			s.selected = s.selected.toggleAll(s.visibleNames())
		case "/":
			s.mode = inputSearch
			return s, s.search.Focus()
		case "+":
			s.notice = ""
			s.mode = inputFile
			return s, s.file.Focus()
		case "d":
			s.askDelete()
		}
	}
	return s, nil
}

func (s *StartScreen) cycle(forward bool) {
	step := -1
	if forward {
		step = 1
	}
	wrap := func(i, n int) int { return ((i+step)%n + n) % n }
	switch s.focus {
	case sectionCount:
		s.countIdx = wrap(s.countIdx, len(QuestionCounts))
	case sectionType:
		if s.typeIdx < 0 {
			s.typeIdx = 0
		} else {
			s.typeIdx = wrap(s.typeIdx, len(questionTypes))
		}
	case sectionDifficulty:
		if s.diffIdx < 0 {
			s.diffIdx = 0
		} else {
			s.diffIdx = wrap(s.diffIdx, len(difficulties))
		}
	}
}

func (s *StartScreen) moveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *StartScreen) clampCursor() {
	n := len(s.visibleTopics())
	s.cursor = min(max(s.cursor, 0), max(n-1, 0))
}

func (s *StartScreen) toggleCursor() {
	topics := s.visibleTopics()
	if s.cursor < len(topics) {
		s.selected = s.selected.toggle(topics[s.cursor].Name)
	}
}

func (s *StartScreen) askDelete() {
	topics := s.visibleTopics()
	if s.cursor >= len(topics) || !topics[s.cursor].IsCustom {
		s.notice = "Only custom topics can be deleted."
		return
	}
	s.pending = topics[s.cursor].Name
	s.confirm.Ask(`Are you sure you want to delete the custom topic "` + s.pending + `"?`)
}

func (s *StartScreen) deleteTopic(name string) {
	err := s.deps.Topics.Delete(context.Background(), name)
	if err != nil && !quiz.IsPersistence(err) {
		s.notice = quiz.UserMessage(err)
		return
	}
	s.selected = s.selected.remove(name)
	s.clampCursor()
	s.notice = ""
	if err != nil {
		s.notice = quiz.UserMessage(err)
	}
}

func (s *StartScreen) addTopicFromFile(path string) {
	if path == "" {
		return
	}
	name, content, err := knowledge.ReadTopicFile(path)
	if err != nil {
		s.deps.Logger.Warn("failed to read topic file", "path", path, "error", err)
		s.notice = quiz.UserMessage(err)
		return
	}
	t, err := s.deps.Topics.Add(context.Background(), name, content)
	if err != nil && !quiz.IsPersistence(err) {
		s.notice = quiz.UserMessage(err)
		return
	}
	// New topics are selected straight away.
	if !s.selected.has(t.Name) {
		s.selected = s.selected.toggle(t.Name)
	}
	s.notice = `Added topic "` + t.Name + `".`
	if err != nil {
		s.notice = quiz.UserMessage(err)
	}
}

func (s *StartScreen) start() tea.Cmd {
	if !s.ready() {
		return nil
	}
	cfg, count := s.Config()
	s.notice = ""
	job, err := s.deps.Session.BeginStart(cfg, count)
	if err != nil {
		return nil
	}
	return tea.Batch(s.deps.RunJob(job), s.spinner.Tick)
}

func (s *StartScreen) viewHistory() tea.Cmd {
	if err := s.deps.Session.ViewHistory(); err != nil {
		return nil
	}
	return screen.Sync
}
