package start

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/components"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

func (s *StartScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	ns := s.state()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Configure your quiz"))
	b.WriteString("\n\n")

	if ns.Error != "" {
		b.WriteString(components.Banner(ns.Error, cw, theme.Error))
		b.WriteString("\n\n")
	}

	if ns.Loading {
		b.WriteString(s.spinner.View())
		b.WriteString(" ")
		b.WriteString(theme.Body.Render("Generating questions..."))
		b.WriteString("\n")
		return components.Panel(b.String(), cw, theme.Primary)
	}

	b.WriteString(s.choiceRow(sectionCount, "Questions", countLabels(), s.countIdx))
	b.WriteString(s.choiceRow(sectionType, "Type", typeLabels(), s.typeIdx))
	b.WriteString(s.choiceRow(sectionDifficulty, "Difficulty", difficultyLabels(), s.diffIdx))
	b.WriteString("\n")
	b.WriteString(s.topicList(cw, height))
	b.WriteString("\n")

	label := "Start Quiz"
	if !s.ready() {
		label = "Start Quiz (choose type, difficulty and topics)"
	}
	btn := components.NewButton(label, s.ready())
	btn.Focused = s.focus == sectionStart
	b.WriteString(btn.View())

	if s.confirm.Open {
		b.WriteString("\n\n")
		b.WriteString(s.confirm.View(cw))
	} else if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Banner(s.notice, cw, theme.Warning))
	}

	return components.Panel(b.String(), cw, theme.Primary)
}

func (s *StartScreen) choiceRow(sec section, label string, options []string, idx int) string {
	labelStyle := theme.Subtitle
	if s.focus == sec {
		labelStyle = theme.Selected
	}
	parts := make([]string, len(options))
	for i, o := range options {
		if i == idx {
			parts[i] = theme.Selected.Render("[" + o + "]")
		} else {
			parts[i] = theme.Unselected.Render(" " + o + " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Width(12).Render(label),
		strings.Join(parts, " "),
	) + "\n"
}

func (s *StartScreen) topicList(cw, height int) string {
	var b strings.Builder
	topics := s.visibleTopics()

	header := fmt.Sprintf("Topics (%d selected)", len(s.selected))
	if s.focus == sectionTopics {
		b.WriteString(theme.Selected.Render(header))
	} else {
		b.WriteString(theme.Subtitle.Render(header))
	}
	b.WriteString("\n")

	if s.mode == inputSearch || s.search.Value() != "" {
		b.WriteString(s.search.View())
		b.WriteString("\n")
	}
	if s.mode == inputFile {
		b.WriteString(s.file.View())
		b.WriteString("\n")
	}

	if len(topics) == 0 {
		b.WriteString(theme.Hint.Render("  No topics match."))
		b.WriteString("\n")
		return b.String()
	}

	names := s.visibleNames()
	allMark := "[ ]"
	if s.selected.allSelected(names) {
		allMark = "[x]"
	}
	b.WriteString(theme.Hint.Render("  " + allMark + " Select all (a)"))
	b.WriteString("\n")

	// Keep the cursor in view when the list is longer than the screen.
	rows := max(height-16, 4)
	first := 0
	if s.cursor >= rows {
		first = s.cursor - rows + 1
	}
	last := min(first+rows, len(topics))

	for i := first; i < last; i++ {
		t := topics[i]
		mark := "[ ]"
		if s.selected.has(t.Name) {
			mark = "[x]"
		}
		line := mark + " " + t.Name
		if t.IsCustom {
			line += " (custom)"
		}
		line = lipgloss.NewStyle().MaxWidth(cw - 4).Render(line)
		if s.focus == sectionTopics && i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if last < len(topics) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(topics)-last)))
		b.WriteString("\n")
	}
	return b.String()
}

func countLabels() []string {
	out := make([]string, len(QuestionCounts))
	for i, n := range QuestionCounts {
		out[i] = fmt.Sprint(n)
	}
	return out
}

func typeLabels() []string {
	out := make([]string, len(questionTypes))
	for i, t := range questionTypes {
		out[i] = string(t)
	}
	return out
}

func difficultyLabels() []string {
	out := make([]string, len(difficulties))
	for i, d := range difficulties {
		out[i] = string(d)
	}
	return out
}
