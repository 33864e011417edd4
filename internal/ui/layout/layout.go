package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// Smallest terminal the quiz frame renders in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func (h KeyHint) render() string {
	return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to grow the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("The quiz needs a %d×%d terminal.\nThis one is %d×%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
}

// RenderHeader draws the top bar: the app name, the screen title in the
// middle and status on the right.
func RenderHeader(title, status string, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("✚ EMT Quiz")
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	stat := lipgloss.NewStyle().Foreground(theme.TextDim).Render(status)

	// Border plus padding take four columns.
	inner := max(width-4, 0)
	used := lipgloss.Width(brand) + lipgloss.Width(name) + lipgloss.Width(stat)
	if used+2 > inner {
		// No room for a centred title.
		gap := max(inner-lipgloss.Width(brand)-lipgloss.Width(stat), 1)
		return bar(width).Render(brand + strings.Repeat(" ", gap) + stat)
	}

	left := max((inner-lipgloss.Width(name))/2-lipgloss.Width(brand), 1)
	right := max(inner-used-left, 1)
	return bar(width).Render(brand + strings.Repeat(" ", left) + name + strings.Repeat(" ", right) + stat)
}

// RenderFooter draws the key hints, wrapping onto more lines when they do
// not fit the width.
func RenderFooter(hints []KeyHint, width int) string {
	return bar(width).Render(strings.Join(packHints(hints, max(width-4, 1)), "\n"))
}

const hintGap = "   "

// packHints fills lines of at most width columns with hints in order.
// A hint wider than width gets a line of its own.
func packHints(hints []KeyHint, width int) []string {
	var lines []string
	var cur string
	for _, h := range hints {
		part := h.render()
		switch {
		case cur == "":
			cur = part
		case lipgloss.Width(cur)+len(hintGap)+lipgloss.Width(part) <= width:
			cur += hintGap + part
		default:
			lines = append(lines, cur)
			cur = part
		}
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}

// Center places s horizontally centred within width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Wrap soft-wraps s to width columns.
func Wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(s)
}
