package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/quiz"
)

// Name identifies a color palette.
type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
)

// ParseName accepts "dark" or "light".
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Dark, Light:
		return Name(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Toggle returns the other palette.
func (n Name) Toggle() Name {
	if n == Light {
		return Dark
	}
	return Light
}

// Palette is the set of colors a theme assigns.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var palettes = map[Name]Palette{
	Dark: {
		Primary:   lipgloss.Color("#2DD4BF"), // Teal
		Secondary: lipgloss.Color("#60A5FA"), // Sky
		Accent:    lipgloss.Color("#F97316"), // Orange
		Success:   lipgloss.Color("#4ADE80"),
		Warning:   lipgloss.Color("#FACC15"),
		Error:     lipgloss.Color("#F87171"),
		Text:      lipgloss.Color("#F3F4F6"),
		TextDim:   lipgloss.Color("#9CA3AF"),
		BgCard:    lipgloss.Color("#1F2937"),
		Border:    lipgloss.Color("#374151"),
	},
	Light: {
		Primary:   lipgloss.Color("#0D9488"),
		Secondary: lipgloss.Color("#2563EB"),
		Accent:    lipgloss.Color("#EA580C"),
		Success:   lipgloss.Color("#16A34A"),
		Warning:   lipgloss.Color("#CA8A04"),
		Error:     lipgloss.Color("#DC2626"),
		Text:      lipgloss.Color("#111827"),
		TextDim:   lipgloss.Color("#6B7280"),
		BgCard:    lipgloss.Color("#E5E7EB"),
		Border:    lipgloss.Color("#D1D5DB"),
	},
}

var current Name

// Colors of the active palette. Apply reassigns them.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

// Styles derived from the active palette.
var (
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Body       lipgloss.Style
	Hint       lipgloss.Style
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

func init() {
	Apply(Dark)
}

// Current returns the active palette name.
func Current() Name { return current }

// Apply switches every color and style to the named palette. Unknown names
// fall back to Dark. Not safe for concurrent use; call it from the UI loop.
func Apply(n Name) {
	p, ok := palettes[n]
	if !ok {
		n, p = Dark, palettes[Dark]
	}
	current = n

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Warning, Error = p.Success, p.Warning, p.Error
	Text, TextDim, BgCard, Border = p.Text, p.TextDim, p.BgCard, p.Border

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Header = lipgloss.NewStyle().Background(BgCard).Padding(0, 2)
	Footer = lipgloss.NewStyle().Background(BgCard).Padding(0, 2)
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Background(Primary)
	ProgressEmpty = lipgloss.NewStyle().Background(Border)
	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(BgCard).
		Bold(true).
		Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().
		Foreground(TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}

// BandColor returns the color used for a score band.
func BandColor(band quiz.Band) color.Color {
	switch band {
	case quiz.BandPass:
		return Success
	case quiz.BandBorderline:
		return Warning
	default:
		return Error
	}
}
