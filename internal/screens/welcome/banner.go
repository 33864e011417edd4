package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

const bannerArt = `
 ███████╗███╗   ███╗████████╗     ██████╗ ██╗   ██╗██╗███████╗
 ██╔════╝████╗ ████║╚══██╔══╝    ██╔═══██╗██║   ██║██║╚══███╔╝
 █████╗  ██╔████╔██║   ██║       ██║   ██║██║   ██║██║  ███╔╝
 ██╔══╝  ██║╚██╔╝██║   ██║       ██║▄▄ ██║██║   ██║██║ ███╔╝
 ███████╗██║ ╚═╝ ██║   ██║       ╚██████╔╝╚██████╔╝██║███████╗
 ╚══════╝╚═╝     ╚═╝   ╚═╝        ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "E M T   Q U I Z"

// RenderBanner returns the banner styled in the primary color, or a
// compact fallback below 64 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 64 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
