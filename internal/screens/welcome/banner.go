package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mindcheck/internal/ui/theme"
)

const (
	wideBanner = `
 ┳┳┓┳┳┓┏┓┳┓┏┓┓┏┏┓┏┓┓┏┓
 ┃┃┃┃┃┃┃┃┃┃┃ ┣┫┣ ┃ ┃┫ 
 ┛ ┗┻┛┗┗┛┻┛┗┛┛┗┗┛┗┛┛┗┛`
	narrowBanner = "m i n d c h e c k"

	// wideBannerMin is the narrowest terminal that fits wideBanner.
	wideBannerMin = 40
)

var bannerStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

func RenderBanner(width int) string {
	if width < wideBannerMin {
		return bannerStyle.Render(narrowBanner)
	}
	return bannerStyle.Render(wideBanner)
}
