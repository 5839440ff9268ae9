package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors, picked for the detected terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	// Environment variable override
	if os.Getenv("GLAMOUR_STYLE") == "light" {
		setLightThemeColors()
		return
	}
	if os.Getenv("GLAMOUR_STYLE") == "dark" {
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
	ColorSurface = lipgloss.Color("236")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
	ColorSurface = lipgloss.Color("254")
}

// Component styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleText = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StyleTextDim = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true).
			Padding(0, 1)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true).
			Padding(0, 1)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true).
			Padding(0, 1)

	StyleInfo = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true).
			Padding(0, 1)

	StyleContentContainer = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(1, 2).
				MarginTop(1).
				MarginBottom(1)

	StyleMetadata = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Padding(0, 1)

	StyleScrollIndicator = lipgloss.NewStyle().
				Foreground(ColorTextDim).
				Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
					Foreground(ColorSecondary).
					Bold(true).
					Align(lipgloss.Center)
)

// CreateMainHeader renders the title line of a view
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

// CreateStatus renders a status line in the matching semantic style
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateGuaranteedHelp renders help text that stays visible regardless of
// terminal size
func CreateGuaranteedHelp(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Width(width).
		Align(lipgloss.Left).
		Padding(0, 1)

	if width > 0 && len(helpText) > width-2 {
		helpText = helpText[:width-5] + "..."
	}

	return helpStyle.Render(helpText)
}

// CreateScrollIndicators renders top and bottom scroll hints for a viewport
func CreateScrollIndicators(canScrollUp, canScrollDown bool) (string, string) {
	var top string
	if canScrollUp {
		top = StyleScrollIndicatorActive.Render("...")
	} else {
		top = StyleScrollIndicator.Render("─────────")
	}

	var bottom string
	if canScrollDown {
		bottom = StyleScrollIndicatorActive.Render("...")
	} else {
		bottom = StyleScrollIndicator.Render("─────────")
	}

	return top, bottom
}
