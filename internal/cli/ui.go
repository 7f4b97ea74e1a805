package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI-256 palette. Muted colors; the diagram is the star, not the CLI.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared with the object picker and spinner.
var (
	// StyleTitle for section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for the OAuth authorization URL.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for per-object describe failures.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// status couples an icon with its color so every printer produces the
// same shape: colored icon, space, message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusNote = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (st status) printf(format string, args ...any) {
	fmt.Println(st.style.Render(st.icon) + " " + fmt.Sprintf(format, args...))
}

// printSuccess prints a success line.
func printSuccess(format string, args ...any) { statusOK.printf(format, args...) }

// printError prints an error line.
func printError(format string, args ...any) { statusFail.printf(format, args...) }

// printWarning prints a warning line, message included in the warning color.
func printWarning(format string, args ...any) {
	statusWarn.printf("%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a neutral status line.
func printInfo(format string, args ...any) { statusNote.printf(format, args...) }

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printKeyValue prints an aligned label/value pair, used by auth status
// and the versions listing.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a generated diagram: object and relationship
// counts plus whether the layout came from cache.
func printStats(objectCount, edgeCount int, cached bool) {
	var parts []string
	if objectCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d objects", objectCount)))
	}
	if edgeCount > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d relationships", edgeCount)))
	}

	freshness := statusNote.style.Render("fresh")
	if cached {
		freshness = statusOK.style.Render("cached")
	}
	parts = append(parts, freshness)

	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printInline prints dim text without a newline, for wait prompts.
func printInline(format string, args ...any) {
	fmt.Print(StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNewline prints a blank line.
func printNewline() {
	fmt.Println()
}
