package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/facetkit/pkg/pipeline"
)

// stdout receives status lines. Tests swap it out.
var stdout io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	styleNumber    = styleHighlight
	styleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	styleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	styleValue     = lipgloss.NewStyle().Foreground(colorText)
	styleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	styleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
	styleError     = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted     = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand   = lipgloss.NewStyle().Foreground(colorLink)
	styleKey       = styleMuted.Width(12)
)

// status writes one "<icon> message" line.
func status(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(stdout, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status("✓", styleSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status("✗", styleError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", styleWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", styleMuted, fmt.Sprintf(format, args...))
}

// printDetail writes an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats summarizes one view run: record count, phase timings and
// whether the result was split into facets.
func printStats(st pipeline.Stats) {
	ms := func(d time.Duration) string { return d.Round(time.Millisecond).String() }

	parts := []string{
		styleDim.Render(fmt.Sprintf("%d records", st.Records)),
		styleDim.Render("query " + ms(st.QueryTime)),
		styleDim.Render("build " + ms(st.BuildTime)),
	}
	if st.Faceted {
		parts = append(parts, styleDim.Render("facet "+ms(st.FacetTime)), styleSuccess.Render("faceted"))
	} else {
		parts = append(parts, styleMuted.Render("flat"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, styleDim.Render(" · ")))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
