package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/api"
)

// FadeMeter draws the music gain envelope of the fade in flight: the bar
// drains during fade-out and refills during fade-in.
type FadeMeter struct {
	Width    int
	Phase    api.FadePhase
	Elapsed  time.Duration
	Duration time.Duration

	OutStyle   lipgloss.Style
	InStyle    lipgloss.Style
	EmptyStyle lipgloss.Style
}

// NewFadeMeter creates a fade meter
func NewFadeMeter(width int) FadeMeter {
	return FadeMeter{
		Width:      width,
		OutStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		InStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Set updates the meter from a player snapshot
func (f *FadeMeter) Set(state api.PlayerState) {
	f.Phase = state.Phase
	f.Elapsed = state.FadeElapsed
	f.Duration = state.FadeDuration
}

// Progress returns how far the current phase has run, in [0, 1]
func (f FadeMeter) Progress() float64 {
	if f.Duration <= 0 {
		return 0
	}
	return clamp01(float64(f.Elapsed) / float64(f.Duration))
}

// Level returns the relative gain the bar shows
func (f FadeMeter) Level() float64 {
	switch f.Phase {
	case api.FadeOut:
		return 1 - f.Progress()
	case api.FadeIn:
		return f.Progress()
	}
	return 1
}

// View renders the meter; it is empty when no fade is running
func (f FadeMeter) View() string {
	if f.Phase == api.FadeIdle {
		return ""
	}

	barWidth := f.Width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(float64(barWidth)*f.Level() + 0.5)

	style, arrow := f.InStyle, "▲"
	if f.Phase == api.FadeOut {
		style, arrow = f.OutStyle, "▼"
	}

	var sb strings.Builder
	sb.WriteString(style.Render(arrow + " "))
	sb.WriteString(style.Render(strings.Repeat("▮", filled)))
	sb.WriteString(f.EmptyStyle.Render(strings.Repeat("▯", barWidth-filled)))
	sb.WriteString(fmt.Sprintf(" %s %.1f/%.1fs", f.Phase, f.Elapsed.Seconds(), f.Duration.Seconds()))
	return sb.String()
}
