package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultStep is the slider increment
const DefaultStep = 0.05

// Slider renders a labelled value in [0, 1]
type Slider struct {
	Label       string
	Value       float64
	Step        float64
	Width       int
	Focused     bool
	BarChar     string
	EmptyChar   string
	LabelStyle  lipgloss.Style
	FocusStyle  lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewSlider creates a slider
func NewSlider(label string, width int) Slider {
	return Slider{
		Label:       label,
		Step:        DefaultStep,
		Width:       width,
		BarChar:     "█",
		EmptyChar:   "░",
		LabelStyle:  lipgloss.NewStyle().Width(8),
		FocusStyle:  lipgloss.NewStyle().Width(8).Bold(true).Foreground(lipgloss.Color("212")),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetValue clamps v into [0, 1]
func (s *Slider) SetValue(v float64) {
	s.Value = clamp01(v)
}

// Increase moves the slider one step up and returns the new value
func (s *Slider) Increase() float64 {
	s.SetValue(s.snap(s.Value + s.Step))
	return s.Value
}

// Decrease moves the slider one step down and returns the new value
func (s *Slider) Decrease() float64 {
	s.SetValue(s.snap(s.Value - s.Step))
	return s.Value
}

// snap rounds v to a whole number of steps, dropping float noise
// such as 0.35000000000000003
func (s *Slider) snap(v float64) float64 {
	if s.Step <= 0 {
		return v
	}
	v = math.Round(v/s.Step) * s.Step
	return math.Round(v*1e9) / 1e9
}

// View renders the slider
func (s Slider) View() string {
	var sb strings.Builder

	if s.Focused {
		sb.WriteString(s.FocusStyle.Render("▸ " + s.Label))
	} else {
		sb.WriteString(s.LabelStyle.Render("  " + s.Label))
	}
	sb.WriteString(" ")

	barWidth := s.Width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(float64(barWidth)*s.Value + 0.5)
	sb.WriteString(s.FilledStyle.Render(strings.Repeat(s.BarChar, filled)))
	sb.WriteString(s.EmptyStyle.Render(strings.Repeat(s.EmptyChar, barWidth-filled)))
	sb.WriteString(fmt.Sprintf(" %3d%%", int(s.Value*100+0.5)))

	return sb.String()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
