package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/internal/ui/components"
)

// Control identifies a focusable element of the settings view
type Control int

const (
	ControlMusic Control = iota
	ControlSFX
	ControlPrevious
	ControlNext
	ControlExit
	controlCount
)

// SettingsView holds the volume sliders and track buttons
type SettingsView struct {
	Width int
	Focus Control
	Music components.Slider
	SFX   components.Slider
	Help  string

	ButtonStyle       lipgloss.Style
	ActiveButtonStyle lipgloss.Style
	HelpStyle         lipgloss.Style
	BorderStyle       lipgloss.Style
}

// NewSettingsView creates a new settings view
func NewSettingsView(width int) SettingsView {
	v := SettingsView{
		Width: width,
		Music: components.NewSlider("Music", width-8),
		SFX:   components.NewSlider("SFX", width-8),
		ButtonStyle: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("240")),
		ActiveButtonStyle: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("236")),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
	v.syncFocus()
	return v
}

// SetVolumes updates both sliders
func (v *SettingsView) SetVolumes(music, sfx float64) {
	v.Music.SetValue(music)
	v.SFX.SetValue(sfx)
}

// FocusNext moves focus down, wrapping around
func (v *SettingsView) FocusNext() {
	v.Focus = (v.Focus + 1) % controlCount
	v.syncFocus()
}

// FocusPrev moves focus up, wrapping around
func (v *SettingsView) FocusPrev() {
	v.Focus = (v.Focus + controlCount - 1) % controlCount
	v.syncFocus()
}

func (v *SettingsView) syncFocus() {
	v.Music.Focused = v.Focus == ControlMusic
	v.SFX.Focused = v.Focus == ControlSFX
}

// View renders the settings view
func (v SettingsView) View() string {
	var sb strings.Builder

	sb.WriteString(v.Music.View())
	sb.WriteString("\n")
	sb.WriteString(v.SFX.View())
	sb.WriteString("\n\n")

	buttons := []struct {
		control Control
		label   string
	}{
		{ControlPrevious, "◀ Previous"},
		{ControlNext, "Next ▶"},
		{ControlExit, "Exit"},
	}
	rendered := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if b.control == v.Focus {
			rendered = append(rendered, v.ActiveButtonStyle.Render(b.label))
		} else {
			rendered = append(rendered, v.ButtonStyle.Render(b.label))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	sb.WriteString("\n")
	if v.Help != "" {
		sb.WriteString(v.HelpStyle.Render(v.Help))
	}

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
