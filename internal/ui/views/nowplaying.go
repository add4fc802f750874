package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/ui/components"
)

// NowPlayingView displays the current track and any crossfade in progress
type NowPlayingView struct {
	Width int
	State api.PlayerState
	Meter components.FadeMeter

	// Styles
	TitleStyle  lipgloss.Style
	ArtistStyle lipgloss.Style
	StatusStyle lipgloss.Style
	DimStyle    lipgloss.Style
	BorderStyle lipgloss.Style
}

// NewNowPlayingView creates a new now-playing view
func NewNowPlayingView(width int) NowPlayingView {
	return NowPlayingView{
		Width: width,
		Meter: components.NewFadeMeter(width - 8),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		ArtistStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		StatusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		DimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2),
	}
}

// SetState updates the player state
func (v *NowPlayingView) SetState(state api.PlayerState) {
	v.State = state
	v.Meter.Set(state)
}

// View renders the now-playing view
func (v NowPlayingView) View() string {
	var sb strings.Builder

	clip := v.State.CurrentClip
	if clip == nil {
		sb.WriteString(v.TitleStyle.Render("♪ Nothing playing"))
	} else {
		sb.WriteString(v.StatusStyle.Render("▶ "))
		sb.WriteString(v.TitleStyle.Render(clip.Name))
		if clip.Artist != "" {
			sb.WriteString("  ")
			sb.WriteString(v.ArtistStyle.Render(clip.Artist))
		}
	}
	sb.WriteString("\n")

	sb.WriteString(v.DimStyle.Render(fmt.Sprintf("Track %d of %d", v.State.CurrentIndex+1, v.State.TrackCount)))
	sb.WriteString("\n")

	if v.State.Phase != api.FadeIdle && v.State.FadeTarget != nil {
		sb.WriteString(v.StatusStyle.Render(fmt.Sprintf("%s → %s", v.State.Phase, v.State.FadeTarget.Name)))
		sb.WriteString("\n")
		sb.WriteString(v.Meter.View())
	} else {
		sb.WriteString(v.DimStyle.Render(fmt.Sprintf("music gain %.2f  sfx gain %.2f", v.State.MusicGain, v.State.SFXGain)))
	}

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
