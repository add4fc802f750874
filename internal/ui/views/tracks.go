package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/ui/components"
)

// TrackListView lists the configured tracks with the queue marked
type TrackListView struct {
	Width       int
	Height      int
	List        components.ClipList
	BorderStyle lipgloss.Style
}

// NewTrackListView creates a new track list view
func NewTrackListView(width, height int) TrackListView {
	list := components.NewClipList(height-4, width-6)
	list.Title = "Tracks"

	return TrackListView{
		Width:  width,
		Height: height,
		List:   list,
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2),
	}
}

// SetSize resizes the view
func (v *TrackListView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.List.Width = width - 6
	v.List.Height = height - 4
}

// SetState updates tracks, current index and queue
func (v *TrackListView) SetState(tracks []*api.Clip, state api.PlayerState) {
	if len(tracks) != len(v.List.Items) {
		v.List.SetItems(tracks)
	} else {
		v.List.Items = tracks
	}
	v.List.SetCurrent(state.CurrentIndex, state.Queue)
}

// View renders the track list view
func (v TrackListView) View() string {
	return v.BorderStyle.Width(v.Width - 4).Render(v.List.View())
}
