package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/api"
)

// ClipList renders the track list, marking the current track and queue positions
type ClipList struct {
	Items        []*api.Clip
	Current      int
	Queue        []int
	Height       int
	Width        int
	Offset       int
	Title        string
	CurrentStyle lipgloss.Style
	QueuedStyle  lipgloss.Style
	NormalStyle  lipgloss.Style
	TitleStyle   lipgloss.Style
}

// NewClipList creates a new clip list
func NewClipList(height, width int) ClipList {
	return ClipList{
		Items:   make([]*api.Clip, 0),
		Current: -1,
		Height:  height,
		Width:   width,
		CurrentStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		QueuedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Padding(0, 1),
		NormalStyle: lipgloss.NewStyle().
			Padding(0, 1),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
	}
}

// SetItems sets the list items
func (l *ClipList) SetItems(items []*api.Clip) {
	l.Items = items
	l.Offset = 0
	l.ensureVisible()
}

// SetCurrent marks index as the playing track and scrolls it into view
func (l *ClipList) SetCurrent(index int, queue []int) {
	l.Current = index
	l.Queue = queue
	l.ensureVisible()
}

// queuePosition returns the 1-based queue position of index, or 0
func (l ClipList) queuePosition(index int) int {
	for pos, q := range l.Queue {
		if q == index {
			return pos + 1
		}
	}
	return 0
}

// ensureVisible keeps the current item on screen
func (l *ClipList) ensureVisible() {
	visibleHeight := l.visibleHeight()
	if l.Current < 0 {
		return
	}

	if l.Current < l.Offset {
		l.Offset = l.Current
	} else if l.Current >= l.Offset+visibleHeight {
		l.Offset = l.Current - visibleHeight + 1
	}
}

func (l ClipList) visibleHeight() int {
	h := l.Height - 2 // Account for title and border
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the clip list
func (l ClipList) View() string {
	var sb strings.Builder

	if l.Title != "" {
		sb.WriteString(l.TitleStyle.Render(l.Title))
		sb.WriteString("\n")
	}

	if len(l.Items) == 0 {
		sb.WriteString(l.NormalStyle.Render("No tracks"))
		return sb.String()
	}

	end := l.Offset + l.visibleHeight()
	if end > len(l.Items) {
		end = len(l.Items)
	}

	for i := l.Offset; i < end; i++ {
		clip := l.Items[i]

		marker := "  "
		if pos := l.queuePosition(i); pos > 0 {
			marker = fmt.Sprintf("%d.", pos)
		}
		line := fmt.Sprintf("%3d %-3s %s", i, marker, truncate(clip.Name, 40))
		if clip.Artist != "" {
			line += " - " + truncate(clip.Artist, 20)
		}

		if l.Width > 5 && len(line) > l.Width-2 {
			line = line[:l.Width-5] + "..."
		}

		switch {
		case i == l.Current:
			sb.WriteString(l.CurrentStyle.Render(line))
		case l.queuePosition(i) > 0:
			sb.WriteString(l.QueuedStyle.Render(line))
		default:
			sb.WriteString(l.NormalStyle.Render(line))
		}

		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	if len(l.Items) > l.visibleHeight() {
		sb.WriteString("\n")
		sb.WriteString(l.NormalStyle.Render(fmt.Sprintf("  [%d-%d/%d]", l.Offset+1, end, len(l.Items))))
	}

	return sb.String()
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
