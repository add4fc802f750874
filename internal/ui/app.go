package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/flowaudio/internal/config"
	"github.com/jscyril/flowaudio/internal/ui/components"
	"github.com/jscyril/flowaudio/internal/ui/views"
)

// RefreshInterval is how often the screen re-reads state from the loop
const RefreshInterval = 100 * time.Millisecond

// Model is the main bubbletea model
type Model struct {
	// Dimensions
	width  int
	height int

	// Views
	settingsView   views.SettingsView
	nowPlayingView views.NowPlayingView
	trackListView  views.TrackListView

	backend Backend
	keys    config.KeyMap

	// State
	ctx    context.Context
	cancel context.CancelFunc
	err    error

	// Styles
	headerStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// TickMsg is sent periodically to refresh the UI
type TickMsg time.Time

// StateMsg carries a fresh state from the loop
type StateMsg struct {
	State views.State
}

// ErrMsg reports a failed refresh
type ErrMsg struct {
	Err error
}

// NewModel creates a new application model
func NewModel(backend Backend, keys config.KeyMap) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		width:          80,
		height:         24,
		settingsView:   views.NewSettingsView(80),
		nowPlayingView: views.NewNowPlayingView(80),
		trackListView:  views.NewTrackListView(80, 10),
		backend:        backend,
		keys:           keys,
		ctx:            ctx,
		cancel:         cancel,
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
	m.settingsView.Help = helpText(keys)

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

// tickCmd returns a command that ticks after RefreshInterval
func tickCmd() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refresh fetches state from the backend
func (m Model) refresh() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		st, err := backend.State(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StateMsg{State: st}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()

	case TickMsg:
		return m, m.refresh()

	case StateMsg:
		m.err = nil
		m.applyState(msg.State)
		return m, tickCmd()

	case ErrMsg:
		m.err = msg.Err
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey runs the action bound to a key. Configured bindings win over the
// built-in aliases.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	switch key {
	case m.keys.Quit:
		return m.quit()
	case m.keys.Up:
		m.settingsView.FocusPrev()
	case m.keys.Down:
		m.settingsView.FocusNext()
	case m.keys.Increase:
		m.adjust(+1)
	case m.keys.Decrease:
		m.adjust(-1)
	case m.keys.Activate:
		return m.activate()
	case m.keys.Previous:
		m.backend.Click()
		m.backend.ChangeTrack(-1)
	case m.keys.Next:
		m.backend.Click()
		m.backend.ChangeTrack(1)
	case m.keys.QueueAll:
		m.backend.QueueAll()
	case m.keys.PlayQueued:
		m.backend.PlayQueued()
	case m.keys.ClearQueue:
		m.backend.ClearQueue()
	default:
		return m.handleAlias(key)
	}

	return m, nil
}

// handleAlias covers vi-style and symbol keys not claimed by a binding
func (m Model) handleAlias(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "k":
		m.settingsView.FocusPrev()
	case "j", "tab":
		m.settingsView.FocusNext()
	case "l", "+", "=":
		m.adjust(+1)
	case "h", "-":
		m.adjust(-1)
	case " ":
		return m.activate()
	}
	return m, nil
}

// adjust moves the focused slider one step in direction
func (m *Model) adjust(direction int) {
	step := func(s *components.Slider) float64 {
		if direction < 0 {
			return s.Decrease()
		}
		return s.Increase()
	}

	switch m.settingsView.Focus {
	case views.ControlMusic:
		m.backend.SetMusicVolume(step(&m.settingsView.Music))
	case views.ControlSFX:
		m.backend.SetSFXVolume(step(&m.settingsView.SFX))
	}
}

// activate presses the focused button
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.settingsView.Focus {
	case views.ControlPrevious:
		m.backend.Click()
		m.backend.ChangeTrack(-1)
	case views.ControlNext:
		m.backend.Click()
		m.backend.ChangeTrack(1)
	case views.ControlExit:
		m.backend.Click()
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// applyState pushes a loop snapshot into the views
func (m *Model) applyState(st views.State) {
	m.settingsView.SetVolumes(st.Settings.MusicVolume, st.Settings.SFXVolume)
	m.nowPlayingView.SetState(st.Player)
	m.trackListView.SetState(st.Tracks, st.Player)
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.settingsView.Width = m.width
	m.settingsView.Music.Width = m.width - 8
	m.settingsView.SFX.Width = m.width - 8
	m.nowPlayingView.Width = m.width
	m.nowPlayingView.Meter.Width = m.width - 8

	height := m.height - 20
	if height < 5 {
		height = 5
	}
	m.trackListView.SetSize(m.width, height)
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.headerStyle.Render("♪ flowaudio"))
	sb.WriteString("\n")
	sb.WriteString(m.nowPlayingView.View())
	sb.WriteString("\n")
	sb.WriteString(m.settingsView.View())
	sb.WriteString("\n")
	sb.WriteString(m.trackListView.View())

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(m.errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return sb.String()
}

func helpText(k config.KeyMap) string {
	return fmt.Sprintf("[%s/%s] Focus  [%s/%s] Adjust  [%s] Press  [%s/%s] Prev/Next  [%s] Queue all  [%s] Play queued  [%s] Clear queue  [%s] Quit",
		k.Up, k.Down, k.Decrease, k.Increase, k.Activate, k.Previous, k.Next, k.QueueAll, k.PlayQueued, k.ClearQueue, k.Quit)
}

// Run starts the bubbletea program and blocks until it exits or ctx is done
func Run(ctx context.Context, backend Backend, keys config.KeyMap) error {
	model := NewModel(backend, keys)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
