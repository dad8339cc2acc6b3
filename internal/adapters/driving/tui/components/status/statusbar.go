// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/styles"
)

// State represents what the status bar is showing.
type State string

const (
	StateReady     State = "ready"
	StateBusy      State = "busy"
	StateLoaded    State = "loaded"
	StateCancelled State = "cancelled"
	StateError     State = "error"
)

// Bar displays operation status and keybinding hints.
// While busy it animates a spinner.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	state   State
	message string
	count   int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(s.Spinner),
		),
		state: StateReady,
		width: 80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while busy. Ticks received in any other
// state are dropped, which stops the animation.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateBusy {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBusy:
		return s.spinner.View() + " " + s.styles.Normal.Render(s.message+"...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateCancelled:
		return s.styles.Warning.Render("Cancelled")
	case StateLoaded:
		return s.styles.Success.Render(fmt.Sprintf("%d recipes", s.count))
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateBusy {
		bindings = s.keymap.BusyHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetBusy shows the spinner with a label. The returned command starts
// the animation if the bar was not already busy.
func (s *Bar) SetBusy(label string) tea.Cmd {
	wasBusy := s.state == StateBusy
	s.state = StateBusy
	s.message = label
	if wasBusy {
		return nil
	}
	return s.spinner.Tick
}

// SetLoaded shows the number of recipes on display.
func (s *Bar) SetLoaded(count int) {
	s.state = StateLoaded
	s.message = ""
	s.count = count
}

// SetCancelled shows that the last operation was cancelled.
func (s *Bar) SetCancelled() {
	s.state = StateCancelled
	s.message = ""
	s.count = 0
}

// SetError shows an error message.
func (s *Bar) SetError(message string) {
	s.state = StateError
	s.message = message
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Count returns the recipe count shown when loaded.
func (s *Bar) Count() int {
	return s.count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.count = 0
}
