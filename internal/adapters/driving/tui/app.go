package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// App is the recipe browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// The displayed recipes, spinner and status bar are all derived from the
// OperationState stream of the sync orchestrator. Keys only start or
// cancel operations.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	list      *list.RecipeList
	statusBar *status.Bar

	states      <-chan domain.OperationState
	unsubscribe func()

	// state is the last state received.
	state domain.OperationState

	// requested is the last operation the user asked for.
	requested messages.Operation

	// cancelledSession is the session the user cancelled, if any.
	cancelledSession string

	source   string
	showHelp bool
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		list:      list.NewRecipeList(s),
		statusBar: status.NewBar(s, km),
		state:     domain.IdleState(),
	}
	a.source = describeSource(ports)
	return a, nil
}

// WithContext sets the context operations are started with.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init subscribes to state changes and loads the cached recipes.
func (a *App) Init() tea.Cmd {
	a.states, a.unsubscribe = a.ports.Sync.Subscribe()
	a.requested = messages.OperationLoad
	a.ports.Sync.LoadCached(a.ctx)

	return tea.Batch(
		tea.SetWindowTitle("recipesync"),
		waitForState(a.states),
	)
}

// waitForState delivers the next state from the subscription.
func waitForState(states <-chan domain.OperationState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return messages.FeedClosed{}
		}
		return messages.StateChanged{State: state}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		a.list.SetDimensions(msg.Width, msg.Height-4)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.StateChanged:
		cmd := a.applyState(msg.State)
		return a, tea.Batch(cmd, waitForState(a.states))

	case messages.FeedClosed:
		a.states = nil
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err.Error())
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		a.shutdown()
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil

	case keymap.Matches(k, a.keymap.Back):
		if a.showHelp {
			a.showHelp = false
		} else {
			a.list.CollapseDetails()
		}
		return a, nil
	}

	if a.showHelp {
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keymap.Refresh):
		a.requested = messages.OperationRefresh
		a.ports.Sync.Refresh(a.ctx)
		return a, nil

	case keymap.Matches(k, a.keymap.Load):
		a.requested = messages.OperationLoad
		a.ports.Sync.LoadCached(a.ctx)
		return a, nil

	case keymap.Matches(k, a.keymap.Cancel):
		if a.state.Status == domain.StatusInProgress {
			a.cancelledSession = a.state.SessionID
			a.ports.Sync.Cancel()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

// applyState renders a state from the orchestrator.
func (a *App) applyState(state domain.OperationState) tea.Cmd {
	a.state = state

	switch state.Status {
	case domain.StatusInProgress:
		return a.statusBar.SetBusy(a.requested.String())

	case domain.StatusSucceeded:
		a.err = nil
		a.list.SetRecipes(state.Recipes)
		if state.SessionID != "" && state.SessionID == a.cancelledSession {
			a.statusBar.SetCancelled()
		} else {
			a.statusBar.SetLoaded(len(state.Recipes))
		}

	case domain.StatusFailed:
		// The previous recipes stay on screen.
		a.err = state.Reason.Err()
		a.statusBar.SetError(fmt.Sprintf("%s (%s)", state.Reason.Description(), state.Reason))

	case domain.StatusIdle:
		a.statusBar.Clear()
	}
	return nil
}

func (a *App) shutdown() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if a.state.Status == domain.StatusInProgress {
		a.ports.Sync.Cancel()
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Header.Render("recipesync")
	if a.source != "" {
		header += " " + a.styles.Muted.Render(a.source)
	}

	body := a.list.View()
	if a.showHelp {
		body = a.viewHelp()
	}

	return strings.Join([]string{header, "", body, "", a.statusBar.View()}, "\n")
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

func describeSource(ports *Ports) string {
	if ports.Settings == nil {
		return ""
	}
	settings, err := ports.Settings.Get()
	if err != nil {
		return ""
	}

	p := settings.Provider
	switch p.Type {
	case domain.ProviderHTTP:
		return p.BaseURL
	case domain.ProviderGitHub:
		return fmt.Sprintf("%s:%s", p.Repo, p.Path)
	case domain.ProviderFile:
		return p.Path
	default:
		return ""
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// State returns the last state received from the orchestrator.
func (a *App) State() domain.OperationState {
	return a.state
}

// Recipes returns the recipes on display.
func (a *App) Recipes() []domain.Recipe {
	return a.list.Recipes()
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
