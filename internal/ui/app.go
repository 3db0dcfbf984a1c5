package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/hbt/internal/ui/views"
)

// lastViewKey remembers which screen was open on exit
const lastViewKey = "last_view"

// View is the currently active screen
type View int

const (
	ViewGoals View = iota
	ViewCoach
)

func (v View) String() string {
	if v == ViewCoach {
		return "coach"
	}
	return "goals"
}

// Settings is the key/value store the app keeps UI state in
type Settings interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}

// App is the root bubbletea model
type App struct {
	settings    Settings
	coachSvc    views.CoachService
	currentView View
	goalList    *views.GoalListView
	coachView   *views.CoachView
	width       int
	height      int
}

// NewApp creates the application. activity and settings may be nil.
func NewApp(goalSvc views.GoalService, coachSvc views.CoachService, activity views.ActivitySource, settings Settings) *App {
	return &App{
		settings:    settings,
		coachSvc:    coachSvc,
		currentView: ViewGoals,
		goalList:    views.NewGoalListView(goalSvc, activity),
	}
}

// CurrentView reports the active screen
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.goalList.Init()}
	if a.settings != nil {
		if last, ok, err := a.settings.GetSetting(lastViewKey); err == nil && ok && last == ViewCoach.String() {
			cmds = append(cmds, a.openCoach())
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) openCoach() tea.Cmd {
	a.currentView = ViewCoach
	if a.coachView == nil {
		a.coachView = views.NewCoachView(a.coachSvc)
	}
	a.remember()

	return tea.Batch(
		a.coachView.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) remember() {
	if a.settings != nil {
		a.settings.SetSetting(lastViewKey, a.currentView.String())
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The goal list persists behind the coach view, keep it sized
		a.goalList.Update(msg)
		if a.coachView != nil {
			a.coachView.Update(msg)
		}
		return a, nil

	case views.OpenCoach:
		return a, a.openCoach()

	case views.BackToGoals:
		a.currentView = ViewGoals
		a.remember()
		return a, nil
	}

	// Keys go to the active view. Everything else is a result that may
	// belong to either, so both see it.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		var cmd tea.Cmd
		switch a.currentView {
		case ViewGoals:
			_, cmd = a.goalList.Update(msg)
		case ViewCoach:
			_, cmd = a.coachView.Update(msg)
		}
		return a, cmd
	}

	_, cmd := a.goalList.Update(msg)
	if a.coachView == nil {
		return a, cmd
	}
	_, coachCmd := a.coachView.Update(msg)
	return a, tea.Batch(cmd, coachCmd)
}

func (a *App) View() string {
	if a.currentView == ViewCoach && a.coachView != nil {
		return a.coachView.View()
	}
	return a.goalList.View()
}
