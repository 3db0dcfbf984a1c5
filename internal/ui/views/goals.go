package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/goals"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
	"github.com/tgienger/hbt/internal/ui/keys"
	"github.com/tgienger/hbt/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// GoalService is what the goal list needs from the repository
type GoalService interface {
	Goals() models.GoalCollection
	Stats() models.StatsSummary
	RefreshStats(ctx context.Context) models.StatsSummary
	Create(ctx context.Context, draft models.GoalDraft) (goals.Outcome, error)
	Edit(ctx context.Context, draft models.GoalDraft) (goals.Outcome, error)
	Toggle(ctx context.Context, id string) goals.Outcome
	AdjustProgress(ctx context.Context, id string, delta int) goals.Outcome
	Delete(ctx context.Context, id string) goals.Outcome
}

// ActivitySource lists recent journal entries
type ActivitySource interface {
	ListActivity(limit int) ([]db.Activity, error)
}

// OpenCoach signals the app to switch to the coach view
type OpenCoach struct{}

type goalsLoadedMsg struct {
	goals   models.GoalCollection
	summary models.StatsSummary
}

type goalChangedMsg struct {
	op      string
	outcome goals.Outcome
	err     error
	goals   models.GoalCollection
	summary models.StatsSummary
}

type statsLoadedMsg struct {
	summary  models.StatsSummary
	activity []db.Activity
	err      error
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusOK
	statusError
)

// form fields, in tab order
const (
	fieldText = iota
	fieldDescription
	fieldType
	fieldCategory
	fieldPriority
	fieldTargetDate
	fieldSave
	fieldCount
)

const activityShown = 5

// GoalListView shows the goal collection
type GoalListView struct {
	svc      GoalService
	activity ActivitySource
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	all      models.GoalCollection
	visible  models.GoalCollection
	summary  models.StatsSummary
	category string
	loaded   bool

	cursor  int
	scrollY int

	// Category dropdown
	dropdownOpen   bool
	dropdownCursor int

	// Create/edit form
	editing      bool
	editingNew   bool
	editFocusIdx int
	editText     textinput.Model
	editDesc     textarea.Model
	editCategory textinput.Model
	editTarget   textinput.Model
	editType     int
	editPriority int
	formErr      string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Stats panel
	showStats     bool
	statsActivity []db.Activity
	statsErr      error

	showHelpPopup bool

	pending int
	spinner spinner.Model

	status      string
	statusLevel statusLevel
}

// NewGoalListView creates the goal list. activity may be nil.
func NewGoalListView(svc GoalService, activity ActivitySource) *GoalListView {
	editText := textinput.New()
	editText.Placeholder = "e.g. Drink 8 glasses of water"
	editText.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description (optional)"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editCategory := textinput.New()
	editCategory.Placeholder = models.DefaultCategory
	editCategory.CharLimit = 40

	editTarget := textinput.New()
	editTarget.Placeholder = "YYYY-MM-DD (optional)"
	editTarget.CharLimit = 10

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)

	return &GoalListView{
		svc:          svc,
		activity:     activity,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		category:     models.AllCategories,
		editText:     editText,
		editDesc:     editDesc,
		editCategory: editCategory,
		editTarget:   editTarget,
		spinner:      sp,
	}
}

// Init loads the collection and asks the service for fresh stats
func (v *GoalListView) Init() tea.Cmd {
	return tea.Batch(v.loadGoals, v.loadStats)
}

func (v *GoalListView) loadGoals() tea.Msg {
	return goalsLoadedMsg{goals: v.svc.Goals(), summary: v.svc.Stats()}
}

func (v *GoalListView) loadStats() tea.Msg {
	msg := statsLoadedMsg{summary: v.svc.RefreshStats(context.Background())}
	if v.activity != nil {
		msg.activity, msg.err = v.activity.ListActivity(activityShown)
	}
	return msg
}

// mutate runs fn off the UI goroutine and reports the reconciled state
func (v *GoalListView) mutate(op string, fn func(ctx context.Context) (goals.Outcome, error)) tea.Cmd {
	svc := v.svc
	run := func() tea.Msg {
		out, err := fn(context.Background())
		return goalChangedMsg{op: op, outcome: out, err: err, goals: svc.Goals(), summary: svc.Stats()}
	}
	v.pending++
	if v.pending == 1 {
		return tea.Batch(run, v.spinner.Tick)
	}
	return run
}

// Update handles messages
func (v *GoalListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case goalsLoadedMsg:
		v.loaded = true
		v.summary = msg.summary
		v.setGoals(msg.goals)
		return v, nil

	case goalChangedMsg:
		v.pending = max(0, v.pending-1)
		v.summary = msg.summary
		v.setGoals(msg.goals)
		v.setStatus(msg.op, msg.outcome, msg.err)
		return v, nil

	case statsLoadedMsg:
		v.summary = msg.summary
		v.statsActivity = msg.activity
		v.statsErr = msg.err
		return v, nil

	case spinner.TickMsg:
		if v.pending == 0 {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.showStats {
			return v.updateStats(msg)
		}

		if v.dropdownOpen {
			return v.updateDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

// setGoals replaces the collection and re-applies the category filter
func (v *GoalListView) setGoals(all models.GoalCollection) {
	v.all = all

	found := false
	for _, c := range all.Categories() {
		if c == v.category {
			found = true
			break
		}
	}
	if !found {
		v.category = models.AllCategories
	}

	v.visible = all.Filter(v.category)
	if v.cursor >= len(v.visible) {
		v.cursor = max(0, len(v.visible)-1)
	}
	v.ensureVisible()
}

// setStatus confirms successful saves. Offline fallbacks and refusals by the
// service stay silent; the activity journal in the stats panel records them.
func (v *GoalListView) setStatus(op string, out goals.Outcome, err error) {
	switch {
	case err != nil:
		v.status, v.statusLevel = err.Error(), statusError
	case out.Kind == remote.KindOK:
		v.status, v.statusLevel = opLabel(op), statusOK
	default:
		v.status, v.statusLevel = "", statusNone
	}
}

func opLabel(op string) string {
	switch op {
	case "create":
		return "Goal created"
	case "edit":
		return "Goal saved"
	case "delete":
		return "Goal deleted"
	case "toggle":
		return "Goal updated"
	default:
		return "Progress updated"
	}
}

func (v *GoalListView) selected() (models.Goal, bool) {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return models.Goal{}, false
	}
	return v.visible[v.cursor], true
}

func (v *GoalListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
		if g, ok := v.selected(); ok {
			id := g.ID
			return v, v.mutate("toggle", func(ctx context.Context) (goals.Outcome, error) {
				return v.svc.Toggle(ctx, id), nil
			})
		}
		return v, nil

	case key.Matches(msg, v.keys.Increase), key.Matches(msg, v.keys.Decrease):
		g, ok := v.selected()
		if !ok {
			return v, nil
		}
		delta := goals.ProgressStep
		if key.Matches(msg, v.keys.Decrease) {
			delta = -delta
		}
		id := g.ID
		return v, v.mutate("progress", func(ctx context.Context) (goals.Outcome, error) {
			return v.svc.AdjustProgress(ctx, id, delta), nil
		})

	case key.Matches(msg, v.keys.New):
		v.startNewGoal()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if g, ok := v.selected(); ok {
			v.startEditGoal(g)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if g, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = g.ID
			v.deleteTargetName = g.Text
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.dropdownOpen = true
		v.dropdownCursor = 0
		for i, c := range v.all.Categories() {
			if c == v.category {
				v.dropdownCursor = i
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Stats):
		v.showStats = true
		return v, v.loadStats

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadStats

	case key.Matches(msg, v.keys.Coach):
		return v, func() tea.Msg { return OpenCoach{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *GoalListView) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cats := v.all.Categories()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.dropdownOpen = false

	case key.Matches(msg, v.keys.Up):
		if v.dropdownCursor > 0 {
			v.dropdownCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.dropdownCursor < len(cats)-1 {
			v.dropdownCursor++
		}

	case key.Matches(msg, v.keys.Enter):
		if v.dropdownCursor < len(cats) {
			v.category = cats[v.dropdownCursor]
		}
		v.dropdownOpen = false
		v.cursor = 0
		v.scrollY = 0
		v.setGoals(v.all)
	}
	return v, nil
}

func (v *GoalListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, v.mutate("delete", func(ctx context.Context) (goals.Outcome, error) {
			return v.svc.Delete(ctx, id), nil
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *GoalListView) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadStats
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	v.showStats = false
	return v, nil
}

func (v *GoalListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveGoal()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx == fieldSave {
			return v, v.saveGoal()
		}
		// Newlines go into the description
		if v.editFocusIdx != fieldDescription {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
	}

	if v.editFocusIdx == fieldType || v.editFocusIdx == fieldPriority {
		dir := 0
		switch msg.String() {
		case "left", "h":
			dir = -1
		case "right", "l", " ":
			dir = 1
		}
		if v.editFocusIdx == fieldType {
			v.editType = (v.editType + dir + len(models.GoalTypes)) % len(models.GoalTypes)
		} else {
			v.editPriority = (v.editPriority + dir + len(models.Priorities)) % len(models.Priorities)
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldText:
		v.editText, cmd = v.editText.Update(msg)
	case fieldDescription:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldCategory:
		v.editCategory, cmd = v.editCategory.Update(msg)
	case fieldTargetDate:
		v.editTarget, cmd = v.editTarget.Update(msg)
	}
	return v, cmd
}

func (v *GoalListView) startNewGoal() {
	v.editing = true
	v.editingNew = true
	v.formErr = ""
	v.editFocusIdx = fieldText
	v.editText.Reset()
	v.editDesc.Reset()
	v.editCategory.Reset()
	if v.category != models.AllCategories {
		v.editCategory.SetValue(v.category)
	}
	v.editTarget.Reset()
	v.editType = 0
	v.editPriority = 1
	v.updateEditFocus()
}

func (v *GoalListView) startEditGoal(g models.Goal) {
	d := g.Draft()
	v.editing = true
	v.editingNew = false
	v.formErr = ""
	v.editFocusIdx = fieldText
	v.editText.SetValue(d.Text)
	v.editDesc.SetValue(d.Description)
	v.editCategory.SetValue(d.Category)
	v.editTarget.SetValue(dateOnly(d.TargetDate))
	v.editType = indexOf(models.GoalTypes, d.Type)
	v.editPriority = indexOf(models.Priorities, d.Priority)
	v.updateEditFocus()
}

func indexOf[T comparable](list []T, want T) int {
	for i, x := range list {
		if x == want {
			return i
		}
	}
	return 0
}

func (v *GoalListView) updateEditFocus() {
	v.editText.Blur()
	v.editDesc.Blur()
	v.editCategory.Blur()
	v.editTarget.Blur()

	switch v.editFocusIdx {
	case fieldText:
		v.editText.Focus()
	case fieldDescription:
		v.editDesc.Focus()
	case fieldCategory:
		v.editCategory.Focus()
	case fieldTargetDate:
		v.editTarget.Focus()
	}
}

func (v *GoalListView) draft() models.GoalDraft {
	return models.GoalDraft{
		Text:        v.editText.Value(),
		Description: v.editDesc.Value(),
		Type:        models.GoalTypes[v.editType],
		Category:    v.editCategory.Value(),
		Priority:    models.Priorities[v.editPriority],
		TargetDate:  v.editTarget.Value(),
	}.Normalize()
}

// saveGoal validates the form and submits it. Invalid drafts keep the form open.
func (v *GoalListView) saveGoal() tea.Cmd {
	d := v.draft()
	if err := d.Validate(); err != nil {
		v.formErr = strings.TrimPrefix(err.Error(), models.ErrInvalidDraft.Error()+": ")
		return nil
	}

	v.editing = false
	v.formErr = ""
	if v.editingNew {
		return v.mutate("create", func(ctx context.Context) (goals.Outcome, error) {
			return v.svc.Create(ctx, d)
		})
	}
	return v.mutate("edit", func(ctx context.Context) (goals.Outcome, error) {
		return v.svc.Edit(ctx, d)
	})
}

func (v *GoalListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many 3-line goal rows fit
func (v *GoalListView) visibleItems() int {
	return max(1, (v.height-10)/3)
}

func (v *GoalListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.showStats {
		return v.renderStats()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderGoalList())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *GoalListView) renderHeader() string {
	s := v.styles

	title := s.Title.Render("Habit Coach")
	if v.pending > 0 {
		title += " " + v.spinner.View()
	}

	summary := fmt.Sprintf("%s %s  %s %s",
		s.StatValue.Render(fmt.Sprintf("%d/%d", v.summary.CompletedGoals, v.summary.TotalGoals)),
		s.StatLabel.Render("done"),
		s.StatValue.Render(fmt.Sprintf("%.0f%%", v.summary.CompletionRate)),
		s.StatLabel.Render("rate"),
	)

	label := v.category
	if label == models.AllCategories {
		label = "All"
	}
	btnStyle := s.Button
	if v.dropdownOpen {
		btnStyle = s.ButtonFocused
	}
	filter := btnStyle.Render("Category: " + label + " ▼")

	header := lipgloss.JoinVertical(lipgloss.Left, title, summary, filter)
	if v.dropdownOpen {
		header += "\n" + v.renderDropdown()
	}
	return header
}

func (v *GoalListView) renderDropdown() string {
	s := v.styles
	var items []string
	for i, c := range v.all.Categories() {
		itemStyle := s.ListItem
		if i == v.dropdownCursor {
			itemStyle = s.ListSelected
		}
		name := c
		if c == models.AllCategories {
			name = "All"
		}
		items = append(items, itemStyle.Render(name))
	}
	return s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *GoalListView) renderGoalList() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading goals...")
	}
	if len(v.visible) == 0 {
		if len(v.all) == 0 {
			return s.TitleMuted.Render("No goals yet. Press 'n' to set your first one.")
		}
		return s.TitleMuted.Render("No goals in this category.")
	}

	end := min(v.scrollY+v.visibleItems(), len(v.visible))
	var items []string
	for i := v.scrollY; i < end; i++ {
		items = append(items, v.renderGoalItem(v.visible[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *GoalListView) renderGoalItem(g models.Goal, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 30)

	box := s.Checkbox.Render("[ ]")
	text := g.Text
	if g.Completed {
		box = s.CheckboxDone.Render("[x]")
		text = s.GoalDone.Render(text)
	}
	priority := lipgloss.NewStyle().Foreground(styles.PriorityColor(g.Priority)).Render("● " + string(g.Priority))
	titleLine := box + " " + text + "  " + priority

	meta := []string{string(g.Type), g.Category}
	if d := dateOnly(g.TargetDate); d != "" {
		meta = append(meta, "due "+d)
	}
	if g.Streak > 0 {
		meta = append(meta, fmt.Sprintf("🔥 %d", g.Streak))
	}
	metaLine := "    " + s.Badge.Render(strings.Join(meta, " · "))
	if goals.IsLocal(g) {
		metaLine += " " + s.LocalBadge.Render("local")
	}

	barWidth := clamp(width-12, 10, 30)
	progressLine := "    " + s.ProgressBar(g.Progress, barWidth) + fmt.Sprintf(" %3d%%", g.Progress)

	rowStyle := s.ListItem
	if selected {
		rowStyle = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		rowStyle.Width(width).Render(titleLine),
		metaLine,
		progressLine,
	)
}

// dateOnly trims the service's ISO datetime down to the calendar date
func dateOnly(s string) string {
	if len(s) > len(models.DateLayout) {
		return s[:len(models.DateLayout)]
	}
	return s
}

func (v *GoalListView) renderStatus() string {
	s := v.styles
	switch v.statusLevel {
	case statusOK:
		return s.StatusOK.Render(v.status) + "\n"
	case statusError:
		return s.StatusError.Render(v.status) + "\n"
	}
	return ""
}

func (v *GoalListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Goal"
	if !v.editingNew {
		formTitle = "Edit Goal"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if idx == v.editFocusIdx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Goal:",
		fieldStyle(fieldText).Width(inputWidth).Render(v.editText.View()),
		"Description:",
		fieldStyle(fieldDescription).Render(v.editDesc.View()),
		"Type:",
		fieldStyle(fieldType).Width(inputWidth).Render(selector(models.GoalTypes, v.editType)),
		"Category:",
		fieldStyle(fieldCategory).Width(inputWidth).Render(v.editCategory.View()),
		"Priority:",
		fieldStyle(fieldPriority).Width(inputWidth).Render(selector(models.Priorities, v.editPriority)),
		"Target date:",
		fieldStyle(fieldTargetDate).Width(inputWidth).Render(v.editTarget.View()),
		"",
		btnStyle.Render(" Save "),
	}
	if v.formErr != "" {
		rows = append(rows, s.StatusError.Render(v.formErr))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ←→: choose • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func selector[T ~string](options []T, idx int) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if i == idx {
			parts[i] = "[" + string(o) + "]"
		} else {
			parts[i] = " " + string(o) + " "
		}
	}
	return strings.Join(parts, " ")
}

func (v *GoalListView) renderStats() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	sum := v.summary

	detail := func(val string) string {
		if !sum.HasDetail() {
			return "—"
		}
		return val
	}
	source := "computed on this device"
	if sum.Source == models.SourceRemote {
		source = "from the coaching service"
	}

	line := func(label, value string) string {
		return s.StatLabel.Width(18).Render(label) + s.StatValue.Render(value)
	}
	rows := []string{
		s.Title.Render("Progress"),
		s.TitleMuted.Render(source),
		"",
		line("Total goals", fmt.Sprintf("%d", sum.TotalGoals)),
		line("Completed", fmt.Sprintf("%d", sum.CompletedGoals)),
		line("Completion rate", fmt.Sprintf("%.0f%%", sum.CompletionRate)),
		line("Average progress", detail(fmt.Sprintf("%.1f%%", sum.AverageProgress))),
		line("Total streak", detail(fmt.Sprintf("%d", sum.TotalStreak))),
	}

	if v.activity != nil {
		rows = append(rows, "", s.Title.Render("Recent activity"))
		switch {
		case v.statsErr != nil:
			rows = append(rows, s.StatusError.Render(v.statsErr.Error()))
		case len(v.statsActivity) == 0:
			rows = append(rows, s.TitleMuted.Render("Nothing yet"))
		default:
			for _, a := range v.statsActivity {
				rows = append(rows, s.HelpDesc.Render(fmt.Sprintf("%s  %-8s %s",
					a.CreatedAt.Local().Format("Jan 2 15:04"), a.Op, a.Outcome)))
			}
		}
	}

	rows = append(rows, "", s.TitleMuted.Render("r: refresh • any key: close"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *GoalListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}

	return s.Help.Render(
		fmt.Sprintf("%s done • %s progress • %s new • %s edit • %s del • %s category • %s stats • %s coach • %s quit",
			s.HelpKey.Render("space"),
			s.HelpKey.Render("+/-"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("q"),
		),
	)
}

func (v *GoalListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("+ -") + "    progress ±10",
		s.HelpKey.Render("n") + "      new goal",
		s.HelpKey.Render("e") + "      edit as new goal",
		s.HelpKey.Render("d") + "      delete goal",
		s.HelpKey.Render("f") + "      filter by category",
		s.HelpKey.Render("s") + "      stats",
		s.HelpKey.Render("r") + "      refresh stats",
		s.HelpKey.Render("c") + "      talk to the coach",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *GoalListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Goal?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
