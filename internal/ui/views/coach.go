package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/hbt/internal/coach"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/ui/keys"
	"github.com/tgienger/hbt/internal/ui/styles"
)

// CoachService is what the chat view needs from the coaching session
type CoachService interface {
	Transcript() []models.Message
	Send(ctx context.Context, text string) (models.Message, bool)
	Motivation(ctx context.Context) string
	Clear() error
}

// BackToGoals signals to go back to the goal list
type BackToGoals struct{}

type quoteMsg struct {
	quote string
}

type replyMsg struct {
	transcript []models.Message
}

// CoachView is the chat with the habit coach
type CoachView struct {
	svc    CoachService
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	transcript []models.Message
	quote      string
	input      textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	sending    bool
	clearErr   string
}

// NewCoachView creates the chat view
func NewCoachView(svc CoachService) *CoachView {
	input := textarea.New()
	input.Placeholder = "Ask your coach anything..."
	input.CharLimit = 2000
	input.SetWidth(50)
	input.SetHeight(2)
	input.ShowLineNumbers = false
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Secondary)

	return &CoachView{
		svc:        svc,
		styles:     styles.NewStyles(),
		keys:       keys.DefaultKeyMap(),
		transcript: svc.Transcript(),
		input:      input,
		viewport:   viewport.New(50, 10),
		spinner:    sp,
	}
}

// Init fetches a motivational quote
func (v *CoachView) Init() tea.Cmd {
	v.refreshViewport()
	return tea.Batch(v.loadQuote, textarea.Blink)
}

func (v *CoachView) loadQuote() tea.Msg {
	return quoteMsg{quote: v.svc.Motivation(context.Background())}
}

func (v *CoachView) send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || v.sending {
		return nil
	}
	v.sending = true
	v.input.Reset()
	// Show the user message right away; the session appends it too.
	v.transcript = append(v.transcript, models.Message{Role: models.RoleUser, Text: text})
	v.refreshViewport()

	svc := v.svc
	return tea.Batch(func() tea.Msg {
		svc.Send(context.Background(), text)
		return replyMsg{transcript: svc.Transcript()}
	}, v.spinner.Tick)
}

// Update handles messages
func (v *CoachView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.input.SetWidth(clamp(contentWidth-4, 20, styles.MaxWidth))
		v.viewport.Width = max(contentWidth, 20)
		v.viewport.Height = max(v.height-12, 3)
		v.refreshViewport()
		return v, nil

	case quoteMsg:
		v.quote = msg.quote
		return v, nil

	case replyMsg:
		v.sending = false
		v.transcript = msg.transcript
		v.refreshViewport()
		return v, nil

	case spinner.TickMsg:
		if !v.sending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v *CoachView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToGoals{} }

	case msg.String() == "ctrl+c":
		return v, tea.Quit

	case key.Matches(msg, v.keys.Enter):
		return v, v.send(v.input.Value())

	case key.Matches(msg, v.keys.Clear):
		if v.sending {
			return v, nil
		}
		v.clearErr = ""
		if err := v.svc.Clear(); err != nil {
			v.clearErr = err.Error()
		}
		v.transcript = v.svc.Transcript()
		v.refreshViewport()
		return v, nil

	case key.Matches(msg, v.keys.Quote):
		return v, v.loadQuote

	case msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	// Quick prompts are offered while the chat is empty
	if len(v.transcript) == 0 && v.input.Value() == "" {
		prompts := coach.QuickPrompts()
		switch msg.String() {
		case "1", "2", "3":
			idx := int(msg.String()[0] - '1')
			if idx < len(prompts) {
				return v, v.send(prompts[idx])
			}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *CoachView) refreshViewport() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *CoachView) renderTranscript() string {
	s := v.styles
	width := max(v.viewport.Width, 20)
	bubbleWidth := max(width*3/4, 16)

	if len(v.transcript) == 0 {
		rows := []string{
			s.TitleMuted.Render("Hi! I'm your habit coach. Tell me what you'd like to work on, or pick a prompt:"),
			"",
		}
		for i, p := range coach.QuickPrompts() {
			rows = append(rows, s.HelpKey.Render(string(rune('1'+i)))+"  "+s.HelpDesc.Render(p))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	var rows []string
	for _, m := range v.transcript {
		if m.Role == models.RoleUser {
			bubble := s.UserMessage.MaxWidth(bubbleWidth).Render(m.Text)
			rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			rows = append(rows, s.AIMessage.Width(bubbleWidth).Render(m.Text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CoachView) View() string {
	s := v.styles

	header := s.Title.Render("Habit Coach")
	if v.quote != "" {
		header += "  " + s.Quote.Render(v.quote)
	}

	status := ""
	if v.sending {
		status = v.spinner.View() + " " + s.TitleMuted.Render("Coach is typing...")
	} else if v.clearErr != "" {
		status = s.StatusError.Render(v.clearErr)
	}

	help := s.Help.Render(strings.Join([]string{
		s.HelpKey.Render("↵") + " send",
		s.HelpKey.Render("ctrl+r") + " quote",
		s.HelpKey.Render("ctrl+l") + " clear",
		s.HelpKey.Render("pgup/pgdn") + " scroll",
		s.HelpKey.Render("esc") + " goals",
	}, " • "))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.viewport.View(),
		status,
		s.InputFocused.Render(v.input.View()),
		help,
	)
	return styles.CenterView(content, v.width, v.height)
}
