// cli/cli.go
// Package cli provides the terminal chat interface for BeyPal.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/beypal/internal/catalog"
	"github.com/mwiater/beypal/internal/chat"
	"github.com/mwiater/beypal/internal/util"
)

// viewState represents the current screen of the application.
type viewState int

const (
	// viewChat is the transcript plus input box.
	viewChat viewState = iota
	// viewFilePicker lets the user choose a CSV dataset.
	viewFilePicker
)

// relatedPreview caps the combo ids listed under an answer.
const relatedPreview = 5

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx              context.Context
	session          *chat.Session
	debug            bool
	state            viewState
	isLoading        bool
	err              error
	textArea         textarea.Model
	viewport         viewport.Model
	spinner          spinner.Model
	picker           filepicker.Model
	width, height    int
	requestStartTime time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, session *chat.Session, debug bool) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	ta := textarea.New()
	ta.Placeholder = "Chiedi una combo..."
	ta.Focus()
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv"}
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return &model{
		ctx:      ctx,
		session:  session,
		debug:    debug,
		state:    viewChat,
		spinner:  s,
		textArea: ta,
		picker:   fp,
		viewport: viewport.New(100, 5),
	}
}

// answerMsg carries the result of a question.
type answerMsg struct {
	msg chat.Message
	err error
}

// uploadMsg carries the result of a dataset upload.
type uploadMsg struct {
	msg chat.Message
	err error
}

// tickMsg refreshes the view while a request is running.
type tickMsg time.Time

// askCmd runs one question through the session.
func askCmd(ctx context.Context, session *chat.Session, query string) tea.Cmd {
	return func() tea.Msg {
		log.Printf("[beypal] question: %q", query)
		msg, err := session.Ask(ctx, query)
		return answerMsg{msg: msg, err: err}
	}
}

// uploadCmd reads the chosen file and hands it to the session.
func uploadCmd(session *chat.Session, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return uploadMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		msg, err := session.Upload(filepath.Base(path), string(data))
		return uploadMsg{msg: msg, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == viewChat {
				return m, tea.Quit
			}
		case "ctrl+o":
			if m.state == viewFilePicker {
				m.state = viewChat
				m.textArea.Focus()
				return m, nil
			}
			if !m.isLoading {
				m.state = viewFilePicker
				m.textArea.Blur()
				return m, m.picker.Init()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.textArea.SetWidth(msg.Width - 3)
		headerHeight := 3
		footerHeight := 4
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.refreshTranscript()

	case answerMsg:
		m.isLoading = false
		m.err = msg.err
		m.textArea.Focus()
		m.refreshTranscript()
		return m, nil

	case uploadMsg:
		m.isLoading = false
		if msg.err != nil {
			log.Printf("[beypal] upload failed: %v", msg.err)
		}
		m.textArea.Focus()
		m.refreshTranscript()
		return m, nil

	case tickMsg:
		if m.isLoading {
			m.refreshTranscript()
			return m, tickCmd()
		}
		return m, nil
	}

	switch m.state {
	case viewFilePicker:
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.state = viewChat
			m.isLoading = true
			m.requestStartTime = time.Now()
			cmds = append(cmds, m.spinner.Tick, uploadCmd(m.session, path), tickCmd())
		}

	case viewChat:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		if !m.isLoading {
			m.textArea, cmd = m.textArea.Update(msg)
			cmds = append(cmds, cmd)
		}

		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" && !m.isLoading {
			userInput := strings.TrimSpace(m.textArea.Value())
			if userInput != "" {
				m.requestStartTime = time.Now()
				m.textArea.Reset()
				m.isLoading = true
				m.err = nil
				cmds = append(cmds, m.spinner.Tick, askCmd(m.ctx, m.session, userInput), tickCmd())
			}
		}
	}

	if m.isLoading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// refreshTranscript re-renders the session history into the viewport.
func (m *model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.state {
	case viewFilePicker:
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render("Carica un dataset CSV")
		help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("(enter to select, ctrl+o to go back)")
		return lipgloss.NewStyle().Margin(1, 2).Render(title + " " + help + "\n\n" + m.picker.View())
	default:
		return m.chatView()
	}
}

// chatView renders the header, transcript, input and footer.
func (m *model) chatView() string {
	var builder strings.Builder

	builder.WriteString(m.header() + "\n\n")

	builder.WriteString(m.viewport.View())

	if m.isLoading {
		timer := fmt.Sprintf("%.1f", time.Since(m.requestStartTime).Seconds())
		builder.WriteString("\n" + m.spinner.View() + fmt.Sprintf(" %s %ss", loadingText(m.session.State()), timer))
	} else {
		builder.WriteString("\n" + m.textArea.View())
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		builder.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	builder.WriteString("\n" + m.footer())
	return builder.String()
}

func (m *model) header() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	versionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	title := titleStyle.Render("BEYPAL_PUX // ") + versionStyle.Render("ANALYZER_V0.1")

	badgeStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0"))
	var badge string
	if m.isLoading {
		badge = badgeStyle.Background(lipgloss.Color("214")).Render("PROCESSING")
	} else {
		badge = badgeStyle.Background(lipgloss.Color("42")).Render("STANDBY")
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(" (ctrl+o load CSV, esc to quit)")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", badge, help)
}

func (m *model) footer() string {
	style := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("40")).Padding(0, 1)
	src := m.session.Store().Source()
	source := fmt.Sprintf("Source: %s", src.Kind)
	if src.Name != "" {
		source += fmt.Sprintf(" (%s)", src.Name)
	}
	records := fmt.Sprintf("Records: %d", src.Records)
	engine := fmt.Sprintf("Engine: %s", m.session.Model())
	return lipgloss.JoinHorizontal(lipgloss.Top,
		style.Render(engine),
		style.MarginLeft(1).Render(source),
		style.MarginLeft(1).Render(records),
	)
}

func (m *model) renderTranscript() string {
	var historyBuilder strings.Builder
	userStyle := lipgloss.NewStyle().Bold(true)
	aiStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	systemStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	relatedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	for _, msg := range m.session.Messages() {
		var role string
		switch msg.Role {
		case chat.RoleAI:
			role = aiStyle.Render("BeyPal: ")
		case chat.RoleSystem:
			role = systemStyle.Render("System: ")
		default:
			role = userStyle.Render("You: ")
		}
		width := max(m.width-lipgloss.Width(role)-2, 10)
		wrapped := util.WrapToWidth(msg.Content, width)
		historyBuilder.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, role, wrapped) + "\n")
		if len(msg.RelatedCombos) > 0 {
			related := formatRelated(msg.RelatedCombos, m.debug)
			if !m.debug {
				related = util.TruncateRunes(related, max(m.width-1, 20))
			}
			historyBuilder.WriteString(relatedStyle.Render(related) + "\n")
		}
	}
	return historyBuilder.String()
}

// formatRelated lists the combos an answer was based on. Debug mode lists all of them.
func formatRelated(combos []catalog.Combo, all bool) string {
	limit := len(combos)
	if !all && limit > relatedPreview {
		limit = relatedPreview
	}
	parts := make([]string, 0, limit)
	for _, c := range combos[:limit] {
		parts = append(parts, fmt.Sprintf("%s #%d %s %s %s", c.ID, c.Rank, c.Blade, c.Ratchet, c.Bit))
	}
	out := "  Related: " + strings.Join(parts, " | ")
	if rest := len(combos) - limit; rest > 0 {
		out += fmt.Sprintf(" (+%d)", rest)
	}
	return out
}

func loadingText(state chat.State) string {
	switch state {
	case chat.StateSearching:
		return "Scanning Bey-Database..."
	case chat.StateAnalyzing:
		return "Analyzing combos..."
	default:
		return "Working..."
	}
}

// StartGUI returns a starter that runs the interactive TUI until the user
// quits. With debug set every related combo is listed under an answer.
func StartGUI(debug bool) func(context.Context, *chat.Session, context.CancelFunc) error {
	return func(ctx context.Context, session *chat.Session, cancel context.CancelFunc) error {
		defer func() {
			log.Println("Cancelling all running requests...")
			cancel()
		}()

		m := initialModel(ctx, session, debug)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
		return nil
	}
}
