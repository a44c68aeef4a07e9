package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/sikabut/internal/models"
	"github.com/starford/sikabut/internal/portal"
)

type lookupResultMsg struct {
	ticket  portal.Ticket
	records []models.FileRecord
	err     error
}

// Model is the bubbletea model of the lookup screen. Keys are handled only
// through Update, for as long as the program runs.
type Model struct {
	ctx     context.Context
	session *portal.Session
	fetcher portal.Fetcher
	brand   portal.Branding
	styles  Styles

	input   textinput.Model
	spinner spinner.Model

	showFAQ   bool
	faq       string
	recentIdx int
	width     int
}

// New creates the model. The session's history is loaded immediately.
func New(ctx context.Context, session *portal.Session, fetcher portal.Fetcher) Model {
	brand := session.Branding()
	styles := NewStyles(brand.Theme)

	ti := textinput.New()
	ti.Placeholder = brand.Placeholder
	ti.Prompt = "› "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	session.LoadHistory(ctx)

	return Model{
		ctx:       ctx,
		session:   session,
		fetcher:   fetcher,
		brand:     brand,
		styles:    styles,
		input:     ti,
		spinner:   sp,
		recentIdx: -1,
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case lookupResultMsg:
		m.session.Complete(msg.ticket, msg.records, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.session.Snapshot().Searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.faq = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.session.Reset()
		m.input.Reset()
		m.showFAQ = false
		m.recentIdx = -1
		return m, m.input.Focus()

	case tea.KeyF1:
		m.showFAQ = !m.showFAQ
		if m.showFAQ && m.faq == "" {
			if out, err := RenderMarkdown(m.brand.FAQ, m.width); err == nil {
				m.faq = out
			} else {
				m.faq = m.brand.FAQ
			}
		}
		return m, nil

	case tea.KeyEnter:
		if m.session.Snapshot().Searching {
			return m, nil
		}
		query := strings.TrimSpace(m.input.Value())
		ticket, ok := m.session.Begin(m.ctx, query)
		m.recentIdx = -1
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.lookup(ticket, query))

	case tea.KeyUp, tea.KeyDown:
		recent := m.session.Snapshot().Recent
		if len(recent) == 0 {
			return m, nil
		}
		if msg.Type == tea.KeyUp {
			m.recentIdx = min(m.recentIdx+1, len(recent)-1)
		} else {
			m.recentIdx = max(m.recentIdx-1, 0)
		}
		m.input.SetValue(recent[m.recentIdx])
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) lookup(ticket portal.Ticket, query string) tea.Cmd {
	return func() tea.Msg {
		records, err := m.fetcher.Lookup(m.ctx, query)
		return lookupResultMsg{ticket: ticket, records: records, err: err}
	}
}

func (m Model) View() string {
	v := m.session.Snapshot()
	s := m.styles

	var sb strings.Builder
	sb.WriteString(s.Title.Render(m.brand.Office+" · "+m.brand.Title) + "\n")
	sb.WriteString(s.Tagline.Render(m.brand.Tagline) + "\n\n")
	sb.WriteString(m.input.View() + "\n\n")

	if v.Searching {
		sb.WriteString(m.spinner.View() + " " + s.Muted.Render(m.brand.Copy.Searching) + "\n")
	}
	if out := Render(v, m.brand, s); out != "" {
		sb.WriteString(out + "\n")
	}
	if len(v.Recent) > 0 {
		sb.WriteString("\n" + s.Muted.Render(m.brand.Copy.Recent+": "+strings.Join(v.Recent, ", ")) + "\n")
	}
	if m.showFAQ {
		sb.WriteString("\n" + m.faq + "\n")
	}
	sb.WriteString("\n" + s.Muted.Render(m.brand.Copy.Help) + "\n")
	return sb.String()
}
