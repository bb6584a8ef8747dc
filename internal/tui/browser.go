package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/settings"
	"github.com/bjulian5/workops/internal/tree"
	"github.com/bjulian5/workops/internal/ui"
)

// changedMsg reports that the dashboard tree or a link changed.
type changedMsg struct{}

// refreshedMsg reports that a refresh finished.
type refreshedMsg struct{}

type navigatedMsg struct {
	url    string
	copied bool
	err    error
}

// Options configures the browser.
type Options struct {
	// Settings, when set, are applied to the dashboard on start.
	Settings  *settings.Settings
	ShowLinks bool
	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy func(string) error
}

// Model is the interactive tree browser.
type Model struct {
	ctx         context.Context
	dash        *dashboard.Dashboard
	changes     chan struct{}
	unsubscribe func()
	initial     *settings.Settings
	copy        func(string) error

	rows      []tree.Row
	cursor    int
	offset    int
	width     int
	height    int
	loading   bool
	showLinks bool
	status    string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// New creates a browser over d.
func New(ctx context.Context, d *dashboard.Dashboard, opts Options) Model {
	changes := make(chan struct{}, 1)
	unsubscribe := d.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	return Model{
		ctx:         ctx,
		dash:        d,
		changes:     changes,
		unsubscribe: unsubscribe,
		initial:     opts.Settings,
		copy:        opts.Copy,
		rows:        d.Rows(),
		loading:     true,
		showLinks:   opts.ShowLinks,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Run starts the browser in the alternate screen and blocks until it quits.
func Run(ctx context.Context, d *dashboard.Dashboard, opts Options) error {
	m := New(ctx, d, opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) refresh(fn func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(m.ctx)
		return refreshedMsg{}
	}
}

func (m Model) navigate(id string, copyOnly bool) tea.Cmd {
	return func() tea.Msg {
		if copyOnly {
			url, err := m.dash.Select(id)
			if err == nil && url != "" {
				err = m.copy(url)
			}
			return navigatedMsg{url: url, copied: true, err: err}
		}
		url, err := m.dash.Open(id)
		return navigatedMsg{url: url, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	initial := m.initial
	start := m.refresh(func(ctx context.Context) {
		if initial != nil {
			m.dash.SetSettings(ctx, initial)
			return
		}
		m.dash.Refresh(ctx)
	})
	return tea.Batch(m.spinner.Tick, m.waitForChange(), start)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clamp()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		m.sync()
		return m, m.waitForChange()

	case refreshedMsg:
		m.loading = false
		m.sync()
		return m, nil

	case navigatedMsg:
		switch {
		case msg.err != nil:
			m.status = ui.RenderError(msg.err)
		case msg.url == "":
			m.status = ""
		case msg.copied:
			m.status = "Copied " + msg.url
		default:
			m.status = "Opened " + msg.url
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.listHeight()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.listHeight()
	case key.Matches(msg, m.keys.Toggle):
		if n := m.selected(); n != nil && m.dash.Toggle(m.ctx, n.ID) {
			m.sync()
		}
	case key.Matches(msg, m.keys.Expand):
		m.dash.SetExpanded(m.ctx, true)
		m.sync()
	case key.Matches(msg, m.keys.Collapse):
		m.dash.SetExpanded(m.ctx, false)
		m.sync()
	case key.Matches(msg, m.keys.Links):
		m.showLinks = !m.showLinks
		m.sync()
	case key.Matches(msg, m.keys.Open):
		if n := m.selected(); n != nil {
			return m, m.navigate(n.ID, false)
		}
	case key.Matches(msg, m.keys.Copy):
		if n := m.selected(); n != nil {
			return m, m.navigate(n.ID, true)
		}
	case key.Matches(msg, m.keys.Filter):
		m.loading = true
		next := m.dash.Filter().Next()
		m.status = "Filter: " + string(next)
		return m, tea.Batch(m.spinner.Tick, m.refresh(func(ctx context.Context) {
			m.dash.SetTaskFilter(ctx, next)
		}))
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.refresh(m.dash.Refresh))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.clamp()
	return m, nil
}

// sync reloads the visible rows, keeping the cursor on the same node.
func (m *Model) sync() {
	var current string
	if n := m.selected(); n != nil {
		current = n.ID
	}

	m.rows = m.dash.Rows()
	for i, row := range m.rows {
		if row.Node.ID == current {
			m.cursor = i
			break
		}
	}
	if m.showLinks {
		m.dash.ResolveVisible(m.ctx)
	}
	m.clamp()
}

func (m Model) selected() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Node
}

func (m *Model) clamp() {
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, m.offset)
}

// listHeight is the number of tree rows that fit between header and footer.
func (m Model) listHeight() int {
	if m.height == 0 {
		return len(m.rows) + 1
	}
	used := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView())
	return max(1, m.height-used)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), m.listView(), m.footerView())
}

func (m Model) headerView() string {
	header := ui.RenderHeader(m.dash.Settings(), m.dash.Filter(), m.dash.UserKey())
	if m.loading {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " "+m.spinner.View()+" loading")
	}
	return header
}

func (m Model) listView() string {
	h := m.listHeight()
	end := min(len(m.rows), m.offset+h)

	lines := make([]string, 0, h)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.rowView(i))
	}
	for len(lines) < h && m.height > 0 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) rowView(i int) string {
	row := m.rows[i]
	n := row.Node

	marker := "  "
	if n.HasChildren() {
		marker = "▸ "
		if n.Expanded {
			marker = "▾ "
		}
	}
	line := strings.Repeat("  ", row.Depth) + marker + ui.FormatNodeLine(n)

	prefix := "  "
	if i == m.cursor {
		prefix = ui.HighlightStyle.Render("› ")
	}
	line = ui.FitWidth(prefix+line, m.width)
	if i == m.cursor {
		line = ui.SelectedStyle.Render(line)
	}
	return line
}

func (m Model) footerView() string {
	var parts []string
	if n := m.selected(); n != nil {
		if n.Description != "" {
			parts = append(parts, ui.Dim(n.Description))
		}
		if m.showLinks {
			for _, ref := range n.Refs {
				parts = append(parts, "  "+ui.FormatRef(ref, m.dash))
			}
		}
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.help.View(m.keys))

	return ui.FitWidth(strings.Join(parts, "\n"), m.width)
}
