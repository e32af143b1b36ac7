package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stockbrief/client"
	"stockbrief/model"
	"stockbrief/tui/controller"
	"stockbrief/tui/panels"
	"stockbrief/tui/styles"
	"stockbrief/util"
)

// PanelFocus represents which panel receives key input.
type PanelFocus int

const (
	FocusTicker   PanelFocus = 0
	FocusSections PanelFocus = 1
	FocusReport   PanelFocus = 2
)

const panelCount = 3

// freshBadgeTTL is how long a newly generated section keeps its fresh tag.
const freshBadgeTTL = 5 * time.Second

// analyzeResultMsg settles one issued fetch.
type analyzeResultMsg struct {
	req  controller.Request
	resp *model.AnalyzeResponse
	err  error
}

// freshExpiredMsg retires a fresh tag set by the request with this seq.
type freshExpiredMsg struct {
	section model.Section
	seq     uint64
}

// identityMsg carries the server's stored identity record, if any.
type identityMsg struct {
	ticker string
	detail *model.StockDetail
}

// Model is the root terminal application model.
type Model struct {
	brief *client.BriefClient
	ctrl  *controller.Controller

	order []model.SectionName
	names map[model.Section]string

	tickerInput textinput.Model
	sections    *panels.SectionsPanel
	report      *panels.ReportPanel
	spin        spinner.Model

	focusedPanel PanelFocus
	viewing      model.Section
	hasViewing   bool

	// pendingRefresh holds the section awaiting y/n confirmation before a
	// forced regeneration is issued.
	pendingRefresh *model.Section

	initialTicker string
	companyName   string
	exchange      string

	statusMsg string
	width     int
	height    int
	ready     bool
}

// NewModel builds the terminal model. sections come from the server when
// reachable, so ordering and display names match what it analyzes.
func NewModel(brief *client.BriefClient, sections []model.SectionName, initialTicker string) *Model {
	keys := make([]model.Section, 0, len(sections))
	names := make(map[model.Section]string, len(sections))
	for _, sn := range sections {
		section := model.Section(sn.Key)
		keys = append(keys, section)
		names[section] = sn.Name
	}

	ctrl := controller.New(keys)

	ti := textinput.New()
	ti.Placeholder = "e.g. NVDA or 0700.HK"
	ti.CharLimit = 12
	ti.Width = 22
	ti.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(styles.StatusLoadingStyle),
	)

	m := &Model{
		brief:         brief,
		ctrl:          ctrl,
		order:         sections,
		names:         names,
		tickerInput:   ti,
		sections:      panels.NewSectionsPanel(nil),
		report:        panels.NewReportPanel(),
		spin:          spin,
		focusedPanel:  FocusTicker,
		initialTicker: initialTicker,
	}
	m.syncPanels()
	return m
}

// Init starts the blink and spinner loops and, when a ticker was given on
// the command line, submits it immediately.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	if m.initialTicker != "" {
		m.tickerInput.SetValue(m.initialTicker)
		cmds = append(cmds, m.submitTicker(m.initialTicker)...)
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The confirmation prompt swallows everything until answered.
		if m.pendingRefresh != nil {
			switch msg.String() {
			case "y", "Y":
				section := *m.pendingRefresh
				m.pendingRefresh = nil
				cmds = append(cmds, m.confirmRefresh(section)...)
			case "n", "N", "esc":
				m.pendingRefresh = nil
				m.statusMsg = "Refresh cancelled"
			case "ctrl+c":
				return m, tea.Quit
			}
			m.syncPanels()
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.focusedPanel != FocusTicker {
				return m, tea.Quit
			}
		case "tab":
			m.cycleFocus(1)
		case "shift+tab":
			m.cycleFocus(-1)
		case "t":
			if m.focusedPanel != FocusTicker {
				m.setFocus(FocusTicker)
				m.syncPanels()
				return m, nil
			}
		case "esc":
			if m.focusedPanel == FocusReport {
				m.setFocus(FocusSections)
			}
		case "r":
			if m.focusedPanel == FocusReport && m.hasViewing {
				m.askRefresh(m.viewing)
				m.syncPanels()
				return m, nil
			}
		case "enter":
			if m.focusedPanel == FocusTicker {
				cmds = append(cmds, m.submitTicker(m.tickerInput.Value())...)
				m.syncPanels()
				return m, tea.Batch(cmds...)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case panels.SectionChosenMsg:
		cmds = append(cmds, m.openSection(msg.Section)...)

	case panels.RefreshRequestedMsg:
		m.askRefresh(msg.Section)

	case panels.FetchAllMsg:
		cmds = append(cmds, m.fetchAll()...)

	case analyzeResultMsg:
		cmds = append(cmds, m.applyResult(msg)...)

	case freshExpiredMsg:
		m.ctrl.ClearFresh(msg.section, msg.seq)

	case identityMsg:
		if msg.ticker == m.ctrl.Ticker() && msg.detail != nil {
			m.companyName = msg.detail.Name
			if msg.detail.ChineseName != "" {
				m.companyName = msg.detail.ChineseName + " · " + msg.detail.Name
			}
			m.exchange = msg.detail.Exchange
		}
	}

	m.updateFocusedPanel(msg, &cmds)
	m.syncPanels()

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusTicker:
		m.tickerInput, cmd = m.tickerInput.Update(msg)
	case FocusSections:
		m.sections, cmd = m.sections.Update(msg)
	case FocusReport:
		m.report, cmd = m.report.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.sections.SetFocus(m.focusedPanel == FocusSections)
	m.report.SetFocus(m.focusedPanel == FocusReport)
	if m.focusedPanel == FocusTicker {
		m.tickerInput.Focus()
	} else {
		m.tickerInput.Blur()
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - 1
	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth

	m.sections.SetSize(leftWidth, bodyHeight)
	m.report.SetSize(rightWidth, bodyHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sections.View(), m.report.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m *Model) renderHeader() string {
	line := styles.LabelStyle.Render("Ticker ") + m.tickerInput.View()

	if m.companyName != "" {
		identity := styles.IdentityStyle.Render(m.companyName)
		if m.exchange != "" {
			identity += "  " + styles.LabelStyle.Render(m.exchange)
		}
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "   ", identity)
	}

	panelStyle := styles.PanelStyle
	if m.focusedPanel == FocusTicker {
		panelStyle = styles.FocusedPanelStyle
	}
	return panelStyle.Width(m.width - 2).Render(line)
}

func (m *Model) renderStatusBar() string {
	if m.pendingRefresh != nil {
		prompt := fmt.Sprintf("Regenerate %s from scratch? y/n", m.sectionName(*m.pendingRefresh))
		return styles.StatusBarStyle.Width(m.width).Render(styles.ConfirmStyle.Render(prompt))
	}

	help := []string{
		styles.StatusBarKeyStyle.Render("tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("enter") + styles.StatusBarDescStyle.Render(" open"),
		styles.StatusBarKeyStyle.Render("r") + styles.StatusBarDescStyle.Render(" refresh"),
		styles.StatusBarKeyStyle.Render("a") + styles.StatusBarDescStyle.Render(" fetch all"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}
	helpStr := help[0]
	for _, h := range help[1:] {
		helpStr = lipgloss.JoinHorizontal(lipgloss.Center, helpStr, " │ ", h)
	}

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) setFocus(panel PanelFocus) {
	m.focusedPanel = panel
}

func (m *Model) cycleFocus(delta int) {
	m.focusedPanel = PanelFocus((int(m.focusedPanel) + delta + panelCount) % panelCount)
}

// submitTicker switches the view to a new ticker and fetches every section.
func (m *Model) submitTicker(raw string) []tea.Cmd {
	ticker := util.NormalizeTicker(raw)
	if ticker == "" {
		m.statusMsg = "Enter a ticker first"
		return nil
	}
	m.tickerInput.SetValue(ticker)

	if ticker != m.ctrl.Ticker() {
		m.ctrl.SetTicker(ticker)
		m.companyName = ""
		m.exchange = ""
		m.hasViewing = false
	}
	m.setFocus(FocusSections)

	cmds := m.fetchAll()
	cmds = append(cmds, m.fetchIdentity(ticker))
	return cmds
}

func (m *Model) fetchAll() []tea.Cmd {
	reqs, err := m.ctrl.RequestAll()
	if err != nil {
		m.statusMsg = statusText(err)
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, m.fetch(req))
	}
	if len(cmds) > 0 {
		m.statusMsg = fmt.Sprintf("Fetching %d sections for %s", len(cmds), m.ctrl.Ticker())
	}
	return cmds
}

// openSection shows a section in the report panel, fetching it first when
// it was never loaded.
func (m *Model) openSection(section model.Section) []tea.Cmd {
	m.viewing = section
	m.hasViewing = true
	m.setFocus(FocusReport)

	view := m.ctrl.View(section)
	needsFetch := view.Status == controller.StatusIdle ||
		(view.Status == controller.StatusFailed && !view.HasReport)
	if !needsFetch {
		return nil
	}

	req, err := m.ctrl.RequestSection(section, false)
	if err != nil {
		m.statusMsg = statusText(err)
		return nil
	}
	return []tea.Cmd{m.fetch(req)}
}

// askRefresh opens the confirmation prompt for a forced regeneration.
func (m *Model) askRefresh(section model.Section) {
	if m.ctrl.View(section).Status == controller.StatusLoading {
		m.statusMsg = m.sectionName(section) + " is already loading"
		return
	}

	_, err := m.ctrl.ForceRefresh(section, false)
	switch {
	case errors.Is(err, controller.ErrConfirmationRequired):
		m.pendingRefresh = &section
	case err != nil:
		m.statusMsg = statusText(err)
	}
}

func (m *Model) confirmRefresh(section model.Section) []tea.Cmd {
	req, err := m.ctrl.ForceRefresh(section, true)
	if err != nil {
		m.statusMsg = statusText(err)
		return nil
	}
	m.statusMsg = "Regenerating " + m.sectionName(section)
	return []tea.Cmd{m.fetch(req)}
}

// fetch performs one request against the server off the update loop.
func (m *Model) fetch(req controller.Request) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.brief.AnalyzeSection(context.Background(), req.Ticker, req.Section, req.Force)
		return analyzeResultMsg{req: req, resp: resp, err: err}
	}
}

func (m *Model) applyResult(msg analyzeResultMsg) []tea.Cmd {
	if !m.ctrl.Apply(msg.req, msg.resp, msg.err) {
		return nil
	}

	name := m.sectionName(msg.req.Section)
	view := m.ctrl.View(msg.req.Section)

	var cmds []tea.Cmd
	switch view.Status {
	case controller.StatusReady:
		if view.Fresh {
			m.statusMsg = name + " report generated"
			cmds = append(cmds, m.expireFresh(msg.req))
		} else {
			m.statusMsg = name + " loaded from cache"
		}
		if m.companyName == "" {
			cmds = append(cmds, m.fetchIdentity(msg.req.Ticker))
		}
	case controller.StatusFailed:
		m.statusMsg = name + ": " + view.Err
	}
	return cmds
}

func (m *Model) expireFresh(req controller.Request) tea.Cmd {
	return tea.Tick(freshBadgeTTL, func(time.Time) tea.Msg {
		return freshExpiredMsg{section: req.Section, seq: req.Seq}
	})
}

// fetchIdentity asks the server for the stored company record, which only
// exists after a section was generated at least once.
func (m *Model) fetchIdentity(ticker string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		detail, err := m.brief.Stock(ctx, ticker)
		if err != nil {
			return identityMsg{ticker: ticker}
		}
		return identityMsg{ticker: ticker, detail: detail}
	}
}

// syncPanels pushes the controller state into the render panels.
func (m *Model) syncPanels() {
	rows := make([]panels.SectionRow, 0, len(m.order))
	for _, sn := range m.order {
		section := model.Section(sn.Key)
		rows = append(rows, panels.SectionRow{
			Section: section,
			Name:    sn.Name,
			State:   m.ctrl.View(section),
		})
	}
	m.sections.SetRows(rows)
	m.sections.SetLoadingFrame(m.spin.View())

	title := "Report"
	body := "Pick a section and press enter."
	if m.hasViewing {
		title = m.sectionName(m.viewing)
		body = util.FormatText(m.ctrl.DisplayReport(m.viewing))
	}
	m.report.SetReport(title, body)
}

func (m *Model) sectionName(section model.Section) string {
	if name, ok := m.names[section]; ok && name != "" {
		return name
	}
	return string(section)
}

func statusText(err error) string {
	switch {
	case errors.Is(err, controller.ErrMissingTicker):
		return "Enter a ticker first"
	case errors.Is(err, controller.ErrRequestInFlight):
		return "That section is already loading"
	default:
		return err.Error()
	}
}
