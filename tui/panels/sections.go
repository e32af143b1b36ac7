package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stockbrief/model"
	"stockbrief/tui/controller"
	"stockbrief/tui/styles"
)

// SectionRow pairs a section with its display name and fetch state.
type SectionRow struct {
	Section model.Section
	Name    string
	State   controller.SectionView
}

// SectionChosenMsg is sent when the user opens a section.
type SectionChosenMsg struct {
	Section model.Section
}

// RefreshRequestedMsg is sent when the user asks to regenerate a section.
type RefreshRequestedMsg struct {
	Section model.Section
}

// FetchAllMsg is sent when the user asks to fetch every section.
type FetchAllMsg struct{}

// SectionsPanel lists the report sections with a status marker and a
// preview or error line under each.
type SectionsPanel struct {
	rows          []SectionRow
	selectedIndex int
	loadingFrame  string
	focused       bool
	width         int
	height        int
}

func NewSectionsPanel(rows []SectionRow) *SectionsPanel {
	return &SectionsPanel{rows: rows, loadingFrame: "…"}
}

func (p *SectionsPanel) Init() tea.Cmd {
	return nil
}

// Update handles navigation and the fetch keys.
func (p *SectionsPanel) Update(msg tea.Msg) (*SectionsPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused || len(p.rows) == 0 {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex < len(p.rows)-1 {
			p.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		section := p.rows[p.selectedIndex].Section
		return p, func() tea.Msg { return SectionChosenMsg{Section: section} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("r"))):
		section := p.rows[p.selectedIndex].Section
		return p, func() tea.Msg { return RefreshRequestedMsg{Section: section} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("a"))):
		return p, func() tea.Msg { return FetchAllMsg{} }
	}
	return p, nil
}

// View renders the panel.
func (p *SectionsPanel) View() string {
	var content strings.Builder
	innerWidth := p.width - 4

	for i, row := range p.rows {
		marker, markerStyle := p.marker(row.State)

		name := row.Name
		if name == "" {
			name = string(row.Section)
		}
		line := markerStyle.Render(marker) + " " + name
		if row.State.Fresh {
			line += " " + styles.FreshBadgeStyle.Render("fresh")
		} else if row.State.Status == controller.StatusReady && row.State.FromCache {
			line += " " + styles.CachedTagStyle.Render("cached")
		}

		rowStyle := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			rowStyle = styles.SelectedRowStyle
		}
		content.WriteString(rowStyle.MaxWidth(innerWidth).Render(line))
		content.WriteString("\n")

		content.WriteString(p.detailLine(row, innerWidth))
		if i < len(p.rows)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Sections", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *SectionsPanel) marker(state controller.SectionView) (string, lipgloss.Style) {
	switch state.Status {
	case controller.StatusLoading:
		return p.loadingFrame, styles.StatusLoadingStyle
	case controller.StatusReady:
		return "●", styles.StatusReadyStyle
	case controller.StatusFailed:
		return "✕", styles.StatusFailedStyle
	default:
		return "·", styles.StatusIdleStyle
	}
}

func (p *SectionsPanel) detailLine(row SectionRow, width int) string {
	indent := "  "
	switch row.State.Status {
	case controller.StatusLoading:
		text := "fetching"
		if row.State.HasReport {
			text = "refreshing"
		}
		return styles.StatusLoadingStyle.MaxWidth(width).Render(indent + text)
	case controller.StatusReady:
		return styles.PreviewStyle.MaxWidth(width).Render(indent + row.State.Preview)
	case controller.StatusFailed:
		return styles.ErrorTextStyle.MaxWidth(width).Render(indent + row.State.Err)
	default:
		return styles.StatusIdleStyle.MaxWidth(width).Render(indent + "not fetched")
	}
}

// SetRows replaces the rows, keeping the selection in range.
func (p *SectionsPanel) SetRows(rows []SectionRow) {
	p.rows = rows
	if p.selectedIndex >= len(rows) {
		p.selectedIndex = len(rows) - 1
	}
	if p.selectedIndex < 0 {
		p.selectedIndex = 0
	}
}

// SetLoadingFrame sets the spinner frame rendered for loading sections.
func (p *SectionsPanel) SetLoadingFrame(frame string) {
	p.loadingFrame = frame
}

func (p *SectionsPanel) SetFocus(focused bool) {
	p.focused = focused
}

func (p *SectionsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Selected returns the section under the cursor.
func (p *SectionsPanel) Selected() (model.Section, bool) {
	if len(p.rows) == 0 {
		return "", false
	}
	return p.rows[p.selectedIndex].Section, true
}
