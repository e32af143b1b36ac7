package panels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stockbrief/tui/styles"
)

// ReportPanel shows the full text of the selected section in a scrollable
// viewport.
type ReportPanel struct {
	vp      viewport.Model
	title   string
	body    string
	focused bool
	width   int
	height  int
	sized   bool
}

func NewReportPanel() *ReportPanel {
	return &ReportPanel{title: "Report"}
}

func (p *ReportPanel) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport while the panel has focus.
func (p *ReportPanel) Update(msg tea.Msg) (*ReportPanel, tea.Cmd) {
	if !p.focused || !p.sized {
		return p, nil
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *ReportPanel) View() string {
	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(p.title, p.focused)

	body := ""
	if p.sized {
		body = p.vp.View()
	}

	scroll := ""
	if p.sized && p.vp.TotalLineCount() > p.vp.Height {
		scroll = styles.CachedTagStyle.Render(fmt.Sprintf("%3.0f%%", p.vp.ScrollPercent()*100))
	}

	panel := lipgloss.JoinVertical(lipgloss.Left, title, body, scroll)
	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetReport swaps in a section body. Scroll position resets when a
// different section is shown, and is kept when the same one refreshes.
func (p *ReportPanel) SetReport(title, body string) {
	changed := title != p.title || body != p.body
	sameSection := title == p.title

	p.title = title
	p.body = body
	if !changed || !p.sized {
		return
	}

	offset := p.vp.YOffset
	p.reflow()
	if sameSection {
		p.vp.SetYOffset(offset)
	} else {
		p.vp.GotoTop()
	}
}

func (p *ReportPanel) SetFocus(focused bool) {
	p.focused = focused
}

func (p *ReportPanel) SetSize(width, height int) {
	if width == p.width && height == p.height && p.sized {
		return
	}
	p.width = width
	p.height = height

	vpWidth := width - 6
	vpHeight := height - 6
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !p.sized {
		p.vp = viewport.New(vpWidth, vpHeight)
		p.sized = true
	} else {
		p.vp.Width = vpWidth
		p.vp.Height = vpHeight
	}
	p.reflow()
}

func (p *ReportPanel) reflow() {
	wrapped := lipgloss.NewStyle().Width(p.vp.Width).Render(p.body)
	p.vp.SetContent(wrapped)
}
