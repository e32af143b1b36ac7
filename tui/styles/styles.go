package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor = lipgloss.Color("#38BDF8") // Sky blue
	AccentColor  = lipgloss.Color("#FBBF24") // Amber

	// Section status colors
	IdleColor    = lipgloss.Color("#64748B") // Slate
	LoadingColor = lipgloss.Color("#FBBF24") // Amber
	ReadyColor   = lipgloss.Color("#34D399") // Green
	FailedColor  = lipgloss.Color("#F87171") // Red
	FreshColor   = lipgloss.Color("#A7F3D0") // Pale green

	// Chrome colors
	BackgroundColor  = lipgloss.Color("#1E293B")
	BorderColor      = lipgloss.Color("#334155")
	FocusBorderColor = lipgloss.Color("#38BDF8")

	// Text colors
	TextColor          = lipgloss.Color("#F1F5F9")
	TextSecondaryColor = lipgloss.Color("#94A3B8")
	TextMutedColor     = lipgloss.Color("#64748B")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#334155"))
)

// Section status styles
var (
	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(IdleColor)

	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(LoadingColor)

	StatusReadyStyle = lipgloss.NewStyle().
				Foreground(ReadyColor)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(FailedColor)

	FreshBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FreshColor)

	CachedTagStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	PreviewStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(FailedColor)
)

// Input styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	IdentityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)

	ConfirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)
)

// RenderTitle renders a panel title, highlighted when the panel has focus.
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}
