package monitor

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	ColorAccent = lipgloss.Color("#FF2E97") // Neon pink
	ColorGraph  = lipgloss.Color("#00FFFF") // Neon cyan
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	IdentityStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	NICStyle = lipgloss.NewStyle().
			Foreground(ColorGraph)

	DegradedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Italic(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// MetricColor returns the appropriate color for a percentage-based metric.
// Uses threshold-based coloring: green < 70%, yellow 70-90%, red > 90%.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style with the appropriate foreground color for the metric.
func MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent))
}

// styleLine colors an already clipped line. Styling only adds escape
// sequences, so the visible width computed by Render is unchanged.
func styleLine(line Line, s Snapshot) string {
	if line.Text == "" {
		return ""
	}
	switch line.Kind {
	case RowTitle:
		return TitleStyle.Render(line.Text)
	case RowCPUIdentity, RowGPUIdentity:
		return IdentityStyle.Render(line.Text)
	case RowHeader:
		return HeaderStyle.Render(line.Text)
	case RowCPU:
		if !s.CPU.OK() {
			return DegradedStyle.Render(line.Text)
		}
		return MetricStyle(s.CPU.Value).Render(line.Text)
	case RowGPU:
		if line.Index < len(s.GPUs.Value) {
			return MetricStyle(float64(s.GPUs.Value[line.Index].UtilizationPct)).Render(line.Text)
		}
		return ValueStyle.Render(line.Text)
	case RowNIC:
		return NICStyle.Render(line.Text)
	case RowNoGPU, RowNICUnavailable:
		return DegradedStyle.Render(line.Text)
	case RowTokens:
		if s.Tokens != nil && !s.Tokens.OK() {
			return DegradedStyle.Render(line.Text)
		}
		return ValueStyle.Render(line.Text)
	case RowOverflow:
		return NoticeStyle.Render(line.Text)
	default:
		return line.Text
	}
}
