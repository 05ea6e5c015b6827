package pairing

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	detail   lipgloss.Style
	meta     lipgloss.Style
	warning  lipgloss.Style
	codeBox  lipgloss.Style
	identity lipgloss.Style

	phaseActive  lipgloss.Style
	phaseLinked  lipgloss.Style
	phaseExpired lipgloss.Style
	phaseFailed  lipgloss.Style
	phaseNeutral lipgloss.Style
}

func newStyles() styles {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:     lipgloss.NewStyle().Faint(true),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		identity: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		codeBox: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("159")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("244")).
			Padding(0, 2),

		phaseActive:  badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		phaseLinked:  badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("78")),
		phaseExpired: badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("244")),
		phaseFailed:  badge.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("196")),
		phaseNeutral: badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("250")),
	}
}
