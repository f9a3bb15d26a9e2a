package console

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Banner      lipgloss.Style
	Row         lipgloss.Style
	Selected    lipgloss.Style
	Avatar      lipgloss.Style
	Salary      lipgloss.Style
	Label       lipgloss.Style
	Frozen      lipgloss.Style
	Focused     lipgloss.Style
	Modal       lipgloss.Style
	Button      lipgloss.Style
	Disabled    lipgloss.Style
	Empty       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
}

func defaultStyles() styles {
	blue := lipgloss.Color("33")
	gray := lipgloss.Color("245")
	red := lipgloss.Color("160")

	return styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
		Subtitle:    lipgloss.NewStyle().Foreground(gray),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:       lipgloss.NewStyle().Foreground(red),
		Banner:      lipgloss.NewStyle().Foreground(red).Border(lipgloss.RoundedBorder()).BorderForeground(red).Padding(0, 1),
		Row:         lipgloss.NewStyle().PaddingLeft(2),
		Selected:    lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(blue),
		Avatar:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(blue).Padding(0, 1),
		Salary:      lipgloss.NewStyle().Bold(true),
		Label:       lipgloss.NewStyle().Bold(true),
		Frozen:      lipgloss.NewStyle().Foreground(gray).Italic(true),
		Focused:     lipgloss.NewStyle().Foreground(blue),
		Modal:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(blue).Padding(1, 2).Width(60),
		Button:      lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(blue).Padding(0, 2),
		Disabled:    lipgloss.NewStyle().Foreground(gray).Background(lipgloss.Color("237")).Padding(0, 2),
		Empty:       lipgloss.NewStyle().Foreground(gray).Align(lipgloss.Center).Padding(2, 0),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(blue).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(gray).Padding(0, 2),
	}
}
