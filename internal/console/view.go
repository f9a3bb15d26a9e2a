package console

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/4oBuko/spy-cat-console/internal/catlist"
	"github.com/4oBuko/spy-cat-console/internal/form"
	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/policy"
	"github.com/charmbracelet/lipgloss"
)

const (
	listHelp     = "a add • e/enter edit • d delete • r refresh • m missions • q quit"
	formHelp     = "tab/shift+tab move • ←/→ breed • enter submit • esc cancel"
	missionsHelp = "tab/c cats • r refresh • q quit"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	if m.tab == tabMissions {
		body = m.missionsView()
	} else {
		body = m.catsView()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), "", body)

	switch {
	case m.alert != "":
		return m.overlay(m.alertView())
	case m.coord.Modal() != ModalClosed:
		return m.overlay(m.formView(m.coord.Form()))
	}
	if _, pending := m.coord.List().PendingDelete(); pending {
		return m.overlay(m.confirmView())
	}
	return screen
}

func (m Model) overlay(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) tabsView() string {
	cats, missions := m.styles.InactiveTab, m.styles.InactiveTab
	if m.tab == tabMissions {
		missions = m.styles.ActiveTab
	} else {
		cats = m.styles.ActiveTab
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cats.Render("Cats"), missions.Render("Missions"))
}

func (m Model) catsView() string {
	list := m.coord.List()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Cats"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Manage surveillance cats and their information."))
	b.WriteString("\n\n")

	switch {
	case list.Status() == catlist.StatusLoading && list.Len() == 0:
		b.WriteString(m.spinner.View() + " Loading cats...")
	case list.Status() == catlist.StatusError:
		b.WriteString(m.styles.Banner.Render(list.Err()))
		b.WriteString("\n")
		if list.Len() > 0 {
			b.WriteString("\n")
			b.WriteString(m.rowsView(list))
		}
	case list.IsEmpty():
		b.WriteString(m.styles.Empty.Render("No cats\nGet started by adding a new cat."))
	default:
		if list.Status() == catlist.StatusLoading {
			b.WriteString(m.spinner.View() + " Refreshing...\n\n")
		}
		b.WriteString(m.rowsView(list))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(listHelp))
	return b.String()
}

func (m Model) rowsView(list *catlist.List) string {
	rows := make([]string, 0, list.Len())
	for i, cat := range list.Cats() {
		row := catRow(m.styles, cat)
		if i == list.Cursor() {
			rows = append(rows, m.styles.Selected.Render(row))
		} else {
			rows = append(rows, m.styles.Row.Render(row))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func catRow(s styles, cat models.Cat) string {
	initial := "?"
	if r := []rune(cat.Name); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}
	details := lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render(cat.Name),
		s.Subtitle.Render(fmt.Sprintf("%s • %d years experience", cat.Breed, cat.YearsOfExperience)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.Avatar.Render(initial), "  ",
		lipgloss.NewStyle().Width(40).Render(details),
		s.Salary.Render("$"+formatSalary(cat.Salary)),
	)
}

// formatSalary groups thousands and keeps at most three decimals.
func formatSalary(v float64) string {
	v = math.Round(v*1000) / 1000
	raw := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(raw, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func (m Model) formView(f *form.Controller) string {
	if f == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(f.Title()))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(f.Subtitle()))
	b.WriteString("\n\n")

	if msg := f.Error(policy.FieldGeneral); msg != "" {
		b.WriteString(m.styles.Banner.Render(msg))
		b.WriteString("\n\n")
	}

	focused := m.focusedField(f)
	for _, field := range policy.Fields {
		label := field.Label()
		if field == focused {
			label = m.styles.Focused.Render("> " + label)
		} else {
			label = m.styles.Label.Render("  " + label)
		}
		b.WriteString(label)
		b.WriteString("\n  ")
		b.WriteString(m.fieldView(f, field))
		b.WriteString("\n")
		if msg := f.Error(field); msg != "" {
			b.WriteString("  " + m.styles.Error.Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	if f.State() == form.StateSubmitting {
		b.WriteString(m.styles.Disabled.Render(m.spinner.View() + " " + f.SubmitLabel()))
	} else {
		b.WriteString(m.styles.Button.Render(f.SubmitLabel()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(formHelp))

	return m.styles.Modal.Render(b.String())
}

func (m Model) fieldView(f *form.Controller, field policy.Field) string {
	if !f.Editable(field) {
		return m.styles.Frozen.Render(f.Value(field) + " (cannot be changed)")
	}
	if field == policy.FieldBreed && !f.BreedFreeText() {
		switch {
		case f.BreedsLoading():
			return m.spinner.View() + " loading breeds"
		case f.Value(field) == "":
			return m.styles.Frozen.Render("Select a breed")
		default:
			return "‹ " + f.Value(field) + " ›"
		}
	}
	if in, ok := m.inputs[field]; ok {
		return in.View()
	}
	return f.Value(field)
}

func (m Model) confirmView() string {
	content := catlist.ConfirmPrompt + "\n\n" + m.styles.Help.Render("y yes • n no")
	return m.styles.Modal.Render(content)
}

func (m Model) alertView() string {
	content := m.styles.Error.Render(m.alert) + "\n\n" + m.styles.Help.Render("enter dismiss")
	return m.styles.Modal.Render(content)
}

func (m Model) missionsView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Missions"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Missions assigned to cats and their targets."))
	b.WriteString("\n\n")

	switch {
	case m.missionsLoading:
		b.WriteString(m.spinner.View() + " Loading missions...")
	case m.missionsErr != "":
		b.WriteString(m.styles.Banner.Render(m.missionsErr))
	case len(m.missions) == 0:
		b.WriteString(m.styles.Empty.Render("No missions"))
	default:
		for _, mission := range m.missions {
			b.WriteString(missionView(m.styles, mission))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(missionsHelp))
	return b.String()
}

func missionView(s styles, mission models.Mission) string {
	status := "active"
	if mission.Completed {
		status = "completed"
	}
	header := fmt.Sprintf("Mission #%d • cat %d • %s • %d/%d targets done",
		mission.Id, mission.CatId, status, mission.Done(), len(mission.Targets))

	lines := []string{s.Label.Render(header)}
	for _, target := range mission.Targets {
		mark := "[ ]"
		if target.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s (%s)", mark, target.Name, target.Country)
		if target.Notes != "" {
			line += " " + s.Subtitle.Render(target.Notes)
		}
		lines = append(lines, line)
	}
	return s.Row.Render(strings.Join(lines, "\n"))
}
