package console

import (
	"context"
	"log/slog"

	"github.com/4oBuko/spy-cat-console/internal/form"
	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/policy"
	"github.com/4oBuko/spy-cat-console/pkg/agencyapi"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type tab int

const (
	tabCats tab = iota
	tabMissions
)

// =============================================================================
// Messages
// =============================================================================

// catsLoadedMsg carries the refresh sequence number it answers.
type catsLoadedMsg struct {
	seq  uint64
	cats []models.Cat
	err  error
}

// breedsLoadedMsg and submitDoneMsg carry the form session they belong to so
// that answers for a cancelled form are dropped.
type breedsLoadedMsg struct {
	form   *form.Controller
	breeds []string
	err    error
}

type submitDoneMsg struct {
	form *form.Controller
	cat  models.Cat
	err  error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type missionsLoadedMsg struct {
	missions []models.Mission
	err      error
}

// =============================================================================
// Commands
// =============================================================================

func fetchCats(ctx context.Context, api agencyapi.AgencyAPI, seq uint64) tea.Cmd {
	return func() tea.Msg {
		cats, err := api.ListCats(ctx)
		return catsLoadedMsg{seq: seq, cats: cats, err: err}
	}
}

func fetchBreeds(ctx context.Context, api agencyapi.AgencyAPI, f *form.Controller) tea.Cmd {
	return func() tea.Msg {
		breeds, err := api.ListValidBreeds(ctx)
		return breedsLoadedMsg{form: f, breeds: breeds, err: err}
	}
}

func sendSubmission(ctx context.Context, api agencyapi.AgencyAPI, f *form.Controller, s form.Submission) tea.Cmd {
	return func() tea.Msg {
		cat, err := s.Send(ctx, api)
		return submitDoneMsg{form: f, cat: cat, err: err}
	}
}

func deleteCat(ctx context.Context, api agencyapi.AgencyAPI, id int64) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: api.DeleteCat(ctx, id)}
	}
}

func fetchMissions(ctx context.Context, api agencyapi.AgencyAPI) tea.Cmd {
	return func() tea.Msg {
		missions, err := api.ListMissions(ctx)
		return missionsLoadedMsg{missions: missions, err: err}
	}
}

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model of the console.
type Model struct {
	ctx    context.Context
	api    agencyapi.AgencyAPI
	logger *slog.Logger
	coord  *Coordinator
	styles styles

	tab     tab
	spinner spinner.Model

	// form inputs; rebuilt for every form session
	inputs map[policy.Field]textinput.Model
	focus  int

	alert string

	missions        []models.Mission
	missionsLoading bool
	missionsErr     string

	width  int
	height int
}

func New(ctx context.Context, api agencyapi.AgencyAPI, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		api:     api,
		logger:  logger,
		coord:   NewCoordinator(logger),
		styles:  defaultStyles(),
		spinner: s,
	}
}

func (m Model) Coordinator() *Coordinator {
	return m.coord
}

// Init implements tea.Model. The first refresh starts here.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case catsLoadedMsg:
		m.coord.List().ApplyRefresh(msg.seq, msg.cats, msg.err)
		return m, nil

	case breedsLoadedMsg:
		if msg.form != m.coord.Form() {
			return m, nil
		}
		msg.form.SetBreeds(msg.breeds, msg.err)
		return m, nil

	case submitDoneMsg:
		msg.form.Resolve(msg.cat, msg.err)
		if m.coord.Succeeded(msg.form) {
			if m.coord.Form() == nil {
				m.inputs = nil
			}
			return m, m.refresh()
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.alert = m.coord.List().DeleteAlert(msg.id, msg.err)
			return m, nil
		}
		return m, m.refresh()

	case missionsLoadedMsg:
		m.missionsLoading = false
		if msg.err != nil {
			m.logger.Error("failed to fetch missions", "error", msg.err)
			m.missionsErr = "Failed to fetch missions"
			return m, nil
		}
		m.missions = msg.missions
		m.missionsErr = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) refresh() tea.Cmd {
	seq := m.coord.List().BeginRefresh()
	return fetchCats(m.ctx, m.api, seq)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alert = ""
		}
		return m, nil
	}

	if _, pending := m.coord.List().PendingDelete(); pending {
		return m.handleConfirmKey(msg)
	}

	if m.coord.Modal() != ModalClosed {
		return m.handleFormKey(msg)
	}

	if m.tab == tabMissions {
		return m.handleMissionsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.coord.List()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		list.MoveCursor(-1)
	case "down", "j":
		list.MoveCursor(1)
	case "r":
		return m, m.refresh()
	case "a":
		f, ok := m.coord.OpenCreate()
		if !ok {
			return m, nil
		}
		return m.openForm(f)
	case "e", "enter":
		cat, ok := list.Selected()
		if !ok {
			return m, nil
		}
		f, ok := m.coord.OpenEdit(cat)
		if !ok {
			return m, nil
		}
		return m.openForm(f)
	case "d", "delete":
		if cat, ok := list.Selected(); ok {
			list.RequestDelete(cat.Id)
		}
	case "tab", "m":
		m.tab = tabMissions
		m.missionsLoading = true
		return m, fetchMissions(m.ctx, m.api)
	}
	return m, nil
}

func (m Model) handleMissionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "c", "esc":
		m.tab = tabCats
	case "r":
		m.missionsLoading = true
		return m, fetchMissions(m.ctx, m.api)
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if id, ok := m.coord.List().Confirm(true); ok {
			return m, deleteCat(m.ctx, m.api, id)
		}
	case "n", "N", "esc":
		m.coord.List().Confirm(false)
	}
	return m, nil
}

// openForm builds inputs for a fresh form session and starts its breed fetch.
func (m Model) openForm(f *form.Controller) (tea.Model, tea.Cmd) {
	m.inputs = map[policy.Field]textinput.Model{}
	for _, field := range policy.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.SetValue(f.Value(field))
		switch field {
		case policy.FieldExperienceYears:
			in.Placeholder = "0"
		case policy.FieldBreed:
			in.Placeholder = "type a breed"
		case policy.FieldSalary:
			in.Placeholder = "0.00"
		}
		m.inputs[field] = in
	}
	m.focus = 0

	f.BeginBreedLoad()
	return m, tea.Batch(m.focusCurrent(f), fetchBreeds(m.ctx, m.api, f))
}

// focusCurrent focuses the input under the cursor and blurs the others.
func (m Model) focusCurrent(f *form.Controller) tea.Cmd {
	fields := f.EditableFields()
	var cmd tea.Cmd
	for field, in := range m.inputs {
		if len(fields) > 0 && field == fields[m.focus] {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[field] = in
	}
	return cmd
}

func (m Model) focusedField(f *form.Controller) policy.Field {
	fields := f.EditableFields()
	if len(fields) == 0 {
		return ""
	}
	return fields[m.focus]
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.coord.Form()
	fields := f.EditableFields()

	switch msg.String() {
	case "esc":
		m.coord.Close()
		m.inputs = nil
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % len(fields)
		return m, m.focusCurrent(f)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(fields)) % len(fields)
		return m, m.focusCurrent(f)
	case "enter":
		submission, ok := f.Prepare()
		if !ok {
			return m, nil
		}
		return m, sendSubmission(m.ctx, m.api, f, submission)
	}

	if f.State() == form.StateSubmitting {
		return m, nil
	}

	focused := m.focusedField(f)
	if focused == policy.FieldBreed && !f.BreedFreeText() {
		switch msg.String() {
		case "left", "h":
			f.CycleBreed(-1)
		case "right", "l", " ":
			f.CycleBreed(1)
		}
		return m, nil
	}

	in, ok := m.inputs[focused]
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[focused] = in
	f.SetValue(focused, in.Value())
	return m, cmd
}

// Alert is the blocking message currently shown, if any.
func (m Model) Alert() string {
	return m.alert
}

var _ tea.Model = Model{}
