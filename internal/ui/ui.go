package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/martium/fsh/internal/formatter"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	FormView
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	store       models.RecordStore
	phoneRegion string
	view        ViewState
	width       int
	height      int
	list        list.Model
	summaries   []models.ServiceSummary
	search      textinput.Model
	searching   bool   // search input has focus
	phrase      string // phrase the list is currently filtered by
	selected    *models.ServiceRecord
	form        *form
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model reading and writing through store.
// phoneRegion formats phone numbers in the detail view; empty shows them as entered.
func NewModel(ctx context.Context, store models.RecordStore, phoneRegion string) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Funeral services"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Enter a search phrase..."
	search.CharLimit = 200

	return &Model{
		ctx:         ctx,
		store:       store,
		phoneRegion: phoneRegion,
		view:        ListView,
		list:        l,
		search:      search,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by loading the full service list.
func (m *Model) Init() tea.Cmd {
	return m.loadServices("")
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			if m.searching {
				return m.handleSearchKeys(msg)
			}
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == ListView {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgServicesLoaded:
		data := msg.data.(servicesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.phrase = data.phrase
		m.summaries = data.summaries
		return m, m.list.SetItems(serviceItems(data.summaries))

	case MsgServiceLoaded:
		data := msg.data.(serviceLoaded)
		if data.err != nil {
			m.status = ""
			m.err = data.err
			return m, nil
		}
		m.selected = data.record
		m.view = DetailView
		return m, nil

	case MsgFormReady:
		data := msg.data.(formReady)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.form = newForm(data.op, data.record, data.next)
		m.view = FormView
		return m, textinput.Blink

	case MsgServiceSaved:
		data := msg.data.(serviceSaved)
		if m.form == nil {
			return m, nil
		}
		switch {
		case data.err != nil:
			m.form.err = data.err
			return m, nil
		case !data.ok:
			m.form.err = shared.ErrWriteFailed
			return m, nil
		}
		m.status = fmt.Sprintf("Saved service #%d", data.orderNumber)
		return m, m.closeForm()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ListView && m.summaries == nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case FormView:
		return m.renderForm()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		m.search.SetValue(m.phrase)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.back):
		if m.phrase != "" {
			return m, m.resetSearch()
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if s, ok := m.selectedSummary(); ok {
			return m, m.loadService(s.OrderNumber)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.openForm(models.OperationCreate, 0)
	case key.Matches(msg, m.keys.edit):
		if s, ok := m.selectedSummary(); ok {
			return m, m.openForm(models.OperationEdit, s.OrderNumber)
		}
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if s, ok := m.selectedSummary(); ok {
			return m, m.openForm(models.OperationCopy, s.OrderNumber)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		phrase := m.search.Value()
		if strings.TrimSpace(phrase) == "" {
			return m, nil
		}
		m.searching = false
		m.search.Blur()
		return m, m.loadServices(phrase)
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.phrase)
		if m.phrase != "" {
			return m, m.resetSearch()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.edit):
		return m, m.openForm(models.OperationEdit, m.selected.OrderNumber)
	case key.Matches(msg, m.keys.copy):
		return m, m.openForm(models.OperationCopy, m.selected.OrderNumber)
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.status = ""
		return m, m.closeForm()
	case "ctrl+s":
		record, err := m.form.record()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		m.form.err = nil
		return m, m.saveService(m.form.op, m.form.source, record)
	}
	return m, m.form.update(msg, m.keys)
}

func (m *Model) selectedSummary() (models.ServiceSummary, bool) {
	if len(m.summaries) == 0 {
		return models.ServiceSummary{}, false
	}
	item, ok := m.list.SelectedItem().(serviceItem)
	if !ok {
		return models.ServiceSummary{}, false
	}
	return item.summary, true
}

// closeForm returns to the list, clears the search and reloads every service.
func (m *Model) closeForm() tea.Cmd {
	m.form = nil
	m.selected = nil
	m.view = ListView
	return m.resetSearch()
}

func (m *Model) resetSearch() tea.Cmd {
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	return m.loadServices("")
}

func (m *Model) loadServices(phrase string) tea.Cmd {
	return func() tea.Msg {
		summaries, err := m.store.List(m.ctx, phrase)
		if summaries == nil && err == nil {
			summaries = []models.ServiceSummary{}
		}
		return servicesLoadedMsg(summaries, phrase, err)
	}
}

func (m *Model) loadService(orderNumber int) tea.Cmd {
	return func() tea.Msg {
		record, err := m.store.Get(m.ctx, orderNumber)
		return serviceLoadedMsg(record, err)
	}
}

// openForm fetches what the form needs: the source record for edit and copy,
// and the advisory next order number for create and copy.
func (m *Model) openForm(op models.Operation, orderNumber int) tea.Cmd {
	return func() tea.Msg {
		var (
			record *models.ServiceRecord
			next   int
			err    error
		)
		if op != models.OperationCreate {
			if record, err = m.store.Get(m.ctx, orderNumber); err != nil {
				return formReadyMsg(op, nil, 0, err)
			}
		}
		if op.CreatesRecord() {
			if next, err = m.store.NextOrderNumber(m.ctx); err != nil {
				return formReadyMsg(op, nil, 0, err)
			}
		}
		return formReadyMsg(op, record, next, nil)
	}
}

func (m *Model) saveService(op models.Operation, source int, record *models.ServiceRecord) tea.Cmd {
	return func() tea.Msg {
		if op.CreatesRecord() {
			ok, err := m.store.Create(m.ctx, record)
			return serviceSavedMsg(op, record.OrderNumber, ok, err)
		}
		ok, err := m.store.Update(m.ctx, source, record)
		return serviceSavedMsg(op, source, ok, err)
	}
}

// emptyListReason explains an empty list: either nothing has been recorded yet or the search matched nothing.
func (m *Model) emptyListReason() string {
	if m.phrase != "" {
		return fmt.Sprintf("Search phrase '%s' matched no services. Search for another phrase or press esc to cancel the search.", m.phrase)
	}
	return "Service history is empty. Press n to create a new service."
}

func (m *Model) renderList() string {
	var b strings.Builder

	if len(m.summaries) == 0 {
		b.WriteString(styles.title.Render("Funeral services"))
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.emptyListReason()))
	} else {
		b.WriteString(m.list.View())
	}

	if m.searching {
		b.WriteString("\n\n" + m.search.View())
	} else if m.phrase != "" {
		b.WriteString("\n\n" + styles.help.Render(fmt.Sprintf("Search: %q (esc to cancel)", m.phrase)))
	}

	if m.err != nil {
		b.WriteString("\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString("\n\n" + styles.ok.Render(m.status))
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.create, m.keys.quit}
	if len(m.summaries) > 0 {
		helpKeys = []key.Binding{m.keys.enter, m.keys.search, m.keys.create, m.keys.edit, m.keys.copy, m.keys.quit}
	}
	if m.searching {
		helpKeys = []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Service #%d", m.selected.OrderNumber)))

	for _, field := range models.RecordFields {
		value := field.Get(m.selected)
		if field.Key == models.PhoneNumbersKey {
			value = formatter.FormatPhoneNumbers(value, m.phoneRegion)
		}
		b.WriteString("\n" + styles.label.Render(field.Label) + " " + value)
	}

	helpKeys := []key.Binding{m.keys.edit, m.keys.copy, m.keys.back, m.keys.quit}
	b.WriteString("\n\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.save, cancel}
	return fmt.Sprintf("%s\n\n%s", m.form.view(), m.help.ShortHelpView(helpKeys))
}
