package view

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/draft"
	"github.com/MrJamesThe3rd/pennywise/internal/snapshot"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const (
	emptySnapshotMessage = "No transactions yet. Press a to add one."
	noMatchesMessage     = "No transactions match the current filters."
)

type dashboardState int

const (
	dashStateBrowse dashboardState = iota
	dashStateSearch
	dashStateForm
	dashStateConfirmDelete
	dashStateTimeframe
)

var typeFilters = []string{snapshot.All, string(transaction.TypeIncome), string(transaction.TypeExpense)}

// DashboardModel is the main screen: the transaction table, the summary
// panel and the add/edit/delete flows.
type DashboardModel struct {
	CommonModel
	client Client
	syncer *snapshot.Syncer

	state  dashboardState
	table  table.Model
	search textinput.Model
	picker TimeframePicker
	form   *txForm

	criteria   snapshot.Criteria
	timeframe  TimeframeSelectedMsg
	visible    []*transaction.Transaction
	categories []string

	loading bool
	saving  bool
	status  string
}

func NewDashboardModel(client Client, syncer *snapshot.Syncer, timeout time.Duration) DashboardModel {
	columns := []table.Column{
		{Title: "Category", Width: 16},
		{Title: "Description", Width: 30},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "description or category"
	si.Width = 30

	return DashboardModel{
		CommonModel: CommonModel{Timeout: timeout},
		client:      client,
		syncer:      syncer,
		table:       t,
		search:      si,
		picker:      NewTimeframePicker(TimeframeAll),
		timeframe:   TimeframeSelectedMsg{Frame: TimeframeAll},
		categories:  []string{snapshot.All},
		loading:     true,
	}
}

func (m DashboardModel) Title() string { return "Pennywise" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashStateSearch:
		return "Enter: keep search | Esc: clear search"
	case dashStateForm:
		return "Enter/Tab: navigate form | Esc: cancel"
	case dashStateConfirmDelete:
		return "y: delete | n/Esc: keep"
	case dashStateTimeframe:
		return "Enter: select | Esc: back"
	}

	return "t: type | c: category | /: search | f: timeframe | a: add | e: edit | d: delete | r: refresh | i: import | x: export | q: quit"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.refreshCmd(m.timeframe.Apply(transaction.ListFilter{}))
}

// Refresh reloads the snapshot with the current server-side filter.
func (m DashboardModel) Refresh() tea.Cmd {
	return m.refreshCmd(m.syncer.Filter())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

		return m, nil

	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.picker.Reset()
		m.state = dashStateBrowse
		m.table.Focus()
		m.loading = true

		return m, m.refreshCmd(msg.Apply(transaction.ListFilter{}))

	case refreshedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.rebuild()

		return m, nil

	case savedMsg:
		return m.handleSaved(msg)

	case deletedMsg:
		m.saving = false

		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		case msg.res == snapshot.NotFound:
			m.status = "Deleted. It was no longer in the current view."
		default:
			m.status = "Deleted."
		}

		m.rebuild()

		return m, nil
	}

	switch m.state {
	case dashStateBrowse:
		return m.updateBrowse(msg)
	case dashStateSearch:
		return m.updateSearch(msg)
	case dashStateForm:
		return m.updateForm(msg)
	case dashStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case dashStateTimeframe:
		return m.updateTimeframe(msg)
	}

	return m, nil
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "t":
		m.criteria.Type = cycle(typeFilters, m.criteria.Type)
		m.rebuild()

		return m, nil
	case "c":
		m.criteria.Category = cycle(m.categories, m.criteria.Category)
		m.rebuild()

		return m, nil
	case "/":
		m.state = dashStateSearch
		m.search.SetValue(m.criteria.Search)
		m.table.Blur()

		return m, m.search.Focus()
	case "f":
		m.state = dashStateTimeframe
		m.table.Blur()

		return m, nil
	case "esc":
		m.criteria = snapshot.Criteria{}
		m.rebuild()

		return m, nil
	case "r":
		m.loading = true
		return m, m.Refresh()
	}

	// Mutations and screen switches wait for the request in flight.
	if m.saving {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "i":
		return m, func() tea.Msg { return OpenImportMsg{} }
	case "x":
		return m, func() tea.Msg { return OpenExportMsg{} }
	case "a":
		return m.openForm(draft.Draft{}, nil)
	case "e":
		if tx := m.selected(); tx != nil {
			return m.openForm(draft.FromTransaction(tx), tx)
		}

		return m, nil
	case "d":
		if m.selected() != nil {
			m.state = dashStateConfirmDelete
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.state = dashStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEsc:
			m.state = dashStateBrowse
			m.search.Blur()
			m.search.SetValue("")
			m.criteria.Search = ""
			m.table.Focus()
			m.rebuild()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.criteria.Search = m.search.Value()
	m.rebuild()

	return m, cmd
}

func (m DashboardModel) openForm(d draft.Draft, editing *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.form = newTxForm(d, editing, m.knownCategories(), m.suggest)
	m.state = dashStateForm
	m.table.Blur()

	return m, m.form.form.Init()
}

func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && !m.saving {
		m.closeForm()
		return m, nil
	}

	if m.saving {
		return m, nil
	}

	form, cmd := m.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.form = f
	}

	switch m.form.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
	default:
		return m, cmd
	}

	params, err := m.form.d.Validate()
	if err != nil {
		return m.reopenForm(err)
	}

	m.saving = true
	m.status = "Saving..."

	return m, m.saveCmd(params)
}

// reopenForm rebuilds the form with the values already entered.
func (m DashboardModel) reopenForm(err error) (tea.Model, tea.Cmd) {
	prev := m.form
	m.form = newTxForm(*prev.d, prev.editing, m.knownCategories(), m.suggest)
	m.form.err = err

	return m, m.form.form.Init()
}

func (m *DashboardModel) closeForm() {
	m.form = nil
	m.state = dashStateBrowse
	m.table.Focus()
}

func (m DashboardModel) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false

	switch {
	case msg.err == nil:
		m.status = "Saved."
		if msg.res == snapshot.NotFound {
			m.status = "Saved. It is not part of the current view."
		}
	case errors.Is(msg.err, snapshot.ErrRefresh):
		m.status = fmt.Sprintf("Saved, but refreshing failed: %v", msg.err)
	default:
		slog.Error("failed to save transaction", "error", msg.err)
		m.status = ""
		m.rebuild()

		if m.form == nil {
			return m, nil
		}

		return m.reopenForm(errors.New(draft.SaveFailedMessage))
	}

	m.closeForm()
	m.rebuild()

	return m, nil
}

func (m DashboardModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.state = dashStateBrowse

		tx := m.selected()
		if tx == nil {
			return m, nil
		}

		m.saving = true
		m.status = "Deleting..."

		return m, m.deleteCmd(tx.ID)
	case "n", "N", "esc":
		m.state = dashStateBrowse
	}

	return m, nil
}

func (m DashboardModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = dashStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

// rebuild re-derives the visible rows from the snapshot and the criteria.
func (m *DashboardModel) rebuild() {
	items := m.syncer.Snapshot().Items()

	m.categories = snapshot.Categories(items)
	if m.criteria.Category != "" && !slices.Contains(m.categories, m.criteria.Category) {
		m.criteria.Category = snapshot.All
	}

	m.visible = snapshot.Apply(items, m.criteria)

	rows := make([]table.Row, 0, len(m.visible))
	for _, tx := range m.visible {
		rows = append(rows, table.Row{
			tx.Category,
			orDash(tx.Description),
			string(tx.Type),
			FormatAmount(tx),
			FormatDate(tx.Date),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m DashboardModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}

	return m.visible[idx]
}

func (m DashboardModel) knownCategories() []string {
	return slices.DeleteFunc(slices.Clone(m.categories), func(c string) bool { return c == snapshot.All })
}

func (m DashboardModel) suggest(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	ctx, cancel := m.requestCtx()
	defer cancel()

	category, err := m.client.Suggest(ctx, description)
	if err != nil {
		slog.Debug("category suggestion failed", "error", err)
		return ""
	}

	return category
}

// cycle returns the value after cur in values, wrapping around. Empty cur
// counts as the wildcard.
func cycle(values []string, cur string) string {
	if cur == "" {
		cur = snapshot.All
	}

	i := slices.Index(values, cur)

	return values[(i+1)%len(values)]
}

// emptyMessage tells an empty snapshot apart from a filter without matches.
func emptyMessage(total, visible int) string {
	switch {
	case total == 0:
		return emptySnapshotMessage
	case visible == 0:
		return noMatchesMessage
	}

	return ""
}

func (m DashboardModel) View() string {
	if m.state == dashStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	header := fmt.Sprintf(
		"[t] Type: %s | [c] Category: %s | [/] Search: %s | [f] %s",
		activeStyle.Render(labelOrAll(m.criteria.Type)),
		activeStyle.Render(labelOrAll(m.criteria.Category)),
		activeStyle.Render(orDash(m.criteria.Search)),
		activeStyle.Render(m.timeframe.Label()),
	)

	var body string

	switch msg := emptyMessage(m.syncer.Snapshot().Len(), len(m.visible)); {
	case m.loading && m.syncer.Snapshot().Len() == 0:
		body = "Loading transactions..."
	case msg != "":
		body = faintStyle.Render(msg)
	default:
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		body,
		"  ",
		summaryView(transaction.Summarize(m.syncer.Snapshot().Items())),
	)

	if m.state == dashStateForm && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", m.form.View())
	}

	lines := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}

	if m.state == dashStateSearch {
		lines = append(lines, m.search.View())
	}

	lines = append(lines, content)

	if m.state == dashStateConfirmDelete {
		if tx := m.selected(); tx != nil {
			lines = append(lines, errorStyle.Render(fmt.Sprintf(
				"Delete %s %s on %s? (y/n)", tx.Category, FormatAmount(tx), FormatDate(tx.Date),
			)))
		}
	}

	if m.status != "" {
		lines = append(lines, faintStyle.Render(m.status))
	}

	lines = append(lines, faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func labelOrAll(s string) string {
	if s == "" {
		return snapshot.All
	}

	return s
}

// Messages

type refreshedMsg struct {
	err error
}

func (m DashboardModel) refreshCmd(filter transaction.ListFilter) tea.Cmd {
	syncer := m.syncer

	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()

		return refreshedMsg{err: syncer.Refresh(ctx, filter)}
	}
}

type savedMsg struct {
	res snapshot.Result
	err error
}

func (m DashboardModel) saveCmd(params transaction.CreateParams) tea.Cmd {
	syncer := m.syncer
	editing := m.form.editing

	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()

		if editing == nil {
			_, err := syncer.Create(ctx, params)
			return savedMsg{res: snapshot.Applied, err: err}
		}

		_, res, err := syncer.Update(ctx, editing.ID, params)

		return savedMsg{res: res, err: err}
	}
}

type deletedMsg struct {
	res snapshot.Result
	err error
}

func (m DashboardModel) deleteCmd(id uuid.UUID) tea.Cmd {
	syncer := m.syncer

	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()

		res, err := syncer.Delete(ctx, id)

		return deletedMsg{res: res, err: err}
	}
}
