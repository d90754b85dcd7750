package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/bus"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/task"
	"tableflip.dev/taskflow/pkg/timeutil"
	"tableflip.dev/taskflow/pkg/view"
)

const sidebarWidth = 24

type page int

const (
	pageUpcoming page = iota
	pageToday
	pageCalendar
	pageMissed
	pageTag
)

var pageNames = []string{"Upcoming", "Today", "Calendar", "Missed"}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeDate
	modeHelp
)

type changedMsg struct{ ev bus.Event }

type errMsg struct{ err error }

type watchStartedMsg struct{ ch <-chan store.Event }

type watchMsg struct {
	ch <-chan store.Event
	ev store.Event
	ok bool
}

const helpText = "1-4 switch page, t next tag page, j/k move, x toggle done, d delete, " +
	"a add, b cycle add bucket (Upcoming), h/l change day (Calendar), " +
	"m move to today (Missed), M move all missed to today, ? help, q quit"

// Model is the Bubble Tea model for the task UI. Each page reads from a
// mounted view, so it stays current as the bus reports changes.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	theme Theme

	upcoming *view.Upcoming
	today    *view.Today
	calendar *view.Calendar
	missed   *view.Missed
	sidebar  *view.Sidebar
	tagView  *view.Tag

	page      page
	mode      mode
	cursor    int
	addBucket task.Bucket
	pending   string
	input     textinput.Model
	status    string
	errored   bool

	width  int
	height int
}

// New mounts every view against svc.
func New(ctx context.Context, svc *app.Service) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Prompt = ""

	m := Model{
		ctx:       ctx,
		svc:       svc,
		theme:     DefaultTheme(),
		upcoming:  view.NewUpcoming(),
		today:     view.NewToday(),
		calendar:  view.NewCalendar(),
		missed:    view.NewMissed(),
		sidebar:   view.NewSidebar(),
		addBucket: task.Today,
		input:     ti,
		status:    "? for help",
	}
	for _, v := range m.mounts() {
		if err := v.Mount(ctx, svc); err != nil {
			m.Close()
			return Model{}, err
		}
	}
	return m, nil
}

type mountable interface {
	Mount(ctx context.Context, svc view.Service) error
	Unmount()
}

func (m Model) mounts() []mountable {
	out := []mountable{m.upcoming, m.today, m.calendar, m.missed, m.sidebar}
	if m.tagView != nil {
		out = append(out, m.tagView)
	}
	return out
}

// Close unmounts every view.
func (m Model) Close() {
	for _, v := range m.mounts() {
		v.Unmount()
	}
}

// Init starts watching storage for changes made by other processes.
func (m Model) Init() tea.Cmd {
	return m.startWatch()
}

func (m Model) startWatch() tea.Cmd {
	return func() tea.Msg {
		ch, err := m.svc.Watch(m.ctx)
		if err != nil {
			if errors.Is(err, store.ErrNotWatchable) {
				return nil
			}
			return errMsg{err}
		}
		return watchStartedMsg{ch}
	}
}

func waitForWatch(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return watchMsg{ch: ch, ev: ev, ok: ok}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case changedMsg:
		if !msg.ev.Persisted {
			m.setError(errors.New("change could not be saved; it is kept until you quit"))
		}
		m.clampCursor()
		return m, nil
	case errMsg:
		m.setError(msg.err)
		return m, nil
	case watchStartedMsg:
		return m, waitForWatch(msg.ch)
	case watchMsg:
		if !msg.ok {
			return m, nil
		}
		return m, tea.Batch(m.reconcile(msg.ev), waitForWatch(msg.ch))
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			m.mode = modeNormal
			return m, nil
		case modeAdd, modeDate:
			return m.updateInput(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) setError(err error) {
	m.status = "ERR: " + err.Error()
	m.errored = true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.errored = false
}

func (m Model) updateNormal(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
	case "1", "2", "3", "4":
		m.switchPage(page(key[0] - '1'))
	case "tab":
		m.switchPage((m.page + 1) % page(len(pageNames)))
	case "t":
		m.nextTagPage()
	case "j", "down":
		m.cursor++
		m.clampCursor()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "h", "left":
		if m.page == pageCalendar {
			d, _ := m.calendar.Selected()
			m.calendar.Select(d.AddDays(-1))
			m.cursor = 0
		}
	case "l", "right":
		if m.page == pageCalendar {
			d, _ := m.calendar.Selected()
			m.calendar.Select(d.AddDays(1))
			m.cursor = 0
		}
	case "b":
		if m.page == pageUpcoming {
			m.addBucket = (m.addBucket + 1) % task.Bucket(len(task.AllBuckets()))
			m.setStatus("adding to " + m.addBucket.Title())
		}
	case "x", " ", "space":
		if t, ok := m.selected(); ok {
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.ToggleTask(ctx, t.ID, !t.Completed)
				return err
			})
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.setStatus(fmt.Sprintf("deleted %q", t.Title))
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.DeleteTask(ctx, t.ID)
				return err
			})
		}
	case "m":
		if t, ok := m.selected(); ok && m.page == pageMissed {
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.Migrate(ctx, m.svc.Today(), t.ID)
				return err
			})
		}
	case "M":
		if m.page == pageMissed {
			return m, m.mutate(func(ctx context.Context) error {
				_, err := m.svc.Migrate(ctx, m.svc.Today())
				return err
			})
		}
	case "a":
		if m.page == pageMissed {
			return m, nil
		}
		m.mode = modeAdd
		m.input.Placeholder = "Title"
		m.input.SetValue("")
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.pending = ""
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if m.mode == modeAdd && m.page == pageUpcoming && m.addBucket == task.Week {
			// This Week has no default date; ask for one.
			m.pending = value
			m.mode = modeDate
			m.input.Placeholder = "Date (friday, 6/14, +3d)"
			return m, nil
		}
		title := value
		var due task.Date
		if m.mode == modeDate {
			title = m.pending
			if value != "" {
				d, err := timeutil.ParseDate(value, m.svc.Today())
				if err != nil {
					m.setError(err)
					return m, nil
				}
				due = d
			}
		}
		m.mode = modeNormal
		m.pending = ""
		m.input.Blur()
		return m, m.add(title, due)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// add creates a task through the form of the current page.
func (m Model) add(title string, due task.Date) tea.Cmd {
	switch m.page {
	case pageUpcoming:
		b := m.addBucket
		return m.mutate(func(ctx context.Context) error {
			_, err := m.upcoming.Add(ctx, b, title, due, "")
			return err
		})
	case pageToday:
		return m.mutate(func(ctx context.Context) error {
			_, err := m.today.Add(ctx, title, "")
			return err
		})
	case pageCalendar:
		return m.mutate(func(ctx context.Context) error {
			_, err := m.calendar.Add(ctx, title, "")
			return err
		})
	case pageTag:
		tv := m.tagView
		return m.mutate(func(ctx context.Context) error {
			_, err := tv.Add(ctx, title)
			return err
		})
	}
	return nil
}

// mutate runs fn off the event loop. The bus handler registered by Run
// reports the change back as a changedMsg.
func (m Model) mutate(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) reconcile(ev store.Event) tea.Cmd {
	return m.mutate(func(ctx context.Context) error {
		return m.svc.Reconcile(ctx, ev)
	})
}

func (m *Model) switchPage(p page) {
	if int(p) >= len(pageNames) {
		return
	}
	m.page = p
	m.cursor = 0
}

// nextTagPage opens the page of the tag after the current one.
func (m *Model) nextTagPage() {
	counts := m.sidebar.Counts()
	if len(counts) == 0 {
		return
	}
	next := 0
	if m.page == pageTag && m.tagView != nil {
		current := m.tagView.Tag().Name
		for i, c := range counts {
			if c.Tag.Name == current {
				next = (i + 1) % len(counts)
				break
			}
		}
	}
	tv := view.NewTag(counts[next].Tag.Slug())
	if err := tv.Mount(m.ctx, m.svc); err != nil {
		m.setError(err)
		return
	}
	if m.tagView != nil {
		m.tagView.Unmount()
	}
	m.tagView = tv
	m.page = pageTag
	m.cursor = 0
}

// rows is the flat list of tasks the cursor moves over on the current page.
func (m Model) rows() task.Collection {
	switch m.page {
	case pageUpcoming:
		b := m.upcoming.Buckets()
		var out task.Collection
		for _, bucket := range task.AllBuckets() {
			out = append(out, b.Get(bucket)...)
		}
		return out
	case pageToday:
		return m.today.Tasks()
	case pageCalendar:
		_, c := m.calendar.Selected()
		return c
	case pageMissed:
		return m.missed.Tasks()
	case pageTag:
		if m.tagView != nil {
			return m.tagView.Tasks()
		}
	}
	return nil
}

func (m Model) selected() (task.Task, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return task.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the tabs, the sidebar, the current page and the status line.
func (m Model) View() string {
	th := m.theme
	width := m.width
	if width == 0 {
		width = 80
	}
	mainWidth := width - sidebarWidth - 4
	if mainWidth < 20 {
		mainWidth = 20
	}

	tabs := make([]string, 0, len(pageNames)+1)
	for i, name := range pageNames {
		style := th.Tab
		if page(i) == m.page {
			style = th.ActiveTab
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, name)))
	}
	if m.page == pageTag && m.tagView != nil {
		tabs = append(tabs, th.ActiveTab.Render("#"+m.tagView.Tag().Slug()))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(),
		lipgloss.NewStyle().Width(mainWidth).PaddingLeft(2).Render(m.renderPage(mainWidth-2)),
	)

	var footer strings.Builder
	switch m.mode {
	case modeAdd:
		label := "Add"
		if m.page == pageUpcoming {
			label = "Add to " + m.addBucket.Title()
		}
		footer.WriteString(label + ": " + m.input.View() + "\n")
	case modeDate:
		footer.WriteString(fmt.Sprintf("Due date for %q: %s\n", m.pending, m.input.View()))
	case modeHelp:
		footer.WriteString(th.Help.Render(wordwrap.String(helpText, width)) + "\n")
	}
	status := th.Status
	if m.errored {
		status = th.Error
	}
	footer.WriteString(status.Render(m.status))

	return header + "\n\n" + body + "\n" + footer.String()
}

func (m Model) renderSidebar() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Section.Render("Tags") + "\n")
	for _, c := range m.sidebar.Counts() {
		name := truncate.StringWithTail(c.Tag.Name, sidebarWidth-8, "…")
		b.WriteString(fmt.Sprintf("%s %d\n", th.TagStyle(c.Tag).Render("● "+name), c.Count))
	}
	if n := m.sidebar.MissedCount(); n > 0 {
		b.WriteString("\n" + th.Missed.Render(fmt.Sprintf("%d missed", n)))
	}
	return th.Sidebar.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderPage(width int) string {
	th := m.theme
	var b strings.Builder
	row := 0
	section := func(title string, c task.Collection) {
		b.WriteString(th.Section.Render(fmt.Sprintf("%s (%d)", title, len(c))) + "\n")
		if len(c) == 0 {
			b.WriteString(th.Due.Render("  none") + "\n")
		}
		for _, t := range c {
			b.WriteString(m.renderRow(t, row == m.cursor, width) + "\n")
			row++
		}
		b.WriteString("\n")
	}

	switch m.page {
	case pageUpcoming:
		buckets := m.upcoming.Buckets()
		for _, bucket := range task.AllBuckets() {
			section(bucket.Title(), buckets.Get(bucket))
		}
	case pageToday:
		section(m.today.Date().Format("Monday, January 2"), m.today.Tasks())
	case pageCalendar:
		d, c := m.calendar.Selected()
		b.WriteString(m.renderMonth(d) + "\n\n")
		section(d.Format("Monday, January 2"), c)
	case pageMissed:
		section("Missed", m.missed.Tasks())
	case pageTag:
		if m.tagView != nil {
			t := m.tagView.Tag()
			section(th.TagStyle(t).Render(t.Name), m.tagView.Tasks())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderRow(t task.Task, selected bool, width int) string {
	th := m.theme
	marker := "  "
	if selected {
		marker = th.Cursor.Render("›") + " "
	}
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = "[x]"
	}

	var extra []string
	if t.HasDue() {
		style := th.Due
		if task.IsMissed(t, m.svc.Now()) {
			style = th.Missed
		}
		extra = append(extra, style.Render(t.DueDate.Format("Mon Jan 2")))
	}
	if t.Tag != nil {
		extra = append(extra, th.TagStyle(*t.Tag).Render("#"+t.Tag.Slug()))
	}
	if n := len(t.Subtasks); n > 0 {
		extra = append(extra, th.Due.Render(fmt.Sprintf("%d/%d", t.SubtasksDone(), n)))
	}

	room := width - 6
	if room < 8 {
		room = 8
	}
	title = truncate.StringWithTail(title, uint(room), "…")
	if t.Completed {
		title = th.Done.Render(title)
	}
	line := marker + box + " " + title
	if len(extra) > 0 {
		line += "  " + strings.Join(extra, " ")
	}
	return line
}

// renderMonth draws the month containing on, in the configured week order.
func (m Model) renderMonth(on task.Date) string {
	th := m.theme
	ws := m.svc.WeekStart()
	today := m.svc.Today()

	var b strings.Builder
	b.WriteString(th.Section.Render(on.Format("January 2006")) + "\n")
	for i := 0; i < 7; i++ {
		b.WriteString(th.Day.Render(fmt.Sprintf("%2s ", weekdayAbbrev((int(ws)+i)%7))))
	}
	b.WriteString("\n")

	first := task.NewDate(on.Year, on.Month, 1)
	pad := (int(first.Weekday()) - int(ws) + 7) % 7
	b.WriteString(strings.Repeat("   ", pad))
	col := pad
	for d := first; d.Month == on.Month; d = d.AddDays(1) {
		style := th.Day
		switch {
		case d == on:
			style = th.Selected
		case d == today:
			style = th.Today
		case m.calendar.HasTasks(d):
			style = th.BusyDay
		}
		b.WriteString(style.Render(fmt.Sprintf("%2d", d.Day)) + " ")
		col++
		if col == 7 {
			col = 0
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func weekdayAbbrev(d int) string {
	return []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}[d]
}
