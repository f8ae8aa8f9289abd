// Package tui is the interactive storefront: browse the catalog, narrow it by
// category or search, and add products to the cart.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/shopcart/internal/cart"
	"github.com/Makepad-fr/shopcart/internal/catalog"
	"github.com/Makepad-fr/shopcart/internal/model"
	"github.com/Makepad-fr/shopcart/internal/ui"
)

// notificationTTL matches how long the page keeps its toast on screen.
const notificationTTL = 2 * time.Second

// productItem adapts model.Product to bubbles/list.Item.
type productItem struct{ p model.Product }

func (i productItem) Title() string       { return i.p.Name }
func (i productItem) Description() string { return i.p.Description }

// FilterValue keeps the searchable fields on separate lines so a term can
// never match across two of them. The filter input is single-line.
func (i productItem) FilterValue() string {
	return i.p.Name + "\n" + i.p.Description + "\n" + i.p.Category
}

// substringFilter is the list's "/" search: case-insensitive substring
// match, results kept in catalog order. Same rules as catalog.Search.
func substringFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	var ranks []list.Rank
	for i, t := range targets {
		if strings.Contains(strings.ToLower(t), term) {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

// Single-line delegate, same shape as the todo list rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(productItem)
	if !ok {
		return
	}
	t := ui.Current()
	line := fmt.Sprintf("%s  %s  %s", it.p.Name, t.Price.Render(ui.Money(it.p.Price)), t.Muted.Render("["+it.p.Category+"]"))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type (
	slotChangedMsg struct{}
	clearNoteMsg   struct{ seq int }
)

// Options configure a Model.
type Options struct {
	SiteTitle string
	// Changes, when set, delivers a value each time the cart slot is
	// modified outside this program. The model reloads the cart on each.
	Changes <-chan struct{}
}

// Model is the Bubble Tea model for the storefront.
type Model struct {
	ctx   context.Context
	store *cart.Store
	cat   *catalog.Catalog
	opt   Options

	list       list.Model
	categories []string // AllCategories first
	catIdx     int

	showSummary bool
	note        string
	noteSeq     int
}

var (
	addBind     = key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter/a", "add to cart"))
	catBind     = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category"))
	summaryBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cart"))
)

// New builds the model. store should already be loaded.
func New(ctx context.Context, store *cart.Store, cat *catalog.Catalog, opt Options) Model {
	l := list.New(toItems(cat.Filter(catalog.AllCategories)), itemDelegate{}, 80, 20)
	t := ui.Current()
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Filter = substringFilter
	l.Styles.Title = t.Title
	l.Styles.HelpStyle = t.Help
	l.Styles.PaginationStyle = t.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("product", "products")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, catBind, summaryBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, catBind, summaryBind} }

	m := Model{
		ctx:        ctx,
		store:      store,
		cat:        cat,
		opt:        opt,
		list:       l,
		categories: append([]string{catalog.AllCategories}, cat.Categories()...),
	}
	m.list.Title = m.title()
	return m
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, store *cart.Store, cat *catalog.Catalog, opt Options) error {
	p := tea.NewProgram(New(ctx, store, cat, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func toItems(ps []model.Product) []list.Item {
	out := make([]list.Item, 0, len(ps))
	for _, p := range ps {
		out = append(out, productItem{p: p})
	}
	return out
}

func (m Model) title() string {
	name := m.opt.SiteTitle
	if name == "" {
		name = m.cat.Site
	}
	parts := []string{name, "· " + m.categories[m.catIdx]}
	if b := ui.Badge(m.store.TotalItemCount()); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, "  ")
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return slotChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	if m.opt.Changes != nil {
		return waitForChange(m.opt.Changes)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-5)
		return m, nil

	case slotChangedMsg:
		m.store.Load(m.ctx)
		m.list.Title = m.title()
		return m, waitForChange(m.opt.Changes)

	case clearNoteMsg:
		if msg.seq == m.noteSeq {
			m.note = ""
		}
		return m, nil

	case tea.KeyMsg:
		// While typing a search, every key belongs to the filter input.
		if m.list.FilterState() == list.Filtering {
			break
		}
		if m.showSummary {
			switch msg.String() {
			case "s", "esc":
				m.showSummary = false
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "a":
			return m.addSelected()
		case "tab":
			m.catIdx = (m.catIdx + 1) % len(m.categories)
			m.list.ResetFilter()
			cmd := m.list.SetItems(toItems(m.cat.Filter(m.categories[m.catIdx])))
			m.list.Title = m.title()
			return m, cmd
		case "s":
			m.showSummary = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) addSelected() (tea.Model, tea.Cmd) {
	it, ok := m.list.SelectedItem().(productItem)
	if !ok {
		return m, nil
	}
	m.noteSeq++
	if err := m.store.AddItem(m.ctx, it.p.Name, it.p.Price); err != nil {
		m.note = ui.Current().Error.Render("could not save cart: " + err.Error())
	} else {
		m.note = ui.Notification(it.p.Name)
	}
	m.list.Title = m.title()
	seq := m.noteSeq
	return m, tea.Tick(notificationTTL, func(time.Time) tea.Msg { return clearNoteMsg{seq: seq} })
}

func (m Model) View() string {
	var content string
	if m.showSummary {
		lines := ui.SummaryLines(m.store.Summary())
		lines = append(lines, "", ui.Current().Help.Render("s/esc back • q quit"))
		content = strings.Join(lines, "\n")
	} else {
		content = m.list.View()
	}
	if m.note != "" {
		content += "\n" + ui.Current().Success.Render(m.note)
	}
	return panelString(content)
}

func panelString(inner string) string {
	t := ui.Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(inner)
}
