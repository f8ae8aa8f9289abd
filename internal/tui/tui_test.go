package tui

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shopcart/internal/cart"
	"github.com/Makepad-fr/shopcart/internal/catalog"
	"github.com/Makepad-fr/shopcart/internal/model"
	"github.com/Makepad-fr/shopcart/internal/store/memstore"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

func newTestModel(t *testing.T, opt Options) (Model, *cart.Store, *memstore.Store) {
	t.Helper()
	cat, err := catalog.Default("shoe")
	require.NoError(t, err)
	slot := memstore.New()
	st := cart.New(slot, "shoeCart")
	st.Load(context.Background())

	m := New(context.Background(), st, cat, opt)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), st, slot
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestAddSelected(t *testing.T) {
	m, st, _ := newTestModel(t, Options{SiteTitle: "Shoe Store"})

	m, cmd := press(t, m, keyEnter, runeKey("a"), keyDown, keyEnter)
	require.NotNil(t, cmd, "a tick clears the notification")

	assert.Equal(t, []model.LineItem{
		{Name: "Red Sneaker", Price: 59.99, Quantity: 2},
		{Name: "Trail Runner", Price: 89.00, Quantity: 1},
	}, st.Items())
	assert.Equal(t, "✓ Trail Runner added to cart!", m.note)
	assert.Contains(t, m.list.Title, "3")
	assert.Contains(t, m.View(), "Trail Runner added to cart!")
}

func TestNotificationClears(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	m, _ = press(t, m, keyEnter)
	require.NotEmpty(t, m.note)

	// a stale tick from an earlier add must not clear a newer note
	next, _ := m.Update(clearNoteMsg{seq: m.noteSeq - 1})
	m = next.(Model)
	assert.NotEmpty(t, m.note)

	next, _ = m.Update(clearNoteMsg{seq: m.noteSeq})
	m = next.(Model)
	assert.Empty(t, m.note)
}

func TestCategoryCycle(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	assert.Len(t, m.list.Items(), 6)

	m, _ = press(t, m, keyTab)
	assert.Equal(t, "sneakers", m.categories[m.catIdx])
	assert.Len(t, m.list.Items(), 2)
	assert.Contains(t, m.list.Title, "sneakers")

	m, _ = press(t, m, keyTab, keyTab, keyTab)
	assert.Equal(t, catalog.AllCategories, m.categories[m.catIdx], "wraps around")
	assert.Len(t, m.list.Items(), 6)
}

func TestSummaryView(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runeKey("s"))
	assert.True(t, m.showSummary)
	assert.Contains(t, m.View(), "Your cart is empty!")

	// adding is disabled while the summary is open
	m, _ = press(t, m, keyEnter)
	assert.Contains(t, m.View(), "Your cart is empty!")

	m, _ = press(t, m, keyEsc, keyEnter, runeKey("s"))
	view := m.View()
	assert.Contains(t, view, "Red Sneaker x1 - $59.99")
	assert.Contains(t, view, "Total: $59.99")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	_, cmd := press(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFilteringSwallowsShortcuts(t *testing.T) {
	m, st, _ := newTestModel(t, Options{})

	m, _ = press(t, m, runeKey("/"))
	require.Equal(t, list.Filtering, m.list.FilterState())

	m, _ = press(t, m, runeKey("a"), runeKey("s"))
	assert.False(t, m.showSummary)
	assert.Zero(t, st.TotalItemCount())
}

func TestSearchMatchesCatalog(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})

	var targets []string
	for _, it := range m.list.Items() {
		targets = append(targets, it.FilterValue())
	}
	names := func(ranks []list.Rank) []string {
		var out []string
		for _, r := range ranks {
			out = append(out, m.list.Items()[r.Index].(productItem).p.Name)
		}
		return out
	}
	catNames := func(ps []model.Product) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	tests := []struct {
		term string
		want []string
	}{
		{"lcr", nil},         // letters in order, but not a substring
		{"sneaker red", nil}, // spans two fields
		{"LEATHER", []string{"Leather Loafer", "Court Classic"}},
		{"running", []string{"Trail Runner", "Road Racer"}},
		{"suede", []string{"Chelsea Boot"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := names(m.list.Filter(tt.term, targets))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, catNames(m.cat.Search(tt.term)), got, "same result as products --search")
		})
	}
}

func TestSlotChangeReloads(t *testing.T) {
	ch := make(chan struct{}, 1)
	m, st, slot := newTestModel(t, Options{Changes: ch})
	require.NotNil(t, m.Init())

	// another process writes the slot
	require.NoError(t, slot.Set(context.Background(), "shoeCart",
		`[{"name":"Chelsea Boot","price":129,"quantity":4}]`))
	ch <- struct{}{}

	msg := waitForChange(ch)()
	require.IsType(t, slotChangedMsg{}, msg)
	next, cmd := m.Update(msg)
	m = next.(Model)

	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, 4, st.TotalItemCount())
	assert.Contains(t, m.list.Title, "4")
}

func TestWaitForChange_Closed(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	assert.Nil(t, waitForChange(ch)())
}

func TestInit_NoWatcher(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	assert.Nil(t, m.Init())
}
