package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shopcart/internal/model"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

func TestSummaryLines(t *testing.T) {
	sum := model.Summary{
		Lines: []model.SummaryLine{
			{Name: "Red Sneaker", Quantity: 2, UnitPrice: 59.99, LineTotal: 119.98},
			{Name: "Blue Cap", Quantity: 1, UnitPrice: 12.5, LineTotal: 12.5},
		},
		ItemCount:  3,
		GrandTotal: 132.48,
	}
	got := SummaryLines(sum)
	assert.Equal(t, []string{
		"Items in your cart:",
		"",
		"Red Sneaker x2 - $119.98",
		"Blue Cap x1 - $12.50",
		"",
		"Total: $132.48",
	}, got)
}

func TestSummaryLines_Empty(t *testing.T) {
	assert.Equal(t, []string{"Your cart is empty!"}, SummaryLines(model.Summary{}))
}

func TestBadge(t *testing.T) {
	assert.Empty(t, Badge(0))
	assert.Contains(t, Badge(3), "3")
}

func TestNotification(t *testing.T) {
	assert.Equal(t, "✓ Lemon Tart added to cart!", Notification("Lemon Tart"))
}

func TestProductLines(t *testing.T) {
	lines := ProductLines([]model.Product{{Name: "Gele", Price: 35.25, Category: "accessories"}})
	require.Len(t, lines, 1)
	assert.Equal(t, " 1. Gele $35.25 [accessories]", lines[0])

	assert.Equal(t, []string{"no products match"}, ProductLines(nil))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", maxNameWidth+5)
	got := truncate(long)
	assert.Len(t, []rune(got), maxNameWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestOKFail(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	assert.Equal(t, "✔ added\n✖ nope\n", buf.String())
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("classic")

	SetTheme("mono")
	var buf bytes.Buffer
	Fail(&buf, "nope")
	assert.Equal(t, "error: nope\n", buf.String())

	SetTheme("unknown")
	assert.Equal(t, "✔", Current().SymOK)
}

func TestPanel(t *testing.T) {
	out := Panel([]string{"a", "bb"})
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "bb")
	assert.Equal(t, 4, strings.Count(out, "\n")+1, "top border, two lines, bottom border")
}
