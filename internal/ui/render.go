package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/shopcart/internal/model"
)

const maxNameWidth = 60

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// Panel frames lines in the theme border.
func Panel(lines []string) string {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(strings.Join(lines, "\n"))
}

// Money formats an amount the way the storefronts print prices.
func Money(v float64) string { return fmt.Sprintf("$%.2f", v) }

// Badge is the cart icon counter. It is empty when the cart is, the same
// way the page hides the badge at zero.
func Badge(count int) string {
	if count <= 0 {
		return ""
	}
	t := Current()
	return t.Accent.Render(fmt.Sprintf("%s %d", t.SymCart, count))
}

// Notification is the transient message shown after an add.
func Notification(name string) string {
	return "✓ " + name + " added to cart!"
}

const emptyCart = "Your cart is empty!"

// SummaryLines renders one line per cart line and a closing total.
func SummaryLines(sum model.Summary) []string {
	if sum.Empty() {
		return []string{emptyCart}
	}
	t := Current()
	lines := []string{t.Title.Render("Items in your cart:"), ""}
	for _, l := range sum.Lines {
		lines = append(lines, fmt.Sprintf("%s x%d - %s",
			truncate(l.Name), l.Quantity, t.Price.Render(Money(l.LineTotal))))
	}
	lines = append(lines, "", t.Title.Render("Total: "+Money(sum.GrandTotal)))
	return lines
}

// ProductLines renders a numbered catalog listing.
func ProductLines(products []model.Product) []string {
	t := Current()
	if len(products) == 0 {
		return []string{t.Muted.Render("no products match")}
	}
	out := make([]string, 0, len(products))
	for i, p := range products {
		out = append(out, fmt.Sprintf("%s %s %s %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			truncate(p.Name),
			t.Price.Render(Money(p.Price)),
			t.Muted.Render("["+p.Category+"]"),
		))
	}
	return out
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxNameWidth {
		return string(r[:maxNameWidth-3]) + "..."
	}
	return s
}
