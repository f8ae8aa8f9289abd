package model

// LineItem is one distinct product in a cart. Name is the dedup key.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Total is the line total (unit price times quantity).
func (it LineItem) Total() float64 { return it.Price * float64(it.Quantity) }

// SummaryLine is the read-only view of a LineItem used by renderers.
type SummaryLine struct {
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// Summary is a derived snapshot of a cart.
type Summary struct {
	Lines      []SummaryLine
	ItemCount  int
	GrandTotal float64
}

// Empty reports whether the summary has no lines.
func (s Summary) Empty() bool { return len(s.Lines) == 0 }
