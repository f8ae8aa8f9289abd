package cart

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Makepad-fr/shopcart/internal/model"
)

// wireItem is the slot format: [{"name":..,"price":..,"quantity":..}, ...].
// A non-finite price is written as null, and null reads back as 0.
type wireItem struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Quantity int      `json:"quantity"`
}

func encode(items []model.LineItem) (string, error) {
	wire := make([]wireItem, len(items))
	for i, it := range items {
		wire[i] = wireItem{Name: it.Name, Quantity: it.Quantity}
		if !math.IsNaN(it.Price) && !math.IsInf(it.Price, 0) {
			p := it.Price
			wire[i].Price = &p
		}
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// decode parses a slot value. Lines sharing a name are folded into the first
// one so the no-duplicate invariant holds even for hand-edited slots; merged
// reports how many lines were folded.
func decode(raw string) (items []model.LineItem, merged int, err error) {
	var wire []wireItem
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, 0, fmt.Errorf("json unmarshal: %w", err)
	}

	items = make([]model.LineItem, 0, len(wire))
	seen := make(map[string]int, len(wire))
	for _, w := range wire {
		if i, ok := seen[w.Name]; ok {
			items[i].Quantity += w.Quantity
			merged++
			continue
		}
		it := model.LineItem{Name: w.Name, Quantity: w.Quantity}
		if w.Price != nil {
			it.Price = *w.Price
		}
		seen[w.Name] = len(items)
		items = append(items, it)
	}
	return items, merged, nil
}
