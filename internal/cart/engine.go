package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Item is one line of a cart. Display fields and price are fixed when the
// line is first added; only Quantity changes afterwards.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LineTotal returns price * quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Candidate is the input to Add.
type Candidate struct {
	ID    string
	Name  string
	Image string
	Size  string
	Price decimal.Decimal
}

// Snapshot is a read-only copy of the cart handed to views and checkout.
type Snapshot struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ItemCount returns the number of units across all lines.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the snapshot has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// Engine owns the ordered item list of one cart. All mutators are serialized
// and the total is always derived from the items.
type Engine struct {
	mu    sync.RWMutex
	items []Item
	index map[string]int
}

// NewEngine returns an empty cart.
func NewEngine() *Engine {
	return &Engine{index: map[string]int{}}
}

// Restore rebuilds a cart from persisted lines. Duplicate ids collapse into
// the first occurrence with quantities summed; quantity is floored at 1 and
// negative prices become 0.
func Restore(items []Item) *Engine {
	e := NewEngine()
	for _, item := range items {
		item.Quantity = clampQuantity(item.Quantity)
		item.Price = clampPrice(item.Price)
		if pos, ok := e.index[item.ID]; ok {
			e.items[pos].Quantity += item.Quantity
			continue
		}
		e.index[item.ID] = len(e.items)
		e.items = append(e.items, item)
	}
	return e
}

// Add increments the quantity of an existing line or appends a new one with
// quantity 1. Existing display fields and price are left untouched.
func (e *Engine) Add(candidate Candidate) Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pos, ok := e.index[candidate.ID]; ok {
		e.items[pos].Quantity++
		return e.items[pos]
	}
	item := Item{
		ID:       candidate.ID,
		Name:     candidate.Name,
		Image:    candidate.Image,
		Size:     candidate.Size,
		Price:    clampPrice(candidate.Price),
		Quantity: 1,
	}
	e.index[item.ID] = len(e.items)
	e.items = append(e.items, item)
	return item
}

// UpdateQuantity sets the quantity of an existing line, flooring at 1. It
// reports whether the id was present; unknown ids are a no-op.
func (e *Engine) UpdateQuantity(id string, quantity int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.index[id]
	if !ok {
		return false
	}
	e.items[pos].Quantity = clampQuantity(quantity)
	return true
}

// Remove deletes the line with id and reports whether it existed.
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.index[id]
	if !ok {
		return false
	}
	e.items = append(e.items[:pos], e.items[pos+1:]...)
	delete(e.index, id)
	for i := pos; i < len(e.items); i++ {
		e.index[e.items[i].ID] = i
	}
	return true
}

// Clear empties the cart.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.index = map[string]int{}
}

// Total sums price * quantity over every line.
func (e *Engine) Total() decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sumItems(e.items)
}

// Len returns the number of distinct lines.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

// Snapshot copies the current lines and total.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	items := make([]Item, len(e.items))
	copy(items, e.items)
	return Snapshot{Items: items, Total: sumItems(items)}
}

func sumItems(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

func clampPrice(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}
