// Package cart implements the shopping-cart state engine: an ordered
// collection of line items with derived totals, persisted through the
// key-value store on every mutation so it survives reloads. The cart
// is independent of the session: it survives login and logout.
package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/client/store"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	// ID is the product identifier; at most one line exists per ID.
	ID int64 `json:"id"`
	// Name is the product display name.
	Name string `json:"nom"`
	// Price is the unit price.
	Price float64 `json:"prix"`
	// Quantity is the number of units, never negative.
	Quantity int `json:"quantity"`
}

// Cart holds the line items and owns all mutations to them.
// Invalid mutation inputs are logged and ignored rather than returned
// as errors, mirroring how the storefront treats them.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
	store *store.Store
	log   *zap.Logger
}

// New constructs a Cart hydrated from the persistent store. A missing
// or malformed stored cart yields an empty one. The returned cart is
// fully loaded; callers never observe partial hydration.
func New(st *store.Store, log *zap.Logger) *Cart {
	c := &Cart{store: st, log: log}
	if raw, ok := st.Get(store.KeyCart); ok {
		var items []LineItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Warn("discarding malformed stored cart", zap.Error(err))
		} else {
			c.items = items
		}
	}
	return c
}

// AddItem puts item in the cart with quantity 1, or increments the
// existing line's quantity if the product is already present. Items
// without a product ID or with a non-finite or negative price are
// rejected.
func (c *Cart) AddItem(item LineItem) {
	if item.ID == 0 || item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
		c.log.Warn("rejecting invalid cart item",
			zap.Int64("id", item.ID), zap.Float64("prix", item.Price))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			q := c.items[i].Quantity + 1
			if q < 0 {
				q = 0
			}
			c.items[i].Quantity = q
			c.persist()
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
	c.persist()
}

// RemoveItem deletes the line item with the given product ID.
// Absent IDs are a no-op.
func (c *Cart) RemoveItem(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return
		}
	}
}

// UpdateQuantity replaces the quantity of the line with the given ID.
// quantity is parsed as a non-negative integer; parse failures and
// negative values are logged and ignored. Zero is allowed and does not
// remove the line.
func (c *Cart) UpdateQuantity(id int64, quantity string) {
	q, err := strconv.Atoi(quantity)
	if err != nil || q < 0 {
		c.log.Warn("rejecting invalid quantity",
			zap.Int64("id", id), zap.String("quantity", quantity))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = q
			c.persist()
			return
		}
	}
}

// Clear empties the cart and removes its persisted representation.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	if err := c.store.Remove(store.KeyCart); err != nil {
		c.log.Error("failed to clear persisted cart", zap.Error(err))
	}
}

// Items returns a snapshot copy of the current line items.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalPrice returns sum(price * quantity) over all lines, rounded to
// two decimals, as a string such as "5.50".
func (c *Cart) TotalPrice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.StringFixed(2)
}

// TotalQuantity returns the sum of quantities over all lines.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalDistinctProducts returns the number of unique product IDs in the cart.
func (c *Cart) TotalDistinctProducts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[int64]struct{}, len(c.items))
	for _, it := range c.items {
		seen[it.ID] = struct{}{}
	}
	return len(seen)
}

// persist writes the full cart to the store. Callers hold c.mu.
// Persistence failures are logged; in-memory state stays authoritative.
func (c *Cart) persist() {
	data, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := c.store.Set(store.KeyCart, string(data)); err != nil {
		c.log.Error("failed to persist cart", zap.Error(err))
	}
}
