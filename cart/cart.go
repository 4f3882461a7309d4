// Package cart holds the transient shopping cart: an ordered list of menu
// lines with running totals, plus the stores that keep one cart per user.
package cart

import (
	"github.com/shopspring/decimal"
)

// Item is one cart line.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url,omitempty"`
}

// Cart keeps lines in insertion order. Quantities are always >= 1 for
// lines that are present.
type Cart struct {
	Items []Item `json:"items"`
}

// Add increments the line for item.ID, or appends it with quantity 1.
func (c *Cart) Add(item Item) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of an existing line. Zero or negative
// quantities remove the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Decrement lowers a line by one, removing it when it reaches zero.
func (c *Cart) Decrement(id string) {
	if it, ok := c.Find(id); ok {
		c.UpdateQuantity(id, it.Quantity-1)
	}
}

// Subtract lowers each line by the quantity of the matching line in taken,
// removing lines that reach zero. Lines not in taken are kept.
func (c *Cart) Subtract(taken []Item) {
	for _, t := range taken {
		if it, ok := c.Find(t.ID); ok {
			c.UpdateQuantity(t.ID, it.Quantity-t.Quantity)
		}
	}
}

func (c *Cart) Remove(id string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

func (c *Cart) Find(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Total is Σ price × quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Count is Σ quantity.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Clone returns a deep copy safe to hand out of a store.
func (c *Cart) Clone() *Cart {
	out := &Cart{}
	if len(c.Items) > 0 {
		out.Items = append([]Item(nil), c.Items...)
	}
	return out
}
