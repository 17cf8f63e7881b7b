package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemTypeMarketplace ItemType = "marketplace"
	ItemTypeService     ItemType = "service"
	ItemTypeExperience  ItemType = "experience"
)

// Item is one line of the cart. ID references the business listing.
type Item struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Quantity    int              `json:"quantity"`
	ShippingFee *decimal.Decimal `json:"shippingFee,omitempty"`
	Type        ItemType         `json:"type"`
}

// LineTotal is UnitPrice × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the line items of one cart session. Callers are responsible for
// passing sane input; none of the mutators fail.
type Cart struct {
	SessionID string    `json:"sessionId"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []Item{}}
}

func (c *Cart) index(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the item with the given id.
func (c *Cart) Find(id string) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// AddItem appends item, or adds its quantity to an existing line with the same id.
func (c *Cart) AddItem(item Item) {
	if i := c.index(item.ID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

func (c *Cart) RemoveItem(id string) {
	if i := c.index(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line; qty <= 0 removes it.
func (c *Cart) UpdateQuantity(id string, qty int) {
	if qty <= 0 {
		c.RemoveItem(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Total is Σ unitPrice × quantity. Shipping and tax are not included.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
