package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCart_AddItem(t *testing.T) {
	c := New("sess-1")

	c.AddItem(Item{ID: "a", UnitPrice: dec("10"), Quantity: 1})
	c.AddItem(Item{ID: "b", UnitPrice: dec("5.5"), Quantity: 2})
	c.AddItem(Item{ID: "a", UnitPrice: dec("10"), Quantity: 3})

	assert.Len(t, c.Items, 2)
	item, ok := c.Find("a")
	assert.True(t, ok)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 6, c.Count())
}

func TestCart_RemoveItem(t *testing.T) {
	c := New("sess-1")
	c.AddItem(Item{ID: "a", Quantity: 1})
	c.AddItem(Item{ID: "b", Quantity: 1})

	c.RemoveItem("a")
	c.RemoveItem("missing")

	assert.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ID)
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := New("sess-1")
	c.AddItem(Item{ID: "a", Quantity: 1})
	c.AddItem(Item{ID: "b", Quantity: 1})

	c.UpdateQuantity("a", 7)
	item, _ := c.Find("a")
	assert.Equal(t, 7, item.Quantity)

	c.UpdateQuantity("b", 0)
	_, ok := c.Find("b")
	assert.False(t, ok)

	c.UpdateQuantity("missing", 3)
	assert.Len(t, c.Items, 1)
}

func TestCart_Clear(t *testing.T) {
	c := New("sess-1")
	c.AddItem(Item{ID: "a", Quantity: 1})

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Items)
	assert.True(t, c.Total().IsZero())
}

func TestCart_Total(t *testing.T) {
	fee := dec("10")
	c := New("sess-1")
	c.AddItem(Item{ID: "a", UnitPrice: dec("100"), Quantity: 2, ShippingFee: &fee})
	c.AddItem(Item{ID: "b", UnitPrice: dec("0.10"), Quantity: 3})

	// shipping is not part of the cart total
	assert.True(t, c.Total().Equal(dec("200.30")), c.Total().String())
}

func TestCart_TotalIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for n := 0; n < 100; n++ {
		c := New("sess")
		for i := 0; i < r.Intn(8); i++ {
			c.AddItem(Item{
				ID:        string(rune('a' + i)),
				UnitPrice: decimal.New(r.Int63n(1_000_000), -2),
				Quantity:  1 + r.Intn(20),
			})
		}

		first := c.Total()
		second := c.Total()
		assert.True(t, first.Equal(second))
	}
}

func TestCart_TotalMatchesSum(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for n := 0; n < 200; n++ {
		c := New("sess")
		expectedCents := int64(0)
		for i := 0; i < 1+r.Intn(10); i++ {
			cents := r.Int63n(500_000)
			qty := 1 + r.Intn(50)
			expectedCents += cents * int64(qty)
			c.AddItem(Item{ID: string(rune('a' + i)), UnitPrice: decimal.New(cents, -2), Quantity: qty})
		}

		assert.True(t, c.Total().Equal(decimal.New(expectedCents, -2)))
	}
}
