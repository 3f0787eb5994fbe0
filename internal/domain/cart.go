package domain

import (
	"fmt"
	"slices"
)

type ProductID int64

// Product is the catalog reference a shopper adds to the cart.
type Product struct {
	ID    ProductID
	Name  string
	Price Money
	Image string
}

func (p Product) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("product ID is empty")
	}
	if p.Price.Amount.IsNegative() {
		return fmt.Errorf("product[%d] price is negative", p.ID)
	}

	return nil
}

type LineItem struct {
	ProductID  ProductID
	Name       string
	UnitPrice  Money
	Image      string
	Quantity   int
	TotalPrice Money
}

func NewLineItem(p Product) LineItem {
	item := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
	item.TotalPrice = item.UnitPrice.MulInt(item.Quantity)

	return item
}

// WithQuantity returns a copy of the item holding qty units with a recomputed total.
func (i LineItem) WithQuantity(qty int) LineItem {
	i.Quantity = qty
	i.TotalPrice = i.UnitPrice.MulInt(qty)
	return i
}

// Cart is a snapshot of the cart contents with totals derived from Items.
type Cart struct {
	Items         []LineItem
	TotalQuantity int
	TotalAmount   Money
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(id ProductID) (LineItem, bool) {
	idx := slices.IndexFunc(c.Items, func(i LineItem) bool { return i.ProductID == id })
	if idx < 0 {
		return LineItem{}, false
	}
	return c.Items[idx], true
}

func (c Cart) Clone() Cart {
	c.Items = slices.Clone(c.Items)
	return c
}
