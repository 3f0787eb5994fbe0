package port

import (
	"github.com/nikolayk812/beautyshop/internal/domain"
)

// CartStore is the part of the cart the checkout is allowed to touch:
// it reads snapshots and clears the cart after an order is placed.
type CartStore interface {
	Snapshot() domain.Cart
	Clear()
}
