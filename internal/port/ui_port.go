package port

import (
	"github.com/nikolayk812/beautyshop/internal/domain"
)

type Notifier interface {
	Notify(n domain.Notification)
}

type Navigator interface {
	RedirectToCart()
	ShowInvoice(orderID string)
}
