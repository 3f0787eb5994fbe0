package port

import (
	"context"

	"github.com/nikolayk812/beautyshop/internal/domain"
)

// PaymentConfirmer pushes a payment prompt to the customer's phone and
// blocks until it is approved, declined or ctx is done.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, req domain.PaymentRequest) (domain.PaymentConfirmation, error)
}
