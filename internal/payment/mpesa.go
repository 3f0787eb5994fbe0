package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"go.uber.org/zap"
)

var ErrDeclined = errors.New("the transaction was cancelled or failed")

const (
	DefaultProcessingDelay = 3 * time.Second
	DefaultSettleDelay     = 1500 * time.Millisecond
	DefaultSuccessRate     = 0.8
)

// MpesaSimulator stands in for an M-Pesa STK push: the prompt is "answered"
// after ProcessingDelay, approved with probability SuccessRate, and the
// approval is reported after a further SettleDelay.
type MpesaSimulator struct {
	processingDelay time.Duration
	settleDelay     time.Duration
	successRate     float64
	random          func() float64
	now             func() time.Time
	logger          *zap.Logger
}

type Option func(*MpesaSimulator)

func WithDelays(processing, settle time.Duration) Option {
	return func(s *MpesaSimulator) {
		s.processingDelay = processing
		s.settleDelay = settle
	}
}

func WithSuccessRate(rate float64) Option {
	return func(s *MpesaSimulator) {
		s.successRate = rate
	}
}

func WithRandom(random func() float64) Option {
	return func(s *MpesaSimulator) {
		s.random = random
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *MpesaSimulator) {
		s.now = now
	}
}

func NewMpesaSimulator(logger *zap.Logger, opts ...Option) *MpesaSimulator {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &MpesaSimulator{
		processingDelay: DefaultProcessingDelay,
		settleDelay:     DefaultSettleDelay,
		successRate:     DefaultSuccessRate,
		random:          rand.Float64,
		now:             time.Now,
		logger:          logger.Named("mpesa"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MpesaSimulator) Confirm(ctx context.Context, req domain.PaymentRequest) (domain.PaymentConfirmation, error) {
	phone, err := domain.ValidatePhone(req.PhoneNumber)
	if err != nil {
		return domain.PaymentConfirmation{}, err
	}
	if !req.Amount.Amount.IsPositive() {
		return domain.PaymentConfirmation{}, fmt.Errorf("amount[%s] must be positive", req.Amount.Amount)
	}

	s.logger.Info("stk push sent", zap.String("phone", phone), zap.Stringer("amount", req.Amount))

	if err := sleep(ctx, s.processingDelay); err != nil {
		return domain.PaymentConfirmation{}, err
	}

	if s.random() >= s.successRate {
		s.logger.Info("stk push declined", zap.String("phone", phone))
		return domain.PaymentConfirmation{}, ErrDeclined
	}

	if err := sleep(ctx, s.settleDelay); err != nil {
		return domain.PaymentConfirmation{}, err
	}

	now := s.now()
	confirmation := domain.PaymentConfirmation{
		TransactionID: fmt.Sprintf("MPX%d", now.UnixMilli()),
		PhoneNumber:   phone,
		Amount:        req.Amount,
		Timestamp:     now.UTC(),
	}

	s.logger.Info("stk push approved",
		zap.String("phone", phone),
		zap.String("transaction_id", confirmation.TransactionID))

	return confirmation, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
