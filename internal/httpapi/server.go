package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/beautyshop/internal/cart"
	"github.com/nikolayk812/beautyshop/internal/checkout"
	"github.com/nikolayk812/beautyshop/internal/notify"
	"github.com/nikolayk812/beautyshop/internal/port"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const SessionHeader = "X-Session-ID"

type Deps struct {
	// Orders backs order history, invoices and status updates.
	Orders port.OrderRepository
	// Creator places orders from a checkout. Defaults to Orders.
	Creator  port.OrderCreator
	Payments port.PaymentConfirmer
	Currency currency.Unit
	Logger   *zap.Logger

	RequestTimeout time.Duration
	SubmitTimeout  time.Duration
}

type Server struct {
	orders         port.OrderRepository
	creator        port.OrderCreator
	payments       port.PaymentConfirmer
	currency       currency.Unit
	logger         *zap.Logger
	requestTimeout time.Duration
	submitTimeout  time.Duration

	sessions *sessions
}

func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	creator := d.Creator
	if creator == nil {
		creator = d.Orders
	}

	s := &Server{
		orders:         d.Orders,
		creator:        creator,
		payments:       d.Payments,
		currency:       d.Currency,
		logger:         logger.Named("http"),
		requestTimeout: d.RequestTimeout,
		submitTimeout:  d.SubmitTimeout,
	}
	s.sessions = newSessions(s.newSession)

	return s
}

func (s *Server) newSession(id string) *session {
	inbox := notify.NewInbox(notify.DefaultCapacity, s.logger.With(zap.String("session_id", id)))

	return &session{
		id:          id,
		cart:        cart.New(s.currency, inbox),
		inbox:       inbox,
		nav:         &navigator{},
		newCheckout: s.newCheckout,
	}
}

func (s *Server) newCheckout(sess *session) *checkout.Orchestrator {
	return checkout.New(checkout.Deps{
		Cart:          sess.cart,
		Orders:        s.creator,
		Payments:      s.payments,
		Notifier:      sess.inbox,
		Navigator:     sess.nav,
		Logger:        s.logger.With(zap.String("session_id", sess.id)),
		SubmitTimeout: s.submitTimeout,
	})
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(middleware.Timeout(s.requestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.getCart)
				r.Delete("/", s.clearCart)
				r.Post("/items", s.addItem)
				r.Post("/items/{productID}/decrement", s.removeOneUnit)
				r.Delete("/items/{productID}", s.deleteItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", s.getCheckout)
				r.Put("/payment-method", s.selectPaymentMethod)
				r.Post("/", s.submitCheckout)
				r.Post("/cancel", s.cancelPayment)
			})

			r.Get("/notifications", s.drainNotifications)
			r.Delete("/session", s.endSession)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.listOrders)
			r.Get("/{orderID}", s.getOrder)
			r.Put("/{orderID}/status", s.updateOrderStatus)
		})
	})

	return otelhttp.NewHandler(r, "beautyshop")
}
