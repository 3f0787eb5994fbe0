package httpapi

import (
	"net/http"

	"github.com/nikolayk812/beautyshop/internal/domain"
)

func (s *Server) getCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	co := sess.checkout()

	co.Open()

	_, confirmed := co.CachedConfirmation()
	respondJSON(w, http.StatusOK, checkoutResponse{
		State:            co.State().String(),
		PaymentMethod:    string(co.PaymentMethod()),
		PaymentConfirmed: confirmed,
		Cart:             mapCart(sess.cart.Snapshot()),
		Redirect:         sess.nav.take(),
	})
}

func (s *Server) selectPaymentMethod(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req paymentMethodRequest
	if err := decodeValid(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	co := sess.checkout()
	if err := co.SelectPaymentMethod(domain.PaymentMethod(req.PaymentMethod)); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// submitCheckout blocks while a mobile-money prompt is pending. The prompt
// can be aborted from another request with POST /checkout/cancel.
func (s *Server) submitCheckout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req submitRequest
	if err := decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	co := sess.checkout()
	if req.PaymentMethod != "" {
		if err := co.SelectPaymentMethod(domain.PaymentMethod(req.PaymentMethod)); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	order, err := co.Submit(r.Context(), req.Form)
	if err != nil {
		sess.nav.take()
		s.respondError(w, r, err)
		return
	}

	resp := mapOrder(order)
	resp.Redirect = sess.nav.take()

	respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) cancelPayment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if !sess.checkout().CancelPayment() {
		respondJSON(w, http.StatusConflict, errorResponse{
			Error: "no payment confirmation is pending",
			Code:  "nothing_to_cancel",
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
