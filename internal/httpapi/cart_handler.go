package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/beautyshop/internal/checkout"
	"github.com/nikolayk812/beautyshop/internal/domain"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, mapCart(sess.cart.Snapshot()))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req addItemRequest
	if err := decodeValid(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	err := sess.cart.AddItem(domain.Product{
		ID:    domain.ProductID(req.ID),
		Name:  req.Name,
		Price: domain.NewMoney(req.Price, s.currency),
		Image: req.Image,
	})
	if err != nil {
		s.respondError(w, r, &checkout.ValidationError{Field: "product", Reason: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, mapCart(sess.cart.Snapshot()))
}

func (s *Server) removeOneUnit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	id, err := productID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess.cart.RemoveOneUnit(id)
	respondJSON(w, http.StatusOK, mapCart(sess.cart.Snapshot()))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	id, err := productID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sess.cart.DeleteItem(id)
	respondJSON(w, http.StatusOK, mapCart(sess.cart.Snapshot()))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	sess.cart.Clear()
	respondJSON(w, http.StatusOK, mapCart(sess.cart.Snapshot()))
}

func (s *Server) drainNotifications(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, mapNotifications(sess.inbox.Drain()))
}

// endSession is the logout path: the cart is cleared and the session forgotten.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	sess.end()
	s.sessions.remove(sess.id)

	w.WriteHeader(http.StatusNoContent)
}

func productID(r *http.Request) (domain.ProductID, error) {
	raw := chi.URLParam(r, "productID")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &checkout.ValidationError{Field: "productID", Reason: fmt.Sprintf("[%s] is not a valid product ID", raw)}
	}

	return domain.ProductID(id), nil
}
