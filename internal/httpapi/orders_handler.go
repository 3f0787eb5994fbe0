package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/port"
)

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	var filter port.OrderFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		filter.Status = status
	}

	orders, err := s.orders.ListOrders(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrders(orders))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrder(order))
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeValid(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), domain.OrderStatus(req.Status))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mapOrder(order))
}
