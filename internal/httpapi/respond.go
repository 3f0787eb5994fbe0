package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/beautyshop/internal/checkout"
	"github.com/nikolayk812/beautyshop/internal/domain"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return &checkout.ValidationError{Field: "body", Reason: "is not valid JSON"}
	}
	return nil
}

// decodeValid is decode followed by a check of the validate tags on dst.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decode(w, r, dst); err != nil {
		return err
	}

	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	fe := fieldErrs[0]
	reason := "is not valid"
	if fe.Tag() == "required" {
		reason = "is required"
	}

	return &checkout.ValidationError{Field: fe.Field(), Reason: reason}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	respondJSON(w, status, resp)
}

func mapError(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Code = "validation_failed"
		resp.Field = verr.Field
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, checkout.ErrEmptyCart):
		resp.Code = "empty_cart"
		resp.Redirect = "/cart"
		return http.StatusConflict, resp
	case errors.Is(err, checkout.ErrInProgress):
		resp.Code = "checkout_in_progress"
		return http.StatusConflict, resp
	case errors.Is(err, checkout.ErrCompleted):
		resp.Code = "checkout_completed"
		return http.StatusConflict, resp
	case errors.Is(err, checkout.ErrPaymentCancelled):
		resp.Code = "payment_cancelled"
		return http.StatusConflict, resp
	case errors.Is(err, checkout.ErrCartChanged):
		resp.Code = "cart_changed"
		return http.StatusConflict, resp
	case errors.Is(err, checkout.ErrPaymentFailed):
		resp.Code = "payment_failed"
		return http.StatusPaymentRequired, resp
	case errors.Is(err, checkout.ErrOrderFailed):
		resp.Code = "order_failed"
		resp.Error = "Something went wrong. Please try again."
		return http.StatusBadGateway, resp
	case errors.Is(err, domain.ErrOrderNotFound):
		resp.Code = "order_not_found"
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrIllegalTransition):
		resp.Code = "illegal_transition"
		return http.StatusConflict, resp
	case errors.Is(err, domain.ErrUnknownOrderStatus):
		resp.Code = "unknown_status"
		return http.StatusBadRequest, resp
	default:
		resp.Code = "internal"
		resp.Error = "internal error"
		return http.StatusInternalServerError, resp
	}
}
