package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avrele/storefront/internal/auth"
	"github.com/avrele/storefront/internal/checkout/application"
	"github.com/avrele/storefront/internal/checkout/domain"
	orderapp "github.com/avrele/storefront/internal/order/application"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Handler serves the authenticated checkout surface: quoting, payment
// intent creation, order completion and the buyer's order history.
type Handler struct {
	log    *slog.Logger
	svc    *application.Orchestrator
	orders *orderapp.Service
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, svc *application.Orchestrator, orders *orderapp.Service) *Handler {
	return &Handler{
		log:    log,
		svc:    svc,
		orders: orders,
		tracer: otel.Tracer("checkout-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/checkout/quote", h.quote)
	r.Post("/payments/create-payment-intent", h.createPaymentIntent)
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	return r
}

type quoteReq struct {
	Items []domain.CartLine `json:"items"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Quote")
	defer span.End()

	var req quoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid_body", "invalid request body", false))
		return
	}

	q, err := h.svc.Quote(ctx, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type createIntentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreatePaymentIntent")
	defer span.End()

	var req createIntentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid_body", "invalid request body", false))
		return
	}

	intent, err := h.svc.InitiatePayment(ctx, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}

type createOrderReq struct {
	Items           []domain.CartLine `json:"items"`
	PaymentIntentID string            `json:"paymentIntentId"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CompleteOrder")
	defer span.End()

	id, ok := auth.FromContext(ctx)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("unauthorized", "missing identity", false))
		return
	}

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody("invalid_body", "invalid request body", false))
		return
	}

	buyer := application.Buyer{ID: id.ID, Email: id.Email, Phone: id.Phone}
	o, err := h.svc.CompleteOrder(ctx, buyer, req.Items, req.PaymentIntentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("unauthorized", "missing identity", false))
		return
	}

	orders, err := h.orders.ListForBuyer(r.Context(), id.ID)
	if err != nil {
		h.log.Error("list orders failed", "buyer_id", id.ID, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errBody("persistence_failure", "order store unavailable", true))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errBody("unauthorized", "missing identity", false))
		return
	}

	o, err := h.orders.GetForBuyer(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, orderdomain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errBody("order_not_found", "order not found", false))
			return
		}
		h.log.Error("get order failed", "buyer_id", id.ID, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errBody("persistence_failure", "order store unavailable", true))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// writeError translates the checkout error taxonomy onto the wire: input
// errors are 400, consistency errors 409, dependency outages 503 with the
// retryable flag set.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var (
		notFound *domain.ProductNotFoundError
		badQty   *domain.InvalidQuantityError
		payErr   *domain.PaymentVerificationError
	)

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, errBody("empty_cart", err.Error(), false))
	case errors.Is(err, domain.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_amount", err.Error(), false))
	case errors.As(err, &badQty):
		writeJSON(w, http.StatusBadRequest, errBody("invalid_quantity", err.Error(), false))
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusConflict, errBody("product_not_found", err.Error(), false))
	case errors.As(err, &payErr):
		writeJSON(w, http.StatusConflict, errBody("payment_verification_failed", err.Error(), false))
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errBody("gateway_unavailable", err.Error(), true))
	case errors.Is(err, domain.ErrPersistence):
		writeJSON(w, http.StatusServiceUnavailable, errBody("persistence_failure", err.Error(), true))
	default:
		h.log.Error("checkout request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errBody("internal", "internal error", false))
	}
}

func errBody(code, msg string, retryable bool) map[string]any {
	return map[string]any{"code": code, "error": msg, "retryable": retryable}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
