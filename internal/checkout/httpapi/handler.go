package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/pkg/httpx"
)

type Handler struct {
	svc *app.Service
	log *slog.Logger
}

func NewHandler(svc *app.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/quote/{userId}", h.quote).Methods(http.MethodGet)
}

type quoteLine struct {
	ProductID    string  `json:"productId"`
	SelectedSize *string `json:"selectedSize"`
	Title        string  `json:"title"`
	Quantity     int64   `json:"quantity"`
	UnitPrice    int64   `json:"unitPrice"`
	ListPrice    int64   `json:"listPrice"`
	LineTotal    int64   `json:"lineTotal"`
}

type quoteResponse struct {
	UserID   string      `json:"userId"`
	Lines    []quoteLine `json:"lines"`
	Subtotal int64       `json:"subtotal"`
	Savings  int64       `json:"savings"`
	Total    int64       `json:"total"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		httpx.Fail(w, http.StatusBadRequest, "userId is required")
		return
	}

	q, err := h.svc.Quote(r.Context(), userID)
	if err != nil {
		if errors.Is(err, app.ErrEmptyCart) {
			httpx.Fail(w, http.StatusNotFound, "cart is empty")
			return
		}
		h.log.ErrorContext(r.Context(), "quote failed",
			slog.String("req_id", httpx.RequestID(r.Context())),
			slog.String("user_id", userID),
			slog.Any("err", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.OK(w, http.StatusOK, toResponse(q))
}

func toResponse(q domain.Quote) quoteResponse {
	lines := make([]quoteLine, 0, len(q.Lines))
	for _, ln := range q.Lines {
		var size *string
		if ln.SelectedSize != "" {
			s := ln.SelectedSize
			size = &s
		}
		lines = append(lines, quoteLine{
			ProductID:    ln.ProductID,
			SelectedSize: size,
			Title:        ln.Title,
			Quantity:     ln.Quantity,
			UnitPrice:    ln.UnitPrice,
			ListPrice:    ln.ListPrice,
			LineTotal:    ln.LineTotal,
		})
	}
	return quoteResponse{
		UserID:   q.UserID,
		Lines:    lines,
		Subtotal: q.Subtotal,
		Savings:  q.Savings,
		Total:    q.Total,
	}
}
