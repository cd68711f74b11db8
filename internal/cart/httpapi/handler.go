package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/pkg/httpx"
)

type Handler struct {
	svc *app.Service
	log *slog.Logger
}

func NewHandler(svc *app.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the cart routes on r, typically the /api/shop/cart subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/add", h.add).Methods(http.MethodPost)
	r.HandleFunc("/fetch/{userId}", h.fetch).Methods(http.MethodGet)
	r.HandleFunc("/update", h.update).Methods(http.MethodPut)
	r.HandleFunc("/remove/{userId}/{productId}", h.remove).Methods(http.MethodDelete)
	r.HandleFunc("/clear/{userId}", h.clear).Methods(http.MethodDelete)
}

type itemRequest struct {
	UserID       string  `json:"userId"`
	ProductID    string  `json:"productId"`
	Quantity     int32   `json:"quantity"`
	SelectedSize *string `json:"selectedSize"`
	PreviousSize *string `json:"previousSize"`
}

func (req itemRequest) input() app.ItemInput {
	in := app.ItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if req.SelectedSize != nil {
		in.SelectedSize = *req.SelectedSize
	}
	if req.PreviousSize != nil {
		in.FromSize = *req.PreviousSize
	}
	return in
}

type cartItemResponse struct {
	ProductID    string  `json:"productId"`
	Quantity     int32   `json:"quantity"`
	SelectedSize *string `json:"selectedSize"`
}

type cartResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Items     []cartItemResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type lineResponse struct {
	ProductID    string  `json:"productId"`
	Quantity     int32   `json:"quantity"`
	SelectedSize *string `json:"selectedSize"`
	Title        string  `json:"title"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	Price        int64   `json:"price"`
	SalePrice    int64   `json:"salePrice"`
	TotalStock   int32   `json:"totalStock"`
}

type viewResponse struct {
	CartID string         `json:"cartId"`
	UserID string         `json:"userId"`
	Items  []lineResponse `json:"items"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.svc.AddItem(r.Context(), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.svc.UpdateQuantity(r.Context(), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ListItems(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, toViewResponse(view))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.svc.RemoveItem(r.Context(), vars["userId"], vars["productId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, toViewResponse(view))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCart(r.Context(), mux.Vars(r)["userId"]); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "cart request failed",
			slog.String("req_id", httpx.RequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("err", err))
	}
	httpx.Fail(w, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func sizePtr(size string) *string {
	if size == "" {
		return nil
	}
	return &size
}

func toCartResponse(c domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemResponse{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			SelectedSize: sizePtr(it.SelectedSize),
		})
	}
	return cartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toViewResponse(v app.CartView) viewResponse {
	items := make([]lineResponse, 0, len(v.Items))
	for _, ln := range v.Items {
		items = append(items, lineResponse{
			ProductID:    ln.ProductID,
			Quantity:     ln.Quantity,
			SelectedSize: sizePtr(ln.SelectedSize),
			Title:        ln.Title,
			Image:        ln.Image,
			Category:     ln.Category,
			Price:        ln.Price,
			SalePrice:    ln.SalePrice,
			TotalStock:   ln.TotalStock,
		})
	}
	return viewResponse{CartID: v.CartID, UserID: v.UserID, Items: items}
}
