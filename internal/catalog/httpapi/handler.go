package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/httpx"
)

type Handler struct {
	svc *app.Service
	log *slog.Logger
}

func NewHandler(svc *app.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterShop mounts read routes, RegisterAdmin the write routes.
func (h *Handler) RegisterShop(r *mux.Router) {
	r.HandleFunc("/products", h.list).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.get).Methods(http.MethodGet)
}

func (h *Handler) RegisterAdmin(r *mux.Router) {
	r.HandleFunc("/products", h.create).Methods(http.MethodPost)
}

type productResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Price       int64     `json:"price"`
	SalePrice   int64     `json:"salePrice"`
	TotalStock  int32     `json:"totalStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Price       int64  `json:"price"`
	SalePrice   int64  `json:"salePrice"`
	TotalStock  int32  `json:"totalStock"`
}

type listResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), app.CreateProductInput(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, next, err := h.svc.ListProducts(r.Context(), q.Get("q"), limit, q.Get("cursor"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	httpx.OK(w, http.StatusOK, listResponse{Products: out, NextCursor: next})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "product not found")
	default:
		h.log.ErrorContext(r.Context(), "catalog request failed",
			slog.String("req_id", httpx.RequestID(r.Context())),
			slog.Any("err", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}

func toResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		TotalStock:  p.TotalStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
