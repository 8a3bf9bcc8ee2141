package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	productRepo ProductRepo
	logger      apt.Logger
	config      *apt.Config
	tlm         *telemetry.HTTP
}

func NewHandler(productRepo ProductRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		productRepo: productRepo,
		logger:      logger,
		config:      config,
		tlm:         telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
		r.Patch("/{id}", h.UpdateProduct)
	})
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateProduct")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeProductCreatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateProductCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	product := NewProduct()
	product.Name = req.Name
	product.Price = req.Price
	product.Cost = req.Cost
	product.Category = req.Category
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.BeforeCreate()

	if err := h.productRepo.Create(ctx, product); err != nil {
		log.Error("cannot create product", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create product")
		return
	}

	links := apt.RESTfulLinksFor(product)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, product, links...)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListProducts")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	var products []*Product
	var err error

	switch {
	case category != "":
		products, err = h.productRepo.ListByCategory(ctx, category)
	case activeOnly:
		products, err = h.productRepo.ListActive(ctx)
	default:
		products, err = h.productRepo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving products", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}

	apt.RespondCollection(w, products, "product")
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetProduct")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	product, err := h.productRepo.Get(ctx, id)
	if err != nil || product == nil {
		log.Error("product not found", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	links := apt.RESTfulLinksFor(product)
	apt.RespondSuccess(w, product, links...)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateProduct")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeProductUpdatePayload(w, r, log)
	if !ok {
		return
	}

	product, err := h.productRepo.Get(ctx, id)
	if err != nil || product == nil {
		log.Error("product not found for update", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			apt.RespondError(w, http.StatusBadRequest, "price must be greater than 0")
			return
		}
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.BeforeUpdate()

	if err := h.productRepo.Save(ctx, product); err != nil {
		log.Error("cannot update product", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update product")
		return
	}

	links := apt.RESTfulLinksFor(product)
	apt.RespondSuccess(w, product, links...)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeProductCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ProductCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req ProductCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return ProductCreateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeProductUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (ProductUpdateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req ProductUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return ProductUpdateRequest{}, false
	}
	return req, true
}
