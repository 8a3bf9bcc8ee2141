package orders

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg/enums/orderstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	lifecycle *Lifecycle
	orderRepo OrderRepo
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

func NewHandler(lifecycle *Lifecycle, orderRepo OrderRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		lifecycle: lifecycle,
		orderRepo: orderRepo,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Post("/{id}/cancel", h.CancelOrder)
		r.Patch("/{id}/items/{productID}", h.UpdateOrderItem)
		r.Delete("/{id}/items/{productID}", h.RemoveOrderItem)
	})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeOrderCreatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateOrderCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	params := CreateParams{
		DineIn:      req.DineIn,
		TableNumber: req.TableNumber,
		CreatedBy:   req.CreatedBy,
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, ItemParams{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.lifecycle.Create(ctx, params)
	if err != nil {
		h.respondLifecycleError(w, log, err, "Could not create order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	status := r.URL.Query().Get("status")

	var orders []*Order
	var err error

	switch {
	case status == "active":
		orders, err = h.orderRepo.ListActive(ctx)
	case status != "":
		if orderstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Unknown order status")
			return
		}
		orders, err = h.orderRepo.ListByStatus(ctx, status)
	default:
		orders, err = h.orderRepo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	apt.RespondCollection(w, orders, "order")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	order, err := h.orderRepo.Get(ctx, id)
	if err != nil || order == nil {
		log.Error("order not found", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	req, ok := h.decodeOrderStatusPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateOrderStatus(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	order, err := h.lifecycle.Advance(ctx, id, req.Status)
	if err != nil {
		h.respondLifecycleError(w, log, err, "Could not update order status")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	order, err := h.lifecycle.Cancel(ctx, id)
	if err != nil {
		h.respondLifecycleError(w, log, err, "Could not cancel order")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	productID, ok := h.parseIDParam(w, r, "productID", log)
	if !ok {
		return
	}

	req, ok := h.decodeOrderItemUpdatePayload(w, r, log)
	if !ok {
		return
	}

	order, err := h.lifecycle.UpdateItemQuantity(ctx, id, productID, req.Quantity)
	if err != nil {
		h.respondLifecycleError(w, log, err, "Could not update order item")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveOrderItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	productID, ok := h.parseIDParam(w, r, "productID", log)
	if !ok {
		return
	}

	order, err := h.lifecycle.RemoveItem(ctx, id, productID)
	if err != nil {
		h.respondLifecycleError(w, log, err, "Could not remove order item")
		return
	}

	links := apt.RESTfulLinksFor(order)
	apt.RespondSuccess(w, order, links...)
}

func (h *Handler) respondLifecycleError(w http.ResponseWriter, log apt.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		apt.RespondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrEmptyOrder):
		apt.RespondError(w, http.StatusBadRequest, "Order must contain at least one item")
	case errors.Is(err, ErrMissingTable):
		apt.RespondError(w, http.StatusBadRequest, "Dine-in order requires a table")
	case errors.Is(err, ErrUnknownProduct):
		apt.RespondError(w, http.StatusBadRequest, "Order references an unknown or inactive product")
	case errors.Is(err, ErrIllegalTransition):
		apt.RespondError(w, http.StatusConflict, "Order cannot move to the requested status")
	case errors.Is(err, ErrOrderNotEditable):
		apt.RespondError(w, http.StatusConflict, "Order can no longer be edited")
	case errors.Is(err, ErrItemNotFound):
		apt.RespondError(w, http.StatusNotFound, "Order item not found")
	case errors.Is(err, ErrLastItem):
		apt.RespondError(w, http.StatusConflict, "Cannot remove the last item, cancel the order instead")
	case errors.Is(err, tables.ErrTableNotFound):
		apt.RespondError(w, http.StatusNotFound, "Table not found")
	case errors.Is(err, tables.ErrTableNotFree):
		apt.RespondError(w, http.StatusConflict, "Table is not free")
	default:
		log.Error(fallback, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, name string, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		log.Debug("missing id parameter", "param", name)
		apt.RespondError(w, http.StatusBadRequest, "Missing "+name+" parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "param", name, "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodeOrderCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (OrderCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return OrderCreateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeOrderStatusPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (OrderStatusRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return OrderStatusRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeOrderItemUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (OrderItemUpdateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req OrderItemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return OrderItemUpdateRequest{}, false
	}
	return req, true
}
