package tables

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

// ActiveOrderSource yields the set of order ids that still hold a table.
// The orders package provides the implementation; keeping it an interface
// here avoids a dependency loop between the two domains.
type ActiveOrderSource interface {
	ActiveOrderIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
}

type Handler struct {
	registry     *Registry
	tableRepo    TableRepo
	cache        *StateCache
	activeOrders ActiveOrderSource
	logger       apt.Logger
	config       *apt.Config
	tlm          *telemetry.HTTP
}

type HandlerDeps struct {
	Registry     *Registry
	TableRepo    TableRepo
	Cache        *StateCache
	ActiveOrders ActiveOrderSource
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		registry:     hd.Registry,
		tableRepo:    hd.TableRepo,
		cache:        hd.Cache,
		activeOrders: hd.ActiveOrders,
		logger:       logger,
		config:       config,
		tlm:          telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/board", h.Board)
		r.Post("/reconcile", h.Reconcile)
		r.Get("/{number}", h.GetTable)

		r.Post("/{number}/assign", h.AssignTable)
		r.Post("/{number}/release", h.ReleaseTable)
		r.Post("/{number}/clean", h.MarkClean)
	})
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeTableCreatePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateTableCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	existing, err := h.tableRepo.GetByNumber(ctx, req.Number)
	if err == nil && existing != nil {
		apt.RespondError(w, http.StatusConflict, "Table number already exists")
		return
	}

	table := NewTable()
	table.Number = req.Number
	table.Capacity = req.Capacity
	table.Location = req.Location
	table.BeforeCreate()

	if err := h.tableRepo.Create(ctx, table); err != nil {
		log.Error("cannot create table", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	status := r.URL.Query().Get("status")

	var tables []*Table
	var err error

	if status != "" {
		tables, err = h.tableRepo.ListByStatus(ctx, status)
	} else {
		tables, err = h.tableRepo.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving tables", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve tables")
		return
	}

	apt.RespondCollection(w, tables, "table")
}

// Board serves the cached cross-terminal view of the room. It may trail
// the store by an event or a sweep interval; the source of truth for any
// mutation is always the store itself.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Board")
	defer finish()

	if h.cache == nil {
		apt.RespondError(w, http.StatusServiceUnavailable, "Board unavailable")
		return
	}

	apt.RespondSuccess(w, h.cache.Snapshot())
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	number, ok := h.parseNumberParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.registry.Get(ctx, number)
	if err != nil {
		log.Debug("table not found", "error", err, "number", number)
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) AssignTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	number, ok := h.parseNumberParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeTableAssignPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateTableAssign(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	table, err := h.registry.Assign(ctx, number, req.OrderID)
	if err != nil {
		h.respondRegistryError(w, log, err, "assign")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) ReleaseTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReleaseTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	number, ok := h.parseNumberParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeTableReleasePayload(w, r, log)
	if !ok {
		return
	}

	released, err := h.registry.Release(ctx, number, req.OrderID)
	if err != nil {
		h.respondRegistryError(w, log, err, "release")
		return
	}

	apt.RespondSuccess(w, map[string]bool{"released": released})
}

func (h *Handler) MarkClean(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkClean")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	number, ok := h.parseNumberParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.registry.MarkClean(ctx, number)
	if err != nil {
		h.respondRegistryError(w, log, err, "clean")
		return
	}

	links := apt.RESTfulLinksFor(table)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Reconcile")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	if h.activeOrders == nil {
		apt.RespondError(w, http.StatusServiceUnavailable, "Reconciliation unavailable")
		return
	}

	active, err := h.activeOrders.ActiveOrderIDs(ctx)
	if err != nil {
		log.Error("cannot load active orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not reconcile tables")
		return
	}

	released, err := h.registry.ReconcileOrphans(ctx, active)
	if err != nil {
		log.Error("reconciliation failed", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not reconcile tables")
		return
	}

	apt.RespondSuccess(w, map[string]int{"released": released})
}

func (h *Handler) respondRegistryError(w http.ResponseWriter, log apt.Logger, err error, action string) {
	switch {
	case errors.Is(err, ErrTableNotFound):
		apt.RespondError(w, http.StatusNotFound, "Table not found")
	case errors.Is(err, ErrTableNotFree), errors.Is(err, ErrTableNotCleaning):
		log.Info("table state conflict", "action", action, "error", err)
		apt.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Error("table operation failed", "action", action, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Table operation failed")
	}
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) parseNumberParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int, bool) {
	numberStr := chi.URLParam(r, "number")
	number, err := strconv.Atoi(numberStr)
	if err != nil || number <= 0 {
		log.Debug("invalid table number parameter", "number", numberStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid table number")
		return 0, false
	}
	return number, true
}

func (h *Handler) decodeTableCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (TableCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req TableCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return TableCreateRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeTableAssignPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (TableAssignRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req TableAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return TableAssignRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeTableReleasePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (TableReleaseRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req TableReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return TableReleaseRequest{}, false
	}
	return req, true
}
