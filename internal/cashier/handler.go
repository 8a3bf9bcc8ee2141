package cashier

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	ledger   *Ledger
	sessions SessionRepo
	sales    SaleRepo
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(ledger *Ledger, sessions SessionRepo, sales SaleRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		ledger:   ledger,
		sessions: sessions,
		sales:    sales,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cash-sessions", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Get("/", h.ListSessions)
		r.Get("/current", h.GetCurrentSession)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/movements", h.AddMovement)
		r.Post("/{id}/close", h.CloseSession)
	})
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Get("/{id}", h.GetSale)
	})
}

// SessionReport is the close-of-day view of a session: the session itself
// plus the cash the drawer should hold.
type SessionReport struct {
	*CashSession
	ExpectedCash int64 `json:"expected_cash"`
}

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeSessionOpenPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateSessionOpen(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	session, err := h.ledger.Open(ctx, req.UserID, req.UserName, req.InitialAmount, req.Notes)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not open cash session")
		return
	}

	links := apt.RESTfulLinksFor(session)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, session, links...)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSessions")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	sessions, err := h.sessions.List(ctx)
	if err != nil {
		log.Error("error retrieving cash sessions", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve cash sessions")
		return
	}

	apt.RespondCollection(w, sessions, "cash-session")
}

func (h *Handler) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCurrentSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	session, err := h.ledger.CurrentOpen(ctx)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not retrieve open cash session")
		return
	}

	apt.RespondSuccess(w, SessionReport{CashSession: session, ExpectedCash: session.ExpectedCash()})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	session, err := h.ledger.Get(ctx, id)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not retrieve cash session")
		return
	}

	apt.RespondSuccess(w, SessionReport{CashSession: session, ExpectedCash: session.ExpectedCash()})
}

func (h *Handler) AddMovement(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddMovement")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeMovementPayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateMovement(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	session, err := h.ledger.AddMovement(ctx, id, req.Type, req.Amount, req.Description, req.UserID)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not add cash movement")
		return
	}

	links := apt.RESTfulLinksFor(session)
	apt.RespondSuccess(w, session, links...)
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeSessionClosePayload(w, r, log)
	if !ok {
		return
	}

	validationErrors := ValidateSessionClose(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		apt.RespondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	session, err := h.ledger.Close(ctx, id, req.CountedAmount, req.Notes, req.UserID)
	if err != nil {
		h.respondLedgerError(w, log, err, "Could not close cash session")
		return
	}

	apt.RespondSuccess(w, SessionReport{CashSession: session, ExpectedCash: session.ExpectedCash()})
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSales")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var sales []*Sale
	var err error

	if sessionStr := r.URL.Query().Get("session_id"); sessionStr != "" {
		sessionID, parseErr := uuid.Parse(sessionStr)
		if parseErr != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid session_id parameter")
			return
		}
		sales, err = h.sales.ListBySession(ctx, sessionID)
	} else {
		sales, err = h.sales.List(ctx)
	}

	if err != nil {
		log.Error("error retrieving sales", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve sales")
		return
	}

	apt.RespondCollection(w, sales, "sale")
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSale")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	sale, err := h.sales.Get(ctx, id)
	if err != nil || sale == nil {
		log.Error("sale not found", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Sale not found")
		return
	}

	links := apt.RESTfulLinksFor(sale)
	apt.RespondSuccess(w, sale, links...)
}

func (h *Handler) respondLedgerError(w http.ResponseWriter, log apt.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		apt.RespondError(w, http.StatusNotFound, "Cash session not found")
	case errors.Is(err, ErrSessionAlreadyOpen):
		apt.RespondError(w, http.StatusConflict, "A cash session is already open")
	case errors.Is(err, ErrSessionNotOpen):
		apt.RespondError(w, http.StatusConflict, "Cash session is not open")
	case errors.Is(err, ErrInvalidAmount):
		apt.RespondError(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, ErrInvalidMovementType):
		apt.RespondError(w, http.StatusBadRequest, "Movement type must be in or out")
	default:
		log.Error(fallback, "error", err)
		apt.RespondError(w, http.StatusInternalServerError, fallback)
	}
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

func (h *Handler) decodeSessionOpenPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (SessionOpenRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req SessionOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return SessionOpenRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeMovementPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (MovementRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return MovementRequest{}, false
	}
	return req, true
}

func (h *Handler) decodeSessionClosePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (SessionCloseRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req SessionCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return SessionCloseRequest{}, false
	}
	return req, true
}
