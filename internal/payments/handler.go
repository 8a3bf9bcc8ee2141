package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/orders"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	processor *Processor
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

func NewHandler(processor *Processor, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		processor: processor,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/{id}/payment", h.ProcessPayment)
}

type PaymentRequest struct {
	Method    string `json:"method"`
	Received  int64  `json:"received,omitempty"`
	CashPart  int64  `json:"cash_part,omitempty"`
	CardPart  int64  `json:"card_part,omitempty"`
	CashierID string `json:"cashier_id,omitempty"`
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ProcessPayment")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodePaymentPayload(w, r, log)
	if !ok {
		return
	}

	if req.Method == "" {
		apt.RespondError(w, http.StatusBadRequest, "method is required")
		return
	}

	detail := PaymentDetail{
		Method:   req.Method,
		Received: req.Received,
		CashPart: req.CashPart,
		CardPart: req.CardPart,
	}

	result, err := h.processor.Process(ctx, id, detail, req.CashierID)
	if err != nil {
		h.respondProcessorError(w, log, err)
		return
	}

	apt.RespondSuccess(w, result)
}

func (h *Handler) respondProcessorError(w http.ResponseWriter, log apt.Logger, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		apt.RespondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrAlreadyPaid):
		apt.RespondError(w, http.StatusConflict, "Order is already paid or cancelled")
	case errors.Is(err, cashier.ErrSessionNotOpen):
		apt.RespondError(w, http.StatusConflict, "No open cash session")
	case errors.Is(err, ErrInsufficientPayment):
		apt.RespondError(w, http.StatusBadRequest, "Received amount does not cover the order total")
	case errors.Is(err, ErrAmountMismatch):
		apt.RespondError(w, http.StatusBadRequest, "Payment parts do not add up to the order total")
	case errors.Is(err, ErrUnknownMethod):
		apt.RespondError(w, http.StatusBadRequest, "Unknown payment method")
	default:
		log.Error("cannot process payment", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not process payment")
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

func (h *Handler) decodePaymentPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (PaymentRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		log.Debug("cannot decode payload", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return PaymentRequest{}, false
	}
	return req, true
}
