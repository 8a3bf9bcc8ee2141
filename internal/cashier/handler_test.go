package cashier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
)

func newHandlerFixture(t *testing.T) (*Handler, *MockSessionRepo, *MockSaleRepo, chi.Router) {
	t.Helper()

	sessions := NewMockSessionRepo()
	sales := NewMockSaleRepo()
	ledger := NewLedger(sessions, sales, NewMockPublisher(), nil)
	h := NewHandler(ledger, sessions, sales, nil, apt.NewNoopLogger())

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return h, sessions, sales, r
}

func postJSON(t *testing.T, r chi.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("cannot marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerOpenSession(t *testing.T) {
	_, sessions, _, r := newHandlerFixture(t)

	w := postJSON(t, r, "/cash-sessions", SessionOpenRequest{
		UserID:        "u1",
		UserName:      "Lena",
		InitialAmount: 50000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("open status = %d, want %d", w.Code, http.StatusCreated)
	}

	open, err := sessions.GetOpen(context.Background())
	if err != nil {
		t.Fatalf("GetOpen() error = %v", err)
	}
	if open == nil || open.InitialAmount != 50000 {
		t.Errorf("open session = %+v, want initial 50000", open)
	}

	// A second register cannot open while the first is still counting.
	w = postJSON(t, r, "/cash-sessions", SessionOpenRequest{UserID: "u2", InitialAmount: 100})
	if w.Code != http.StatusConflict {
		t.Errorf("second open status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestHandlerOpenSessionValidation(t *testing.T) {
	_, _, _, r := newHandlerFixture(t)

	w := postJSON(t, r, "/cash-sessions", SessionOpenRequest{InitialAmount: -5})
	if w.Code != http.StatusBadRequest {
		t.Errorf("open status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerMovementAndClose(t *testing.T) {
	_, sessions, _, r := newHandlerFixture(t)
	ctx := context.Background()

	w := postJSON(t, r, "/cash-sessions", SessionOpenRequest{UserID: "u1", InitialAmount: 10000})
	if w.Code != http.StatusCreated {
		t.Fatalf("open status = %d", w.Code)
	}
	session, _ := sessions.GetOpen(ctx)

	w = postJSON(t, r, "/cash-sessions/"+session.ID.String()+"/movements", MovementRequest{
		Type:        MovementIn,
		Amount:      2000,
		Description: "petty cash",
		UserID:      "u1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("movement status = %d, want %d", w.Code, http.StatusOK)
	}

	w = postJSON(t, r, "/cash-sessions/"+session.ID.String()+"/movements", MovementRequest{
		Type:   "refund",
		Amount: 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad movement status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = postJSON(t, r, "/cash-sessions/"+session.ID.String()+"/close", SessionCloseRequest{
		CountedAmount: 12000,
		UserID:        "u1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("close status = %d, want %d", w.Code, http.StatusOK)
	}

	closed, _ := sessions.Get(ctx, session.ID)
	if closed.Status != SessionStatusClosed {
		t.Errorf("session status = %s, want closed", closed.Status)
	}
	if closed.Difference == nil || *closed.Difference != 0 {
		t.Errorf("difference = %v, want 0", closed.Difference)
	}
}

func TestHandlerGetSessionNotFound(t *testing.T) {
	_, _, _, r := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/cash-sessions/9f6a2c3e-0000-0000-0000-000000000000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandlerGetCurrentWithoutOpenSession(t *testing.T) {
	_, _, _, r := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/cash-sessions/current", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("current status = %d, want %d", w.Code, http.StatusConflict)
	}
}
