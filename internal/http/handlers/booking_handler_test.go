// README: HTTP tests for booking session lifecycle endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"towncar/internal/http/handlers"
	"towncar/internal/modules/booking"
	"towncar/internal/modules/fare"
	"towncar/internal/types"
)

type stubReservationStore struct {
	created []booking.Request
}

func (s *stubReservationStore) Create(_ context.Context, req booking.Request) (booking.Reservation, error) {
	s.created = append(s.created, req)
	return booking.Reservation{ID: "res-1", Status: booking.StatusConfirmed, Payload: req}, nil
}

func (s *stubReservationStore) Update(_ context.Context, id types.ID, req booking.Request) (booking.Reservation, error) {
	return booking.Reservation{ID: id, Status: booking.StatusConfirmed, Payload: req}, nil
}

func (s *stubReservationStore) Get(_ context.Context, id types.ID) (booking.Reservation, error) {
	return booking.Reservation{ID: id, Status: booking.StatusConfirmed}, nil
}

type stubRateProvider struct{}

func (stubRateProvider) GetRates(_ context.Context, _ fare.QuoteRequest) (*fare.Quote, error) {
	return &fare.Quote{AllInclusive: map[string]float64{fare.BaseRateItem: 100}}, nil
}

type stubDirections struct{}

func (stubDirections) GetRoute(_ context.Context, _, _ types.Point, _ []types.Point) (int, int, error) {
	return 16093, 1200, nil
}

type stubRateSource struct{}

func (stubRateSource) VehicleRatesFor(_ context.Context, _ string) (fare.VehicleRates, error) {
	return fare.VehicleRates{OneWay: 90, RoundTrip: 170, CharterHourly: 65}, nil
}

func buildTestRouter(store booking.ReservationStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := booking.NewService(store, stubRateProvider{}, stubDirections{}, booking.Config{
		RecalcDebounce: 10 * time.Millisecond,
	})
	r := gin.New()
	h := handlers.NewBookingHandler(svc, stubRateSource{})
	r.POST("/api/bookings/sessions", h.Start)
	r.GET("/api/bookings/sessions/:id", h.Get)
	r.PATCH("/api/bookings/sessions/:id", h.Update)
	r.POST("/api/bookings/sessions/:id/stops", h.AddStop)
	r.POST("/api/bookings/sessions/:id/submit", h.Submit)
	r.DELETE("/api/bookings/sessions/:id", h.Abandon)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type sessionResp struct {
	ID         string            `json:"id"`
	State      string            `json:"state"`
	Validation map[string]string `json:"validation"`
	Fare       struct {
		GrandTotal string `json:"grand_total"`
	} `json:"fare"`
}

func startSession(t *testing.T, r *gin.Engine) sessionResp {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/bookings/sessions", map[string]any{"mode": "fresh"})
	if w.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp sessionResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

// TestStart_Fresh verifies a new session opens idle with pending validation.
func TestStart_Fresh(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	resp := startSession(t, r)
	if resp.ID == "" {
		t.Error("expected a session id")
	}
	if resp.State != "idle" {
		t.Errorf("state = %q, want idle", resp.State)
	}
	if len(resp.Validation) == 0 {
		t.Error("a blank session must report validation failures")
	}
}

// TestStart_UnknownMode verifies bad modes are rejected.
func TestStart_UnknownMode(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	w := doRequest(r, http.MethodPost, "/api/bookings/sessions", map[string]any{"mode": "clone"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// TestGet_UnknownSession verifies lookups of missing sessions 404.
func TestGet_UnknownSession(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	w := doRequest(r, http.MethodGet, "/api/bookings/sessions/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// TestUpdate_ClearsValidationFailures verifies a patch flows through the
// session setters and shrinks the failure set.
func TestUpdate_ClearsValidationFailures(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	resp := startSession(t, r)

	w := doRequest(r, http.MethodPatch, "/api/bookings/sessions/"+resp.ID, map[string]any{
		"pickup_address": "350 5th Ave",
		"pickup_lat":     40.748,
		"pickup_lng":     -73.985,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated sessionResp
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if _, ok := updated.Validation["pickup_location"]; ok {
		t.Error("pickup_location failure should clear after the address patch")
	}
	if _, ok := updated.Validation["dropoff_location"]; !ok {
		t.Error("dropoff_location failure should remain")
	}
}

// TestSubmit_Incomplete verifies a blank session cannot be submitted.
func TestSubmit_Incomplete(t *testing.T) {
	store := &stubReservationStore{}
	r := buildTestRouter(store)
	resp := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/bookings/sessions/"+resp.ID+"/submit", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.created) != 0 {
		t.Error("store must not be reached for an incomplete booking")
	}
}

// TestSubmit_Complete walks a session to completeness and submits it.
func TestSubmit_Complete(t *testing.T) {
	store := &stubReservationStore{}
	r := buildTestRouter(store)
	resp := startSession(t, r)

	w := doRequest(r, http.MethodPatch, "/api/bookings/sessions/"+resp.ID, map[string]any{
		"pickup_address":   "350 5th Ave",
		"pickup_lat":       40.748,
		"pickup_lng":       -73.985,
		"dropoff_address":  "1 WTC",
		"dropoff_lat":      40.713,
		"dropoff_lng":      -74.013,
		"pickup_at":        "2026-10-02T09:00:00Z",
		"passenger_name":   "Ada Lovelace",
		"passenger_email":  "ada@example.com",
		"passenger_mobile": "+12125550147",
		"vehicle_class":    "Luxury Sedan",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/api/bookings/sessions/"+resp.ID+"/submit", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.created) != 1 {
		t.Fatalf("created = %d reservations, want 1", len(store.created))
	}
	if store.created[0].VehicleClass != "Luxury Sedan" {
		t.Errorf("VehicleClass = %q", store.created[0].VehicleClass)
	}

	// Successful submit releases the session.
	w = doRequest(r, http.MethodGet, "/api/bookings/sessions/"+resp.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after submit, got %d", w.Code)
	}
}

// TestAbandon verifies a session can be dropped without submitting.
func TestAbandon(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	resp := startSession(t, r)

	w := doRequest(r, http.MethodDelete, "/api/bookings/sessions/"+resp.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doRequest(r, http.MethodGet, "/api/bookings/sessions/"+resp.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after abandon, got %d", w.Code)
	}
}

// TestAddStop verifies stops attach to the session.
func TestAddStop(t *testing.T) {
	r := buildTestRouter(&stubReservationStore{})
	resp := startSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/bookings/sessions/"+resp.ID+"/stops", map[string]any{
		"address": "midtown",
		"lat":     40.754,
		"lng":     -73.984,
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
