package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mediplus/internal/database/dbtest"
	"mediplus/internal/model"
	"mediplus/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// TestDB is a migrated PostgreSQL database owned by one test.
type TestDB struct {
	Pool *pgxpool.Pool
}

// SetupTestDB starts a container-backed database for t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return &TestDB{Pool: dbtest.Postgres(t)}
}

func float64Ptr(v float64) *float64 { return &v }

// SeedMedicines inserts the test catalog.
func SeedMedicines(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	medicines := []model.Medicine{
		{ID: "med-1", Name: "Paracetamol 500mg", Price: 10.00, OriginalPrice: float64Ptr(12.00), Category: "pain-relief"},
		{ID: "med-2", Name: "Amoxicillin 250mg", Price: 25.00, Category: "antibiotics", Prescription: true},
		{ID: "med-3", Name: "Vitamin C 1000mg", Price: 8.50, OriginalPrice: float64Ptr(10.00), Category: "vitamins"},
		{ID: "med-4", Name: "Cetirizine 10mg", Price: 6.25, Category: "allergy"},
		{ID: "med-5", Name: "Ibuprofen 400mg", Price: 7.75, Category: "pain-relief"},
	}

	repo := repository.NewMedicineRepository(pool, zerolog.Nop())
	if err := repo.Upsert(context.Background(), medicines); err != nil {
		t.Fatalf("failed to seed medicines: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"receipt_items", "receipts", "medicines"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// ReceivedOrder is an order as seen by the fake backend.
type ReceivedOrder struct {
	Token            string
	Fields           map[string]string
	Prescription     string
	PrescriptionName string
}

// FakeBackend stands in for the external MediPlus backend.
type FakeBackend struct {
	*httptest.Server

	mu            sync.Mutex
	orders        []ReceivedOrder
	confirmations []model.Confirmation
	labBookings   []model.LabBookingRequest
	consultations []model.ConsultationRequest
	failOrders    bool
}

// NewFakeBackend starts a fake backend that accepts the bearer token "valid-token".
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != "valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fb.mu.Lock()
		defer fb.mu.Unlock()

		if fb.failOrders {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Database unavailable"}`))
			return
		}

		order := ReceivedOrder{Token: token, Fields: map[string]string{}}
		for k, v := range r.MultipartForm.Value {
			order.Fields[k] = v[0]
		}
		if files := r.MultipartForm.File["prescription"]; len(files) > 0 {
			order.PrescriptionName = files[0].Filename
			if f, err := files[0].Open(); err == nil {
				data, _ := io.ReadAll(f)
				order.Prescription = string(data)
				f.Close()
			}
		}
		fb.orders = append(fb.orders, order)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"orderId":%d}`, 1000+len(fb.orders))
	})

	mux.HandleFunc("POST /api/send-confirmation", func(w http.ResponseWriter, r *http.Request) {
		var c model.Confirmation
		_ = json.NewDecoder(r.Body).Decode(&c)
		fb.mu.Lock()
		fb.confirmations = append(fb.confirmations, c)
		fb.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/lab-booking", func(w http.ResponseWriter, r *http.Request) {
		var req model.LabBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Date == "2026-12-25" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"No collection on holidays"}`))
			return
		}

		fb.mu.Lock()
		fb.labBookings = append(fb.labBookings, req)
		n := len(fb.labBookings)
		fb.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"token":"lab-%d"}`, n)
	})

	mux.HandleFunc("POST /api/consulting", func(w http.ResponseWriter, r *http.Request) {
		var req model.ConsultationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fb.mu.Lock()
		fb.consultations = append(fb.consultations, req)
		n := len(fb.consultations)
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"token":"consult-%d"}`, n)
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		w.Header().Set("Content-Type", "application/json")
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"valid-token","user":{"email":"` + creds.Email + `"}}`))
	})

	mux.HandleFunc("GET /api/orders/my-orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fb.mu.Lock()
		n := len(fb.orders)
		fb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"orders":[{"count":%d}]}`, n)
	})

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)

	return fb
}

// Orders returns the orders received so far.
func (fb *FakeBackend) Orders() []ReceivedOrder {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]ReceivedOrder(nil), fb.orders...)
}

// Confirmations returns the confirmation mails requested so far.
func (fb *FakeBackend) Confirmations() []model.Confirmation {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]model.Confirmation(nil), fb.confirmations...)
}

// LabBookings returns the lab bookings received so far.
func (fb *FakeBackend) LabBookings() []model.LabBookingRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]model.LabBookingRequest(nil), fb.labBookings...)
}

// Consultations returns the consultation bookings received so far.
func (fb *FakeBackend) Consultations() []model.ConsultationRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]model.ConsultationRequest(nil), fb.consultations...)
}

// FailOrders makes order creation fail with a 500.
func (fb *FakeBackend) FailOrders(fail bool) {
	fb.mu.Lock()
	fb.failOrders = fail
	fb.mu.Unlock()
}
