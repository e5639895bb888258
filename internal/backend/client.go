package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mediplus/internal/config"
	"mediplus/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Client talks to the external MediPlus backend: orders, bookings,
// confirmation mails and authentication.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a backend client.
func New(cfg *config.BackendConfig, logger zerolog.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger.With().Str("component", "backend-client").Logger(),
	}
}

// orderID accepts either a JSON string or number.
type orderID string

func (o *orderID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = orderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("orderId is neither string nor number: %s", data)
	}
	*o = orderID(n.String())
	return nil
}

type apiResponse struct {
	OrderID orderID `json:"orderId"`
	Error   string  `json:"error"`
	Message string  `json:"message"`
}

func (r apiResponse) errorMessage(fallback string) string {
	switch {
	case r.Error != "":
		return r.Error
	case r.Message != "":
		return r.Message
	}
	return fallback
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CreateOrder submits an order as multipart form data and returns the backend's order id.
func (c *Client) CreateOrder(ctx context.Context, token string, sub model.OrderSubmission) (string, error) {
	if token == "" {
		return "", model.ErrAuthRequired
	}

	body, contentType, err := encodeOrder(sub)
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/orders/create", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	var out apiResponse
	status, err := c.do(req, &out)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized:
		return "", model.ErrAuthRequired
	case status < 200 || status > 299:
		return "", &model.BackendError{Status: status, Message: out.errorMessage("Order failed")}
	case out.OrderID == "":
		return "", &model.BackendError{Status: status, Message: "order created without an order id"}
	}

	c.logger.Info().
		Str("order_id", string(out.OrderID)).
		Str("payment_method", string(sub.PaymentMethod)).
		Float64("total", sub.Summary.Total).
		Msg("order created")

	return string(out.OrderID), nil
}

func encodeOrder(sub model.OrderSubmission) (*bytes.Buffer, string, error) {
	delivery, err := json.Marshal(sub.Delivery)
	if err != nil {
		return nil, "", err
	}
	items, err := json.Marshal(sub.Items)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"deliveryInfo", string(delivery)},
		{"items", string(items)},
		{"paymentMethod", string(sub.PaymentMethod)},
		{"paymentStatus", string(sub.PaymentStatus)},
		{"subtotal", formatAmount(sub.Summary.Subtotal)},
		{"couponCode", sub.CouponCode},
		{"couponDiscount", formatAmount(sub.Summary.CouponDiscount)},
		{"deliveryCharge", formatAmount(sub.Summary.DeliveryCharge)},
		{"total", formatAmount(sub.Summary.Total)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if sub.Prescription != nil {
		part, err := w.CreateFormFile("prescription", sub.Prescription.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, sub.Prescription.Content); err != nil {
			return nil, "", fmt.Errorf("failed to attach prescription: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// SendConfirmation posts a booking summary for the confirmation mail.
// Callers treat failures as non-fatal.
func (c *Client) SendConfirmation(ctx context.Context, confirmation model.Confirmation) error {
	var out apiResponse
	status, err := c.postJSON(ctx, "/api/send-confirmation", confirmation, &out)
	if err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	if status < 200 || status > 299 {
		return &model.BackendError{Status: status, Message: out.errorMessage("confirmation failed")}
	}

	c.logger.Debug().
		Str("booking_id", confirmation.BookingID).
		Msg("confirmation sent")

	return nil
}

// BookLabTest posts a lab test booking and returns the token the backend issues.
func (c *Client) BookLabTest(ctx context.Context, req model.LabBookingRequest) (string, error) {
	token, err := c.book(ctx, "/api/lab-booking", req)
	if err != nil {
		return "", fmt.Errorf("failed to book lab test: %w", err)
	}

	c.logger.Info().
		Str("labtest_id", req.LabTestID).
		Str("date", req.Date).
		Str("time", req.Time).
		Msg("lab test booked")

	return token, nil
}

// BookConsultation posts a doctor consultation booking and returns the issued token.
func (c *Client) BookConsultation(ctx context.Context, req model.ConsultationRequest) (string, error) {
	token, err := c.book(ctx, "/api/consulting", req)
	if err != nil {
		return "", fmt.Errorf("failed to book consultation: %w", err)
	}

	c.logger.Info().
		Str("doctor_id", req.DoctorID).
		Str("preferred_date", req.PreferredDate).
		Msg("consultation booked")

	return token, nil
}

func (c *Client) book(ctx context.Context, path string, in any) (string, error) {
	var out struct {
		Token   string `json:"token"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	status, err := c.postJSON(ctx, path, in, &out)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		msg := apiResponse{Error: out.Error, Message: out.Message}.errorMessage("Something went wrong")
		return "", &model.BackendError{Status: status, Message: msg}
	}
	return out.Token, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	creds.Name = ""
	return c.authenticate(ctx, "/api/auth/login", creds, "Login failed")
}

// Signup registers a user and returns a bearer token.
func (c *Client) Signup(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	return c.authenticate(ctx, "/api/auth/signup", creds, "Signup failed")
}

func (c *Client) authenticate(ctx context.Context, path string, creds model.Credentials, fallback string) (model.AuthResponse, error) {
	var out struct {
		model.AuthResponse
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	status, err := c.postJSON(ctx, path, creds, &out)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("failed to authenticate: %w", err)
	}
	if status < 200 || status > 299 {
		msg := apiResponse{Error: out.Error, Message: out.Message}.errorMessage(fallback)
		return model.AuthResponse{}, &model.BackendError{Status: status, Message: msg}
	}
	if out.Token == "" {
		return model.AuthResponse{}, &model.BackendError{Status: status, Message: "backend returned no token"}
	}

	return out.AuthResponse, nil
}

// MyOrders lists the caller's orders as returned by the backend.
func (c *Client) MyOrders(ctx context.Context, token string) (json.RawMessage, error) {
	if token == "" {
		return nil, model.ErrAuthRequired
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/orders/my-orders", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out struct {
		Orders json.RawMessage `json:"orders"`
		Error  string          `json:"error"`
	}
	status, err := c.do(req, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	switch {
	case status == http.StatusUnauthorized:
		return nil, model.ErrAuthRequired
	case status < 200 || status > 299:
		return nil, &model.BackendError{Status: status, Message: apiResponse{Error: out.Error}.errorMessage("failed to list orders")}
	case len(out.Orders) == 0 || string(out.Orders) == "null":
		return json.RawMessage("[]"), nil
	}
	return out.Orders, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set(middleware.RequestIDHeader, reqID)
	}
	return req, nil
}

// do sends req and decodes a JSON body into out when there is one.
// Transport failures come back as *model.BackendError with Status 0.
func (c *Client) do(req *http.Request, out any) (int, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("backend request failed")
		return 0, &model.BackendError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request completed")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, &model.BackendError{Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 || out == nil {
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			// non-JSON error pages still carry a useful status
			return resp.StatusCode, nil
		}
		return resp.StatusCode, &model.BackendError{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}

	return resp.StatusCode, nil
}
