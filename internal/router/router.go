package router

import (
	"net/http"

	"mediplus/internal/handler"
	"mediplus/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Health   *handler.HealthHandler
	Medicine *handler.MedicineHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Booking  *handler.BookingHandler
	Order    *handler.OrderHandler
	Auth     *handler.AuthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware order: RequestID -> Recovery -> Logging -> CORS -> BearerToken
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.BearerToken)

	r.Get("/health", h.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Get("/medicines", h.Medicine.GetAll)
		r.Get("/medicines/{id}", h.Medicine.GetByID)

		r.Get("/coupons", h.Cart.Coupons)

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", h.Cart.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Cart.Get)
				r.Post("/items", h.Cart.AddItem)
				r.Delete("/items", h.Cart.Clear)
				r.Post("/items/{itemId}/increase", h.Cart.Increase)
				r.Post("/items/{itemId}/decrease", h.Cart.Decrease)
				r.Delete("/items/{itemId}", h.Cart.Remove)
				r.Put("/coupon", h.Cart.ApplyCoupon)
				r.Delete("/coupon", h.Cart.RemoveCoupon)
			})
		})

		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", h.Checkout.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Checkout.Get)
				r.Put("/delivery", h.Checkout.SubmitDelivery)
				r.Put("/payment-method", h.Checkout.SelectMethod)
				r.Post("/next", h.Checkout.Next)
				r.Post("/back", h.Checkout.Back)
				r.Post("/place", h.Checkout.Place)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", h.Payment.Open)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Payment.Get)
				r.Delete("/", h.Payment.Close)
				r.Post("/details", h.Payment.SubmitDetails)
				r.Post("/method", h.Payment.ChooseMethod)
				r.Post("/card", h.Payment.SubmitCard)
				r.Post("/otp", h.Payment.SubmitOTP)
				r.Post("/upi/paid", h.Payment.ConfirmUPI)
				r.Post("/back", h.Payment.Back)
				r.Get("/qr", h.Payment.QR)
			})
		})

		r.Route("/lab-bookings", func(r chi.Router) {
			r.Post("/", h.Booking.StartLab)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Booking.GetLab)
				r.Post("/next", h.Booking.Continue)
				r.Post("/back", h.Booking.Back)
				r.Put("/contact", h.Booking.SubmitContact)
				r.Post("/confirm", h.Booking.Confirm)
			})
		})
		r.Post("/consultations", h.Booking.BookConsultation)

		r.Get("/orders", h.Order.MyOrders)
		r.Get("/orders/{id}", h.Order.GetByID)

		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/signup", h.Auth.Signup)
	})

	return r
}
