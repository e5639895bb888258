package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediplus/internal/backend"
	"mediplus/internal/booking"
	"mediplus/internal/cart"
	"mediplus/internal/checkout"
	"mediplus/internal/config"
	"mediplus/internal/coupon"
	"mediplus/internal/database"
	"mediplus/internal/expiry"
	"mediplus/internal/handler"
	"mediplus/internal/payment"
	"mediplus/internal/repository"
	"mediplus/internal/router"
	"mediplus/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const shutdownGrace = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mediplus: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("address", cfg.Server.Address()).Msg("starting MediPlus checkout API")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	validator, err := couponValidator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer validator.Close()

	clock := clockwork.NewRealClock()
	medicines := repository.NewMedicineRepository(pool, logger)
	backendClient := backend.New(&cfg.Backend, logger)
	payments := payment.NewManager(payment.Config{
		MerchantUPIID:   cfg.Payment.MerchantUPIID,
		MerchantName:    cfg.Payment.MerchantName,
		ProcessingDelay: cfg.Payment.ProcessingDelay,
		OTPDelay:        cfg.Payment.OTPDelay,
	}, backendClient, clock, logger)

	cartStore := cart.NewMemoryStore(clock, logger)
	checkoutStore := checkout.NewMemoryStore(clock, logger)
	bookingStore := booking.NewMemoryStore(clock, logger)

	janitor := expiry.NewJanitor(clock, expiry.Policy{
		IdleTTL:       cfg.State.IdleTTL,
		DoneRetention: cfg.State.DoneRetention,
		Interval:      cfg.State.SweepInterval,
	}, logger)
	janitor.Register("carts", cartStore)
	janitor.Register("checkouts", checkoutStore)
	janitor.Register("lab-bookings", bookingStore)
	janitor.Register("payments", payments)
	go janitor.Run(ctx)

	pricing := cart.NewPricing(cfg.Pricing.FreeDeliveryThreshold, cfg.Pricing.DeliveryFee)
	carts := service.NewCartService(cartStore, medicines, validator, pricing, logger)
	receipts := service.NewReceiptService(repository.NewReceiptRepository(pool, logger), logger)
	auth := service.NewAuthService(backendClient, logger)
	checkouts := service.NewCheckoutService(checkoutStore, carts, payments, backendClient, receipts, logger)

	h := router.New(router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Medicine: handler.NewMedicineHandler(service.NewMedicineService(medicines, logger), logger),
		Cart:     handler.NewCartHandler(carts, logger),
		Checkout: handler.NewCheckoutHandler(checkouts, logger),
		Payment:  handler.NewPaymentHandler(service.NewPaymentService(payments, logger), logger),
		Booking:  handler.NewBookingHandler(service.NewBookingService(bookingStore, backendClient, logger), logger),
		Order:    handler.NewOrderHandler(receipts, auth, logger),
		Auth:     handler.NewAuthHandler(auth, logger),
	}, logger)

	return serve(ctx, &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// covers order submission with a prescription upload
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, payments.Wait, logger)
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return pool, nil
}

// couponValidator builds the coupon catalog from the built-in codes plus any
// configured files, read from S3 when enabled and from disk otherwise.
func couponValidator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Validator, error) {
	var remote coupon.Loader
	if cfg.S3.Enabled {
		l, err := coupon.NewS3Loader(ctx, cfg.S3, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("S3 coupon source unavailable, using local files only")
		} else {
			remote = l
		}
	}
	loader := coupon.NewFallbackLoader(remote, coupon.NewFileLoader(logger), cfg.S3.Prefix, cfg.S3.Enabled, logger)

	vc := coupon.DefaultValidatorConfig()
	vc.FilePaths = cfg.Coupons.Files
	v, err := coupon.NewValidator(ctx, vc, loader, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize coupon validator: %w", err)
	}
	return v, nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// followed by background work via drain.
func serve(ctx context.Context, srv *http.Server, drain func(context.Context) error, logger zerolog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("HTTP server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("payments still processing at shutdown")
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}
