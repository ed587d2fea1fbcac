// File: lexbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexbook/config"
	"lexbook/cron"
	"lexbook/database"
	appointmentRepoPkg "lexbook/database/repository/appointment"
	providerRepoPkg "lexbook/database/repository/provider"
	slotRepoPkg "lexbook/database/repository/slot"
	userRepoPkg "lexbook/database/repository/user"
	"lexbook/handlers"
	"lexbook/middleware"
	"lexbook/routes"
	"lexbook/services/booking"
	"lexbook/services/notification"
	"lexbook/services/provider"
	"lexbook/services/storage"
	"lexbook/services/user"
	"lexbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	storageService, err := storage.NewCloudinaryStorageService(config.AppConfig.CloudinaryURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	providerRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// Services.
	directory := &provider.DefaultDirectoryService{Repo: providerRepo}
	schedule := &provider.DefaultScheduleService{Providers: directory, Slots: slotRepo}

	ledger := &booking.DefaultLedger{
		Slots:        slotRepo,
		Appointments: appointmentRepo,
		Providers:    providerRepo,
		Pricing:      booking.PricingEngine{MinimumFee: config.AppConfig.MinConsultationFee},
		Currency:     config.AppConfig.Currency,
		Logger:       logger,
	}

	notifier := &notification.FCMNotifier{
		Users:     userRepo,
		Providers: providerRepo,
		Logger:    logger,
	}

	bookingService := &booking.DefaultBookingSessionService{
		Directory:   directory,
		Catalog:     &booking.LedgerCatalog{Slots: slotRepo},
		Ledger:      ledger,
		Payments:    booking.NewStripePaymentProcessor(logger),
		Notifier:    notifier,
		Expiry:      cron.NewExpiryScheduler(),
		Cache:       utils.GetSessionCacheClient(),
		SessionTTL:  config.SessionTTL(),
		RetryWindow: config.PaymentRetryWindow(),
		Flow:        booking.NewBookingFlow(),
		Logger:      logger,
	}

	signupService := &user.DefaultSignupService{
		Repo:       userRepo,
		Storage:    storageService,
		Cache:      utils.GetSessionCacheClient(),
		SessionTTL: config.SessionTTL(),
		Flow:       user.NewSignupFlow(),
		Logger:     logger,
	}

	authService := &user.DefaultAuthService{Repo: userRepo}

	// Background expiry sweep for unpaid reservations.
	cron.InitExpiryWorker(ledger)

	// Router and middleware.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		Booking:  handlers.NewBookingHandler(bookingService, ledger, logger),
		Provider: handlers.NewProviderHandler(directory, schedule),
		Signup:   handlers.NewSignupHandler(signupService, logger),
		Auth:     handlers.NewAuthHandler(authService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
