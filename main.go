package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"glowhub/config"
	"glowhub/cron"
	"glowhub/database"
	bookingRepo "glowhub/database/repository/booking"
	resourceRepo "glowhub/database/repository/resource"
	transactionRepo "glowhub/database/repository/transaction"
	userRepo "glowhub/database/repository/user"
	"glowhub/handlers"
	"glowhub/metrics"
	"glowhub/middleware"
	"glowhub/models"
	"glowhub/routes"
	"glowhub/services/booking"
	"glowhub/services/payment"
	"glowhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stores groups the repositories selected by STORE_BACKEND.
type stores struct {
	resources    resourceRepo.ResourceRepository
	bookings     bookingRepo.BookingRepository
	transactions transactionRepo.TransactionRepository
	ledger       userRepo.LoyaltyLedger
	mongo        *mongo.Client
}

func openStores(ctx context.Context, logger *zap.Logger) stores {
	if config.AppConfig.StoreBackend == "memory" {
		logger.Warn("using in-memory store; data is lost on restart")
		return stores{
			resources:    resourceRepo.NewMemoryResourceRepo(resourceRepo.DemoResources()...),
			bookings:     bookingRepo.NewMemoryBookingRepo(),
			transactions: transactionRepo.NewMemoryTransactionRepo(),
			ledger:       userRepo.NewMemoryLedger(1250),
		}
	}

	database.InitDB()
	db := database.Database()

	resources := resourceRepo.NewMongoResourceRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	transactions := transactionRepo.NewMongoTransactionRepo(db)
	users := userRepo.NewMongoUserRepo(db)

	for name, ensure := range map[string]func(context.Context) error{
		"resources":    resources.EnsureIndexes,
		"bookings":     bookings.EnsureIndexes,
		"transactions": transactions.EnsureIndexes,
		"users":        users.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	seedResources(ctx, resources, logger)

	return stores{
		resources:    resources,
		bookings:     bookings,
		transactions: transactions,
		ledger:       users,
		mongo:        database.MongoClient,
	}
}

// seedResources loads the demo salons into an empty catalogue.
func seedResources(ctx context.Context, repo *resourceRepo.MongoResourceRepo, logger *zap.Logger) {
	existing, err := repo.List(ctx)
	if err != nil {
		logger.Warn("main: could not list resources", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}
	for _, res := range resourceRepo.DemoResources() {
		if err := repo.Upsert(ctx, res); err != nil {
			logger.Warn("main: failed to seed resource", zap.String("resourceId", res.ID), zap.Error(err))
		}
	}
	logger.Info("main: seeded demo resources")
}

func paymentProviders(logger *zap.Logger) map[models.PaymentMethod]payment.Provider {
	wallet := payment.NewSimulatedProvider(config.AppConfig.WalletApproveAfter, config.AppConfig.ReceiptBaseURL)
	var card payment.Provider = wallet
	if config.AppConfig.CardProvider == "stripe" {
		if config.AppConfig.StripeKey == "" {
			logger.Fatal("main: CARD_PROVIDER=stripe requires STRIPE_KEY")
		}
		stripe.Key = config.AppConfig.StripeKey
		card = payment.NewStripeProvider(config.AppConfig.StripeKey)
	}
	return map[models.PaymentMethod]payment.Provider{
		models.PaymentJazzCash:  wallet,
		models.PaymentEasyPaisa: wallet,
		models.PaymentCard:      card,
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()
	cfg := config.AppConfig

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	st := openStores(appCtx, logger)
	cache := utils.GetCacheClient()
	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer queue.Close()
	queueProbe := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer queueProbe.Close()

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	// services.
	paymentService := &payment.DefaultPaymentService{
		Repo:      st.transactions,
		Providers: paymentProviders(logger),
		Settings: payment.Settings{
			CommissionRate:    cfg.PlatformCommissionRate,
			PointsEarnDivisor: cfg.PointsEarnDivisor,
			Currency:          cfg.Currency,
		},
		Logger: logger.Named("payment"),
	}
	holds := booking.NewRedisSlotHolder(cache)
	engine := &booking.DefaultSlotEngine{
		Resources: st.resources,
		Bookings:  st.bookings,
		Holds:     holds,
		Metrics:   bookingMetrics,
		Logger:    logger.Named("slots"),
	}
	orchestrator := &booking.DefaultBookingOrchestrator{
		Engine:     engine,
		Bookings:   st.bookings,
		Payments:   paymentService,
		Ledger:     st.ledger,
		Holds:      holds,
		Reconciler: &booking.AsynqReconciler{Client: queue},
		Pricing: booking.PricingRules{
			PeakMultiplier: cfg.PeakMultiplier,
			PromoCodes:     cfg.Promotions(),
		},
		Currency:        cfg.Currency,
		PollInterval:    cfg.PaymentPollInterval,
		MaxPollAttempts: cfg.PaymentPollAttempts,
		HoldTTL:         cfg.SlotHoldTTL,
		Metrics:         bookingMetrics,
		Logger:          logger.Named("booking"),
	}
	attempts := booking.NewAttemptManager(appCtx, orchestrator,
		booking.NewRedisAttemptStore(cache, cfg.AttemptTTL), logger.Named("attempts"))

	worker := cron.InitReconcileWorker(paymentService, bookingMetrics, logger.Named("reconcile"))
	utils.StartHealthMonitor(appCtx, []*redis.Client{cache, queueProbe}, st.mongo)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewBookingHandler(engine, orchestrator, attempts),
		handlers.NewPaymentHandler(paymentService, st.ledger),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
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
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	// In-flight attempts are cancelled; their compensation still runs.
	stopApp()
	attempts.Wait()
	worker.Shutdown()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
