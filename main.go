package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carwash/config"
	"carwash/cron"
	"carwash/database"
	bookingRepo "carwash/database/repository/booking"
	draftRepo "carwash/database/repository/draft"
	userRepoPkg "carwash/database/repository/user"
	"carwash/handlers"
	"carwash/middleware"
	"carwash/routes"
	"carwash/services/booking"
	"carwash/services/catalog"
	"carwash/services/dashboard"
	"carwash/services/tasks"
	"carwash/services/user"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// stores holds the repositories for the configured driver and a way to release them.
type stores struct {
	users    userRepoPkg.UserRepository
	bookings bookingRepo.BookingRepository
	ping     utils.HealthCheck
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.DatabaseDriver == config.DriverMongo {
		client, err := database.ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		users, err := userRepoPkg.NewMongoUserRepo(ctx, db)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		bookings, err := bookingRepo.NewMongoBookingRepo(ctx, db)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &stores{
			users:    users,
			bookings: bookings,
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}

	db, err := database.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &stores{
		users:    userRepoPkg.NewSQLiteUserRepo(db),
		bookings: bookingRepo.NewSQLiteBookingRepo(db),
		ping:     db.PingContext,
		close:    func() { _ = db.Close() },
	}, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}
	utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open %s store: %v", cfg.DatabaseDriver, err)
	}
	defer st.close()

	checks := map[string]utils.HealthCheck{"database": st.ping}

	var drafts draftRepo.DraftStore
	redisClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDraftDB)
	redisUp := err == nil
	switch {
	case redisUp:
		defer redisClient.Close()
		drafts = draftRepo.NewRedisDraftStore(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	case cfg.IsProduction():
		logger.Fatal("main: Redis is required for booking sessions", zap.Error(err))
	default:
		logger.Warn("main: Redis unavailable, keeping booking sessions in memory", zap.Error(err))
		drafts = draftRepo.NewMemoryDraftStore()
	}

	healthMonitor := utils.NewHealthMonitor(checks)
	healthMonitor.Start(ctx, 30*time.Second)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiterStore(cfg.MaxRequestsPerMin)))

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// services.
	packageCatalog := catalog.NewCatalog()
	userService := user.NewUserService(st.users, tokens, logger)
	submissionService := booking.NewSubmissionService(st.bookings, logger)
	sessionService := booking.NewDraftSessionService(drafts, packageCatalog, submissionService, cfg.DraftTTL, cfg.Location(), logger)
	dashboardService := dashboard.NewDashboardService(st.users, st.bookings, logger)

	if redisUp && cfg.RemindersEnabled {
		queueOpts := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisReminderQueueDB,
		}
		queue := asynq.NewClient(queueOpts)
		defer queue.Close()
		submissionService.Reminders = tasks.NewReminderScheduler(queue, cfg.ReminderLead, logger)

		worker := cron.NewReminderWorker(queueOpts, st.users, logger)
		if err := worker.Start(); err != nil {
			logger.Error("main: failed to start reminder worker", zap.Error(err))
		} else {
			defer worker.Shutdown()
		}
	}

	// handlers.
	packageHandler := handlers.NewPackageHandler(packageCatalog)
	userHandler := handlers.NewUserHandler(userService)
	bookingHandler := handlers.NewBookingHandler(submissionService, dashboardService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      st.users,
		Tokens:        tokens,
		HealthMonitor: healthMonitor,

		ListPackagesHandler: packageHandler.ListPackagesHandler,

		SignupHandler:    userHandler.SignupHandler,
		LoginHandler:     userHandler.LoginHandler,
		ListUsersHandler: userHandler.ListUsersHandler,

		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		DashboardHandler:     bookingHandler.DashboardHandler,

		StartSession:     sessionHandler.StartSession,
		GetSession:       sessionHandler.GetSession,
		SelectPackage:    sessionHandler.SelectPackage,
		UpdateCar:        sessionHandler.UpdateCar,
		ProposeDate:      sessionHandler.ProposeDate,
		RemoveDate:       sessionHandler.RemoveDate,
		ReviewSession:    sessionHandler.ReviewSession,
		BackToScheduling: sessionHandler.BackToScheduling,
		RetrySession:     sessionHandler.RetrySession,
		ResetSession:     sessionHandler.ResetSession,
		SubmitSession:    sessionHandler.SubmitSession,
		CancelSession:    sessionHandler.CancelSession,
	}

	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (store: %s)...", srv.Addr, cfg.DatabaseDriver)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
