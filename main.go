package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petbnb/config"
	croninit "petbnb/cron"
	"petbnb/database"
	bookingRepoPkg "petbnb/database/repository/booking"
	offeringRepoPkg "petbnb/database/repository/offering"
	petRepoPkg "petbnb/database/repository/pet"
	"petbnb/handlers"
	"petbnb/middleware"
	"petbnb/routes"
	"petbnb/services/bookings"
	"petbnb/services/catalog"
	"petbnb/services/checkout"
	"petbnb/services/payment"
	"petbnb/services/pets"
	"petbnb/services/tasks"
	"petbnb/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	petRepo := petRepoPkg.NewMongoPetRepo()
	offeringRepo := offeringRepoPkg.NewMongoOfferingRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// Services.
	petDirectory := pets.NewDirectory(petRepo)
	serviceCatalog := catalog.NewCatalog(offeringRepo, utils.GetCacheClient())
	bookingService := bookings.NewService(bookingRepo, offeringRepo, logger)
	stripeGateway := payment.NewStripeGateway(bookingRepo, logger)

	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	taskScheduler := tasks.NewScheduler(queueOpt,
		time.Duration(config.AppConfig.PendingBookingTTLMin)*time.Minute)

	orchestrator := checkout.NewOrchestrator(
		bookingService,
		stripeGateway,
		taskScheduler,
		logger,
		time.Duration(config.AppConfig.SubmitTimeoutSec)*time.Second,
	)
	sessionStore := checkout.NewRedisSessionStore(
		utils.GetCheckoutCacheClient(),
		time.Duration(config.AppConfig.CheckoutSessionTTLMin)*time.Minute,
	)
	checkoutService := checkout.NewCheckoutService(petDirectory, serviceCatalog, sessionStore, orchestrator, logger)

	// Handlers.
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, logger)
	petsHandler := handlers.NewPetsHandler(petDirectory)
	bookingsHandler := handlers.NewBookingsHandler(bookingService, bookingRepo)

	routes.RegisterRoutes(router, checkoutHandler, petsHandler, bookingsHandler)

	// Background cleanup of pending bookings whose payment never completed.
	croninit.InitExpiryWorker(bookingService)
	sweep := croninit.InitPendingSweep(bookingService)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sweep.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
}
