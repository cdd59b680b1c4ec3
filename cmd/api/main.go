package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taxibooking/internal/config"
	"taxibooking/internal/database"
	"taxibooking/internal/events"
	"taxibooking/internal/middleware"
	"taxibooking/internal/modules/admin"
	"taxibooking/internal/modules/auth"
	"taxibooking/internal/modules/booking"
	"taxibooking/internal/modules/feed"
	"taxibooking/internal/modules/review"
	"taxibooking/internal/modules/search"
	jwtsvc "taxibooking/internal/pkg/jwt"
	"taxibooking/internal/queue"
	"taxibooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taxiRepo := repository.NewTaxiRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	bus := events.NewBus(log.Printf)
	hub := feed.NewHub(log.Printf)
	defer hub.Close()

	var searchCache search.Cache
	if rdb := config.NewRedisClient(cfg); rdb != nil {
		defer rdb.Close()
		redisCache := search.NewRedisCache(rdb, cfg.SearchCacheTTL)
		searchCache = redisCache
		bus.Subscribe("search-cache", search.Invalidator(redisCache), search.InvalidatingEvents...)
	}

	bus.Subscribe("rating", review.RatingAggregator(reviewRepo, taxiRepo), events.ReviewSubmitted)
	bus.Subscribe("admin-feed", hub.Handler())

	if cfg.RabbitMQURL != "" {
		fwd, err := queue.NewForwarder(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("level=warn msg=rabbitmq unavailable, events not forwarded err=%v", err)
		} else {
			defer fwd.Close()
			bus.Subscribe("rabbitmq", fwd.Handler())
		}
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens))

	searchService := search.NewService(routeRepo, taxiRepo, bookingRepo, searchCache, search.Config{
		Location:   cfg.BookingLocation,
		ExactMatch: cfg.SearchMatchMode == config.MatchExact,
	}, log.Printf)
	searchHandler := search.NewHandler(searchService)

	bookingService := booking.NewService(bookingRepo, taxiRepo, routeRepo, userRepo, bus, booking.Config{
		Location:     cfg.BookingLocation,
		CodeAttempts: cfg.BookingCodeAttempts,
	}, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	reviewHandler := review.NewHandler(review.NewService(reviewRepo, bookingRepo, bus, log.Printf))
	feedHandler := feed.NewHandler(hub, tokens, cfg.CORSAllowedOrigins)
	adminHandler := admin.NewHandler(admin.NewService(taxiRepo, routeRepo, bookingRepo, userRepo, bus, cfg.BookingLocation, log.Printf))

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		searchHandler.RegisterRoutes(v1)
		feedHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			adminHandler.RegisterRoutes(protected)
		}
		reviewHandler.RegisterRoutes(v1, protected)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("level=info msg=listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("level=info msg=shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("level=error msg=shutdown failed err=%v", err)
	}
}
