package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/shop-backend/internal/auth"
	"github.com/vasiliy-maslov/shop-backend/internal/cart"
	"github.com/vasiliy-maslov/shop-backend/internal/catalog"
	"github.com/vasiliy-maslov/shop-backend/internal/config"
	"github.com/vasiliy-maslov/shop-backend/internal/db"
	shopHttp "github.com/vasiliy-maslov/shop-backend/internal/handler/http"
	"github.com/vasiliy-maslov/shop-backend/internal/order"
	"github.com/vasiliy-maslov/shop-backend/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "shop-backend").Logger()

	log.Info().Msg("Shop backend starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	database, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.Seed(context.Background(), database.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	userRepository := user.NewRepository(database.Pool)
	catalogRepository := catalog.NewRepository(database.Pool)
	cartRepository := cart.NewRepository(database.Pool)
	orderRepository := order.NewRepository(database.Pool)

	authService := auth.NewService(userRepository)
	catalogService := catalog.NewService(catalogRepository)
	cartService := cart.NewService(cartRepository, userRepository, catalogRepository)
	orderService := order.NewService(orderRepository, userRepository)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(shopHttp.CORS)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	shopHttp.NewAuthHandler(authService).RegisterRoutes(router)
	shopHttp.NewCatalogHandler(catalogService).RegisterRoutes(router)
	shopHttp.NewCartHandler(cartService).RegisterRoutes(router)
	shopHttp.NewOrderHandler(orderService).RegisterRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.App.Port).Msg("Could not listen")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shop backend stopped gracefully.")
}
