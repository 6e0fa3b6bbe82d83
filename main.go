package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/zynordev/okurundan/internal/admin"
	"github.com/zynordev/okurundan/internal/catalog"
	"github.com/zynordev/okurundan/internal/config"
	"github.com/zynordev/okurundan/internal/exchange"
	"github.com/zynordev/okurundan/internal/handlers"
	"github.com/zynordev/okurundan/internal/identity"
	"github.com/zynordev/okurundan/internal/intake"
	"github.com/zynordev/okurundan/internal/middleware"
	"github.com/zynordev/okurundan/internal/store/jsonstore"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	addr := flag.String("addr", cfg.Addr, "http service address")
	dataFile := flag.String("data", cfg.DataFile, "path to the JSON document store")
	flag.Parse()

	st, err := jsonstore.New(*dataFile, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}

	resolver := identity.NewBearerResolver(st)

	authHandler := &handlers.AuthHandler{Store: st}
	bookHandler := &handlers.BookHandler{Catalog: catalog.NewService(st)}
	threadHandler := &handlers.ThreadHandler{
		Exchange: exchange.NewService(st),
		Intake:   intake.NewService(st),
	}
	adminHandler := &handlers.AdminHandler{
		Admin: admin.NewService(st, admin.NewCannedNarrator()),
	}

	limiter := middleware.NewLimiterStore(cfg.LoginRatePerMin, cfg.LoginRateBurst, 5*time.Minute)
	defer limiter.Stop()

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))

	public := r.PathPrefix("/api").Subrouter()
	public.Handle("/login", middleware.RateLimit(limiter)(http.HandlerFunc(authHandler.Login))).Methods("POST")
	public.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(resolver))
	protected.HandleFunc("/books", bookHandler.List).Methods("GET")
	protected.HandleFunc("/add-book", bookHandler.Create).Methods("POST")
	protected.HandleFunc("/book/{id}", bookHandler.Get).Methods("GET")
	protected.HandleFunc("/new-request", threadHandler.CreateGeneralRequest).Methods("POST")
	protected.HandleFunc("/request-book", threadHandler.RequestBook).Methods("POST")
	protected.HandleFunc("/messages", threadHandler.ListThreads).Methods("GET")
	protected.HandleFunc("/messages/{transactionId}", threadHandler.GetThread).Methods("GET")
	protected.HandleFunc("/send-message", threadHandler.SendMessage).Methods("POST")
	protected.HandleFunc("/admin/dashboard", adminHandler.Dashboard).Methods("GET")

	logger.Info().Str("addr", *addr).Str("data", *dataFile).Msg("starting server")
	if err := http.ListenAndServe(*addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
