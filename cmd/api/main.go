package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_reservation/internal/adapters/authn"
	server "hotel_reservation/internal/adapters/http_server"
	"hotel_reservation/internal/adapters/observability"
	redisad "hotel_reservation/internal/adapters/redis"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
	"hotel_reservation/internal/storage/memory"
	mysqlrepo "hotel_reservation/internal/storage/mysql"
)

type stores struct {
	hotels       domain.HotelRepository
	restaurants  domain.RestaurantRepository
	users        domain.UserRepository
	sessions     domain.SessionRepository
	bookings     domain.BookingRepository
	reservations domain.ReservationRepository
	payments     domain.PaymentRepository
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeDB := openStores(ctx, cfg)
	defer closeDB()

	cache, sessions, closeRedis := wireRedis(ctx, cfg, st.sessions)
	defer closeRedis()
	st.sessions = sessions

	var latency app.Latency = app.NoLatency{}
	if cfg.SimLatency {
		latency = app.DemoProfile(cfg.LatencyScale)
		log.Info().Float64("scale", cfg.LatencyScale).Msg("simulated latency enabled")
	}

	auth := app.NewAuthService(st.users, st.sessions, authn.NewBcrypt(), authn.NewJWT(cfg.JWTSecret), latency)
	handlers := &server.Handlers{
		Auth:    auth,
		Catalog: app.NewCatalogService(st.hotels, st.restaurants, cache, cfg.CacheTTL, latency),
		Bookings: app.NewBookingService(app.BookingDeps{
			Auth:         auth,
			Hotels:       st.hotels,
			Restaurants:  st.restaurants,
			Bookings:     st.bookings,
			Reservations: st.reservations,
			Payments:     st.payments,
			Latency:      latency,
		}),
	}

	// http
	srv := server.New(15 * time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)
	observability.Serve(cfg.MetricsAddr, reg)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("storage", cfg.StorageDriver).Str("sessions", cfg.SessionStore).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// wireRedis returns the catalog cache and the session repository. Redis is
// optional: without an address, or when it does not answer, the cache is a
// no-op and sessions stay in fallback.
func wireRedis(ctx context.Context, cfg shared.Config, fallback domain.SessionRepository) (domain.Cache, domain.SessionRepository, func()) {
	if cfg.RedisAddr == "" {
		return redisad.Nop{}, fallback, func() {}
	}
	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Str("sessions", cfg.StorageDriver).
			Msg("redis unreachable; cache disabled and sessions stay in the storage driver")
		return redisad.Nop{}, fallback, func() {}
	}
	sessions := fallback
	if cfg.SessionStore == "redis" {
		sessions = redisad.NewSessionStore(rdb)
	}
	return redisad.NewFromClient(rdb), sessions, func() { _ = rdb.Close() }
}

func openStores(ctx context.Context, cfg shared.Config) (stores, func()) {
	switch cfg.StorageDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		m := mysqlrepo.NewStores(db)
		return stores{
			hotels:       m.Catalog,
			restaurants:  m.Catalog,
			users:        m.Users,
			sessions:     m.Sessions,
			bookings:     m.Bookings,
			reservations: m.Reservations,
			payments:     m.Payments,
		}, func() { _ = db.Close() }

	case "memory", "":
		hotels, restaurants := memory.NewHotelRepo(), memory.NewRestaurantRepo()
		if err := memory.Seed(ctx, shared.BuildCatalog(), hotels, restaurants); err != nil {
			log.Fatal().Err(err).Msg("seed in-memory catalog failed")
		}
		bookings, reservations := memory.NewBookingRepo(), memory.NewReservationRepo()
		return stores{
			hotels:       hotels,
			restaurants:  restaurants,
			users:        memory.NewUserRepo(),
			sessions:     memory.NewSessionRepo(),
			bookings:     bookings,
			reservations: reservations,
			payments:     memory.NewPaymentRepo(bookings, reservations),
		}, func() {}

	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("unknown STORAGE_DRIVER (want memory or mysql)")
		return stores{}, nil
	}
}
