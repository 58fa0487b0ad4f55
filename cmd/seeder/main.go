package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_reservation/internal/adapters/observability"
	redisad "hotel_reservation/internal/adapters/redis"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
	mysqlrepo "hotel_reservation/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	catalog := shared.BuildCatalog()
	log.Info().
		Int("hotels", len(catalog.Hotels)).
		Int("rooms", len(catalog.Rooms)).
		Int("tables", len(catalog.Tables)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)

	var cache domain.Cache = redisad.Nop{}
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	seeder := app.NewSeedService(repo, repo, cache)

	workers := cfg.SeedWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed int32

	for _, h := range catalog.Hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			// interrupted; let running workers finish
			break
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seeder.SeedHotel(ctx, catalog, hotelID); err != nil {
				atomic.AddInt32(&failed, 1)
				log.Warn().Int64("id", hotelID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", hotelID).Msg("seed ok")
		}(h.ID)
	}

	wg.Wait()
	if ctx.Err() != nil {
		log.Fatal().Msg("seeding interrupted")
	}
	seeder.EvictLists(ctx)
	if failed > 0 {
		log.Fatal().Int32("failed", failed).Msg("seeding incomplete")
	}
	log.Info().Msg("seeding completed")
}
