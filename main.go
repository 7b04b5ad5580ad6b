package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maxbax0808/Bergle/assets"
	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/config"
	"github.com/maxbax0808/Bergle/internal/httpserver"
	"github.com/maxbax0808/Bergle/internal/store"
)

// sweepEvery is how often games idle for over a day are dropped.
const sweepEvery = time.Hour

func main() {
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := catalog.Init(cfg.CatalogFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("failed to load catalog")
	}
	places, bydeler := catalog.Default().Stats()
	log.Info().Int("places", places).Int("bydeler", bydeler).Msg("catalog loaded")

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open db")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	mem := store.NewMemoryStore()
	go sweep(context.Background(), mem)

	srv := httpserver.New(cfg, catalog.Default(), mem, db)
	log.Info().Str("port", cfg.Port).Msg("starting bergle")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweep periodically drops idle games from the in-memory store.
func sweep(ctx context.Context, mem *store.Memory) {
	t := time.NewTicker(sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := mem.Sweep(now.Add(-24 * time.Hour)); n > 0 {
				log.Debug().Int("removed", n).Msg("swept idle games")
			}
		}
	}
}
