package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"movies-etl/internal/catalog"
	"movies-etl/internal/config"
	"movies-etl/internal/jobs"
	"movies-etl/internal/repos"
	"movies-etl/internal/server"
	"movies-etl/pkg/cache"
	pkgdb "movies-etl/pkg/db"
	"movies-etl/pkg/signer"
	"movies-etl/pkg/tmdb"
)

func main() {
	os.Exit(run())
}

func run() int {
	date := flag.String("date", "", "release date to sync (YYYY-MM-DD); overrides RELEASE_DATE")
	serve := flag.Bool("serve", false, "serve the ops HTTP API instead of running one sync")
	flag.Parse()

	_ = godotenv.Load() // best-effort
	cfg := config.FromEnv()
	setupLogging(cfg)
	if *date != "" {
		cfg.ReleaseDate = *date
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pkgdb.Connect(ctx, cfg.PostgresURL())
	if err != nil {
		log.Error().Err(err).Msg("db connect failed")
		return 1
	}
	defer pool.Close()

	var c cache.Cache
	if addr := cfg.ValkeyAddr; addr != "" {
		vc, err := cache.NewValkey(addr, cfg.ValkeyPassword)
		if err != nil {
			log.Error().Err(err).Msg("valkey connect failed, using in-memory cache")
			c = cache.NewInMemory()
		} else {
			defer vc.Close()
			c = vc
		}
	} else {
		c = cache.NewInMemory()
	}

	tmdbClient := tmdb.New(cfg.TMDBAPIKey)
	tmdbClient.BaseURL = cfg.TMDBBaseURL

	repository := repos.New(pool)
	syncer := catalog.New(cfg, tmdbClient, catalog.NewPostgresStore(repository), log.Logger)
	runner := jobs.NewRunner(syncer, c)

	if !*serve {
		return runOnce(ctx, runner, cfg.ReleaseDate)
	}

	api := server.New(repository, runner, c, signer.NewHMAC(cfg.CursorSecret))
	api.RunCtx = ctx
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("listening")
	if err := server.StartHTTP(ctx, addr, api.Router()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
		return 1
	}
	return 0
}

// runOnce runs a single sync and maps the outcome to an exit code for the scheduler.
func runOnce(ctx context.Context, runner *jobs.Runner, date string) int {
	rep, err := runner.Run(ctx, date)
	switch {
	case errors.Is(err, catalog.ErrConfiguration):
		log.Error().Err(err).Msg("sync not started")
		return 2
	case errors.Is(err, jobs.ErrRunInProgress):
		log.Warn().Str("release_date", runner.ResolveDate(date)).Msg("sync already running, nothing to do")
		return 0
	case err != nil:
		log.Error().Err(err).Str("run_id", rep.RunID).Msg("sync aborted")
		return 1
	}
	return 0
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
