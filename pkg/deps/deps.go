package deps

import (
	"context"
	"time"

	"movies-etl/internal/model"
	"movies-etl/pkg/cache"
	"movies-etl/pkg/signer"
)

// Repo is the read side of the store used by the HTTP API.
// *repos.Repository satisfies it.
type Repo interface {
	ListLanguages(ctx context.Context) ([]model.Language, error)
	ListMoviesByDatePage(ctx context.Context, date string, cursorPop *float64, cursorID *int64, limit int32) ([]model.Movie, error)
	CountMoviesByDate(ctx context.Context, date string) (int64, error)
}

// Runs triggers syncs and reads their reports. *jobs.Runner satisfies it.
type Runs interface {
	Start(ctx context.Context, date string) (string, error)
	LastReport(ctx context.Context, date string) (model.Report, bool, error)
}

// ServerDeps holds the dependencies required by handlers and server.
type ServerDeps struct {
	Repo   Repo
	Runs   Runs
	Cache  cache.Cache
	Signer signer.Codec
	// RunCtx scopes background runs; it outlives the triggering request.
	RunCtx    context.Context
	Name      string
	StartedAt time.Time
}
