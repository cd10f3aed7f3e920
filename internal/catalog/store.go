package catalog

import (
	"context"

	"movies-etl/internal/model"
	"movies-etl/internal/repos"
)

// Store hands out the database session a run works on.
type Store interface {
	Session(ctx context.Context) (Session, error)
}

// Session is one connection held for a whole run.
type Session interface {
	EnsureSchema(ctx context.Context) error
	// UpsertLanguages commits the catalog before returning.
	UpsertLanguages(ctx context.Context, langs []model.Language) (int, error)
	Begin(ctx context.Context) (Tx, error)
	// Close must be safe to call more than once.
	Close()
}

// Tx is the transaction for one language partition.
type Tx interface {
	// InsertMovie reports false when the id already exists.
	InsertMovie(ctx context.Context, m model.Movie) (bool, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// NewPostgresStore adapts the repository to Store.
func NewPostgresStore(r *repos.Repository) Store { return pgStore{r: r} }

type pgStore struct{ r *repos.Repository }

func (s pgStore) Session(ctx context.Context) (Session, error) {
	sess, err := s.r.Session(ctx)
	if err != nil {
		return nil, err
	}
	return pgSession{sess}, nil
}

type pgSession struct{ *repos.Session }

func (s pgSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.Session.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
