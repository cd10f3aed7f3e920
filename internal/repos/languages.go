package repos

import (
	"context"

	"movies-etl/internal/model"
	"movies-etl/internal/store"
)

type LanguagesRepo struct {
	q *store.Queries
}

// UpsertLanguages inserts new codes and overwrites names of existing ones.
// Entries with an empty code are skipped. Returns count upserted.
func (r *LanguagesRepo) UpsertLanguages(ctx context.Context, langs []model.Language) (int, error) {
	count := 0
	for _, l := range langs {
		if l.Code == "" {
			continue
		}
		if err := r.q.UpsertLanguage(ctx, store.UpsertLanguageParams{
			Code:        l.Code,
			EnglishName: textOrEmpty(l.EnglishName),
			Name:        textOrEmpty(l.Name),
		}); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (r *LanguagesRepo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := r.q.ListLanguages(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Language, 0, len(rows))
	for _, l := range rows {
		out = append(out, model.Language{Code: l.Code, EnglishName: l.EnglishName.String, Name: l.Name.String})
	}
	return out, nil
}
