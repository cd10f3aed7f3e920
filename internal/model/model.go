package model

import "time"

// Language is a row of the languages reference table.
type Language struct {
	Code        string `json:"code"` // ISO 639-1
	EnglishName string `json:"english_name"`
	Name        string `json:"name"` // native name
}

type Movie struct {
	ID            int64      `json:"id"` // TMDb id
	Language      string     `json:"language"`
	OriginalTitle string     `json:"original_title,omitempty"`
	Title         string     `json:"title,omitempty"`
	Overview      string     `json:"overview,omitempty"`
	ReleaseDate   string     `json:"release_date"` // YYYY-MM-DD
	Popularity    float64    `json:"popularity"`
	Adult         bool       `json:"adult"`
	FetchedAt     *time.Time `json:"fetched_at,omitempty"`
}

// LanguageResult is the outcome of syncing one language partition.
type LanguageResult struct {
	Code     string `json:"code"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes one sync run.
type Report struct {
	RunID       string           `json:"run_id"`
	ReleaseDate string           `json:"release_date"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Languages   int              `json:"languages"` // catalog rows upserted
	Inserted    int              `json:"inserted"`
	PerLanguage []LanguageResult `json:"per_language"`
	Failed      []string         `json:"failed,omitempty"`
	// Error is set when the run aborted before the per-language loop finished.
	Error string `json:"error,omitempty"`
}
