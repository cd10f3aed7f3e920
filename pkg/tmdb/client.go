package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds every single API call.
	DefaultTimeout = 30 * time.Second

	DateLayout = "2006-01-02"
)

var ErrMissingAPIKey = errors.New("missing TMDB API key")

type Client struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// Language is one entry of the /configuration/languages catalog.
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// DiscoverQuery holds the /discover/movie filters used by the sync.
type DiscoverQuery struct {
	OriginalLanguage string
	ReleaseDateGTE   string
	ReleaseDateLTE   string
	SortBy           string
	IncludeAdult     bool
	Page             int
}

type DiscoverPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []DiscoverItem `json:"results"`
}

type DiscoverItem struct {
	ID               int64   `json:"id"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	ReleaseDate      string  `json:"release_date"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
}

// Error reports a failed call to the API: transport failure, timeout,
// non-2xx status or an undecodable body.
type Error struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tmdb %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the call hit the client deadline.
func (e *Error) Timeout() bool {
	var te interface{ Timeout() bool }
	if errors.As(e.Err, &te) {
		return te.Timeout()
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func New(apiKey string) *Client {
	return &Client{APIKey: apiKey, BaseURL: DefaultBaseURL, Client: &http.Client{Timeout: DefaultTimeout}}
}

// Languages fetches the language reference catalog.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var out []Language
	if err := c.get(ctx, "/configuration/languages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Discover fetches a single page of /discover/movie.
func (c *Client) Discover(ctx context.Context, dq DiscoverQuery) (DiscoverPage, error) {
	q := url.Values{}
	if dq.OriginalLanguage != "" {
		q.Set("with_original_language", dq.OriginalLanguage)
	}
	if dq.ReleaseDateGTE != "" {
		q.Set("primary_release_date.gte", dq.ReleaseDateGTE)
	}
	if dq.ReleaseDateLTE != "" {
		q.Set("primary_release_date.lte", dq.ReleaseDateLTE)
	}
	if dq.SortBy != "" {
		q.Set("sort_by", dq.SortBy)
	}
	q.Set("include_adult", strconv.FormatBool(dq.IncludeAdult))
	page := dq.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))

	var out DiscoverPage
	if err := c.get(ctx, "/discover/movie", q, &out); err != nil {
		return DiscoverPage{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	u, err := url.Parse(c.BaseURL + endpoint)
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	hc := c.Client
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		// url.Error carries the full URL, api_key included
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return &Error{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Endpoint: endpoint, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
