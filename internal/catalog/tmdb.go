package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/models"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "pt-BR"
)

// TMDBConfig configures a TMDB client. Either APIKey (sent as the api_key
// query parameter) or BearerToken (sent as Authorization) is required by
// the service.
type TMDBConfig struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	Language    string
	Timeout     time.Duration
}

type TMDB struct {
	cfg  TMDBConfig
	http *http.Client
}

func NewTMDB(cfg TMDBConfig) *TMDB {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &TMDB{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func (c *TMDB) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	var out models.MoviePage
	q := url.Values{"query": {query}, "page": {strconv.Itoa(normalizePage(page))}}
	if err := c.get(ctx, "search", "/search/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TMDB) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	var out models.MoviePage
	q := url.Values{"page": {strconv.Itoa(normalizePage(page))}}
	if err := c.get(ctx, "popular", "/movie/popular", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TMDB) Details(ctx context.Context, movieID int) (*models.MovieSummary, error) {
	var out models.MovieSummary
	if err := c.get(ctx, "details", "/movie/"+strconv.Itoa(movieID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TMDB) get(ctx context.Context, op, path string, q url.Values, dst any) error {
	if q == nil {
		q = url.Values{}
	}
	if c.cfg.APIKey != "" {
		q.Set("api_key", c.cfg.APIKey)
	}
	q.Set("language", c.cfg.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return &RemoteLookupError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteLookupError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteLookupError{Op: op, Status: resp.StatusCode, Err: statusError(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &RemoteLookupError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// statusError extracts TMDB's status_message when the body carries one.
func statusError(body io.Reader) error {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	b, _ := io.ReadAll(io.LimitReader(body, 4096))
	if json.Unmarshal(b, &payload) == nil && payload.StatusMessage != "" {
		return errors.New(payload.StatusMessage)
	}
	return errors.New("unexpected response")
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
