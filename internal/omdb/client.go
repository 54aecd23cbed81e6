// Package omdb is a client for the OMDb movie metadata API.
//
// It speaks the two query shapes the screens need: a title search (?s=)
// and an identifier lookup (?i=).
package omdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/utils"
)

const maxBodySize = 1 << 20 // 1MB

// Options configures a Client.
type Options struct {
	BaseURL   string        // ex: "https://www.omdbapi.com/"
	APIKey    string        // sent as ?apikey=
	RetryMax  int           // 0 = one attempt, no retry
	Timeout   time.Duration // 0 = no client timeout
	UserAgent string
}

// Client queries OMDb over HTTP.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *retryablehttp.Client
	logger    logger.Logger
}

// NewClient builds a Client. BaseURL and APIKey are required.
func NewClient(opts Options, log logger.Logger) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("omdb base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid omdb base url: %w", err)
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("omdb api key is required")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = leveledLogger{log: log}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:   base,
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		http:      rc,
		logger:    log,
	}, nil
}

// SearchTitles runs a title search. The term is sent as-is, empty included.
//
// A body carrying the service's error indicator yields NotFound=true and no
// error. Transport failures, non-2xx statuses and malformed bodies are errors.
func (c *Client) SearchTitles(ctx context.Context, term string) (domain.SearchResult, error) {
	body, err := c.get(ctx, "s", term)
	if err != nil {
		return domain.SearchResult{}, err
	}
	return parseSearch(body)
}

// LookupByID fetches one record. The body is decoded verbatim: an error object
// produces a MovieDetail with blank fields, not an error.
func (c *Client) LookupByID(ctx context.Context, id string) (domain.MovieDetail, error) {
	body, err := c.get(ctx, "i", id)
	if err != nil {
		return domain.MovieDetail{}, err
	}
	return parseDetail(body)
}

func (c *Client) doURL(param, value string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set(param, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, param, value string) ([]byte, error) {
	endpoint, err := c.doURL(param, value)
	if err != nil {
		return nil, fmt.Errorf("build omdb url: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb request: %w", err)
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read omdb response: %w", err)
	}

	c.logger.Debug("omdb query",
		logger.String("op", param),
		logger.String("value", value),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// StatusError is returned when OMDb answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("omdb returned %d", e.Code)
	}
	return fmt.Sprintf("omdb returned %d: %s", e.Code, e.Body)
}

func parseSearch(body []byte) (domain.SearchResult, error) {
	if !gjson.ValidBytes(body) {
		return domain.SearchResult{}, fmt.Errorf("malformed omdb search response")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return domain.SearchResult{}, fmt.Errorf("malformed omdb search response: not an object")
	}

	if msg := doc.Get("Error").String(); msg != "" {
		return domain.SearchResult{NotFound: true, Message: msg, Movies: []domain.MovieSummary{}}, nil
	}

	items := doc.Get("Search").Array()
	movies := make([]domain.MovieSummary, 0, len(items))
	for _, item := range items {
		movies = append(movies, domain.MovieSummary{
			ID:     item.Get("imdbID").String(),
			Title:  item.Get("Title").String(),
			Year:   item.Get("Year").String(),
			Poster: item.Get("Poster").String(),
		})
	}
	return domain.SearchResult{Movies: movies}, nil
}

func parseDetail(body []byte) (domain.MovieDetail, error) {
	if !gjson.ValidBytes(body) {
		return domain.MovieDetail{}, fmt.Errorf("malformed omdb lookup response")
	}
	r := gjson.GetManyBytes(body, "imdbID", "Title", "Year", "Poster", "Plot", "Released", "Director", "Actors", "Awards")
	raw := make([]byte, len(body))
	copy(raw, body)
	return domain.MovieDetail{
		ID:       r[0].String(),
		Title:    r[1].String(),
		Year:     r[2].String(),
		Poster:   r[3].String(),
		Plot:     r[4].String(),
		Released: r[5].String(),
		Director: r[6].String(),
		Actors:   r[7].String(),
		Awards:   r[8].String(),
		Raw:      raw,
	}, nil
}
