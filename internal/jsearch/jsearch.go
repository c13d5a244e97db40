// Package jsearch fetches job postings from the RapidAPI JSearch service.
package jsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/model"
)

const (
	DefaultHost    = "jsearch.p.rapidapi.com"
	DefaultBaseURL = "https://" + DefaultHost

	searchPath = "/search"
	userAgent  = "spigell/career-pilot"
	datePosted = "month"
)

// Client talks to the JSearch API.
type Client struct {
	apiKey     string
	host       string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	NumPages   int
}

// Query describes one search.
type Query struct {
	Text       string
	Location   string
	RemoteOnly bool
	Page       int
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// New creates a client. An empty host or base URL selects the public JSearch endpoint.
func New(apiKey, host, baseURL string, logger *zap.Logger) *Client {
	if host = strings.TrimSpace(host); host == "" {
		host = DefaultHost
	}
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		host:   host,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    baseURL,
		NumPages:  1,
	}
}

type searchResponse struct {
	Status string `json:"status"`
	Data   []Item `json:"data"`
}

// Item is a raw posting as returned by the API.
type Item interface{}

// Search runs the query and returns normalised postings.
func (c *Client) Search(ctx context.Context, q Query) ([]model.JobCandidate, error) {
	if c.apiKey == "" {
		return nil, errors.New("rapidapi key is not configured")
	}

	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, errors.New("search query must not be empty")
	}

	var response searchResponse
	if err := c.getJSON(ctx, c.APIURL+searchPath, buildParams(q, c.NumPages), &response); err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}

	c.logger.Debug("got response from JSearch",
		zap.String("status", response.Status),
		zap.Int("items", len(response.Data)),
	)

	postings, err := decodePostings(response.Data)
	if err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}

	return Normalize(postings), nil
}

func buildParams(q Query, numPages int) url.Values {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	if numPages <= 0 {
		numPages = 1
	}

	text := strings.TrimSpace(q.Text)
	if location := strings.TrimSpace(q.Location); location != "" {
		text = fmt.Sprintf("%s in %s", text, location)
	}

	params := url.Values{}
	params.Set("query", text)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", strconv.Itoa(numPages))
	params.Set("date_posted", datePosted)
	if q.RemoteOnly {
		params.Set("remote_jobs_only", "true")
	}
	return params
}

func decodePostings(items []Item) ([]Posting, error) {
	var postings []Posting
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &postings,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}
	return postings, nil
}
