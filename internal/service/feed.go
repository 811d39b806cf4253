package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"core/internal/model"

	"go.uber.org/zap"
)

// FetchError reports a failed attempt to retrieve listings from the
// feed endpoint.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch real estate data: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// feedEnvelope mirrors the feed response shape. Only the markers are
// consumed.
type feedEnvelope struct {
	Data struct {
		Markers []model.ListingItem `json:"markers"`
	} `json:"data"`
}

// FeedClient fetches listings from the map feed endpoint.
type FeedClient struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFeedClient creates a feed client with the given request timeout.
func NewFeedClient(timeoutSeconds int, logger *zap.Logger) *FeedClient {
	return &FeedClient{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// Fetch retrieves the listings behind a synthesized API URL. An empty
// result set is returned as an empty slice, not an error.
func (f *FeedClient) Fetch(ctx context.Context, apiURL string) ([]model.ListingItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("sec-fetch-mode", "cors")
	req.Header.Set("sec-fetch-site", "same-site")
	req.Header.Set("Referer", "https://www.yad2.co.il/")
	req.Header.Set("Referrer-Policy", "strict-origin-when-cross-origin")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("feed request failed", zap.String("url", apiURL), zap.Error(err))
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Error("feed returned non-OK status",
			zap.String("url", apiURL),
			zap.Int("status", resp.StatusCode))
		return nil, &FetchError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var envelope feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to decode feed response: %w", err)}
	}

	items := envelope.Data.Markers
	if items == nil {
		items = []model.ListingItem{}
	}
	return items, nil
}
