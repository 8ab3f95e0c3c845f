package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// DefaultDatapackageURL is the NGED network opportunity map headroom catalog.
const DefaultDatapackageURL = "https://connecteddata.nationalgrid.co.uk/dataset/network-opportunity-map-headroom/datapackage.json"

// Datapackage is the subset of a Frictionless Data package descriptor we use.
type Datapackage struct {
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Resources []Resource `json:"resources"`
}

// Resource is one downloadable file listed in a Datapackage.
type Resource struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Path        string `json:"path"`
	Format      string `json:"format,omitempty"`
	MediaType   string `json:"mediatype,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
	Description string `json:"description,omitempty"`
}

// CatalogError is a non-200 or transport failure fetching the catalog.
type CatalogError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *CatalogError) Error() string {
	return e.Message
}

// DatapackageClient fetches the remote catalog. Repeated failures open a
// circuit breaker so callers fail fast instead of waiting on the timeout.
type DatapackageClient struct {
	URL    string
	Client *http.Client

	cache   *CatalogCache
	breaker *gobreaker.CircuitBreaker
}

// NewDatapackageClient creates a client for url (DefaultDatapackageURL if
// empty). cache may be nil to disable caching.
func NewDatapackageClient(url string, cache *CatalogCache) *DatapackageClient {
	if url == "" {
		url = DefaultDatapackageURL
	}
	return &DatapackageClient{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "datapackage",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

func (c *DatapackageClient) Fetch(ctx context.Context) (*Datapackage, error) {
	if dp, ok := c.cache.Get(c.URL); ok {
		log.Debug().Str("url", c.URL).Int("resources", len(dp.Resources)).Msg("catalog cache hit")
		return dp, nil
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &CatalogError{Code: "CIRCUIT_OPEN", Message: fmt.Sprintf("catalog fetch suspended after repeated failures: %v", err)}
		}
		return nil, err
	}
	dp := v.(*Datapackage)
	c.cache.Set(c.URL, dp)
	return dp, nil
}

func (c *DatapackageClient) fetch(ctx context.Context) (*Datapackage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Str("url", c.URL).Msg("catalog request failed")
		return nil, &CatalogError{Code: "TRANSPORT_ERROR", Message: fmt.Sprintf("failed to execute request: %v", err)}
	}
	defer resp.Body.Close()

	log.Info().Int("status", resp.StatusCode).Dur("duration", duration).Str("url", c.URL).Msg("catalog response")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &CatalogError{StatusCode: resp.StatusCode, Code: "NOT_FOUND", Message: "catalog not found"}
	case http.StatusTooManyRequests:
		return nil, &CatalogError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded. Retry after: %s", resp.Header.Get("Retry-After")),
		}
	default:
		return nil, &CatalogError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("catalog returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var dp Datapackage
	if err := json.NewDecoder(resp.Body).Decode(&dp); err != nil {
		return nil, &CatalogError{StatusCode: resp.StatusCode, Code: "DECODE_ERROR", Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return &dp, nil
}
