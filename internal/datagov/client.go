package datagov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"restaurant-viability/internal/observability"
)

// Published datastore resources on data.gov.sg used to enrich prompts.
const (
	PopulationResource   = "d_e7ae90176a68945837ad67892b898466"
	ConstructionResource = "d_9bbcd0c9b0351c7f41c9bfdcdc746668"
)

// Config drives the data.gov.sg client behaviour.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Limit    int
}

// Client fetches datastore records with basic TTL caching. Results are
// cached per resource; area filtering happens on the cached rows.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	cacheTTL   time.Duration
	cache      sync.Map // map[string]cacheEntry
}

type cacheEntry struct {
	at      time.Time
	records []map[string]any
}

// NewClient constructs a datastore client with defaults applied.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://data.gov.sg/api/action/datastore_search"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 1000
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limit:      limit,
		cacheTTL:   ttl,
	}
}

// Records fetches all rows of a datastore resource, serving from cache when
// a fresh copy exists.
func (c *Client) Records(ctx context.Context, resourceID string) ([]map[string]any, error) {
	if c == nil {
		return nil, errors.New("datagov client is nil")
	}

	key := strings.TrimSpace(resourceID)
	if key == "" {
		return nil, errors.New("datagov resource id is empty")
	}

	if entry, ok := c.cache.Load(key); ok {
		cached := entry.(cacheEntry)
		if time.Since(cached.at) < c.cacheTTL {
			return cached.records, nil
		}
		c.cache.Delete(key)
	}

	records, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	c.cache.Store(key, cacheEntry{at: time.Now(), records: records})
	return records, nil
}

// Population returns the resident population rows.
func (c *Client) Population(ctx context.Context) ([]map[string]any, error) {
	return c.Records(ctx, PopulationResource)
}

// Construction returns planned construction and development rows.
func (c *Client) Construction(ctx context.Context) ([]map[string]any, error) {
	return c.Records(ctx, ConstructionResource)
}

func (c *Client) fetch(ctx context.Context, resourceID string) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("resource_id", resourceID)
	params.Set("limit", fmt.Sprintf("%d", c.limit))

	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveExternal("datagov", "datastore_search", 0)
		return nil, err
	}
	defer resp.Body.Close()

	observability.ObserveExternal("datagov", "datastore_search", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datagov api status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode datagov response: %w", err)
	}
	if !payload.Success {
		return nil, errors.New("datagov api reported failure")
	}

	return payload.Result.Records, nil
}

type searchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Records []map[string]any `json:"records"`
	} `json:"result"`
}

// FilterByArea keeps rows whose "Number" column mentions the planning area.
// The published tables use that column for the area label.
func FilterByArea(records []map[string]any, area string) []map[string]any {
	needle := strings.ToLower(strings.TrimSpace(area))
	if needle == "" {
		return nil
	}

	var out []map[string]any
	for _, record := range records {
		value, ok := record["Number"].(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			out = append(out, record)
		}
	}
	return out
}

// RenderRows formats rows as compact key/value lines for prompt context.
func RenderRows(records []map[string]any, max int) string {
	if max <= 0 || max > len(records) {
		max = len(records)
	}

	b := &strings.Builder{}
	for i := 0; i < max; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		data, err := json.Marshal(records[i])
		if err != nil {
			continue
		}
		b.Write(data)
	}
	return b.String()
}
