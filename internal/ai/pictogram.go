package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// PictogramMatch is the single best pictogram for a keyword.
type PictogramMatch struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type pictogramResult struct {
	ID        int  `json:"_id"`
	AAC       bool `json:"aac"`
	Schematic bool `json:"schematic"`
}

// PictogramClient looks up pictograms by keyword. Lookups are strictly
// supplementary: timeouts, non-200 responses, malformed payloads, and empty
// result sets all degrade to "no match" instead of failing the caller.
type PictogramClient struct {
	httpClient *http.Client
	baseURL    string
	staticURL  string
	locale     string
	logger     *zap.Logger
}

// NewPictogramClient constructs a pictogram lookup client.
func NewPictogramClient(baseURL, staticURL, locale string, timeout time.Duration, logger *zap.Logger) *PictogramClient {
	if locale == "" {
		locale = "en"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PictogramClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		staticURL:  staticURL,
		locale:     locale,
		logger:     logger,
	}
}

// Search returns the best pictogram match for a keyword, or nil when there
// is none. Preference order: communication-aid pictograms first, then
// schematic ones, otherwise the first result.
func (c *PictogramClient) Search(ctx context.Context, keyword string) (*PictogramMatch, error) {
	if keyword == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v1/pictograms/%s/search/%s", c.baseURL, c.locale, url.PathEscape(keyword))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("pictogram lookup failed", zap.String("keyword", keyword), zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var results []pictogramResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.logger.Debug("pictogram response malformed", zap.String("keyword", keyword), zap.Error(err))
		return nil, nil
	}

	best := pickBest(results)
	if best == nil {
		return nil, nil
	}
	return &PictogramMatch{
		ID:  best.ID,
		URL: fmt.Sprintf("%s/%d/%d_300.png", c.staticURL, best.ID, best.ID),
	}, nil
}

func pickBest(results []pictogramResult) *pictogramResult {
	if len(results) == 0 {
		return nil
	}
	for i := range results {
		if results[i].AAC {
			return &results[i]
		}
	}
	for i := range results {
		if results[i].Schematic {
			return &results[i]
		}
	}
	return &results[0]
}
