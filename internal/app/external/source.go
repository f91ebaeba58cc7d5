// Package external implements the ExternalSource port against the
// provider gateway: a thin JSON-over-HTTP client for POI search, image
// candidate search and AI relevance validation.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/tripweaver/internal/app/models"
	"github.com/FACorreiaa/tripweaver/internal/app/ports"
)

var _ ports.ExternalSource = (*HTTPSource)(nil)

// HTTPSource talks to the provider gateway over HTTP.
type HTTPSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPSource(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchPOIs returns points of interest near a named location.
func (s *HTTPSource) FetchPOIs(ctx context.Context, location string, categories []string) ([]models.POI, error) {
	endpoint := fmt.Sprintf("%s/pois?location=%s&kinds=%s",
		s.baseURL, url.QueryEscape(location), url.QueryEscape(strings.Join(categories, ",")))

	var pois []models.POI
	if err := s.getJSON(ctx, endpoint, &pois); err != nil {
		return nil, fmt.Errorf("fetch pois for %q: %w", location, err)
	}
	return pois, nil
}

// FetchImageCandidates returns raw image results for a search query.
func (s *HTTPSource) FetchImageCandidates(ctx context.Context, query string) ([]models.ImageCandidate, error) {
	endpoint := fmt.Sprintf("%s/images?q=%s", s.baseURL, url.QueryEscape(query))

	var candidates []models.ImageCandidate
	if err := s.getJSON(ctx, endpoint, &candidates); err != nil {
		return nil, fmt.Errorf("fetch image candidates for %q: %w", query, err)
	}
	return candidates, nil
}

// ValidatePOIs submits a POI set to the AI relevance validator together
// with the surrounding trip context.
func (s *HTTPSource) ValidatePOIs(ctx context.Context, pois []models.POI, trip models.TripContext) ([]models.POI, error) {
	payload := struct {
		POIs []models.POI       `json:"pois"`
		Trip models.TripContext `json:"trip"`
	}{POIs: pois, Trip: trip}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal validation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/pois/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	var validated []models.POI
	if err := s.do(req, &validated); err != nil {
		return nil, fmt.Errorf("validate pois: %w", err)
	}
	return validated, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	s.authorize(req)
	return s.do(req, out)
}

func (s *HTTPSource) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

func (s *HTTPSource) do(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: provider throttled the request", models.ErrRateLimited)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: provider has no data for this query", models.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		// Drain a little for the error message, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(snippet))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
