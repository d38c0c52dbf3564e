// Package mapbox resolves free-text locations to coordinates.
package mapbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/metrics"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const defaultTimeout = 15 * time.Second

// Geocoder performs forward geocoding with a client-side rate limit
type Geocoder struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewGeocoder creates a geocoder allowing rps requests per second
func NewGeocoder(baseURL, token string, rps float64) *Geocoder {
	if rps <= 0 {
		rps = 5
	}
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Geocode returns the best point for query. ErrNotFound means no feature matched.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*domain.Geometry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrNotFound
	}
	if g.token == "" {
		return nil, fmt.Errorf("%w: geocoder is not configured", domain.ErrGateway)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s.json?limit=1&access_token=%s", g.baseURL, url.PathEscape(query), url.QueryEscape(g.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("mapbox")
		return nil, fmt.Errorf("%w: geocode: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read geocode reply: %v", domain.ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordUpstreamFailure("mapbox")
		return nil, fmt.Errorf("%w: geocode status %d", domain.ErrGateway, resp.StatusCode)
	}

	center := gjson.GetBytes(body, "features.0.center").Array()
	if len(center) != 2 {
		return nil, domain.ErrNotFound
	}

	point := domain.NewPoint(center[0].Float(), center[1].Float())
	return &point, nil
}
