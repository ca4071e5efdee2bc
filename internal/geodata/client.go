// Package geodata fetches administrative boundaries from Nominatim and
// road networks from Overpass.
package geodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"mxroads/internal/httpq"
)

// ErrNoBoundary is returned when a query resolves to nothing usable.
var ErrNoBoundary = errors.New("no boundary found")

// Both services ask batch clients to stay at or below 1 req/s.
const requestsPerSecond = 1

// Client talks to the two OSM services through one shared HTTP client
// and a per-host request queue.
type Client struct {
	nominatimURL string
	overpassURL  string
	userAgent    string

	httpClient *http.Client
	limiter    *httpq.Limiter
}

func NewClient(nominatimURL, overpassURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		nominatimURL: strings.TrimSuffix(nominatimURL, "/"),
		overpassURL:  overpassURL,
		userAgent:    userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          4,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: httpq.New(requestsPerSecond),
	}
}

// Close stops the rate-limiter workers.
func (c *Client) Close() {
	c.limiter.Close()
}

type nominatimResult struct {
	DisplayName string            `json:"display_name"`
	Class       string            `json:"class"`
	Type        string            `json:"type"`
	GeoJSON     *geojson.Geometry `json:"geojson"`
}

// Boundary resolves a free-text query to an administrative polygon.
// Single polygons are promoted to a one-element MultiPolygon so callers
// handle one shape.
func (c *Client) Boundary(ctx context.Context, query string) (orb.MultiPolygon, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("polygon_geojson", "1")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nominatimURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim %q: %w", query, err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("nominatim %q: decode: %w", query, err)
	}
	if len(results) == 0 || results[0].GeoJSON == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoBoundary, query)
	}

	switch g := results[0].GeoJSON.Geometry().(type) {
	case orb.Polygon:
		return orb.MultiPolygon{g}, nil
	case orb.MultiPolygon:
		return g, nil
	default:
		return nil, fmt.Errorf("%w: %q resolved to %s", ErrNoBoundary, query, results[0].GeoJSON.Type)
	}
}

// Road is one highway way with its class tag.
type Road struct {
	Line  orb.LineString
	Class string
}

const overpassTimeoutSec = 180

// Drivable classes, the rough equivalent of an OSMnx "drive" network.
// The _link variants are matched in the query and folded back into
// their parent class at render time.
const drivableClasses = "motorway|trunk|primary|secondary|tertiary|unclassified|residential|living_street|service|road"

func overpassQuery(b orb.Bound) string {
	// Overpass bbox order is south,west,north,east.
	return fmt.Sprintf(
		`[out:json][timeout:%d];way["highway"~"^(%s)(_link)?$"](%f,%f,%f,%f);out geom;`,
		overpassTimeoutSec, drivableClasses,
		b.Min[1], b.Min[0], b.Max[1], b.Max[0],
	)
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// overpassElement mirrors the fields of an "out geom" way.
type overpassElement struct {
	ID       int64             `json:"id"`
	Type     string            `json:"type"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

// Roads fetches every drivable way intersecting the bound. An empty
// result is not an error; the caller decides whether a region with no
// roads is worth rendering.
func (c *Client) Roads(ctx context.Context, bound orb.Bound) ([]Road, error) {
	form := url.Values{"data": {overpassQuery(bound)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass: %w", err)
	}

	var decoded overpassResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("overpass: decode: %w", err)
	}

	roads := make([]Road, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}
		line := make(orb.LineString, len(el.Geometry))
		for i, pt := range el.Geometry {
			line[i] = orb.Point{pt.Lon, pt.Lat}
		}
		roads = append(roads, Road{Line: line, Class: el.Tags["highway"]})
	}
	return roads, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return c.limiter.Do(req.Context(), req.URL.Host, func() ([]byte, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s: unexpected status %s", req.URL.Host, resp.Status)
		}
		return io.ReadAll(resp.Body)
	})
}
