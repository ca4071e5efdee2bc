// Package pipeline runs the fetch-clip-render loop over the region
// catalog, one region at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"mxroads/internal/catalog"
	"mxroads/internal/geodata"
	"mxroads/internal/geom"
	"mxroads/internal/render"
)

// Fetcher is the upstream data dependency, satisfied by
// *geodata.Client. Tests substitute a stub.
type Fetcher interface {
	Boundary(ctx context.Context, query string) (orb.MultiPolygon, error)
	Roads(ctx context.Context, bound orb.Bound) ([]geodata.Road, error)
}

type Pipeline struct {
	Fetcher Fetcher
	OutDir  string
}

// Summary reports how the run went. A skipped region leaves whatever
// files it managed to write; nothing is rolled back.
type Summary struct {
	Processed int
	Skipped   []string
}

// Run processes every region in catalog order. Failures are logged and
// skipped; the loop always reaches the end of the table.
func (p *Pipeline) Run(ctx context.Context, regions []catalog.Region) Summary {
	var sum Summary
	for _, region := range regions {
		log.Printf("processing %s %s", region.Code, region.Name)
		if err := p.processRegion(ctx, region); err != nil {
			log.Printf("skipping %s %s: %v", region.Code, region.Name, err)
			sum.Skipped = append(sum.Skipped, fmt.Sprintf("%s %s: %v", region.Code, region.Name, err))
			continue
		}
		sum.Processed++
	}
	return sum
}

func (p *Pipeline) processRegion(ctx context.Context, region catalog.Region) error {
	boundary, err := p.Fetcher.Boundary(ctx, region.Query)
	if err != nil {
		return fmt.Errorf("boundary: %w", err)
	}
	if region.KeepLargest {
		boundary = geom.LargestPolygon(boundary)
	}

	fetchBound := geom.PadBound(boundary.Bound(), region.FetchBuffer())
	roads, err := p.Fetcher.Roads(ctx, fetchBound)
	if err != nil {
		return fmt.Errorf("roads: %w", err)
	}

	roads = geom.ClipToBoundary(boundary, roads)
	if len(roads) == 0 {
		return errors.New("no roads inside boundary")
	}

	scene := buildScene(boundary, roads)
	slug := render.Slug(region.Name)
	maps := []struct {
		kind string
		draw func(*render.Scene) image.Image
	}{
		{"basic", render.Basic},
		{"typemap", render.ByType},
		{"distmap", render.ByDistance},
	}
	for _, m := range maps {
		name := fmt.Sprintf("%s_%s_%s.png", m.kind, region.Code, slug)
		if err := gg.SavePNG(filepath.Join(p.OutDir, name), m.draw(scene)); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func buildScene(boundary orb.MultiPolygon, roads []geodata.Road) *render.Scene {
	merc := geom.ToMercator(boundary)
	projected := make([]geodata.Road, len(roads))
	for i, r := range roads {
		projected[i] = geodata.Road{Line: geom.LineToMercator(r.Line), Class: r.Class}
	}
	return &render.Scene{
		Boundary: merc,
		Roads:    projected,
		Center:   geom.Centroid(merc),
	}
}
