package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"mxroads/internal/catalog"
	"mxroads/internal/config"
	"mxroads/internal/geodata"
	"mxroads/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	regions, err := catalog.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatal(err)
	}

	client := geodata.NewClient(cfg.NominatimURL, cfg.OverpassURL, cfg.UserAgent, cfg.HTTPTimeout)
	defer client.Close()

	p := &pipeline.Pipeline{Fetcher: client, OutDir: cfg.OutputDir}
	sum := p.Run(context.Background(), regions)

	log.Printf("done: %d/%d regions rendered into %s", sum.Processed, len(regions), cfg.OutputDir)
	for _, s := range sum.Skipped {
		log.Printf("failed: %s", s)
	}
}
