package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/terratensor/geopicker/internal/adapters/downloader"
	"github.com/terratensor/geopicker/internal/app/pipeline"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
	"github.com/terratensor/geopicker/internal/core/ports"
)

// Loader fetches the flat entity list once and builds the hierarchy from it.
type Loader struct {
	source  ports.EntitySource
	builder *HierarchyBuilder
}

func NewLoader(source ports.EntitySource, builder *HierarchyBuilder) *Loader {
	return &Loader{
		source:  source,
		builder: builder,
	}
}

// NewEntitySource выбирает источник: локальный файл, если задан ENTITY_FILE,
// иначе HTTP.
func NewEntitySource(cfg *config.Config) ports.EntitySource {
	if cfg.EntityFile != "" {
		return pipeline.NewEntityFileParser(cfg)
	}
	return downloader.New(cfg)
}

// NewLoaderFromConfig wires the configured source and levels.
func NewLoaderFromConfig(cfg *config.Config) (*Loader, error) {
	levels, err := domain.NewLevels(cfg.Levels...)
	if err != nil {
		return nil, fmt.Errorf("invalid levels: %w", err)
	}
	return NewLoader(NewEntitySource(cfg), NewHierarchyBuilder(levels)), nil
}

// Load returns the built hierarchy. Fetch and parse failures are returned;
// data-integrity problems only show up in BuildResult.Diagnostics.
func (l *Loader) Load(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	entities, err := l.source.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entities: %w", err)
	}
	log.Printf("Loaded %d entities in %v", len(entities), time.Since(start))

	return l.builder.Build(entities), nil
}

// LoadItems is Load for callers that only want the items. Failures are logged
// and yield an empty list, which every consumer treats as "not loaded yet".
func (l *Loader) LoadItems(ctx context.Context) []domain.HierarchyItem {
	result, err := l.Load(ctx)
	if err != nil {
		log.Printf("Hierarchy load failed: %v", err)
		return nil
	}
	return result.Items
}
