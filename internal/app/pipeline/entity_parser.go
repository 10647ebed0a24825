package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
)

// EntityFileParser reads the entity JSON array from a local file.
// It serves the same document the HTTP source downloads.
type EntityFileParser struct {
	*BaseParser
	path string
}

func NewEntityFileParser(cfg *config.Config) *EntityFileParser {
	return &EntityFileParser{
		BaseParser: NewBaseParser(cfg),
		path:       cfg.EntityFile,
	}
}

// Path returns the file entities are read from.
func (p *EntityFileParser) Path() string {
	return p.path
}

// Entities decodes the file element by element so the progress bar advances
// with the read position.
func (p *EntityFileParser) Entities(ctx context.Context) ([]domain.Entity, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	bar, err := p.ProgressBar(file, fmt.Sprintf("Processing %s", p.path))
	if err != nil {
		return nil, err
	}
	defer bar.Close()

	reader := io.TeeReader(bufio.NewReader(file), bar)
	dec := json.NewDecoder(reader)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("failed to parse %s: expected a JSON array", p.path)
	}

	var entities []domain.Entity
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var e domain.Entity
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to parse record %d in %s: %w", len(entities)+1, p.path, err)
		}
		entities = append(entities, e)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.path, err)
	}

	return entities, nil
}
