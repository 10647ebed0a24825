package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
	"github.com/terratensor/geopicker/internal/core/ports"
)

// PublishService загружает построенную иерархию в поисковый индекс
type PublishService struct {
	index        ports.ItemIndex
	batchSize    int
	workers      int
	showProgress bool
	progressOut  io.Writer
}

func NewPublishService(cfg *config.Config, index ports.ItemIndex) *PublishService {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	workers := cfg.WorkersCount
	if workers <= 0 {
		workers = 1
	}

	return &PublishService{
		index:        index,
		batchSize:    batchSize,
		workers:      workers,
		showProgress: cfg.ShowProgress,
		progressOut:  os.Stderr,
	}
}

// PublishOptions управляет загрузкой
type PublishOptions struct {
	Truncate bool // очистить таблицу перед вставкой
}

// Publish создает таблицу и вставляет элементы батчами, не более
// workers батчей одновременно. Возвращает число отправленных элементов.
func (s *PublishService) Publish(ctx context.Context, items []domain.HierarchyItem, opts PublishOptions) (int, error) {
	log.Printf("Publishing %d items to %s (batch %d, workers %d)", len(items), s.index.Table(), s.batchSize, s.workers)
	start := time.Now()

	if err := s.index.EnsureItemsTable(ctx); err != nil {
		return 0, err
	}

	if opts.Truncate {
		if err := s.index.TruncateTable(ctx, s.index.Table()); err != nil {
			return 0, err
		}
		log.Printf("Table %s truncated", s.index.Table())
	}

	batches := splitBatches(items, s.batchSize)
	bar := s.newBar(len(batches))
	defer bar.Close()

	var published atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.index.BulkInsertItems(ctx, batch); err != nil {
				return fmt.Errorf("failed to insert batch %d: %w", i, err)
			}
			published.Add(int64(len(batch)))
			bar.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(published.Load()), err
	}

	log.Printf("Published %d items in %v", published.Load(), time.Since(start))
	return int(published.Load()), nil
}

func (s *PublishService) newBar(total int) *progressbar.ProgressBar {
	if !s.showProgress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Publishing batches"),
		progressbar.OptionSetWriter(s.progressOut),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(s.progressOut)
		}),
	)
}

// splitBatches режет список на куски по size без копирования
func splitBatches(items []domain.HierarchyItem, size int) [][]domain.HierarchyItem {
	if len(items) == 0 {
		return nil
	}
	batches := make([][]domain.HierarchyItem, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		batches = append(batches, items[i:end:end])
	}
	return batches
}
