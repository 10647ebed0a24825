package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/terratensor/geopicker/internal/adapters/exporters"
	"github.com/terratensor/geopicker/internal/app/services/export"
	"github.com/terratensor/geopicker/internal/core/domain"
	"github.com/terratensor/geopicker/internal/core/ports"
)

type ExportService struct {
	writerFactory *exporters.WriterFactory
	logEvery      int
}

func NewExportService() *ExportService {
	return &ExportService{
		writerFactory: exporters.NewWriterFactory(),
		logEvery:      100000,
	}
}

// ExportItems пишет плоский список иерархии в файл options.FilePath
func (s *ExportService) ExportItems(ctx context.Context, items []domain.HierarchyItem, options ports.ExportOptions) error {
	log.Printf("Starting export to %s: %s", options.Format, options.FilePath)
	start := time.Now()

	// Создаем writer
	writer, err := s.writerFactory.CreateFileWriter(options.FilePath, options)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	if err := s.writeItems(ctx, writer, items); err != nil {
		writer.Close()
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}

	log.Printf("Export completed: %d records in %v", len(items), time.Since(start))
	return nil
}

func (s *ExportService) writeItems(ctx context.Context, writer ports.RecordWriter, items []domain.HierarchyItem) error {
	// Пишем заголовок
	if err := writer.WriteHeader(export.ItemColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.WriteRecord(export.ItemRecord(item)); err != nil {
			return fmt.Errorf("failed to write record at %d: %w", i, err)
		}

		if (i+1)%s.logEvery == 0 {
			log.Printf("Exported %d records...", i+1)
		}
	}
	return nil
}

var _ ports.Exporter = (*ExportService)(nil)
