package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/terratensor/geopicker/internal/app/services"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/ports"
)

func main() {
	// Парсим флаги командной строки
	var (
		outputPath string
		format     string
		entityFile string
		pretty     bool
	)

	flag.StringVar(&outputPath, "output", "", "output file path (default: $EXPORT_DIR/hierarchy_items_YYYYMMDD_HHMMSS.<format>)")
	flag.StringVar(&format, "format", "csv", "export format (csv, json)")
	flag.StringVar(&entityFile, "file", "", "read entities from a local JSON file instead of ENTITY_SOURCE_URL")
	flag.BoolVar(&pretty, "pretty", false, "indent JSON output")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if entityFile != "" {
		cfg.EntityFile = entityFile
	}

	// Создаём контекст
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	loader, err := services.NewLoaderFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	result, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to build hierarchy: %v", err)
	}
	if len(result.Diagnostics) > 0 {
		log.Printf("Hierarchy built with %d diagnostics, see check_data for details", len(result.Diagnostics))
	}

	// Определяем путь для экспорта
	exportPath, err := getExportPath(cfg.ExportDir, outputPath, format)
	if err != nil {
		log.Fatalf("Failed to create export path: %v", err)
	}

	// Создаём директорию если не существует
	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		log.Fatalf("Failed to create export directory: %v", err)
	}

	// Настройки экспорта
	options := ports.ExportOptions{
		Format:        ports.ExportFormat(format),
		FilePath:      exportPath,
		IncludeHeader: true,
		Delimiter:     ',',
		PrettyPrint:   pretty,
	}

	if err := services.NewExportService().ExportItems(ctx, result.Items, options); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Printf("Export completed successfully: %s", exportPath)
}

// getExportPath возвращает путь для экспорта
func getExportPath(exportDir, outputPath, format string) (string, error) {
	if outputPath != "" {
		// Используем указанный путь
		return outputPath, nil
	}

	// Создаём путь по умолчанию
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("hierarchy_items_%s.%s", timestamp, format)

	// Получаем абсолютный путь для ясности
	absPath, err := filepath.Abs(filepath.Join(exportDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}
