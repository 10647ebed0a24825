package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/terratensor/geopicker/internal/app/services"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
)

func main() {
	var (
		entityFile string
		printTree  bool
	)

	flag.StringVar(&entityFile, "file", "", "read entities from a local JSON file instead of ENTITY_SOURCE_URL")
	flag.BoolVar(&printTree, "print", false, "print the flattened hierarchy")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if entityFile != "" {
		cfg.EntityFile = entityFile
	}

	// Создаём контекст с отменой для graceful shutdown
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

	levels, err := domain.NewLevels(cfg.Levels...)
	if err != nil {
		log.Fatalf("Invalid levels: %v", err)
	}

	loader, err := services.NewLoaderFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	// Запускаем построение иерархии
	log.Println("Starting hierarchy build...")
	result, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to build hierarchy: %v", err)
	}

	if printTree {
		for _, item := range result.Items {
			indent := strings.Repeat("  ", max(0, item.Level-1))
			fmt.Printf("%s%s (%d) relatives=%d\n", indent, item.Name, item.ID, len(item.Relatives))
		}
	}

	counts := result.CountByDepth()
	for depth, tag := range levels.Tags() {
		log.Printf("  %-12s %d", tag, counts[depth+1])
	}
	if n := counts[domain.SentinelDepth]; n > 0 {
		log.Printf("  %-12s %d", "(sentinel)", n)
	}

	for _, dc := range result.DiagnosticsByKind() {
		kind := "other"
		if dc.Kind != nil {
			kind = dc.Kind.Error()
		}
		log.Printf("Integrity %s: %d", kind, dc.Count)
	}

	log.Printf("Hierarchy build completed: %d items, %d diagnostics", len(result.Items), len(result.Diagnostics))
}
