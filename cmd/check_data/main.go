package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/terratensor/geopicker/internal/adapters/repositories/manticore"
	"github.com/terratensor/geopicker/internal/app/services"
	"github.com/terratensor/geopicker/internal/config"
)

func main() {
	var (
		entityFile string
		checkIndex bool
		limit      int
	)

	flag.StringVar(&entityFile, "file", "", "read entities from a local JSON file instead of ENTITY_SOURCE_URL")
	flag.BoolVar(&checkIndex, "index", false, "also compare the item count with the Manticore table")
	flag.IntVar(&limit, "limit", 20, "max diagnostics to print per kind (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if entityFile != "" {
		cfg.EntityFile = entityFile
	}

	ctx := context.Background()

	loader, err := services.NewLoaderFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	result, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	// 1. Итоги по уровням
	fmt.Println("\n=== Items per level ===")
	counts := result.CountByDepth()
	for depth, tag := range cfg.Levels {
		fmt.Printf("%-12s %d\n", tag, counts[depth+1])
	}

	// 2. Ошибки целостности по видам
	fmt.Println("\n=== Integrity diagnostics ===")
	if len(result.Diagnostics) == 0 {
		fmt.Println("none")
	}
	for _, dc := range result.DiagnosticsByKind() {
		kind := "other"
		if dc.Kind != nil {
			kind = dc.Kind.Error()
		}
		fmt.Printf("%s: %d\n", kind, dc.Count)

		printed := 0
		for _, diag := range result.Diagnostics {
			if services.DiagnosticKind(diag) != dc.Kind {
				continue
			}
			if limit > 0 && printed >= limit {
				fmt.Printf("  ... %d more\n", dc.Count-printed)
				break
			}
			fmt.Printf("  %v\n", diag)
			printed++
		}
	}

	// 3. Сверка с индексом
	if checkIndex {
		fmt.Println("\n=== Manticore ===")
		client, err := manticore.NewClient(cfg.ManticoreHost, cfg.ManticorePort, cfg.ManticoreTable, cfg.ManticoreConnTimeout)
		if err != nil {
			log.Fatalf("Failed to create manticore client: %v", err)
		}
		count, err := client.GetTableCount(ctx, client.Table())
		if err != nil {
			log.Fatalf("Failed to count %s: %v", client.Table(), err)
		}
		fmt.Printf("%s: %d documents, %d items built\n", client.Table(), count, len(result.Items))
	}

	if len(result.Diagnostics) > 0 {
		os.Exit(1)
	}
}
