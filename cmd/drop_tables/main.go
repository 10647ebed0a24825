package main

import (
	"context"
	"log"

	"github.com/terratensor/geopicker/internal/adapters/repositories/manticore"
	"github.com/terratensor/geopicker/internal/config"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаём Manticore клиент
	client, err := manticore.NewClient(cfg.ManticoreHost, cfg.ManticorePort, cfg.ManticoreTable, cfg.ManticoreConnTimeout)
	if err != nil {
		log.Fatalf("Failed to create manticore client: %v", err)
	}

	ctx := context.Background()
	table := client.Table()

	exists, err := client.TableExists(ctx, table)
	if err != nil {
		log.Fatalf("Failed to check table %s: %v", table, err)
	}
	if !exists {
		log.Printf("Table %s does not exist, skipping", table)
		return
	}

	log.Printf("Dropping table %s...", table)
	if err := client.DropTable(ctx, table); err != nil {
		log.Fatalf("Error dropping table %s: %v", table, err)
	}

	log.Printf("Table %s dropped successfully", table)
	log.Println("You can now run publish_items to rebuild the index")
}
