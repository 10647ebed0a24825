package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/terratensor/geopicker/internal/adapters/repositories/manticore"
	"github.com/terratensor/geopicker/internal/app/services"
	"github.com/terratensor/geopicker/internal/config"
)

func main() {
	var (
		truncate   bool
		entityFile string
	)

	flag.BoolVar(&truncate, "truncate", false, "truncate the items table before inserting")
	flag.StringVar(&entityFile, "file", "", "read entities from a local JSON file instead of ENTITY_SOURCE_URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if entityFile != "" {
		cfg.EntityFile = entityFile
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	client, err := manticore.NewClient(cfg.ManticoreHost, cfg.ManticorePort, cfg.ManticoreTable, cfg.ManticoreConnTimeout)
	if err != nil {
		log.Fatalf("Failed to create manticore client: %v", err)
	}

	loader, err := services.NewLoaderFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	result, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to build hierarchy: %v", err)
	}

	publisher := services.NewPublishService(cfg, client)
	n, err := publisher.Publish(ctx, result.Items, services.PublishOptions{Truncate: truncate})
	if err != nil {
		log.Fatalf("Publish failed after %d items: %v", n, err)
	}

	count, err := client.GetTableCount(ctx, client.Table())
	if err != nil {
		log.Printf("Warning: failed to count %s: %v", client.Table(), err)
	} else {
		log.Printf("Table %s now holds %d documents", client.Table(), count)
	}

	log.Println("Items published successfully!")
}
