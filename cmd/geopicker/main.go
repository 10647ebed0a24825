package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/terratensor/geopicker/internal/app/services"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
	"github.com/terratensor/geopicker/internal/ui"
)

func main() {
	var (
		entityFile string
		rows       int
		copySel    bool
	)

	flag.StringVar(&entityFile, "file", "", "read entities from a local JSON file instead of ENTITY_SOURCE_URL")
	flag.IntVar(&rows, "rows", 0, "visible result rows (default: VISIBLE_ROWS)")
	flag.BoolVar(&copySel, "copy", false, "copy the selected name to the clipboard")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if entityFile != "" {
		cfg.EntityFile = entityFile
	}
	if rows > 0 {
		cfg.VisibleRows = rows
	}
	if copySel {
		cfg.CopyOnSelect = true
	}

	// Терминал занят TUI: прогресс не рисуем, логи пишем в файл
	cfg.ShowProgress = false
	logFile, err := tea.LogToFile(cfg.LogFile, "geopicker")
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	// Создаём контекст с отменой для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
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

	filter, err := services.NewSearchFilter(cfg.SearchLocale, cfg.FoldDiacritics)
	if err != nil {
		log.Fatalf("Failed to create search filter: %v", err)
	}

	model := ui.NewModel(ui.Options{
		Levels:       levels,
		Filter:       filter,
		VisibleRows:  cfg.VisibleRows,
		CopyOnSelect: cfg.CopyOnSelect,
		Load: func(context.Context) ([]domain.HierarchyItem, error) {
			result, err := loader.Load(ctx)
			if err != nil {
				return nil, err
			}
			for _, diag := range result.Diagnostics {
				log.Printf("Integrity: %v", diag)
			}
			return result.Items, nil
		},
		OnSelect: func(item domain.HierarchyItem) {
			log.Printf("Selected %s", item.String())
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		log.Fatalf("Picker failed: %v", err)
	}

	// Печатаем выбор, чтобы его можно было использовать в скриптах
	if m, ok := final.(ui.Model); ok {
		if item, ok := m.Machine().SelectedItem(); ok {
			fmt.Printf("%d\t%s\n", item.ID, item.Name)
		}
	}
}
