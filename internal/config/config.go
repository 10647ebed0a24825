package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEntitySourceURL указывает на исходный census_classification.json
const DefaultEntitySourceURL = "https://gist.githubusercontent.com/bleonard33/38a183289ed87082fed7b2547f2eea49/raw/d307b85bbc69a32902307e4027d51513686ea147/census_classification.json"

var DefaultLevels = []string{"region", "state", "county"}

type Config struct {
	// Manticore
	ManticoreHost        string
	ManticorePort        int
	ManticoreConnTimeout time.Duration
	ManticoreTable       string

	// Entity source
	EntitySourceURL string
	EntityFile      string // если задан, сущности читаются из локального файла
	FetchTimeout    time.Duration
	ShowProgress    bool

	// Hierarchy
	Levels []string // теги уровней от корня к листьям

	// Search
	SearchLocale   string // BCP 47 тег для приведения к нижнему регистру
	FoldDiacritics bool   // München → Munchen при сравнении

	// Picker
	VisibleRows  int
	CopyOnSelect bool
	LogFile      string

	// Publish / export
	BatchSize    int
	WorkersCount int
	ExportDir    string
}

func Load() (*Config, error) {
	// Загружаем .env файл если существует
	_ = godotenv.Load()

	cfg := &Config{
		ManticoreHost:        getEnv("MANTICORE_HOST", "localhost"),
		ManticorePort:        getEnvAsInt("MANTICORE_PORT", 9308),
		ManticoreConnTimeout: getEnvAsDuration("MANTICORE_TIMEOUT", 30*time.Second),
		ManticoreTable:       getEnv("MANTICORE_TABLE", "hierarchy_items"),

		EntitySourceURL: getEnv("ENTITY_SOURCE_URL", DefaultEntitySourceURL),
		EntityFile:      getEnv("ENTITY_FILE", ""),
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		ShowProgress:    getEnvAsBool("SHOW_PROGRESS", true),

		Levels: getEnvAsList("LEVELS", DefaultLevels),

		SearchLocale:   getEnv("SEARCH_LOCALE", "und"),
		FoldDiacritics: getEnvAsBool("FOLD_DIACRITICS", false),

		VisibleRows:  getEnvAsInt("VISIBLE_ROWS", 15),
		CopyOnSelect: getEnvAsBool("COPY_ON_SELECT", false),
		LogFile:      getEnv("LOG_FILE", "geopicker.log"),

		BatchSize:    getEnvAsInt("BATCH_SIZE", 500),
		WorkersCount: getEnvAsInt("WORKERS_COUNT", 4),
		ExportDir:    getEnv("EXPORT_DIR", "./export"),
	}

	// Файл уровней имеет приоритет над LEVELS
	if path := getEnv("LEVELS_FILE", ""); path != "" {
		levels, err := LoadLevelsFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Levels = levels
	}

	if cfg.VisibleRows <= 0 {
		return nil, fmt.Errorf("VISIBLE_ROWS must be positive, got %d", cfg.VisibleRows)
	}

	return cfg, nil
}

type levelsFile struct {
	Levels []string `yaml:"levels"`
}

// LoadLevelsFile читает упорядоченный список уровней из YAML:
//
//	levels:
//	  - region
//	  - state
//	  - county
func LoadLevelsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels file: %w", err)
	}

	var lf levelsFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse levels file %s: %w", path, err)
	}
	if len(lf.Levels) == 0 {
		return nil, fmt.Errorf("levels file %s declares no levels", path)
	}

	return lf.Levels, nil
}

// Вспомогательные функции для получения переменных окружения
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
