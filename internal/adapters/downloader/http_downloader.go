package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"
	"github.com/terratensor/geopicker/internal/config"
	"github.com/terratensor/geopicker/internal/core/domain"
)

// HTTPStatusError is returned for any non-2xx response from the entity source.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP Error %d (%s)", e.StatusCode, e.URL)
}

type Downloader struct {
	client       *http.Client
	url          string
	showProgress bool
	progressOut  io.Writer
}

func New(cfg *config.Config) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		url:          cfg.EntitySourceURL,
		showProgress: cfg.ShowProgress,
		progressOut:  os.Stderr,
	}
}

// WithoutProgress disables the progress bar, e.g. while a TUI owns the terminal.
func (d *Downloader) WithoutProgress() *Downloader {
	d.showProgress = false
	return d
}

// URL returns the address entities are fetched from.
func (d *Downloader) URL() string {
	return d.url
}

// Entities загружает JSON массив сущностей одним GET запросом
func (d *Downloader) Entities(ctx context.Context) ([]domain.Entity, error) {
	body, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}

	var entities []domain.Entity
	if err := json.Unmarshal(body, &entities); err != nil {
		return nil, fmt.Errorf("failed to parse entities from %s: %w", d.url, err)
	}

	return entities, nil
}

func (d *Downloader) fetch(ctx context.Context) ([]byte, error) {
	// Делаем запрос
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: d.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf

	if d.showProgress {
		// Создаём progress bar
		bar := progressbar.NewOptions64(
			resp.ContentLength,
			progressbar.OptionSetDescription("Downloading entities"),
			progressbar.OptionSetWriter(d.progressOut),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(50),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(d.progressOut)
			}),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
		)
		defer bar.Close()
		dst = io.MultiWriter(&buf, bar)
	}

	// Копируем с отслеживанием прогресса
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return buf.Bytes(), nil
}
