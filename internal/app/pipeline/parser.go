package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/terratensor/geopicker/internal/config"
)

// BaseParser contains common functionality for file parsers
type BaseParser struct {
	cfg          *config.Config
	showProgress bool
	progressOut  io.Writer
}

func NewBaseParser(cfg *config.Config) *BaseParser {
	return &BaseParser{
		cfg:          cfg,
		showProgress: cfg.ShowProgress,
		progressOut:  os.Stderr,
	}
}

// ProgressBar creates a progress bar for file processing
func (p *BaseParser) ProgressBar(file *os.File, description string) (*progressbar.ProgressBar, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats: %w", err)
	}

	if !p.showProgress {
		return progressbar.DefaultBytesSilent(stat.Size(), description), nil
	}

	return progressbar.NewOptions64(
		stat.Size(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.progressOut),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(p.progressOut)
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	), nil
}
