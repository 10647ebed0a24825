package exporters

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/terratensor/geopicker/internal/core/ports"
)

// JSONWriter streams records as a single JSON array.
type JSONWriter struct {
	w       io.Writer
	options ports.ExportOptions
	count   int
	closed  bool
}

func NewJSONWriter(w io.Writer, options ports.ExportOptions) (*JSONWriter, error) {
	return &JSONWriter{w: w, options: options}, nil
}

// WriteHeader ничего не делает: в JSON имена полей в каждой записи
func (w *JSONWriter) WriteHeader(columns []string) error {
	return nil
}

func (w *JSONWriter) WriteRecord(record map[string]interface{}) error {
	var (
		data []byte
		err  error
	)
	if w.options.PrettyPrint {
		data, err = json.MarshalIndent(record, "  ", "  ")
	} else {
		data, err = json.Marshal(record)
	}
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	sep := ","
	if w.count == 0 {
		sep = "["
	}
	if w.options.PrettyPrint {
		sep += "\n  "
	}

	if _, err := io.WriteString(w.w, sep); err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *JSONWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	tail := "]\n"
	switch {
	case w.count == 0:
		tail = "[]\n"
	case w.options.PrettyPrint:
		tail = "\n]\n"
	}
	_, err := io.WriteString(w.w, tail)
	return err
}
