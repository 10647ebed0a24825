package exporters

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/terratensor/geopicker/internal/core/ports"
)

type CSVWriter struct {
	writer  *csv.Writer
	options ports.ExportOptions
	columns []string
}

func NewCSVWriter(w io.Writer, options ports.ExportOptions) (*CSVWriter, error) {
	csvWriter := csv.NewWriter(w)
	if options.Delimiter != 0 {
		csvWriter.Comma = options.Delimiter
	} else {
		csvWriter.Comma = ',' // default
	}

	return &CSVWriter{
		writer:  csvWriter,
		options: options,
		columns: []string{ // определяем здесь, не из export пакета
			"id",
			"name",
			"level",
			"relatives",
		},
	}, nil
}

func (w *CSVWriter) WriteHeader(columns []string) error {
	if !w.options.IncludeHeader {
		return nil
	}
	if len(columns) > 0 {
		w.columns = columns
	}
	return w.writer.Write(w.columns)
}

func (w *CSVWriter) WriteRecord(record map[string]interface{}) error {
	row := make([]string, len(w.columns))

	for i, col := range w.columns {
		val := record[col]

		switch v := val.(type) {
		case []int64:
			// multi64: id через запятую внутри одного поля
			strs := make([]string, len(v))
			for j, id := range v {
				strs[j] = strconv.FormatInt(id, 10)
			}
			row[i] = strings.Join(strs, ",")
		case int64:
			row[i] = strconv.FormatInt(v, 10)
		case int:
			row[i] = strconv.Itoa(v)
		case string:
			row[i] = v
		default:
			row[i] = ""
		}
	}

	return w.writer.Write(row)
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()
	return w.writer.Error()
}
