// Package export writes the session history table to disk.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-product/models"
)

// Export formats accepted by New.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatDual = "dual"
)

// ErrNoRecords is returned by Validate when no history rows were written.
var ErrNoRecords = errors.New("no history records written")

// Writer persists history rows. Validate fails until at least one row has
// been written.
type Writer interface {
	Write(entries []models.HistoryEntry) error
	Validate() error
	Close() error
}

// New returns the writer for format. Dual derives both file names from
// filename with its extension replaced: out.json becomes out.csv and
// out.json.
func New(format, filename string) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(filename)
	case FormatJSON:
		return NewJSONWriter(filename)
	case FormatDual:
		return NewDualWriter(withExt(filename, ".csv"), withExt(filename, ".json"))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

type column struct {
	name  string
	value func(models.HistoryEntry) string
}

// csvColumns is the history table layout. Absent numbers are empty cells.
var csvColumns = []column{
	{"product", func(e models.HistoryEntry) string { return e.Product }},
	{"price", func(e models.HistoryEntry) string { return e.Price }},
	{"price_value", func(e models.HistoryEntry) string { return formatOptional(e.PriceValue) }},
	{"rating", func(e models.HistoryEntry) string { return e.Rating }},
	{"rating_value", func(e models.HistoryEntry) string { return formatOptional(e.RatingValue) }},
	{"reviews", func(e models.HistoryEntry) string { return e.Reviews }},
	{"image_url", func(e models.HistoryEntry) string { return e.ImageURL }},
	{"url", func(e models.HistoryEntry) string { return e.URL }},
	{"scraped_at", func(e models.HistoryEntry) string { return e.ScrapedAt.Format(time.RFC3339) }},
}

// CSVWriter writes the history table as CSV with a header row.
type CSVWriter struct {
	file *os.File
	csv  *csv.Writer
	rows int
}

// NewCSVWriter creates filename and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, err
	}

	cw := &CSVWriter{file: f, csv: csv.NewWriter(f)}
	header := make([]string, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = c.name
	}
	if err := cw.writeRecord(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv header: %w", err)
	}
	return cw, nil
}

// Write appends one row per entry.
func (cw *CSVWriter) Write(entries []models.HistoryEntry) error {
	record := make([]string, len(csvColumns))
	for _, e := range entries {
		for i, c := range csvColumns {
			record[i] = c.value(e)
		}
		if err := cw.writeRecord(record); err != nil {
			return fmt.Errorf("csv row %d: %w", cw.rows+1, err)
		}
		cw.rows++
	}
	return nil
}

func (cw *CSVWriter) writeRecord(record []string) error {
	if err := cw.csv.Write(record); err != nil {
		return err
	}
	cw.csv.Flush()
	return cw.csv.Error()
}

// Validate reports ErrNoRecords if only the header was written.
func (cw *CSVWriter) Validate() error {
	return checkRows(cw.file, cw.rows)
}

// Close closes the file. Rows are flushed as they are written.
func (cw *CSVWriter) Close() error {
	return cw.file.Close()
}

// JSONWriter writes one JSON object per history entry per line.
type JSONWriter struct {
	file *os.File
	buf  *bufio.Writer
	rows int
}

// NewJSONWriter creates filename.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Write encodes entries as JSON lines.
func (jw *JSONWriter) Write(entries []models.HistoryEntry) error {
	enc := json.NewEncoder(jw.buf)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("json line %d: %w", jw.rows+1, err)
		}
		jw.rows++
	}
	return jw.buf.Flush()
}

// Validate reports ErrNoRecords if nothing was encoded.
func (jw *JSONWriter) Validate() error {
	return checkRows(jw.file, jw.rows)
}

// Close flushes pending lines and closes the file.
func (jw *JSONWriter) Close() error {
	if err := jw.buf.Flush(); err != nil {
		jw.file.Close()
		return fmt.Errorf("flush %s: %w", jw.file.Name(), err)
	}
	return jw.file.Close()
}

func checkRows(f *os.File, rows int) error {
	if rows == 0 {
		return fmt.Errorf("%s: %w", f.Name(), ErrNoRecords)
	}
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func withExt(filename, ext string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ext
}

func createFile(filename string) (*os.File, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	return f, nil
}
