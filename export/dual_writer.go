package export

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-product/models"
)

// DualWriter writes the same history to a CSV file and a JSON lines file.
type DualWriter struct {
	csv  *CSVWriter
	json *JSONWriter
}

// NewDualWriter creates both files. Neither is left open on failure.
func NewDualWriter(csvFilename, jsonFilename string) (*DualWriter, error) {
	cw, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, err
	}
	jw, err := NewJSONWriter(jsonFilename)
	if err != nil {
		cw.Close()
		return nil, err
	}
	return &DualWriter{csv: cw, json: jw}, nil
}

// Write stops at the first format that fails.
func (dw *DualWriter) Write(entries []models.HistoryEntry) error {
	if err := dw.csv.Write(entries); err != nil {
		return fmt.Errorf("dual csv: %w", err)
	}
	if err := dw.json.Write(entries); err != nil {
		return fmt.Errorf("dual json: %w", err)
	}
	return nil
}

// Validate reports every file that holds no records.
func (dw *DualWriter) Validate() error {
	return errors.Join(dw.csv.Validate(), dw.json.Validate())
}

// Close closes both files even if the first close fails.
func (dw *DualWriter) Close() error {
	return errors.Join(dw.csv.Close(), dw.json.Close())
}
