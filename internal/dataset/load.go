// Package dataset loads the flat weather-events CSV and reshapes it into the
// two tables the analysis works with: cleaned events and unique stations.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

// Load decodes raw event records from CSV data. The first line must be a
// header; columns are matched against the csv tags on domain.RawEventRecord
// and extra columns are ignored.
func Load(r io.Reader) ([]domain.RawEventRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		return nil, fmt.Errorf("create csv decoder: %w", err)
	}

	var records []domain.RawEventRecord
	for {
		var rec domain.RawEventRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode csv row: %w", err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New("no data rows")
	}
	return records, nil
}

// FileSource adapts a CSV file on disk to the pipeline's Source interface.
type FileSource struct {
	Path string
}

// Extract loads the file's records. The context is checked up front; the read
// itself is a single local file pass.
func (s FileSource) Extract(ctx context.Context) ([]domain.RawEventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

// LoadFile opens path and decodes its records.
func LoadFile(path string) ([]domain.RawEventRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}
