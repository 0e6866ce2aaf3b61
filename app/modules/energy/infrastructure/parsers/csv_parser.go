package energyparsers

import (
	"bytes"
	"encoding/csv"
	"fmt"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// CSVParser parses CSV usage sheets
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte, period energydomain.Period) (*energydomain.Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %w", energydomain.ErrUnreadableSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: CSV file is empty", energydomain.ErrUnreadableSheet)
	}
	return extractColumn(rows, period)
}
