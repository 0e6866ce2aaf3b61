package energyparsers

import (
	"bytes"
	"fmt"
	"strings"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXParser parses XLSX usage sheets. Only the first sheet is read, and
// period headers must be stored as text ("2024.10" as a number reads 2024.1).
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(data []byte, period energydomain.Period) (*energydomain.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, fmt.Errorf("%w: failed to open XLSX file: %w (a CSV file needs the .csv extension)", energydomain.ErrUnreadableSheet, err)
		}
		return nil, fmt.Errorf("%w: failed to open XLSX file: %w", energydomain.ErrUnreadableSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: XLSX file has no sheets", energydomain.ErrUnreadableSheet)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", energydomain.ErrUnreadableSheet, sheets[0])
	}
	return extractColumn(rows, period)
}
