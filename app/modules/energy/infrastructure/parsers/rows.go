package energyparsers

import (
	"fmt"
	"strconv"
	"strings"

	energydomain "github.com/Black-And-White-Club/green-quest/app/modules/energy/domain"
)

// extractColumn finds the header row (the first with a "Town" cell), then
// reads every later row's value in the period's column. Blank and "-" values
// are skipped; unreadable values become row errors.
func extractColumn(rows [][]string, period energydomain.Period) (*energydomain.Sheet, error) {
	headerIdx, townCol := findHeader(rows)
	if headerIdx < 0 {
		return nil, energydomain.ErrNoTownColumn
	}

	valueCol := -1
	for i, cell := range rows[headerIdx] {
		if period.MatchesLabel(cell) {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("%w: %s", energydomain.ErrPeriodNotFound, period)
	}

	sheet := &energydomain.Sheet{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		town := cell(row, townCol)
		if town == "" {
			continue
		}

		raw := cell(row, valueCol)
		if raw == "" || raw == "-" {
			continue
		}

		value, err := parseValue(raw)
		if err != nil {
			sheet.Errors = append(sheet.Errors, energydomain.RowError{Row: i + 1, Town: town, Err: err})
			continue
		}
		sheet.Readings = append(sheet.Readings, energydomain.Reading{Town: town, Value: value})
	}
	return sheet, nil
}

func findHeader(rows [][]string) (rowIdx, townCol int) {
	for i, row := range rows {
		for j, c := range row {
			if strings.EqualFold(strings.TrimSpace(c), "Town") {
				return i, j
			}
		}
	}
	return -1, -1
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseValue accepts thousands separators ("1,234.5").
func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", energydomain.ErrInvalidValue, raw)
	}
	return v, nil
}
