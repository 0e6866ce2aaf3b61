package energydomain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Period is one calendar month of readings. Sheets label it "YYYY.M".
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%d.%d", p.Year, int(p.Month))
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	return PeriodOf(time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))
}

// PeriodOf returns the month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

var relativeParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParsePeriod accepts a sheet column label ("2024.3") or a relative phrase
// ("last month", "2 months ago") resolved against now.
func ParsePeriod(input string, now time.Time) (Period, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Period{}, ErrInvalidPeriod
	}
	if p, ok := parseLabel(input); ok {
		return p, nil
	}

	switch strings.ToLower(input) {
	case "this month":
		return PeriodOf(now), nil
	case "last month", "previous month":
		return PeriodOf(now).Previous(), nil
	}

	r, err := relativeParser.Parse(input, now)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	if r == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, input)
	}
	return PeriodOf(r.Time), nil
}

// parseLabel reads "YYYY.M" (or "YYYY.MM").
func parseLabel(s string) (Period, bool) {
	yearPart, monthPart, ok := strings.Cut(s, ".")
	if !ok || len(yearPart) != 4 || monthPart == "" || len(monthPart) > 2 {
		return Period{}, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Period{}, false
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return Period{}, false
	}
	return Period{Year: year, Month: time.Month(month)}, true
}

// MatchesLabel reports whether a sheet header names p.
func (p Period) MatchesLabel(header string) bool {
	got, ok := parseLabel(strings.TrimSpace(header))
	return ok && got == p
}
