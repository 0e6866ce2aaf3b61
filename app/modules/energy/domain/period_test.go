package energydomain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    Period
		wantErr bool
	}{
		{name: "label", input: "2024.3", want: Period{Year: 2024, Month: time.March}},
		{name: "two digit month", input: "2024.12", want: Period{Year: 2024, Month: time.December}},
		{name: "padded month", input: " 2024.07 ", want: Period{Year: 2024, Month: time.July}},
		{name: "this month", input: "this month", want: Period{Year: 2025, Month: time.October}},
		{name: "last month", input: "Last Month", want: Period{Year: 2025, Month: time.September}},
		{name: "months ago", input: "3 months ago", want: Period{Year: 2025, Month: time.July}},
		{name: "empty", input: "", wantErr: true},
		{name: "month out of range", input: "2024.13", wantErr: true},
		{name: "gibberish", input: "whenever", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("ParsePeriod(%q) error = %v, want ErrInvalidPeriod", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePeriod(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParsePeriod(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestPeriod_Previous(t *testing.T) {
	got := Period{Year: 2025, Month: time.January}.Previous()
	if want := (Period{Year: 2024, Month: time.December}); got != want {
		t.Fatalf("Previous() = %v, want %v", got, want)
	}
}

func TestPeriod_MatchesLabel(t *testing.T) {
	p := Period{Year: 2024, Month: time.October}
	for header, want := range map[string]bool{
		"2024.10":  true,
		" 2024.10": true,
		"2024.1":   false,
		"Town":     false,
		"2023.10":  false,
	} {
		if got := p.MatchesLabel(header); got != want {
			t.Fatalf("MatchesLabel(%q) = %v, want %v", header, got, want)
		}
	}
	if got := p.String(); got != "2024.10" {
		t.Fatalf("String() = %q", got)
	}
}
