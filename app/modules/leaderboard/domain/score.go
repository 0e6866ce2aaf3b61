package leaderboarddomain

import (
	"errors"
	"math"
)

// Formula constants. Changing any of them changes every published score.
const (
	electricityBaseline = 410.0
	electricityExponent = 1.3
	gasBaseline         = 70.0
	gasExponent         = 1.0
)

var (
	ErrNegativeUsage = errors.New("usage readings must not be negative")
	ErrInvalidUsage  = errors.New("usage readings must be finite numbers")
)

// ComputeGreenScore converts a town's electricity (kWh) and gas readings into a
// 0-100 green score rounded to one decimal place.
func ComputeGreenScore(electricity, gas float64) (float64, error) {
	if err := ValidateReading(electricity); err != nil {
		return 0, err
	}
	if err := ValidateReading(gas); err != nil {
		return 0, err
	}
	return Round1((electricityScore(electricity) + gasScore(gas)) / 2), nil
}

// StoredGreenScore is the score persisted with a row when its readings are
// written. A missing reading contributes a zero sub-score, so a town reported
// with one reading is stored with a provisional score. Ranking never uses it:
// the leaderboard only ranks rows with both readings and recomputes them.
func StoredGreenScore(electricity, gas *float64) (float64, error) {
	var elec, g float64
	if electricity != nil {
		if err := ValidateReading(*electricity); err != nil {
			return 0, err
		}
		elec = electricityScore(*electricity)
	}
	if gas != nil {
		if err := ValidateReading(*gas); err != nil {
			return 0, err
		}
		g = gasScore(*gas)
	}
	return Round1((elec + g) / 2), nil
}

// ValidateReading rejects negative and non-finite meter readings.
func ValidateReading(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidUsage
	}
	if v < 0 {
		return ErrNegativeUsage
	}
	return nil
}

func electricityScore(kwh float64) float64 {
	return 100 / math.Pow(1+kwh/electricityBaseline, electricityExponent)
}

func gasScore(units float64) float64 {
	return 100 / math.Pow(1+units/gasBaseline, gasExponent)
}

// Round1 rounds half away from zero at one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
