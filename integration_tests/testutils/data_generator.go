package testutils

import (
	"fmt"
	"time"

	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator builds realistic sign-ups and town readings.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator; pass a seed for repeatable data.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the generator's seed, for reproducing a failure.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// NRIC returns a well-formed identity number.
func (g *TestDataGenerator) NRIC() string {
	prefix := g.faker.RandomString([]string{"S", "T", "F", "G"})
	return fmt.Sprintf("%s%s%s", prefix, g.faker.Numerify("#######"), g.faker.LetterN(1))
}

// SignUp returns a valid sign-up request.
func (g *TestDataGenerator) SignUp() authdomain.SignUp {
	return authdomain.SignUp{
		NRIC:     g.NRIC(),
		Username: g.faker.Username() + "_" + g.faker.LetterN(3),
		Password: g.faker.Password(true, true, true, false, false, 12),
		Town:     g.faker.City(),
	}
}

// TownUsages returns count distinct towns with both readings.
func (g *TestDataGenerator) TownUsages(count int) []leaderboarddomain.TownUsageSubmittedPayload {
	seen := make(map[string]bool, count)
	out := make([]leaderboarddomain.TownUsageSubmittedPayload, 0, count)
	for len(out) < count {
		town := g.faker.City()
		if seen[town] {
			continue
		}
		seen[town] = true
		out = append(out, leaderboarddomain.TownUsageSubmittedPayload{
			TownName:    town,
			Electricity: leaderboarddomain.Reading(g.faker.Float64Range(100, 1500)),
			Gas:         leaderboarddomain.Reading(g.faker.Float64Range(0, 200)),
		})
	}
	return out
}
