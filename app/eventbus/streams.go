package eventbus

import (
	"context"
	"fmt"
)

// Stream names and the subjects each one captures.
const (
	ScoreboardStream = "scoreboard"
	EnergyStream     = "energy"
)

var streamSubjects = map[string][]string{
	ScoreboardStream: {"scoreboard.>"},
	EnergyStream:     {"energy.>"},
}

// InitializeStreams creates the JetStream streams every module publishes into.
func InitializeStreams(ctx context.Context, eb EventBus) error {
	for name, subjects := range streamSubjects {
		if err := eb.CreateStream(ctx, name, subjects...); err != nil {
			return fmt.Errorf("stream %s: %w", name, err)
		}
	}
	return nil
}
