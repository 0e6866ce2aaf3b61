package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultChartTowns is the number of towns drawn when the caller does not ask for a count.
const DefaultChartTowns = 10

var (
	chartBackground = drawing.ColorFromHex("f4f9f4")
	chartBar        = drawing.ColorFromHex("2e7d32")
	chartText       = drawing.ColorFromHex("1b3a1d")
)

// RenderChart renders the top towns of the current snapshot as a PNG bar chart.
func (s *LeaderboardService) RenderChart(ctx context.Context, top int) ([]byte, error) {
	if top <= 0 {
		top = DefaultChartTowns
	}

	_, span := s.tracer.Start(ctx, "RenderChart")
	defer span.End()

	records := s.view.Snapshot().Records()
	if len(records) > top {
		records = records[:top]
	}
	if len(records) == 0 {
		return renderNoDataPlaceholder()
	}

	bars := make([]chart.Value, len(records))
	for i, r := range records {
		bars[i] = chart.Value{
			Label: r.TownName,
			Value: r.GreenScore,
			Style: chart.Style{
				FillColor:   chartBar,
				StrokeColor: chartBar,
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Green Score by Town",
		Width:    900,
		Height:   450,
		BarWidth: 60,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		TitleStyle: chart.Style{
			FontColor: chartText,
		},
		XAxis: chart.Style{
			FontColor: chartText,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: chartText,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder() ([]byte, error) {
	graph := chart.BarChart{
		Title:    "No ranked towns yet",
		Width:    400,
		Height:   200,
		BarWidth: 40,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40},
		},
		TitleStyle: chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: []chart.Value{{Label: "-", Value: 0}},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
