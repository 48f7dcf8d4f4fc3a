// Package report renders a finished run as an HTML page of charts.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/talgya/mpmg/internal/runner"
)

// Write renders per-episode collusion rate and mean rewards to an HTML file.
func Write(path string, summary *runner.Summary) error {
	if len(summary.Episodes) == 0 {
		return fmt.Errorf("report: summary has no episodes")
	}

	episodes := make([]string, len(summary.Episodes))
	for i := range summary.Episodes {
		episodes[i] = fmt.Sprintf("%d", i)
	}

	collusion := charts.NewLine()
	collusion.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Collusion rate per episode"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	collusion.SetXAxis(episodes)
	items := make([]opts.LineData, len(summary.Episodes))
	for i, ep := range summary.Episodes {
		items[i] = opts.LineData{Value: ep.CollusionRate}
	}
	collusion.AddSeries("full collusive profile", items)

	rewards := charts.NewLine()
	rewards.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean reward per episode"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	rewards.SetXAxis(episodes)
	numAgents := len(summary.Episodes[0].MeanRewards)
	for agent := 0; agent < numAgents; agent++ {
		series := make([]opts.LineData, len(summary.Episodes))
		for i, ep := range summary.Episodes {
			series[i] = opts.LineData{Value: ep.MeanRewards[agent]}
		}
		name := fmt.Sprintf("agent %d", agent)
		if agent < len(summary.Policies) {
			name = fmt.Sprintf("agent %d (%s)", agent, summary.Policies[agent])
		}
		rewards.AddSeries(name, series)
	}

	page := components.NewPage()
	page.AddCharts(collusion, rewards)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}
