// Package poseplot renders probability charts for stable pose sets.
package poseplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/stablepose/internal/pose"
)

// WriteProbabilityChart renders a bar chart of per-pose probability, one bar
// per pose in file order, labelled by pose identifier. The output format is
// chosen by the extension of outPath (.png, .svg, .pdf, ...).
func WriteProbabilityChart(poses []pose.StablePose, title, outPath string) error {
	if len(poses) == 0 {
		return fmt.Errorf("no poses to plot for %s", outPath)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "pose"
	p.Y.Label.Text = "probability"
	p.Y.Min = 0

	values := make(plotter.Values, len(poses))
	labels := make([]string, len(poses))
	for i, sp := range poses {
		values[i] = sp.P
		labels[i] = sp.ID
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", outPath, err)
	}
	return nil
}
