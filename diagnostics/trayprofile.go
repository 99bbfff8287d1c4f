package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// TrayProfileConfig configures DrawTrayProfile.
type TrayProfileConfig struct {
	Title         string
	LineColor     Color
	Width, Height Length
}

// DrawTrayProfile plots per-stage temperature against stage number for a
// converged RigorousDistillation column, reading the "stage_temperatures_K"
// diagnostic slice the unit stores in its Diag.Extra map (unitops/rigorous.go).
func DrawTrayProfile(cfg *TrayProfileConfig, output string, stageTemperaturesK []float64) error {
	if cfg == nil {
		return errNilConfig
	}
	if err := checkExt(output); err != nil {
		return err
	}
	if len(stageTemperaturesK) == 0 {
		return fmt.Errorf("diagnostics: DrawTrayProfile requires at least one stage temperature")
	}

	p := plot.New()
	if cfg.Title == "" {
		p.Title.Text = "Tray temperature profile"
	} else {
		p.Title.Text = cfg.Title
	}
	p.X.Label.Text = "Stage (1 = condenser)"
	p.Y.Label.Text = "Temperature (K)"

	pts := make(plotter.XYs, len(stageTemperaturesK))
	for i, t := range stageTemperaturesK {
		pts[i] = plotter.XY{X: float64(i + 1), Y: t}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = orDefault(cfg.LineColor, Blue)
	p.Add(line)

	scatter, err := plotter.NewScatter(pts)
	if err == nil {
		scatter.Color = orDefault(cfg.LineColor, Blue)
		p.Add(scatter)
	}

	p.X.Min = 1
	p.X.Max = float64(len(stageTemperaturesK))
	return savePlot(p, cfg.Width, cfg.Height, output)
}
