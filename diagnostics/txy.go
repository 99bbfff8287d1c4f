package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TxyConfig configures DrawTxy.
type TxyConfig struct {
	Title             string
	BubbleColor       Color
	DewColor          Color
	Width, Height     Length
	NumberOfPoints    int // default 41
	LightComponentIdx int // which zs index is "component 1" on the x axis
}

// BubbleDewEngine is the subset of flash.Engine's interface DrawTxy needs:
// bubble- and dew-point temperatures at fixed pressure for a binary overall
// composition. Kept as an interface (rather than importing flash directly)
// so diagnostics has no dependency on the flash package beyond this contract.
type BubbleDewEngine interface {
	BubblePointT(P float64, zs []float64) (float64, error)
	DewPointT(P float64, zs []float64) (float64, error)
}

// DrawTxy plots a binary T-x-y diagram at fixed pressure P: bubble-point
// temperature vs x1 and dew-point temperature vs x1, swept across x1 in
// [0,1]. This is the standard way a ShortcutDistillation or
// RigorousDistillation column's operating pressure is visualized, using the
// same isotherm/point-sweep style DrawPV uses for its saturation dome.
func DrawTxy(cfg *TxyConfig, output string, eng BubbleDewEngine, P float64, nComponents int) error {
	if cfg == nil {
		return errNilConfig
	}
	if err := checkExt(output); err != nil {
		return err
	}
	if nComponents != 2 {
		return fmt.Errorf("diagnostics: DrawTxy only supports binary mixtures, got %d components", nComponents)
	}

	n := cfg.NumberOfPoints
	if n <= 1 {
		n = 41
	}

	p := plot.New()
	if cfg.Title == "" {
		p.Title.Text = fmt.Sprintf("T-x-y diagram at %.0f kPa", P/1000)
	} else {
		p.Title.Text = cfg.Title
	}
	p.X.Label.Text = "x1, y1 (mole fraction)"
	p.Y.Label.Text = "Temperature (K)"

	var bubblePts, dewPts plotter.XYs
	for i := 0; i < n; i++ {
		x1 := float64(i) / float64(n-1)
		zs := []float64{x1, 1 - x1}
		if x1 == 0 {
			zs = []float64{1e-9, 1 - 1e-9}
		}
		if x1 == 1 {
			zs = []float64{1 - 1e-9, 1e-9}
		}
		if cfg.LightComponentIdx == 1 {
			zs[0], zs[1] = zs[1], zs[0]
		}
		if tb, err := eng.BubblePointT(P, zs); err == nil {
			bubblePts = append(bubblePts, plotter.XY{X: x1, Y: tb})
		}
		if td, err := eng.DewPointT(P, zs); err == nil {
			dewPts = append(dewPts, plotter.XY{X: x1, Y: td})
		}
	}

	if line, err := plotter.NewLine(bubblePts); err == nil {
		line.Color = orDefault(cfg.BubbleColor, Blue)
		p.Add(line)
		p.Legend.Add("bubble", line)
	}
	if line, err := plotter.NewLine(dewPts); err == nil {
		line.Color = orDefault(cfg.DewColor, Red)
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(line)
		p.Legend.Add("dew", line)
	}

	p.X.Min, p.X.Max = 0, 1
	return savePlot(p, cfg.Width, cfg.Height, output)
}
