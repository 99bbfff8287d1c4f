package diagnostics

import (
	"fmt"

	"github.com/processworks/flowsheet/eos"
	"github.com/processworks/flowsheet/stream"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PVConfig configures DrawPV. There is no EOS-type selector field, since the
// mixture's EOS kind is fixed by the stream's property package, not chosen
// per plot.
type PVConfig struct {
	Title                 string
	TitleColor            Color
	IsothermsColor        Color
	CriticalIsothermColor Color
	DomeColor             Color
	StatePointColor       Color
	Width, Height         Length
	VolumeScaleFactor     float64
}

// DrawPV plots a pressure-molar volume diagram for a converged stream's bulk
// composition under its cubic-EOS mixture: the mixture's critical isotherm
// (at the Kay's-rule pseudo-critical Tc), a saturation curve swept via
// bubbleP across a temperature range below that pseudo-critical Tc (dewP is
// accepted but not used), the stream's own isotherm, and a marker at the stream's actual
// (T, P) state point, drawn in that order: critical isotherm, then dome,
// then per-state isotherm and marker.
func DrawPV(cfg *PVConfig, output string, mix *eos.Mixture, bubbleP, dewP func(T float64, zs []float64) (float64, error), st *stream.StreamState) error {
	if cfg == nil {
		return errNilConfig
	}
	if err := checkExt(output); err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("diagnostics: DrawPV requires a stream state")
	}

	p := plot.New()
	if cfg.Title == "" {
		p.Title.Text = fmt.Sprintf("PV diagram: %s", st.Phase)
	} else {
		p.Title.Text = cfg.Title
	}
	if cfg.TitleColor != nil {
		p.Title.TextStyle.Color = cfg.TitleColor
	}
	p.X.Label.Text = "Molar volume (m3/mol)"
	p.Y.Label.Text = "Pressure (Pa)"

	tcMix, pcMix, _ := eos.KayRulePseudoCritical(mix.Tc, mix.Pc, mix.W, st.Zs)

	minV := 1e-5
	maxV := minV * 2000
	if estV := 8.314 * st.T / st.P; estV*1.2 > maxV {
		maxV = estV * 1.2
	}

	critPts := make(plotter.XYs, 0)
	for v := minV; v <= maxV; v *= 1.03 {
		pr, err := mix.Pressure(tcMix, v, st.Zs)
		if err == nil && pr > 0 {
			critPts = append(critPts, plotter.XY{X: v, Y: pr})
		}
	}
	if line, err := plotter.NewLine(critPts); err == nil {
		line.Color = orDefault(cfg.CriticalIsothermColor, Magenta)
		line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
	}

	var domePts plotter.XYs
	startT := tcMix * 0.55
	endT := tcMix * 0.98
	if bubbleP != nil {
		for t := startT; t <= endT; t += (endT - startT) / 60 {
			pb, err := bubbleP(t, st.Zs)
			if err == nil && pb > 0 {
				domePts = append(domePts, plotter.XY{X: 8.314 * t / pb, Y: pb})
			}
		}
	}
	if len(domePts) > 0 {
		if line, err := plotter.NewLine(domePts); err == nil {
			line.Color = orDefault(cfg.DomeColor, Black)
			p.Add(line)
		}
	}

	isoPts := make(plotter.XYs, 0)
	for v := minV; v <= maxV; v *= 1.03 {
		pr, err := mix.Pressure(st.T, v, st.Zs)
		if err == nil && pr > 0 {
			isoPts = append(isoPts, plotter.XY{X: v, Y: pr})
		}
	}
	if line, err := plotter.NewLine(isoPts); err == nil {
		line.Color = orDefault(cfg.IsothermsColor, Blue)
		p.Add(line)
	}

	if roots, _, err := mix.VolumeRoots(st.T, st.P, st.Zs); err == nil && len(roots) > 0 {
		v := roots[0]
		if st.VaporFraction > 0.5 {
			v = roots[len(roots)-1]
		}
		scatter, err := plotter.NewScatter(plotter.XYs{{X: v, Y: st.P}})
		if err == nil {
			scatter.Color = orDefault(cfg.StatePointColor, Red)
			scatter.GlyphStyle.Radius = vg.Points(4)
			p.Add(scatter)
		}
	}

	p.X.Min = 0
	p.X.Max = maxV
	p.Y.Min = 0
	p.Y.Max = pcMix * 1.5

	return savePlot(p, cfg.Width, cfg.Height, output)
}

func orDefault(c, def Color) Color {
	if c != nil {
		return c
	}
	return def
}
