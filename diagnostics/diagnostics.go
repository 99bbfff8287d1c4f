// Package diagnostics renders reporting plots for the flowsheet domain: a
// PV diagram for any converged stream's bulk composition over a cubic EOS, a
// Txy diagram for a binary property package, and a tray temperature profile
// for a converged RigorousDistillation column. None of these are required to
// close a solve; they are reporting-only, called after solver.Solve returns.
package diagnostics

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Color is an alias for image/color.Color so call sites read the same way
// as the rest of this package's plot configuration.
type Color = color.Color

// Standard colors for plot series and markers.
var (
	Red     Color = color.RGBA{R: 255, A: 255}
	Blue    Color = color.RGBA{B: 255, A: 255}
	Black   Color = color.RGBA{A: 255}
	Magenta Color = color.RGBA{R: 255, B: 255, A: 255}
	Grey    Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Length is an alias for vg.Length.
type Length = vg.Length

// Common length units for plot dimensions.
const (
	Inch       Length = vg.Inch
	Centimeter Length = vg.Centimeter
)

var validExts = map[string]bool{
	".eps": true, ".jpg": true, ".jpeg": true, ".pdf": true,
	".png": true, ".svg": true, ".tex": true, ".tif": true, ".tiff": true,
}

// checkExt validates output's extension against the set gonum/plot can
// save to, suggesting the closest valid extension rather than just failing.
func checkExt(output string) error {
	ext := filepath.Ext(output)
	if validExts[ext] {
		return nil
	}
	closest := ""
	minDist := int(^uint(0) >> 1)
	for valid := range validExts {
		d := levenshtein(ext, valid)
		if d < minDist {
			minDist = d
			closest = valid
		}
	}
	suggestion := output[:len(output)-len(ext)] + closest
	return fmt.Errorf("diagnostics: invalid file extension %q, did you mean %q?", output, suggestion)
}

func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	n, m := len(r1), len(r2)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	row := make([]int, n+1)
	for i := 0; i <= n; i++ {
		row[i] = i
	}
	for j := 1; j <= m; j++ {
		prev := j
		for i := 1; i <= n; i++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			cur := min3(row[i]+1, prev+1, row[i-1]+cost)
			row[i-1] = prev
			prev = cur
		}
		row[n] = prev
	}
	return row[n]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func savePlot(p *plot.Plot, width, height Length, output string) error {
	if width == 0 {
		width = 6 * vg.Inch
	}
	if height == 0 {
		height = 4 * vg.Inch
	}
	return p.Save(width, height, output)
}

var errNilConfig = errors.New("diagnostics: config cannot be nil")

func crossPoint(p *plot.Plot, x, y float64, c Color) {
	pt, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
	if err != nil {
		return
	}
	pt.GlyphStyle.Shape = draw.CrossGlyph{}
	pt.Color = c
	p.Add(pt)
}
