package unitops

import (
	"fmt"

	"github.com/processworks/flowsheet/flash"
	"github.com/processworks/flowsheet/stream"
)

// Splitter divides one inlet stream into N outlets of identical intensive
// state and molar flow apportioned by Fractions; fractions that do not sum
// to 1 are normalized and a warning is recorded. OutletNames fixes the iteration order so Fractions[i]
// applies to OutletNames[i].
type Splitter struct {
	Base
	OutletNames []string
	Fractions   []float64
}

func NewSplitter(id, name string, engine *flash.Engine, outletNames []string, fractions []float64) *Splitter {
	return &Splitter{Base: Base{ID: id, Name: name, Engine: engine}, OutletNames: outletNames, Fractions: fractions}
}

func (s *Splitter) Kind() string { return "Splitter" }

func (s *Splitter) Calculate(inlets map[string]*stream.StreamState) (map[string]*stream.StreamState, error) {
	in, ok := inlets["in"]
	if !ok {
		for _, v := range inlets {
			in = v
			break
		}
	}
	if in == nil {
		return nil, fmt.Errorf("unitops: Splitter %s has no inlet", s.ID)
	}
	if len(s.OutletNames) != len(s.Fractions) {
		return nil, fmt.Errorf("unitops: Splitter %s outlet/fraction count mismatch", s.ID)
	}
	var sum float64
	for _, f := range s.Fractions {
		sum += f
	}
	if sum > 1e-9 && (sum < 0.999 || sum > 1.001) {
		s.Diag.warn(fmt.Sprintf("split fractions sum to %.4f, not 1.0; normalizing", sum))
	}
	out := make(map[string]*stream.StreamState, len(s.OutletNames))
	for i, name := range s.OutletNames {
		f := s.Fractions[i]
		if sum > 1e-9 {
			f /= sum
		}
		out[name] = in.ScaledFlow(f)
	}
	return out, nil
}
