package proppkg

import "github.com/processworks/flowsheet/component"

// kijKey is one digitized binary interaction parameter, keyed by an
// unordered pair of CAS numbers.
type kijKey struct{ a, b component.CAS }

func pairKey(a, b component.CAS) kijKey {
	if a < b {
		return kijKey{a, b}
	}
	return kijKey{b, a}
}

// kijDatabase holds a handful of representative published binary interaction
// parameters for common hydrocarbon/polar pairs. Unlisted pairs default to
// zero.
var kijDatabase = map[kijKey]float64{
	pairKey("74-82-8", "110-54-3"):  0.0,   // methane / n-hexane
	pairKey("74-82-8", "7732-18-5"): 0.48,  // methane / water
	pairKey("124-38-9", "74-82-8"):  0.10,  // CO2 / methane
	pairKey("124-38-9", "7732-18-5"): 0.12, // CO2 / water
	pairKey("71-43-2", "108-88-3"):  0.0,   // benzene / toluene (near-ideal)
	pairKey("67-56-1", "7732-18-5"): -0.09, // methanol / water
	pairKey("7783-06-4", "74-82-8"): 0.08,  // H2S / methane
}

// BuildKijMatrix assembles a dense N x N matrix from the database for the
// given component set, zero-filled where no binary is known.
func BuildKijMatrix(set *component.Set) [][]float64 {
	n := set.N()
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if k, ok := kijDatabase[pairKey(set.CAS(i), set.CAS(j))]; ok {
				m[i][j] = k
				m[j][i] = k
			}
		}
	}
	return m
}
