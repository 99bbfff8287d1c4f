package eos

import (
	"errors"
	"math"
)

// SolveCubic solves ax^3 + bx^2 + cx + d = 0, returning all three roots
// (possibly complex) via the depressed-cubic trigonometric/Cardano method.
func SolveCubic(a, b, c, d float64) ([3]complex128, error) {
	if a == 0 {
		return [3]complex128{}, errors.New("equation provided is not cubic (a = 0)")
	}

	b /= a
	c /= a
	d /= a

	p := c - b*b/3
	q := 2*b*b*b/27 - b*c/3 + d

	delta := (q*q)/4 + (p*p*p)/27

	omega := complex(-0.5, math.Sqrt(3)/2)
	omega2 := complex(-0.5, -math.Sqrt(3)/2)

	var roots [3]complex128
	shift := complex(b/3, 0)

	if delta >= 0 {
		u := complex(math.Cbrt(-q/2+math.Sqrt(delta)), 0)
		v := complex(math.Cbrt(-q/2-math.Sqrt(delta)), 0)

		roots[0] = u + v - shift
		roots[1] = u*omega + v*omega2 - shift
		roots[2] = u*omega2 + v*omega - shift
	} else {
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(-q / (2 * math.Sqrt(-(p*p*p)/27)))
		t := 2 * math.Cbrt(r)

		roots[0] = complex(t*math.Cos(phi/3), 0) - shift
		roots[1] = complex(t*math.Cos((phi+2*math.Pi)/3), 0) - shift
		roots[2] = complex(t*math.Cos((phi+4*math.Pi)/3), 0) - shift
	}

	return roots, nil
}

// RealRoots returns the real roots of a SolveCubic result, sorted ascending.
func RealRoots(roots [3]complex128) []float64 {
	res := make([]float64, 0, 3)
	for _, v := range roots {
		if math.Abs(imag(v)) < 1e-9 {
			res = append(res, real(v))
		}
	}
	for i := 1; i < len(res); i++ {
		for j := i; j > 0 && res[j-1] > res[j]; j-- {
			res[j-1], res[j] = res[j], res[j-1]
		}
	}
	return res
}
