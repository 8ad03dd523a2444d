package beam

import (
	"math"

	"Stratum/internal/numeric"
)

// Maxima holds the largest-magnitude value of each diagram and where it
// occurs.
type Maxima struct {
	Shear      numeric.Extremum `json:"shear"`
	Moment     numeric.Extremum `json:"moment"`
	Deflection numeric.Extremum `json:"deflection"`
}

type Properties struct {
	Span    float64 `json:"span"`
	E       float64 `json:"E"`
	I       float64 `json:"I"`
	EI      float64 `json:"EI"`
	Support Support `json:"support"`
}

// Result is a self-contained snapshot of one analysis. Shear is in kN,
// Moment in kN·m and Deflection in mm.
type Result struct {
	X           []float64  `json:"x"`
	Shear       []float64  `json:"shear"`
	Moment      []float64  `json:"moment"`
	Deflection  []float64  `json:"deflection"`
	Reactions   Reactions  `json:"reactions"`
	MaxValues   Maxima     `json:"maxValues"`
	Properties  Properties `json:"properties"`
	ReactionSum float64    `json:"reaction_sum"`
	LoadTotal   float64    `json:"load_total"`
}

// CalculateReactions solves the support reactions for b's family.
func CalculateReactions(b Beam) Reactions {
	return familyOf(b.Support).reactions(b)
}

// CalculateShear evaluates the shear force at each node in x.
func CalculateShear(b Beam, x []float64, r Reactions) []float64 {
	fam := familyOf(b.Support)
	v := make([]float64, len(x))
	for i, xi := range x {
		s := fam.shearBase(b, r, xi)
		for _, l := range b.Loads {
			switch l.Kind {
			case Point:
				if l.Position <= xi {
					s -= l.Magnitude
				}
			case UniformlyDistributed:
				s -= l.Magnitude * loadedLength(l, xi)
			}
		}
		v[i] = s
	}
	return v
}

// CalculateMoment evaluates the bending moment at each node in x, sagging
// positive. An applied couple adds its magnitude to the moment to its
// right rather than subtracting it, matching the +M it contributes to the
// reaction moment sum so the diagram closes at the far support.
func CalculateMoment(b Beam, x []float64, r Reactions) []float64 {
	fam := familyOf(b.Support)
	m := make([]float64, len(x))
	for i, xi := range x {
		s := fam.momentBase(b, r, xi)
		for _, l := range b.Loads {
			switch l.Kind {
			case Point:
				if xi >= l.Position {
					s -= l.Magnitude * (xi - l.Position)
				}
			case UniformlyDistributed:
				if length := loadedLength(l, xi); length > 0 {
					centroid := l.Start + length/2
					s -= l.Magnitude * length * (xi - centroid)
				}
			case Moment:
				if xi >= l.Position {
					s += l.Magnitude
				}
			}
		}
		m[i] = s
	}
	return m
}

// CalculateDeflection integrates curvature M/EI twice from the left end and
// applies the family's boundary correction. Moments are in kN·m; the
// result is in mm.
func CalculateDeflection(b Beam, x, moment []float64) []float64 {
	ei := b.EI()
	dx := b.Step()
	curvature := make([]float64, len(moment))
	if ei != 0 {
		for i, m := range moment {
			curvature[i] = m * 1e3 / ei
		}
	}

	theta := numeric.CumulativeIntegral(curvature, dx, 0)
	y := numeric.CumulativeIntegral(theta, dx, 0)
	if len(y) > 0 {
		familyOf(b.Support).correct(b, x, theta, y)
	}

	for i := range y {
		y[i] *= 1e3
	}
	return y
}

// Analyze runs reactions, shear, moment and deflection in order and
// collects the maxima of each diagram.
func Analyze(b Beam) Result {
	x := b.Nodes()
	r := CalculateReactions(b)
	shear := CalculateShear(b, x, r)
	moment := CalculateMoment(b, x, r)
	deflection := CalculateDeflection(b, x, moment)

	dx := b.Step()
	loadTotal, _ := loadTotals(b.Loads, 0)
	return Result{
		X:          x,
		Shear:      shear,
		Moment:     moment,
		Deflection: deflection,
		Reactions:  r,
		MaxValues: Maxima{
			Shear:      numeric.FindMaxAbs(shear, dx),
			Moment:     numeric.FindMaxAbs(moment, dx),
			Deflection: numeric.FindMaxAbs(deflection, dx),
		},
		Properties: Properties{
			Span:    b.Span,
			E:       b.E,
			I:       b.I,
			EI:      b.EI(),
			Support: b.Support,
		},
		ReactionSum: r.Ra + r.Rb,
		LoadTotal:   loadTotal,
	}
}

// loadedLength is the part of a distributed load lying left of x.
func loadedLength(l Load, x float64) float64 {
	return math.Max(0, math.Min(x, l.End)-l.Start)
}
