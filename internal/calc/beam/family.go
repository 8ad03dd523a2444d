package beam

import "math"

// Reactions are the vertical forces (kN) and moments (kN·m) at the two
// notional supports. Components a family does not use stay zero.
type Reactions struct {
	Ra float64 `json:"Ra"`
	Rb float64 `json:"Rb"`
	Ma float64 `json:"Ma"`
	Mb float64 `json:"Mb"`
}

// family is one boundary-condition case. Each stage of the pipeline asks
// the family for its contribution instead of switching on Support.
type family interface {
	reactions(b Beam) Reactions
	shearBase(b Beam, r Reactions, x float64) float64
	momentBase(b Beam, r Reactions, x float64) float64
	// correct adjusts the zero-seeded double integral y (with slope theta)
	// in place so the family's displacement conditions hold.
	correct(b Beam, x, theta, y []float64)
}

func familyOf(s Support) family {
	switch s {
	case Cantilever:
		return cantilever{}
	case Overhanging:
		return overhanging{}
	case FixedBoth:
		return fixedBoth{}
	case ProppedCantilever:
		return proppedCantilever{}
	default:
		return simplySupported{}
	}
}

type simplySupported struct{}

func (simplySupported) reactions(b Beam) Reactions {
	force, moment := loadTotals(b.Loads, 0)
	var rb float64
	if b.Span != 0 {
		rb = moment / b.Span
	}
	return Reactions{Ra: force - rb, Rb: rb}
}

func (simplySupported) shearBase(_ Beam, r Reactions, _ float64) float64 {
	return r.Ra
}

func (simplySupported) momentBase(_ Beam, r Reactions, x float64) float64 {
	return r.Ra * x
}

func (simplySupported) correct(b Beam, x, _, y []float64) {
	if b.Span == 0 {
		return
	}
	yL := y[len(y)-1]
	for i := range y {
		y[i] -= yL * x[i] / b.Span
	}
}

// cantilever is fixed at x = 0 and free at x = Span.
type cantilever struct{}

func (cantilever) reactions(b Beam) Reactions {
	force, moment := loadTotals(b.Loads, 0)
	return Reactions{Ra: force, Ma: -moment}
}

func (cantilever) shearBase(_ Beam, r Reactions, _ float64) float64 {
	return r.Ra
}

func (cantilever) momentBase(_ Beam, r Reactions, x float64) float64 {
	return r.Ra*x + r.Ma
}

// Integrating from the fixed end with zero seeds already gives y(0) = 0
// and theta(0) = 0.
func (cantilever) correct(Beam, []float64, []float64, []float64) {}

// overhanging rests on supports at a and b, with Ra at a and Rb at b.
type overhanging struct{}

func (overhanging) reactions(b Beam) Reactions {
	a, c := b.supports()
	force, moment := loadTotals(b.Loads, a)
	var rb float64
	if c-a != 0 {
		rb = moment / (c - a)
	}
	return Reactions{Ra: force - rb, Rb: rb}
}

func (overhanging) shearBase(b Beam, r Reactions, x float64) float64 {
	a, c := b.supports()
	var v float64
	if x >= a {
		v += r.Ra
	}
	if x >= c {
		v += r.Rb
	}
	return v
}

func (overhanging) momentBase(b Beam, r Reactions, x float64) float64 {
	a, c := b.supports()
	var m float64
	if x >= a {
		m += r.Ra * (x - a)
	}
	if x >= c {
		m += r.Rb * (x - c)
	}
	return m
}

func (overhanging) correct(b Beam, x, _, y []float64) {
	a, c := b.supports()
	ia, ic := nodeIndex(b, a), nodeIndex(b, c)
	if ia == ic {
		return
	}
	xa, xc := x[ia], x[ic]
	ya, yc := y[ia], y[ic]
	for i := range y {
		y[i] -= ya + (yc-ya)*(x[i]-xa)/(xc-xa)
	}
}

// fixedBoth sums closed-form fixed-end moments per load. Only point loads
// and distributed loads over the whole span contribute; a partial-span UDL
// adds no fixed-end moment.
type fixedBoth struct{}

func (fixedBoth) reactions(b Beam) Reactions {
	L := b.Span
	if L == 0 {
		return Reactions{}
	}
	force, moment := loadTotals(b.Loads, 0)

	var mab, mba float64
	for _, l := range b.Loads {
		switch {
		case l.Kind == Point:
			a := l.Position
			c := L - a
			mab += l.Magnitude * a * c * c / (L * L)
			mba += l.Magnitude * a * a * c / (L * L)
		case l.coversSpan(L):
			fem := l.Magnitude * L * L / 12
			mab += fem
			mba += fem
		}
	}

	rb := moment/L - (mab-mba)/L
	return Reactions{
		Ra: force - rb,
		Rb: rb,
		Ma: -mab,
		Mb: -mba,
	}
}

func (fixedBoth) shearBase(_ Beam, r Reactions, _ float64) float64 {
	return r.Ra
}

func (fixedBoth) momentBase(_ Beam, r Reactions, x float64) float64 {
	return r.Ra*x + r.Ma
}

// correct removes the cubic c2·x² + c3·x³ that zeroes both y(L) and
// theta(L) while leaving y(0) and theta(0) at zero.
func (fixedBoth) correct(b Beam, x, theta, y []float64) {
	L := b.Span
	if L == 0 {
		return
	}
	yL := y[len(y)-1]
	tL := theta[len(theta)-1]
	c3 := (tL*L - 2*yL) / (L * L * L)
	c2 := (3*yL - tL*L) / (L * L)
	for i, xi := range x {
		y[i] -= c2*xi*xi + c3*xi*xi*xi
	}
}

// proppedCantilever is fixed at x = 0 and simply supported at x = Span.
// The prop force comes from closed forms for point loads and a full-span
// UDL; other loads only enter through equilibrium.
type proppedCantilever struct{}

func (proppedCantilever) reactions(b Beam) Reactions {
	L := b.Span
	force, moment := loadTotals(b.Loads, 0)
	if L == 0 {
		return Reactions{Ra: force, Ma: -moment}
	}

	var rb float64
	for _, l := range b.Loads {
		switch {
		case l.Kind == Point:
			a := l.Position
			rb += l.Magnitude * a * a * (3*L - a) / (2 * L * L * L)
		case l.coversSpan(L):
			rb += 3 * l.Magnitude * L / 8
		}
	}

	return Reactions{
		Ra: force - rb,
		Rb: rb,
		Ma: rb*L - moment,
	}
}

func (proppedCantilever) shearBase(_ Beam, r Reactions, _ float64) float64 {
	return r.Ra
}

func (proppedCantilever) momentBase(_ Beam, r Reactions, x float64) float64 {
	return r.Ra*x + r.Ma
}

// correct removes a quadratic so y(L) = 0 while theta(0) stays zero.
func (proppedCantilever) correct(b Beam, x, _, y []float64) {
	L := b.Span
	if L == 0 {
		return
	}
	yL := y[len(y)-1]
	for i, xi := range x {
		r := xi / L
		y[i] -= yL * r * r
	}
}

func nodeIndex(b Beam, x float64) int {
	dx := b.Step()
	if dx == 0 {
		return 0
	}
	i := int(math.Round(x / dx))
	if i < 0 {
		return 0
	}
	if n := b.segments(); i > n {
		return n
	}
	return i
}
