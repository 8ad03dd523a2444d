// Package beam analyses statically loaded 1-D beams: support reactions,
// shear and bending-moment diagrams, and deflection by double numerical
// integration of curvature on a uniform node grid.
package beam

import (
	"errors"
	"fmt"

	"Stratum/internal/numeric"
)

const DefaultSegments = 500

var ErrInvalidBeam = errors.New("invalid beam")

type Support string

const (
	SimplySupported   Support = "simply_supported"
	Cantilever        Support = "cantilever"
	Overhanging       Support = "overhanging"
	FixedBoth         Support = "fixed_both"
	ProppedCantilever Support = "propped_cantilever"
)

var Supports = []Support{SimplySupported, Cantilever, Overhanging, FixedBoth, ProppedCantilever}

func (s Support) Valid() bool {
	for _, v := range Supports {
		if s == v {
			return true
		}
	}
	return false
}

// Beam is an immutable analysis configuration. Span is in m, E in Pa and
// I in m^4. SupportA and SupportB locate the two supports of an
// Overhanging beam and are ignored by the other families.
type Beam struct {
	Span     float64
	E        float64
	I        float64
	Segments int
	Support  Support
	SupportA float64
	SupportB float64
	Loads    []Load
}

type Option func(*Beam)

func WithSegments(n int) Option {
	return func(b *Beam) { b.Segments = n }
}

func WithSupports(a, c float64) Option {
	return func(b *Beam) {
		b.SupportA = a
		b.SupportB = c
	}
}

func WithLoads(loads ...Load) Option {
	return func(b *Beam) { b.Loads = append([]Load(nil), loads...) }
}

// New returns a beam with DefaultSegments and supports at both ends unless
// options say otherwise.
func New(span, e, i float64, support Support, opts ...Option) Beam {
	b := Beam{
		Span:     span,
		E:        e,
		I:        i,
		Segments: DefaultSegments,
		Support:  support,
		SupportB: span,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.Segments < 1 {
		b.Segments = DefaultSegments
	}
	return b
}

// AddLoad returns a copy of b with l appended. The receiver is untouched.
func (b Beam) AddLoad(l Load) Beam {
	loads := make([]Load, len(b.Loads), len(b.Loads)+1)
	copy(loads, b.Loads)
	b.Loads = append(loads, l)
	return b
}

// ReplaceLoads returns a copy of b carrying exactly loads.
func (b Beam) ReplaceLoads(loads ...Load) Beam {
	b.Loads = append([]Load(nil), loads...)
	return b
}

func (b Beam) WithSupport(s Support) Beam {
	b.Support = s
	return b
}

func (b Beam) EI() float64 {
	return b.E * b.I
}

func (b Beam) segments() int {
	if b.Segments < 1 {
		return DefaultSegments
	}
	return b.Segments
}

// Step is the node spacing.
func (b Beam) Step() float64 {
	return b.Span / float64(b.segments())
}

// Nodes is the evenly spaced grid x[0..Segments] over [0, Span].
func (b Beam) Nodes() []float64 {
	return numeric.Linspace(0, b.Span, b.segments()+1)
}

// supports returns the overhanging support pair, falling back to the beam
// ends when none was configured.
func (b Beam) supports() (float64, float64) {
	if b.SupportA == 0 && b.SupportB == 0 {
		return 0, b.Span
	}
	return b.SupportA, b.SupportB
}

// Validate checks geometry, material and load placement. Analyze never
// calls it: out-of-range loads are evaluated as given.
func (b Beam) Validate() error {
	if b.Span <= 0 {
		return fmt.Errorf("span must be positive, got %g: %w", b.Span, ErrInvalidBeam)
	}
	if b.E <= 0 || b.I <= 0 {
		return fmt.Errorf("E and I must be positive: %w", ErrInvalidBeam)
	}
	if b.Segments < 1 {
		return fmt.Errorf("segment count must be at least 1: %w", ErrInvalidBeam)
	}
	if !b.Support.Valid() {
		return fmt.Errorf("unknown support %q: %w", b.Support, ErrInvalidBeam)
	}
	if b.Support == Overhanging {
		a, c := b.supports()
		if a < 0 || c > b.Span || a >= c {
			return fmt.Errorf("supports (%g, %g) must satisfy 0 <= a < b <= %g: %w", a, c, b.Span, ErrInvalidBeam)
		}
	}
	for i, l := range b.Loads {
		if err := l.validate(b.Span); err != nil {
			return fmt.Errorf("load %d: %w", i, err)
		}
	}
	return nil
}

// loadTotals sums forces and moments of all loads about x0.
func loadTotals(loads []Load, x0 float64) (force, moment float64) {
	for _, l := range loads {
		force += l.Resultant()
		moment += l.momentAbout(x0)
	}
	return force, moment
}
