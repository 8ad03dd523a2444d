package beam

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type LoadKind string

const (
	Point                LoadKind = "point"
	UniformlyDistributed LoadKind = "udl"
	Moment               LoadKind = "moment"
)

// Load is a demand on the beam. Point and Moment use Position; a
// UniformlyDistributed load uses Start and End, with Magnitude as intensity
// in kN/m. Magnitudes are kN for forces and kN·m for moments, positive
// downward for forces.
type Load struct {
	Kind      LoadKind `json:"kind" yaml:"kind"`
	Magnitude float64  `json:"magnitude" yaml:"magnitude"`
	Position  float64  `json:"position,omitempty" yaml:"position,omitempty"`
	Start     float64  `json:"start,omitempty" yaml:"start,omitempty"`
	End       float64  `json:"end,omitempty" yaml:"end,omitempty"`
}

func PointLoad(p, x float64) Load {
	return Load{Kind: Point, Magnitude: p, Position: x}
}

func DistributedLoad(w, start, end float64) Load {
	return Load{Kind: UniformlyDistributed, Magnitude: w, Start: start, End: end}
}

func MomentLoad(m, x float64) Load {
	return Load{Kind: Moment, Magnitude: m, Position: x}
}

// Resultant is the total transverse force of the load. Moments carry none.
func (l Load) Resultant() float64 {
	switch l.Kind {
	case Point:
		return l.Magnitude
	case UniformlyDistributed:
		return l.Magnitude * (l.End - l.Start)
	default:
		return 0
	}
}

// momentAbout is the load's moment about the point at x0. An applied couple
// contributes its magnitude regardless of lever arm.
func (l Load) momentAbout(x0 float64) float64 {
	switch l.Kind {
	case Point:
		return l.Magnitude * (l.Position - x0)
	case UniformlyDistributed:
		centroid := (l.Start + l.End) / 2
		return l.Resultant() * (centroid - x0)
	case Moment:
		return l.Magnitude
	default:
		return 0
	}
}

// coversSpan reports whether a distributed load runs over the whole beam.
func (l Load) coversSpan(span float64) bool {
	const eps = 1e-9
	return l.Kind == UniformlyDistributed && math.Abs(l.Start) < eps && math.Abs(l.End-span) < eps
}

func (l Load) validate(span float64) error {
	switch l.Kind {
	case Point, Moment:
		if l.Position < 0 || l.Position > span {
			return fmt.Errorf("%s load position %g outside [0, %g]: %w", l.Kind, l.Position, span, ErrInvalidBeam)
		}
	case UniformlyDistributed:
		if l.Start < 0 || l.End > span || l.Start >= l.End {
			return fmt.Errorf("udl extent [%g, %g] outside [0, %g]: %w", l.Start, l.End, span, ErrInvalidBeam)
		}
	default:
		return fmt.Errorf("unknown load kind %q: %w", l.Kind, ErrInvalidBeam)
	}
	return nil
}

func (l Load) String() string {
	switch l.Kind {
	case UniformlyDistributed:
		return fmt.Sprintf("U:%g@%g-%g", l.Magnitude, l.Start, l.End)
	case Moment:
		return fmt.Sprintf("M:%g@%g", l.Magnitude, l.Position)
	default:
		return fmt.Sprintf("P:%g@%g", l.Magnitude, l.Position)
	}
}

// ParseLoad reads the compact notation used by spreadsheets and the CLI:
// "P:10@3" point, "U:5@0-6" distributed, "M:2@1.5" moment.
func ParseLoad(s string) (Load, error) {
	s = strings.TrimSpace(s)
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Load{}, fmt.Errorf("load %q: missing kind prefix", s)
	}
	mag, where, ok := strings.Cut(rest, "@")
	if !ok {
		return Load{}, fmt.Errorf("load %q: missing position", s)
	}
	magnitude, err := strconv.ParseFloat(strings.TrimSpace(mag), 64)
	if err != nil {
		return Load{}, fmt.Errorf("load %q: magnitude: %w", s, err)
	}

	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "P":
		x, err := strconv.ParseFloat(strings.TrimSpace(where), 64)
		if err != nil {
			return Load{}, fmt.Errorf("load %q: position: %w", s, err)
		}
		return PointLoad(magnitude, x), nil
	case "M":
		x, err := strconv.ParseFloat(strings.TrimSpace(where), 64)
		if err != nil {
			return Load{}, fmt.Errorf("load %q: position: %w", s, err)
		}
		return MomentLoad(magnitude, x), nil
	case "U", "W":
		from, to, ok := strings.Cut(where, "-")
		if !ok {
			return Load{}, fmt.Errorf("load %q: udl needs start-end", s)
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(from), 64)
		if err != nil {
			return Load{}, fmt.Errorf("load %q: start: %w", s, err)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(to), 64)
		if err != nil {
			return Load{}, fmt.Errorf("load %q: end: %w", s, err)
		}
		return DistributedLoad(magnitude, start, end), nil
	default:
		return Load{}, fmt.Errorf("load %q: unknown kind %q", s, kind)
	}
}

// ParseLoads splits a ';'-separated list of loads in ParseLoad notation.
func ParseLoads(s string) ([]Load, error) {
	var loads []Load
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := ParseLoad(part)
		if err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, nil
}
