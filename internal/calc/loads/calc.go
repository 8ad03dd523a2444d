// Package loads builds factored design loads from characteristic
// permanent and variable actions.
package loads

import (
	"fmt"

	beam "Stratum/internal/calc/beam"
)

type Method string

const (
	MethodSP24 Method = "SP24"
	MethodSP22 Method = "SP22"
	MethodEC7  Method = "EC7"
)

type Factors struct {
	Permanent float64 `json:"permanent"`
	LongTerm  float64 `json:"long_term"`
	ShortTerm float64 `json:"short_term"`
}

type Input struct {
	Method    Method      `json:"method"`
	Permanent []beam.Load `json:"permanent"`
	LongTerm  []beam.Load `json:"long_term"`
	ShortTerm []beam.Load `json:"short_term"`
}

type Result struct {
	Loads         []beam.Load `json:"loads"`
	DesignTotalKN float64     `json:"design_total_kn"`
	ComboName     string      `json:"combo_name"`
	Factors       Factors     `json:"factors"`
	Notes         string      `json:"notes"`
}

// Calculate scales every load by its category factor. The resulting list
// keeps permanent, long-term and short-term loads in that order.
func Calculate(in Input) (Result, error) {
	if len(in.Permanent) == 0 {
		return Result{}, fmt.Errorf("invalid permanent load")
	}
	f, name := factors(in.Method)
	out := Factor(in.Method, in.Permanent, in.LongTerm, in.ShortTerm)

	var total float64
	for _, l := range out {
		total += l.Resultant()
	}
	return Result{
		Loads:         out,
		DesignTotalKN: total,
		ComboName:     name,
		Factors:       f,
		Notes:         "Basic combination of one permanent and two variable load groups.",
	}, nil
}

// Factor returns the design loads of one combination, ready for analysis.
func Factor(method Method, permanent, longTerm, shortTerm []beam.Load) []beam.Load {
	f, _ := factors(method)
	out := make([]beam.Load, 0, len(permanent)+len(longTerm)+len(shortTerm))
	out = scale(out, permanent, f.Permanent)
	out = scale(out, longTerm, f.LongTerm)
	return scale(out, shortTerm, f.ShortTerm)
}

func scale(dst, src []beam.Load, k float64) []beam.Load {
	for _, l := range src {
		l.Magnitude *= k
		dst = append(dst, l)
	}
	return dst
}

func factors(method Method) (Factors, string) {
	switch method {
	case MethodSP22:
		return Factors{1.05, 1.2, 1.3}, "SP22 basic"
	case MethodEC7:
		return Factors{1.35, 1.5, 1.5}, "EC7 STR/GEO"
	default:
		return Factors{1.1, 1.2, 1.3}, "SP24 basic"
	}
}
