// Package section designs singly reinforced rectangular RC sections.
package section

import (
	"errors"
	"fmt"

	"Stratum/internal/numeric"
)

type Input struct {
	MomentKNM        float64 `json:"moment_knm"`
	WidthMM          float64 `json:"width_mm"`
	EffectiveDepthMM float64 `json:"effective_depth_mm"`
	RbMPa            float64 `json:"rb_mpa"`
	RsMPa            float64 `json:"rs_mpa"`
	XiR              float64 `json:"xi_r"`
}

type Result struct {
	CompressionZoneXMM float64 `json:"compression_zone_x_mm"`
	AsRequiredMM2      float64 `json:"as_required_mm2"`
	Xi                 float64 `json:"xi"`
	Iterations         int     `json:"iterations"`
	OK                 bool    `json:"ok"`
	Notes              string  `json:"notes"`
}

// Calculate finds the compression zone from M = Rb·b·(h0·x − x²/2) with
// Newton-Raphson, falling back to bisection over [0, h0].
func Calculate(in Input) (Result, error) {
	if in.MomentKNM <= 0 || in.WidthMM <= 0 || in.EffectiveDepthMM <= 0 || in.RbMPa <= 0 || in.RsMPa <= 0 {
		return Result{}, fmt.Errorf("invalid input")
	}
	if in.XiR <= 0 {
		in.XiR = 0.45
	}

	M := in.MomentKNM * 1e6 // N*mm
	b := in.WidthMM
	h0 := in.EffectiveDepthMM
	Rb := in.RbMPa

	f := func(x float64) float64 { return Rb*b*(h0*x-0.5*x*x) - M }
	df := func(x float64) float64 { return Rb * b * (h0 - x) }

	root, err := numeric.SolveWithFallback(f, df, h0/4, 0, h0, numeric.RootOptions{Tolerance: 1e-9})
	if err != nil {
		if errors.Is(err, numeric.ErrNoSignChange) {
			return Result{}, fmt.Errorf("no solution for compression zone: section capacity %.1f kN·m is below demand",
				0.5*Rb*b*h0*h0/1e6)
		}
		return Result{}, err
	}
	x := root.Root
	if x <= 0 || x > h0 {
		return Result{}, fmt.Errorf("invalid compression zone")
	}

	As := (Rb * b * x) / in.RsMPa
	xi := x / h0

	return Result{
		CompressionZoneXMM: x,
		AsRequiredMM2:      As,
		Xi:                 xi,
		Iterations:         root.Iterations,
		OK:                 xi <= in.XiR,
		Notes:              "RC beam flexure, simplified rectangular stress block.",
	}, nil
}
