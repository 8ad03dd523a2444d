// Package check verifies a rectangular steel or RC section against the
// bending stress and deflection produced by a beam analysis.
package check

import (
	"context"
	"fmt"
	"math"

	beam "Stratum/internal/calc/beam"
)

type Analyzer interface {
	Analyze(ctx context.Context, in beam.Input) (beam.Result, error)
}

type Input struct {
	Beam                 beam.Input `json:"beam"`
	Material             string     `json:"material"` // steel or rc
	FyMPa                float64    `json:"fy_mpa"`
	WidthM               float64    `json:"width_m"`
	HeightM              float64    `json:"height_m"`
	DeflectionLimitRatio float64    `json:"deflection_limit_ratio"`
}

type Result struct {
	MaxMomentKNM      float64     `json:"max_moment_knm"`
	MaxShearKN        float64     `json:"max_shear_kn"`
	RequiredHeightM   float64     `json:"required_height_m"`
	IM4               float64     `json:"i_m4"`
	StressMPa         float64     `json:"stress_mpa"`
	ShearStressMPa    float64     `json:"shear_stress_mpa"`
	DeflectionMM      float64     `json:"deflection_mm"`
	DeflectionLimitMM float64     `json:"deflection_limit_mm"`
	Utilization       float64     `json:"utilization"`
	OKStress          bool        `json:"ok_stress"`
	OKDeflection      bool        `json:"ok_deflection"`
	Notes             string      `json:"notes"`
	Analysis          beam.Result `json:"analysis"`
}

// applyDefaults fills material constants: steel E = 200 GPa, fy = 235 MPa;
// rc E = 30 GPa, fy = 14 MPa. The deflection limit defaults to L/250.
func applyDefaults(in Input, limitRatio float64) Input {
	if in.DeflectionLimitRatio <= 0 {
		in.DeflectionLimitRatio = limitRatio
	}
	if in.DeflectionLimitRatio <= 0 {
		in.DeflectionLimitRatio = 250
	}
	if in.Beam.E_GPa <= 0 {
		if in.Material == "rc" {
			in.Beam.E_GPa = 30
		} else {
			in.Beam.E_GPa = 200
		}
	}
	if in.FyMPa <= 0 {
		if in.Material == "rc" {
			in.FyMPa = 14
		} else {
			in.FyMPa = 235
		}
	}
	return in
}

func secondMoment(widthM, heightM float64) float64 {
	return widthM * math.Pow(heightM, 3) / 12
}

// Calculate analyses the beam with the section's I and checks it. When no
// height is given, the height that brings bending stress to fy is chosen
// and the beam re-analysed with it.
func Calculate(ctx context.Context, a Analyzer, in Input, limitRatio float64) (Result, error) {
	if in.WidthM <= 0 || in.Beam.SpanM <= 0 {
		return Result{}, fmt.Errorf("invalid input")
	}
	in = applyDefaults(in, limitRatio)

	provisional := in.HeightM <= 0
	if provisional {
		// Reactions and moments of these families do not depend on EI.
		in.Beam.IM4 = 1
	} else {
		in.Beam.IM4 = secondMoment(in.WidthM, in.HeightM)
	}
	res, err := a.Analyze(ctx, in.Beam)
	if err != nil {
		return Result{}, err
	}

	M := res.MaxValues.Moment.Abs
	bmm := in.WidthM * 1000.0
	hmm := in.HeightM * 1000.0
	if provisional {
		Wreq := (M * 1e6) / in.FyMPa
		hmm = math.Sqrt(6.0 * Wreq / bmm)
		if hmm <= 0 {
			return Result{}, fmt.Errorf("no bending moment to size against")
		}
		in.Beam.IM4 = secondMoment(in.WidthM, hmm/1000.0)
		if res, err = a.Analyze(ctx, in.Beam); err != nil {
			return Result{}, err
		}
	}

	W := bmm * hmm * hmm / 6.0
	stress := (M * 1e6) / W
	shear := 1.5 * res.MaxValues.Shear.Abs * 1e3 / (bmm * hmm)

	defl := res.MaxValues.Deflection.Abs
	deflLimit := in.Beam.SpanM * 1000.0 / in.DeflectionLimitRatio

	notes := "Section check against analysed moment and deflection."
	if provisional {
		notes = "Height sized so bending stress equals fy."
	}
	return Result{
		MaxMomentKNM:      M,
		MaxShearKN:        res.MaxValues.Shear.Abs,
		RequiredHeightM:   hmm / 1000.0,
		IM4:               in.Beam.IM4,
		StressMPa:         stress,
		ShearStressMPa:    shear,
		DeflectionMM:      defl,
		DeflectionLimitMM: deflLimit,
		Utilization:       math.Max(stress/in.FyMPa, defl/deflLimit),
		OKStress:          stress <= in.FyMPa*(1+1e-9),
		OKDeflection:      defl <= deflLimit,
		Notes:             notes,
		Analysis:          res,
	}, nil
}
