package beam

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

const defaultEGPa = 200

// Input is the wire form of a beam: JSON over HTTP, YAML in the CLI and one
// spreadsheet row in batch imports.
type Input struct {
	Support   Support `json:"support" yaml:"support"`
	SpanM     float64 `json:"span_m" yaml:"span_m"`
	E_GPa     float64 `json:"e_gpa" yaml:"e_gpa"`
	IM4       float64 `json:"i_m4" yaml:"i_m4"`
	Segments  int     `json:"segments,omitempty" yaml:"segments,omitempty"`
	SupportAM float64 `json:"support_a_m,omitempty" yaml:"support_a_m,omitempty"`
	SupportBM float64 `json:"support_b_m,omitempty" yaml:"support_b_m,omitempty"`
	Loads     []Load  `json:"loads" yaml:"loads"`
}

// Beam fills defaults (simply supported, steel E = 200 GPa, 500 segments)
// and converts to SI units.
func (in Input) Beam() Beam {
	if in.Support == "" {
		in.Support = SimplySupported
	}
	if in.E_GPa <= 0 {
		in.E_GPa = defaultEGPa
	}
	opts := []Option{WithLoads(in.Loads...)}
	if in.Segments > 0 {
		opts = append(opts, WithSegments(in.Segments))
	}
	if in.SupportAM != 0 || in.SupportBM != 0 {
		b := in.SupportBM
		if b == 0 {
			b = in.SpanM
		}
		opts = append(opts, WithSupports(in.SupportAM, b))
	}
	return New(in.SpanM, in.E_GPa*1e9, in.IM4, in.Support, opts...)
}

// Key identifies the analysis an input produces.
func (in Input) Key() string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Calculate validates the input and analyses it.
func Calculate(in Input) (Result, error) {
	b := in.Beam()
	if err := b.Validate(); err != nil {
		return Result{}, err
	}
	return Analyze(b), nil
}
