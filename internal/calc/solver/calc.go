// Package solver exposes the root finders for polynomial equations.
package solver

import (
	"fmt"

	"Stratum/internal/numeric"
)

type Method string

const (
	MethodAuto      Method = "auto"
	MethodNewton    Method = "newton"
	MethodBisection Method = "bisection"
)

// Input describes p(x) = c[0]*x^n + ... + c[n]. A and B bracket the root
// for bisection and bound the accepted Newton result in auto mode.
type Input struct {
	Coefficients  []float64 `json:"coefficients"`
	Method        Method    `json:"method"`
	X0            float64   `json:"x0"`
	A             float64   `json:"a"`
	B             float64   `json:"b"`
	Tolerance     float64   `json:"tolerance"`
	MaxIterations int       `json:"max_iterations"`
}

type Result struct {
	numeric.RootResult
	Method Method `json:"method"`
}

func Calculate(in Input) (Result, error) {
	if len(in.Coefficients) < 2 {
		return Result{}, fmt.Errorf("invalid input: need a polynomial of degree >= 1")
	}
	if in.Method == "" {
		in.Method = MethodAuto
	}
	f, df := polynomial(in.Coefficients)
	opts := numeric.RootOptions{Tolerance: in.Tolerance, MaxIterations: in.MaxIterations}

	switch in.Method {
	case MethodNewton:
		return Result{RootResult: numeric.NewtonRaphson(f, df, in.X0, opts), Method: MethodNewton}, nil
	case MethodBisection:
		res, err := numeric.Bisection(f, in.A, in.B, opts)
		if err != nil {
			return Result{}, err
		}
		return Result{RootResult: res, Method: MethodBisection}, nil
	case MethodAuto:
		if in.A >= in.B {
			return Result{}, fmt.Errorf("invalid input: bracket a < b required")
		}
		res, err := numeric.SolveWithFallback(f, df, in.X0, in.A, in.B, opts)
		if err != nil {
			return Result{}, err
		}
		method := MethodNewton
		if res.Fallback {
			method = MethodBisection
		}
		return Result{RootResult: res, Method: method}, nil
	default:
		return Result{}, fmt.Errorf("invalid input: unknown method %q", in.Method)
	}
}

// polynomial returns Horner evaluators for p and p'.
func polynomial(c []float64) (numeric.Func, numeric.Func) {
	f := func(x float64) float64 {
		var y float64
		for _, k := range c {
			y = y*x + k
		}
		return y
	}
	n := len(c) - 1
	df := func(x float64) float64 {
		var y float64
		for i, k := range c[:n] {
			y = y*x + k*float64(n-i)
		}
		return y
	}
	return f, df
}
