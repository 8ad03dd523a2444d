package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	beam "Stratum/internal/calc/beam"
	"Stratum/internal/calc/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	analyzeFile     string
	analyzeSpan     float64
	analyzeEGPa     float64
	analyzeI        float64
	analyzeSupport  string
	analyzeSegments int
	analyzeA        float64
	analyzeB        float64
	analyzeLoads    []string
	analyzePoints   int
	analyzePDF      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a single beam",
	Long: `Solve support reactions and the shear, moment and deflection
diagrams of one beam.

Loads use compact notation: P:<kN>@<x> point, U:<kN/m>@<start>-<end>
distributed, M:<kN*m>@<x> applied couple.

Examples:
  # Simply supported 6 m beam with a midspan point load
  stratum analyze --span 6 --i 1e-4 --load P:10@3

  # Cantilever with a full-length UDL, PDF report
  stratum analyze --support cantilever --span 4 --i 8e-5 --load U:5@0-4 --pdf beam.pdf

  # Beam described in YAML
  stratum analyze --file beam.yaml`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFile, "file", "f", "", "YAML beam description; overrides the geometry flags")
	f.Float64VarP(&analyzeSpan, "span", "L", 0, "Span (m)")
	f.Float64Var(&analyzeEGPa, "e-gpa", 200, "Elastic modulus (GPa)")
	f.Float64Var(&analyzeI, "i", 0, "Second moment of area (m^4)")
	f.StringVarP(&analyzeSupport, "support", "s", string(beam.SimplySupported), "Support: simply_supported, cantilever, overhanging, fixed_both, propped_cantilever")
	f.IntVarP(&analyzeSegments, "segments", "n", beam.DefaultSegments, "Number of segments")
	f.Float64Var(&analyzeA, "a", 0, "Left support position for overhanging beams (m)")
	f.Float64Var(&analyzeB, "b", 0, "Right support position for overhanging beams (m)")
	f.StringArrayVar(&analyzeLoads, "load", nil, "Load in compact notation, repeatable")
	f.IntVar(&analyzePoints, "points", 11, "Diagram rows to print, 0 to skip")
	f.StringVar(&analyzePDF, "pdf", "", "Write a PDF report to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := analyzeInput()
	if err != nil {
		return err
	}
	res, err := beam.Calculate(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, res, analyzePoints)

	if analyzePDF != "" {
		f, err := os.Create(analyzePDF)
		if err != nil {
			return err
		}
		defer f.Close()
		id, err := report.Write(f, report.Meta{Title: "Beam Analysis Report"}, in, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport %s written to %s\n", id, analyzePDF)
	}
	return nil
}

func analyzeInput() (beam.Input, error) {
	if analyzeFile != "" {
		raw, err := os.ReadFile(analyzeFile)
		if err != nil {
			return beam.Input{}, err
		}
		var in beam.Input
		if err := yaml.Unmarshal(raw, &in); err != nil {
			return beam.Input{}, fmt.Errorf("parse %s: %w", analyzeFile, err)
		}
		return in, nil
	}

	in := beam.Input{
		Support:   beam.Support(analyzeSupport),
		SpanM:     analyzeSpan,
		E_GPa:     analyzeEGPa,
		IM4:       analyzeI,
		Segments:  analyzeSegments,
		SupportAM: analyzeA,
		SupportBM: analyzeB,
	}
	for _, s := range analyzeLoads {
		l, err := beam.ParseLoad(s)
		if err != nil {
			return beam.Input{}, err
		}
		in.Loads = append(in.Loads, l)
	}
	return in, nil
}

func printResult(out io.Writer, res beam.Result, points int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	p := res.Properties
	fmt.Fprintf(w, "Support\t%s\n", p.Support)
	fmt.Fprintf(w, "Span\t%.3f m\n", p.Span)
	fmt.Fprintf(w, "EI\t%.1f kN*m^2\n", p.EI/1e3)
	fmt.Fprintln(w)

	r := res.Reactions
	fmt.Fprintf(w, "Ra\t%.3f kN\n", r.Ra)
	fmt.Fprintf(w, "Rb\t%.3f kN\n", r.Rb)
	fmt.Fprintf(w, "Ma\t%.3f kN*m\n", r.Ma)
	fmt.Fprintf(w, "Mb\t%.3f kN*m\n", r.Mb)
	fmt.Fprintf(w, "Equilibrium\t%.3f / %.3f kN\n", res.ReactionSum, res.LoadTotal)
	fmt.Fprintln(w)

	m := res.MaxValues
	fmt.Fprintf(w, "Max shear\t%.3f kN\tat %.3f m\n", m.Shear.Value, m.Shear.Position)
	fmt.Fprintf(w, "Max moment\t%.3f kN*m\tat %.3f m\n", m.Moment.Value, m.Moment.Position)
	fmt.Fprintf(w, "Max deflection\t%.3f mm\tat %.3f m\n", m.Deflection.Value, m.Deflection.Position)
	w.Flush()

	n := len(res.X)
	if points < 2 || n < 2 {
		return
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "x, m\tV, kN\tM, kN*m\ty, mm\t")
	for k := 0; k < points; k++ {
		i := k * (n - 1) / (points - 1)
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.3f\t\n", res.X[i], res.Shear[i], res.Moment[i], res.Deflection[i])
	}
	w.Flush()
}
