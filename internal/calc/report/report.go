// Package report renders a beam analysis as a printable PDF.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	beam "Stratum/internal/calc/beam"

	"github.com/godruoyi/go-snowflake"
	"github.com/phpdave11/gofpdf"
)

const (
	pageLeft     = 20.0
	plotWidth    = 170.0
	plotHeight   = 38.0
	maxPlotNodes = 200
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

type diagram struct {
	title string
	unit  string
	y     []float64
}

// Write renders res to w and returns the report ID printed in the header.
func Write(w io.Writer, meta Meta, in beam.Input, res beam.Result) (string, error) {
	if meta.Title == "" {
		meta.Title = "Beam Analysis Report"
	}
	id := strconv.FormatUint(snowflake.ID(), 10)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Date: %s    Report: %s", time.Now().Format("2006-01-02"), id))
	pdf.Ln(8)

	p := res.Properties
	section(pdf, "Beam")
	table(pdf, [][2]string{
		{"Support", string(p.Support)},
		{"Span, m", num(p.Span)},
		{"E, GPa", num(p.E / 1e9)},
		{"I, m^4", fmt.Sprintf("%.4e", p.I)},
		{"EI, kN*m^2", num(p.EI / 1e3)},
	})

	section(pdf, "Loads")
	rows := make([][2]string, 0, len(in.Loads))
	for i, l := range in.Loads {
		rows = append(rows, [2]string{fmt.Sprintf("#%d %s", i+1, l.Kind), l.String()})
	}
	table(pdf, rows)

	r := res.Reactions
	section(pdf, "Reactions")
	table(pdf, [][2]string{
		{"Ra, kN", num(r.Ra)},
		{"Rb, kN", num(r.Rb)},
		{"Ma, kN*m", num(r.Ma)},
		{"Mb, kN*m", num(r.Mb)},
		{"Sum of reactions / loads, kN", num(res.ReactionSum) + " / " + num(res.LoadTotal)},
	})

	m := res.MaxValues
	section(pdf, "Extremes")
	table(pdf, [][2]string{
		{"Shear, kN", fmt.Sprintf("%s at x = %s m", num(m.Shear.Value), num(m.Shear.Position))},
		{"Moment, kN*m", fmt.Sprintf("%s at x = %s m", num(m.Moment.Value), num(m.Moment.Position))},
		{"Deflection, mm", fmt.Sprintf("%s at x = %s m", num(m.Deflection.Value), num(m.Deflection.Position))},
	})

	if meta.Notes != "" {
		section(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, meta.Notes, "", "L", false)
	}

	pdf.AddPage()
	for _, d := range []diagram{
		{"Shear force", "kN", res.Shear},
		{"Bending moment", "kN*m", res.Moment},
		{"Deflection", "mm", res.Deflection},
	} {
		plot(pdf, res.X, d)
	}

	if err := pdf.Output(w); err != nil {
		return "", err
	}
	return id, nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
}

func table(pdf *gofpdf.Fpdf, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(70, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// plot draws one diagram as a polyline over a zero axis, scaled to its own
// largest magnitude.
func plot(pdf *gofpdf.Fpdf, x []float64, d diagram) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s, %s", d.title, d.unit))
	pdf.Ln(8)

	top := pdf.GetY()
	mid := top + plotHeight/2
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(pageLeft, top, plotWidth, plotHeight, "D")
	pdf.Line(pageLeft, mid, pageLeft+plotWidth, mid)

	n := len(x)
	if n < 2 || len(d.y) != n {
		pdf.SetY(top + plotHeight + 6)
		return
	}
	span := x[n-1] - x[0]
	var peak float64
	for _, v := range d.y {
		peak = math.Max(peak, math.Abs(v))
	}
	scale := 0.0
	if peak > 0 {
		scale = (plotHeight/2 - 2) / peak
	}

	step := 1
	if n > maxPlotNodes {
		step = n / maxPlotNodes
	}
	px := func(i int) (float64, float64) {
		return pageLeft + (x[i]-x[0])/span*plotWidth, mid - d.y[i]*scale
	}

	pdf.SetDrawColor(20, 60, 160)
	pdf.SetLineWidth(0.4)
	x0, y0 := px(0)
	for i := step; i < n; i += step {
		x1, y1 := px(i)
		pdf.Line(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	if (n-1)%step != 0 {
		x1, y1 := px(n - 1)
		pdf.Line(x0, y0, x1, y1)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(pageLeft, top+plotHeight+1)
	pdf.Cell(0, 4, fmt.Sprintf("max |%s| = %s %s", d.title, num(peak), d.unit))
	pdf.SetY(top + plotHeight + 8)
	pdf.SetDrawColor(0, 0, 0)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
