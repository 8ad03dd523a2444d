package batch

import (
	"fmt"
	"io"
	"strings"

	beam "Stratum/internal/calc/beam"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const resultSheet = "Results"

// Columns recognised in the first row of an import sheet. Order is free;
// span_m and i_m4 are required.
var importColumns = []string{"name", "support", "span_m", "e_gpa", "i_m4", "segments", "support_a", "support_b", "loads"}

var resultHeader = []interface{}{
	"row", "name", "support", "span_m", "Ra_kN", "Rb_kN", "Ma_kNm", "Mb_kNm",
	"max_shear_kN", "max_moment_kNm", "max_deflection_mm", "x_max_deflection_m", "error",
}

// ReadWorkbook reads beams from the first sheet of an xlsx document. Rows
// that fail to parse are returned with Err set so callers can report them.
func ReadWorkbook(r io.Reader) ([]Item, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("empty sheet")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"span_m", "i_m4"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	items := make([]Item, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		item := Item{Row: i + 1, Name: cell("name")}
		item.Input, item.Err = parseRow(cell)
		items = append(items, item)
	}
	return items, nil
}

func parseRow(cell func(string) string) (beam.Input, error) {
	var (
		in  = beam.Input{Support: beam.Support(cell("support"))}
		err error
	)
	if in.SpanM, err = cast.ToFloat64E(cell("span_m")); err != nil {
		return in, fmt.Errorf("span_m: %w", err)
	}
	if in.IM4, err = cast.ToFloat64E(cell("i_m4")); err != nil {
		return in, fmt.Errorf("i_m4: %w", err)
	}
	if v := cell("e_gpa"); v != "" {
		if in.E_GPa, err = cast.ToFloat64E(v); err != nil {
			return in, fmt.Errorf("e_gpa: %w", err)
		}
	}
	if v := cell("segments"); v != "" {
		if in.Segments, err = cast.ToIntE(v); err != nil {
			return in, fmt.Errorf("segments: %w", err)
		}
	}
	if v := cell("support_a"); v != "" {
		if in.SupportAM, err = cast.ToFloat64E(v); err != nil {
			return in, fmt.Errorf("support_a: %w", err)
		}
	}
	if v := cell("support_b"); v != "" {
		if in.SupportBM, err = cast.ToFloat64E(v); err != nil {
			return in, fmt.Errorf("support_b: %w", err)
		}
	}
	if in.Loads, err = beam.ParseLoads(cell("loads")); err != nil {
		return in, err
	}
	return in, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteWorkbook writes one summary row per outcome.
func WriteWorkbook(w io.Writer, res Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(resultSheet, "A1", &resultHeader); err != nil {
		return err
	}

	for i, o := range res.Results {
		row := []interface{}{o.Row, o.Name, string(o.Input.Support), o.Input.SpanM}
		if r := o.Result; r != nil {
			m := r.MaxValues
			row = append(row,
				r.Reactions.Ra, r.Reactions.Rb, r.Reactions.Ma, r.Reactions.Mb,
				m.Shear.Value, m.Moment.Value, m.Deflection.Value, m.Deflection.Position, "")
		} else {
			row = append(row, nil, nil, nil, nil, nil, nil, nil, nil, o.Error)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
