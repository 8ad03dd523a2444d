// Package batch analyses many beams at once, from JSON or a spreadsheet.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	beam "Stratum/internal/calc/beam"
)

type Analyzer interface {
	Analyze(ctx context.Context, in beam.Input) (beam.Result, error)
}

// Item is one beam to analyse. Row is the 1-based sheet row for imported
// items and zero otherwise; Err records a row that could not be parsed.
type Item struct {
	Row   int        `json:"row,omitempty"`
	Name  string     `json:"name,omitempty"`
	Input beam.Input `json:"input"`
	Err   error      `json:"-"`
}

type Outcome struct {
	Row    int          `json:"row,omitempty"`
	Name   string       `json:"name,omitempty"`
	Input  beam.Input   `json:"input"`
	Result *beam.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type Input struct {
	Items []Item `json:"items"`
}

type Result struct {
	Count   int       `json:"count"`
	Failed  int       `json:"failed"`
	Results []Outcome `json:"results"`
}

// Run analyses items concurrently with at most workers in flight; workers <= 0
// means GOMAXPROCS. Outcomes keep the order of items.
func Run(ctx context.Context, a Analyzer, items []Item, workers int) Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(items))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, item := range items {
		out[i] = Outcome{Row: item.Row, Name: item.Name, Input: item.Input}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
			continue
		}

		wg.Add(1)
		go func(o *Outcome, in beam.Input) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				o.Error = ctx.Err().Error()
				return
			}
			res, err := a.Analyze(ctx, in)
			if err != nil {
				o.Error = err.Error()
				return
			}
			o.Result = &res
		}(&out[i], item.Input)
	}
	wg.Wait()

	res := Result{Count: len(out), Results: out}
	for _, o := range out {
		if o.Error != "" {
			res.Failed++
		}
	}
	return res
}

func validate(in Input) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("no items")
	}
	return nil
}
