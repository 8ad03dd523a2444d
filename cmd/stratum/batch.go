package main

import (
	"context"
	"fmt"
	"os"

	"Stratum/internal/calc/batch"
	beam "Stratum/internal/calc/beam"
	"Stratum/internal/calc/inbox"

	"github.com/spf13/cobra"
)

var (
	batchOut     string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <workbook.xlsx>",
	Short: "Analyse every beam in a workbook",
	Long: `Read beams from the first sheet of an xlsx workbook and write a
summary workbook. The header row names the columns: name, support, span_m,
e_gpa, i_m4, segments, support_a, support_b, loads.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Output workbook (default <name>_results.xlsx)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Concurrent analyses, 0 for GOMAXPROCS")
}

func runBatch(cmd *cobra.Command, args []string) error {
	src, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	items, err := batch.ReadWorkbook(src)
	if err != nil {
		return err
	}
	res := batch.Run(context.Background(), beam.NewService(nil, 0, nil), items, batchWorkers)

	out := batchOut
	if out == "" {
		out = inbox.ResultPath(args[0])
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := batch.WriteWorkbook(f, res); err != nil {
		return err
	}

	for _, o := range res.Results {
		if o.Error != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "row %d %s: %s\n", o.Row, o.Name, o.Error)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d analysed, %d failed, written to %s\n", res.Count-res.Failed, res.Failed, out)
	return nil
}
