package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprep-cli/internal/loader"
	"github.com/KaramelBytes/tabprep-cli/internal/prep"
	"github.com/KaramelBytes/tabprep-cli/internal/utils"
)

var (
	prDrop      []string
	prNormalize []string
	prBin       bool
	prOneHot    []string
	prOutput    string
	prPreview   int
	prPrecision int
	prQuiet     bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <files...>",
	Short: "Impute, prune, normalize and optionally bin/encode CSV/TSV/XLSX files",
	Long: `Runs the preprocessing pipeline over each input:

  impute (numeric means) -> drop columns -> normalize quarter columns to [0,1]
  -> optional row mean + Low/Medium/High quantile bin -> optional one-hot columns

Each result is written next to its input as <name>.processed.csv unless -o is
given (single input only). Column defaults come from the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if prOutput != "" && len(files) > 1 {
			return fmt.Errorf("--output can only be used with a single input (got %d files)", len(files))
		}

		drop := cfg.DropColumns
		if cmd.Flags().Changed("drop") {
			drop = prDrop
		}
		quarters := cfg.QuarterColumns
		if cmd.Flags().Changed("normalize") {
			quarters = prNormalize
		}
		precision := cfg.Precision
		if cmd.Flags().Changed("precision") {
			precision = prPrecision
		}

		p := prep.NewPipeline(prep.ImputeStage(), prep.PruneStage(drop), prep.NormalizeStage(quarters))
		if prBin {
			p.Then(prep.RowMeanStage(quarters, cfg.AverageColumn),
				prep.QuantileBinStage(quarters, cfg.BinColumn, cfg.BinLabels))
		}
		for _, c := range prOneHot {
			p.Then(prep.OneHotStage(c))
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !prQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := loadInput(path)
			if err != nil {
				return err
			}
			res, err := p.Run(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			dest := prOutput
			if dest == "" {
				dest = utils.DerivedPath(path, "processed", ".csv")
			}
			if err := loader.WriteCSV(dest, res, writeOptions(precision)); err != nil {
				return err
			}
			slog.Debug("prepared dataset",
				slog.String("input", path),
				slog.String("output", dest),
				slog.Int("rows", res.Rows()),
				slog.Int("columns", res.Width()))
			if !prQuiet {
				fmt.Fprintf(out, "✓ Wrote %s (%d rows, %d columns)\n", dest, res.Rows(), res.Width())
			}
			if prPreview > 0 {
				if err := printPreview(out, res, prPreview, precision); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringSliceVar(&prDrop, "drop", nil, "columns to remove (default from config drop_columns)")
	prepareCmd.Flags().StringSliceVar(&prNormalize, "normalize", nil, "columns to strip, impute and scale to [0,1] (default from config quarter_columns)")
	prepareCmd.Flags().BoolVar(&prBin, "bin", false, "append the row mean of the normalized columns and its Low/Medium/High quantile bin")
	prepareCmd.Flags().StringSliceVar(&prOneHot, "one-hot", nil, "columns to one-hot encode (repeatable)")
	prepareCmd.Flags().StringVarP(&prOutput, "output", "o", "", "output CSV path (single input only)")
	prepareCmd.Flags().IntVar(&prPreview, "preview", 0, "print the first N rows of each result")
	prepareCmd.Flags().IntVar(&prPrecision, "precision", -1, "decimals for numeric output, -1 for exact (default from config)")
	prepareCmd.Flags().BoolVar(&prQuiet, "quiet", false, "suppress progress and non-essential output")
}
