package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprep-cli/internal/analysis"
	"github.com/KaramelBytes/tabprep-cli/internal/utils"
)

var (
	insOutputPath string
	insSampleRows int
	insGroupBy    []string
	insCorr       bool
	insOutliers   bool
	insOutlierThr float64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a CSV/TSV/XLSX dataset: schema, stats, correlations and sample rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := analysis.DefaultOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = insSampleRows
		}
		opt.GroupBy = insGroupBy
		opt.Correlations = insCorr
		opt.Outliers = insOutliers
		if insOutlierThr > 0 {
			opt.OutlierThreshold = insOutlierThr
		}

		t, err := loadInput(path)
		if err != nil {
			return err
		}
		rep, err := analysis.Describe(filepath.Base(path), t, opt)
		if err != nil {
			return err
		}
		md := rep.Markdown()

		// Decide where to write: --output path or stdout
		if insOutputPath != "" {
			if err := utils.SafeWriteFile(insOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", insOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables)")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().BoolVar(&insCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	inspectCmd.Flags().BoolVar(&insOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	inspectCmd.Flags().Float64Var(&insOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
