package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabprep-cli/internal/handoff"
	"github.com/KaramelBytes/tabprep-cli/internal/loader"
	"github.com/KaramelBytes/tabprep-cli/internal/prep"
	"github.com/KaramelBytes/tabprep-cli/internal/table"
	"github.com/KaramelBytes/tabprep-cli/internal/utils"
)

// Encoding targets accepted by --for.
const (
	targetAssociation    = "association"
	targetClustering     = "clustering"
	targetBucket         = "bucket"
	targetClassification = "classification"
)

var (
	encFor        string
	encColumn     string
	encThresholds []float64
	encLabels     []string
	encColumns    []string
	encTarget     string
	encOutput     string
	encPrecision  int
	encQuiet      bool
)

var targetList = strings.Join([]string{targetAssociation, targetClustering, targetBucket, targetClassification}, "|")

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Encode a dataset for an analysis consumer",
	Long: `Prepares a consumer-ready CSV:

  --for association     one-hot text/label columns and binarize numeric ones (x > 0)
  --for clustering      impute and keep the first two numeric columns
  --for bucket          replace --column with labels cut at --thresholds
  --for classification  label-encode text features and bucketize --target
                        (default thresholds 5000,15000)

Example: tabprep encode sales.csv --for bucket --column Production \
           --thresholds 5000,15000 --labels Low,Medium,High`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var stages []prep.Stage
		var check func(*table.Table) (*table.Table, error)
		var build func(*table.Table) []prep.Stage
		switch strings.ToLower(strings.TrimSpace(encFor)) {
		case targetAssociation:
			stages = append(stages, prep.AssociationStage())
			check = func(t *table.Table) (*table.Table, error) { return t, handoff.RequireBoolean(t) }
		case targetClustering:
			stages = append(stages, prep.ImputeStage())
			check = func(t *table.Table) (*table.Table, error) {
				names := encColumns
				if len(names) == 0 {
					var err error
					if names, err = handoff.NumericColumns(t, 2); err != nil {
						return nil, err
					}
					names = names[:2]
				}
				return handoff.Project(t, names)
			}
		case targetBucket:
			if encColumn == "" {
				return fmt.Errorf("--for bucket requires --column")
			}
			labels := encLabels
			if len(labels) == 0 {
				labels = cfg.BinLabels
			}
			stages = append(stages, prep.BucketizeStage(encColumn, encThresholds, labels))
		case targetClassification:
			if encTarget == "" {
				return fmt.Errorf("--for classification requires --target")
			}
			thresholds := encThresholds
			if len(thresholds) == 0 {
				thresholds = prep.DefaultClassThresholds
			}
			labels := encLabels
			if len(labels) == 0 {
				labels = cfg.BinLabels
			}
			build = func(t *table.Table) []prep.Stage {
				features := encColumns
				if len(features) == 0 {
					for _, n := range t.Names() {
						if n != encTarget {
							features = append(features, n)
						}
					}
				}
				return []prep.Stage{prep.ClassificationStage(features, encTarget, thresholds, labels)}
			}
		case "":
			return fmt.Errorf("--for is required (%s)", targetList)
		default:
			return fmt.Errorf("unsupported --for: %s (use %s)", encFor, targetList)
		}

		t, err := loadInput(path)
		if err != nil {
			return err
		}
		if build != nil {
			stages = append(stages, build(t)...)
		}
		res, err := prep.NewPipeline(stages...).Run(cmd.Context(), t)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if check != nil {
			if res, err = check(res); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}

		dest := encOutput
		if dest == "" {
			dest = utils.DerivedPath(path, strings.ToLower(encFor), ".csv")
		}
		precision := cfg.Precision
		if cmd.Flags().Changed("precision") {
			precision = encPrecision
		}
		if err := loader.WriteCSV(dest, res, writeOptions(precision)); err != nil {
			return err
		}
		if !encQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d rows, %d columns)\n", dest, res.Rows(), res.Width())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVar(&encFor, "for", "", "target consumer: "+targetList)
	encodeCmd.Flags().StringVar(&encColumn, "column", "", "bucket: numeric column to replace")
	encodeCmd.Flags().Float64SliceVar(&encThresholds, "thresholds", nil, "bucket, classification: ascending cut points, e.g. 5000,15000")
	encodeCmd.Flags().StringSliceVar(&encLabels, "labels", nil, "bucket, classification: one label per threshold, plus one for the open top (default from config bin_labels)")
	encodeCmd.Flags().StringSliceVar(&encColumns, "columns", nil, "clustering: numeric columns to keep (default first two numeric); classification: feature columns (default all but --target)")
	encodeCmd.Flags().StringVar(&encTarget, "target", "", "classification: numeric column bucketized into class labels")
	encodeCmd.Flags().StringVarP(&encOutput, "output", "o", "", "output CSV path (default <name>.<target>.csv)")
	encodeCmd.Flags().IntVar(&encPrecision, "precision", -1, "decimals for numeric output, -1 for exact (default from config)")
	encodeCmd.Flags().BoolVar(&encQuiet, "quiet", false, "suppress non-essential output")
}
