package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/charts"
	"github.com/KaramelBytes/musictrends-cli/internal/utils"
)

var (
	ovReport     bool
	ovSampleRows int
	ovOutlierThr float64
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Dataset summary: track and artist counts, year span and source",
	Long: `Summarize the loaded dataset. With --report, profile every column of the
track table (types, missing values, outliers, decade means, feature correlations)
as a markdown report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := loadStore(cmd.Context())
		if !ovReport {
			c, err := charts.BuildOverview(st, baseParams())
			if err != nil {
				return err
			}
			return emitCharts(cmd, c)
		}

		name := filepath.Base(cfg.TracksPath)
		if st.Synthetic {
			name = "synthetic tracks"
		}
		prof := analysis.BuildProfile(name, st.Tracks(), analysis.ProfileOptions{
			SampleRows:       ovSampleRows,
			OutlierThreshold: ovOutlierThr,
			Synthetic:        st.Synthetic,
		})
		if wantJSON() && outPath == "" {
			b, err := utils.PrettyJSON(prof)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		md := prof.Markdown()
		if outPath != "" {
			if err := utils.SafeWriteFile(outPath, []byte(md)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report %s (%d rows, %d columns)\n", outPath, prof.Rows, len(prof.Cols))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().BoolVar(&ovReport, "report", false, "print a markdown profile of the track table")
	overviewCmd.Flags().IntVar(&ovSampleRows, "sample-rows", 5, "number of sample rows in the report")
	overviewCmd.Flags().Float64Var(&ovOutlierThr, "outlier-threshold", 3.5, "robust z-score threshold for outliers in the report")
}
