package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Yearly mean of a feature for the selected genres",
	Example: `  musictrends trends --feature valence --from 1960 --to 2000
  musictrends trends --genres pop,electronic`,
	Args: cobra.NoArgs,
	RunE: chartRunE(charts.Trends, []flagParam{
		{"feature", "feature"},
		{"from", "year_from"},
		{"to", "year_to"},
		{"genres", "genres"},
	}),
}

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Tracks whose feature lies more than N standard deviations from the mean",
	Example: `  musictrends anomalies --feature tempo --sensitivity 2.5`,
	Args:    cobra.NoArgs,
	RunE: chartRunE(charts.Anomalies, []flagParam{
		{"feature", "anomaly_feature"},
		{"sensitivity", "sensitivity"},
		{"cap", "anomaly_cap"},
	}),
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Notable year-over-year changes and an early-vs-recent era comparison",
	Args:  cobra.NoArgs,
	RunE: chartRunE(charts.Insights, []flagParam{
		{"feature", "insight_feature"},
		{"from", "insight_from"},
		{"to", "insight_to"},
	}),
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(insightsCmd)

	trendsCmd.Flags().StringP("feature", "f", "energy", "audio feature to plot")
	trendsCmd.Flags().Int("from", 0, "first year (default: earliest in data)")
	trendsCmd.Flags().Int("to", 0, "last year (default: latest in data)")
	trendsCmd.Flags().String("genres", "pop,rock,hip-hop", "comma separated genres: pop, rock, hip-hop, electronic, jazz")

	anomaliesCmd.Flags().StringP("feature", "f", "energy", "audio feature to scan")
	anomaliesCmd.Flags().Float64P("sensitivity", "s", 2.0, "threshold in standard deviations (1.0 to 3.0, step 0.1)")
	anomaliesCmd.Flags().Int("cap", 0, "max anomalies returned (default from config)")

	insightsCmd.Flags().StringP("feature", "f", "energy", "audio feature to analyze")
	insightsCmd.Flags().Int("from", 0, "first year (default: earliest in data)")
	insightsCmd.Flags().Int("to", 0, "last year (default: latest in data)")
}
