package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

var storyList bool

var storyCmd = &cobra.Command{
	Use:   "story [acoustic|energy|dance|valence]",
	Short: "Decade-by-decade narrative for one feature",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if storyList {
			for _, k := range charts.StoryKeys() {
				st, _ := charts.LookupStory(k)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s (%s)\n", k, st.Title, st.Feature)
			}
			return nil
		}
		p := baseParams()
		if len(args) == 1 {
			next, err := charts.Apply(p, "story", args[0])
			if err != nil {
				return err
			}
			p = next
		}
		return runChart(cmd, charts.Story, p)
	},
}

var correlationsCmd = &cobra.Command{
	Use:     "correlations",
	Aliases: []string{"corr"},
	Short:   "Rank audio features by correlation with popularity",
	Example: `  musictrends correlations
  musictrends correlations --decade 1980`,
	Args: cobra.NoArgs,
	RunE: chartRunE(charts.Correlations, []flagParam{{"decade", "corr_decade"}}),
}

func init() {
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(correlationsCmd)

	storyCmd.Flags().BoolVar(&storyList, "list", false, "list available stories")
	correlationsCmd.Flags().String("decade", "all", `decade start year (e.g. 1980) or "all"`)
}
