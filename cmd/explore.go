package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

var simWeights []string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Scatter two features against each other (downsampled)",
	Example: `  musictrends explore --x tempo --y energy --color-by genre`,
	Args:    cobra.NoArgs,
	RunE: chartRunE(charts.Explore, []flagParam{
		{"x", "x"},
		{"y", "y"},
		{"color-by", "color_by"},
		{"ceiling", "sample_ceiling"},
	}),
}

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Aliases: []string{"simulator", "whatif"},
	Short:   "What-if score: weight features and see the yearly score and genre ranking",
	Example: `  musictrends simulate --weight energy=1 --weight acousticness=0 --from 1990`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paramsFromFlags(cmd, []flagParam{
			{"from", "sim_from"},
			{"to", "sim_to"},
		})
		if err != nil {
			return err
		}
		if p, err = applyAssignments(p, "weight.", simWeights); err != nil {
			return err
		}
		return runChart(cmd, charts.Simulator, p)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(simulateCmd)

	exploreCmd.Flags().String("x", "energy", "feature on the x axis")
	exploreCmd.Flags().String("y", "danceability", "feature on the y axis")
	exploreCmd.Flags().String("color-by", "year", "point colour: year, popularity or genre")
	exploreCmd.Flags().Int("ceiling", 0, "max points plotted (default from config)")

	simulateCmd.Flags().StringArrayVarP(&simWeights, "weight", "w", nil, "feature weight as feature=value (repeatable)")
	simulateCmd.Flags().Int("from", 0, "first year (default: all)")
	simulateCmd.Flags().Int("to", 0, "last year (default: all)")
}
