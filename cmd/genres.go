package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Genre deep dive: one yearly series per selected genre",
	Example: `  musictrends genres --feature acousticness --genres jazz,rock`,
	Args:    cobra.NoArgs,
	RunE: chartRunE(charts.Genres, []flagParam{
		{"feature", "dive_feature"},
		{"genres", "dive_genres"},
	}),
}

var blueprintCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Compare hit and non-hit feature means inside one decade",
	Example: `  musictrends blueprint --era 1980 --hit-fraction 0.1`,
	Args:    cobra.NoArgs,
	RunE: chartRunE(charts.Blueprint, []flagParam{
		{"era", "era"},
		{"hit-fraction", "hit_fraction"},
	}),
}

func init() {
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(blueprintCmd)

	genresCmd.Flags().StringP("feature", "f", "energy", "audio feature to compare")
	genresCmd.Flags().String("genres", "pop,rock,hip-hop", "comma separated genres: pop, rock, hip-hop, electronic, jazz")

	blueprintCmd.Flags().Int("era", 2000, "decade start year")
	blueprintCmd.Flags().Float64("hit-fraction", 0.25, "top share of tracks by popularity counted as hits")
}
