package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

var (
	dashSets        []string
	dashOnly        []string
	dashInteractive bool
	dashListParams  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render every chart, then apply parameter changes one at a time",
	Long: `Render all charts in order. Each --set key=value changes one parameter and
recomputes only the chart that depends on it; a chart that fails to recompute
keeps its previous state. With --interactive, read key=value lines from stdin.`,
	Example: `  musictrends dashboard --set sensitivity=2.5 --set corr_decade=1990 --only anomalies,correlations
  musictrends dashboard --interactive
  musictrends dashboard --params`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dashListParams {
			return printParams(cmd.OutOrStdout())
		}
		only, err := chartFilter(dashOnly)
		if err != nil {
			return err
		}

		d := charts.NewDashboard(loadStore(cmd.Context()), baseParams(), logger)
		if err := d.RenderAll(); err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %v\n", e)
			}
		}
		for _, kv := range dashSets {
			if err := setParam(cmd.ErrOrStderr(), d, kv); err != nil {
				return err
			}
		}
		if dashInteractive {
			return interactive(cmd, d)
		}

		var out []*charts.Chart
		for _, c := range d.Charts() {
			if len(only) == 0 || only[c.ID] {
				out = append(out, c)
			}
		}
		return emitCharts(cmd, out...)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringArrayVar(&dashSets, "set", nil, "parameter change as key=value, applied in order (repeatable)")
	dashboardCmd.Flags().StringSliceVar(&dashOnly, "only", nil, "only print these charts (comma separated IDs)")
	dashboardCmd.Flags().BoolVarP(&dashInteractive, "interactive", "i", false, "read key=value lines from stdin and print each recomputed chart")
	dashboardCmd.Flags().BoolVar(&dashListParams, "params", false, "list parameters and the chart each one drives")
}

func chartFilter(ids []string) (map[string]bool, error) {
	known := charts.Builders()
	only := map[string]bool{}
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("unknown chart %q (use %s)", id, strings.Join(charts.Order, ", "))
		}
		only[id] = true
	}
	return only, nil
}

// setParam validates and applies one key=value. Invalid input is an error; a
// failed recompute is only a warning since the previous chart is kept.
func setParam(w io.Writer, d *charts.Dashboard, kv string) error {
	k, v, err := splitAssignment(kv)
	if err != nil {
		return err
	}
	if _, err := charts.Apply(d.Params(), k, v); err != nil {
		return err
	}
	id, err := d.Set(k, v)
	if err != nil {
		fmt.Fprintf(w, "⚠ %s=%s: %v (keeping previous %s chart)\n", k, v, err, id)
		return nil
	}
	fmt.Fprintf(w, "✓ %s=%s → %s\n", k, v, id)
	return nil
}

func printParams(w io.Writer) error {
	rows := make([][]string, 0)
	for _, name := range charts.ParamNames() {
		id, err := charts.ChartFor(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, id})
	}
	fmt.Fprintln(w, renderTable([]string{"Parameter", "Chart"}, rows, nil))
	return nil
}

func interactive(cmd *cobra.Command, d *charts.Dashboard) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Enter key=value to change a parameter, 'show <chart>', 'params' or 'quit'.")
	sc := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return nil
		case line == "params":
			if err := printParams(out); err != nil {
				return err
			}
		case strings.HasPrefix(line, "show"):
			id := strings.TrimSpace(strings.TrimPrefix(line, "show"))
			c, ok := d.Chart(id)
			if !ok {
				fmt.Fprintf(out, "⚠ no chart %q\n", id)
				continue
			}
			if err := emitCharts(cmd, c); err != nil {
				return err
			}
		default:
			if err := setParam(out, d, line); err != nil {
				fmt.Fprintf(out, "⚠ %v\n", err)
				continue
			}
			k, _, _ := splitAssignment(line)
			id, _ := charts.ChartFor(k)
			if c, ok := d.Chart(id); ok {
				if err := emitCharts(cmd, c); err != nil {
					return err
				}
			}
		}
	}
}
