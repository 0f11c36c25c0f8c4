package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
)

// flagParam binds a command flag to a dashboard parameter.
type flagParam struct {
	flag  string
	param string
}

// paramsFromFlags starts from the configured defaults and applies every
// changed flag through the same validation the dashboard uses.
func paramsFromFlags(cmd *cobra.Command, binds []flagParam) (charts.Params, error) {
	p := baseParams()
	for _, b := range binds {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		next, err := charts.Apply(p, b.param, f.Value.String())
		if err != nil {
			return p, fmt.Errorf("--%s: %w", b.flag, err)
		}
		p = next
	}
	return p, nil
}

// applyAssignments applies "key=value" pairs in order. Keys are parameter
// names, optionally prefixed (e.g. "weight.").
func applyAssignments(p charts.Params, prefix string, pairs []string) (charts.Params, error) {
	for _, kv := range pairs {
		k, v, err := splitAssignment(kv)
		if err != nil {
			return p, err
		}
		next, err := charts.Apply(p, prefix+k, v)
		if err != nil {
			return p, err
		}
		p = next
	}
	return p, nil
}

func splitAssignment(kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", kv)
	}
	return k, v, nil
}

// runChart loads the data and emits one chart.
func runChart(cmd *cobra.Command, id string, p charts.Params) error {
	build, ok := charts.Builders()[id]
	if !ok {
		return fmt.Errorf("unknown chart %q", id)
	}
	st := loadStore(cmd.Context())
	c, err := build(st, p)
	if err != nil {
		return err
	}
	return emitCharts(cmd, c)
}

// chartRunE is the RunE shared by single-chart commands.
func chartRunE(id string, binds []flagParam) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := paramsFromFlags(cmd, binds)
		if err != nil {
			return err
		}
		return runChart(cmd, id, p)
	}
}
