package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
	"github.com/KaramelBytes/musictrends-cli/internal/utils"
)

var (
	outJSON  bool
	outPath  string
	outLimit int
)

const defaultRowLimit = 40

func addOutputFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&outJSON, "json", false, "print chart payloads as JSON")
	fs.StringVarP(&outPath, "output", "o", "", "write the payload to this file instead of stdout")
	fs.IntVar(&outLimit, "limit", defaultRowLimit, "max points listed per series in table output (0 = all)")
}

func wantJSON() bool {
	if outJSON {
		return true
	}
	return cfg != nil && strings.EqualFold(cfg.OutputFormat, "json")
}

// emitCharts prints or writes one or more charts in the selected format.
func emitCharts(cmd *cobra.Command, cs ...*charts.Chart) error {
	var payload any = cs
	if len(cs) == 1 {
		payload = cs[0]
	}
	if outPath != "" {
		b, err := utils.PrettyJSON(payload)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(outPath, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", outPath)
		return nil
	}
	if wantJSON() {
		b, err := utils.PrettyJSON(payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	}
	w := cmd.OutOrStdout()
	color := shouldColorize(w)
	for i, c := range cs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderChart(w, c, outLimit, color)
	}
	return nil
}

func renderChart(w io.Writer, c *charts.Chart, limit int, colorize bool) {
	header := fmt.Sprintf("== %s ==", c.Title)
	if colorize {
		header = text.Colors{text.FgHiBlue, text.Bold}.Sprint(header)
	}
	fmt.Fprintln(w, header)

	if len(c.Stats) > 0 {
		rows := make([][]string, 0, len(c.Stats))
		for _, f := range c.Stats {
			rows = append(rows, []string{f.Name, f.Value})
		}
		fmt.Fprintln(w, renderTable([]string{"Stat", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	for _, s := range c.Series {
		fmt.Fprintf(w, "%s (%s, %d points)\n", s.Name, s.Kind, len(s.Points))
		if len(s.Points) == 0 {
			continue
		}
		xName := c.XLabel
		if xName == "" {
			xName = "x"
		}
		yName := c.YLabel
		if yName == "" {
			yName = "y"
		}
		shown := s.Points
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		rows := make([][]string, 0, len(shown))
		for _, p := range shown {
			rows = append(rows, []string{formatX(p), fmt.Sprintf("%.3f", p.Y), p.Text})
		}
		fmt.Fprintln(w, renderTable([]string{xName, yName, "Note"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
		if rest := len(s.Points) - len(shown); rest > 0 {
			fmt.Fprintf(w, "… %d more points (use --limit 0 or --json)\n", rest)
		}
	}

	for _, n := range c.Notes {
		if colorize {
			n = text.FgYellow.Sprint(n)
		}
		fmt.Fprintf(w, "• %s\n", n)
	}
}

func formatX(p charts.Point) string {
	if p.Label != "" {
		return p.Label
	}
	if p.X == math.Trunc(p.X) && math.Abs(p.X) < 1e9 {
		return fmt.Sprintf("%d", int64(p.X))
	}
	return fmt.Sprintf("%.3f", p.X)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
