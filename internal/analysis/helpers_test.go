package analysis

import (
	"math"
	"strconv"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// track builds a record from alternating field/value pairs. A "year" value
// becomes a release_date.
func track(kv ...any) dataset.Record {
	var header, vals []string
	for i := 0; i+1 < len(kv); i += 2 {
		k := kv[i].(string)
		var v string
		switch x := kv[i+1].(type) {
		case float64:
			v = strconv.FormatFloat(x, 'f', -1, 64)
		case int:
			v = strconv.Itoa(x)
		case string:
			v = x
		}
		if k == "year" {
			k = "release_date"
			v += "-01-01"
		}
		header = append(header, k)
		vals = append(vals, v)
	}
	return dataset.NewRecord(header, vals)
}

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }
