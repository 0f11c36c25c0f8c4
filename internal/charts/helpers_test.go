package charts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// genres by the classifier: jazz, jazz, pop, rock, electronic, hip-hop, pop, rock
const fixtureCSV = `id,name,release_date,energy,danceability,valence,acousticness,popularity,tempo,loudness
t1,Blue Room,1965-03-01,0.3,0.4,0.5,0.8,20,90,-12
t2,Late Set,1968-07-01,0.35,0.45,0.6,0.7,30,95,-11
t3,Sunny,1975-01-01,0.5,0.5,0.5,0.5,40,110,-10
t4,Amp,1985-05-05,0.8,0.4,0.7,0.2,50,130,-7
t5,Strobe,2001-01-01,0.75,0.8,0.6,0.1,90,128,-5
t6,Block,2003-02-02,0.65,0.6,0.3,0.1,80,95,-6
t7,Bounce,2005-06-06,0.4,0.75,0.8,0.2,70,118,-6
t8,Riff,2008-08-08,0.9,0.3,0.5,0.05,10,150,-4
`

func fixtureStore(t *testing.T) *dataset.Store {
	t.Helper()
	res, err := dataset.ParseString(fixtureCSV, dataset.ParseOptions{})
	require.NoError(t, err)
	require.Len(t, res.Records, 8)
	return dataset.NewStore(res.Records, nil)
}

// outlierStore holds ten energy values of 0.5 and one of 0.95; the outlier
// sits a little over 3 population standard deviations above the mean.
func outlierStore(t *testing.T) *dataset.Store {
	t.Helper()
	csv := "name,release_date,energy,popularity\n"
	for i := 0; i < 10; i++ {
		csv += "Flat,1990-01-01,0.5,50\n"
	}
	csv += "Spike,1995-01-01,0.95,60\n"
	res, err := dataset.ParseString(csv, dataset.ParseOptions{})
	require.NoError(t, err)
	return dataset.NewStore(res.Records, nil)
}

func xs(s Series) []float64 {
	out := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, p.X)
	}
	return out
}

func statValue(c *Chart, name string) string {
	for _, f := range c.Stats {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
