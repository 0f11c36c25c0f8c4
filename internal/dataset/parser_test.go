package dataset

import (
	"strings"
	"testing"
)

func TestParse_RowCountAndFields(t *testing.T) {
	in := "name,energy,release_date,artists\n" +
		"One,0.73,1999-05-01,Drake\n" +
		"\n" +
		"Two,0.10,2001,\"Rock, Pop\"\n" +
		"   \n" +
		"Three,0.5,1928,Someone\n"
	res, err := ParseString(in, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(res.Records))
	}
	if res.Skipped != nil {
		t.Fatalf("unexpected skipped rows: %v", res.Skipped)
	}
	for i, r := range res.Records {
		for _, h := range res.Header {
			if _, ok := r.Text[h]; !ok {
				t.Fatalf("record %d missing field %q", i, h)
			}
		}
	}
}

func TestParse_NumericAndQuotedFields(t *testing.T) {
	in := "name,energy,artists\n\"Song\",0.73,\"Rock, Pop\"\nOther, 12 ,Drake\n"
	res, err := ParseString(in, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := res.Records[0]
	if v, ok := r.Float("energy"); !ok || v != 0.73 {
		t.Fatalf("energy = %v %v, want 0.73", v, ok)
	}
	if got := r.String("artists"); got != "Rock, Pop" {
		t.Fatalf("artists = %q, want one field", got)
	}
	if got := r.String("name"); got != "Song" {
		t.Fatalf("name = %q", got)
	}
	if _, ok := res.Records[1].Float("artists"); ok {
		t.Fatalf("Drake must stay text")
	}
	if v, ok := res.Records[1].Float("energy"); !ok || v != 12 {
		t.Fatalf("trimmed numeric = %v %v", v, ok)
	}
}

func TestParse_ShortRowsPadded(t *testing.T) {
	res, err := ParseString("a,b,c\n1\n", ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := res.Records[0]
	if _, ok := r.Float("b"); ok {
		t.Fatalf("padded field should be missing")
	}
	if v, ok := r.Text["c"]; !ok || v != "" {
		t.Fatalf("padded text = %q %v", v, ok)
	}
}

func TestParse_MalformedRowSkipped(t *testing.T) {
	in := "name,energy\nok,0.5\nbad\"quote,0.2\n\"unterminated,0.3\nfine,0.9\n"
	res, err := ParseString(in, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if res.SkippedCount() != 2 {
		t.Fatalf("skipped = %d, want 2 (%v)", res.SkippedCount(), res.Skipped)
	}
	if !strings.Contains(res.Skipped.Error(), "line 3") {
		t.Fatalf("skipped error should name the line: %v", res.Skipped)
	}
}

func TestParse_HeaderOnlyAndEmpty(t *testing.T) {
	res, err := ParseString("a,b\n", ParseOptions{})
	if err != nil || len(res.Records) != 0 {
		t.Fatalf("header only: %v %d", err, len(res.Records))
	}
	res, err = ParseString("", ParseOptions{})
	if err != nil || len(res.Records) != 0 || res.Header != nil {
		t.Fatalf("empty input: %v %+v", err, res)
	}
}

func TestParse_TabDelimited(t *testing.T) {
	if DelimiterFor("data/tracks.TSV") != '\t' || DelimiterFor("https://x/y.csv?raw=1") != ',' {
		t.Fatalf("delimiter sniffing wrong")
	}
	res, err := ParseString("name\tenergy\nx, y\t0.4\n", ParseOptions{Delimiter: '\t'})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Records[0].String("name") != "x, y" {
		t.Fatalf("name = %q", res.Records[0].String("name"))
	}
}

func TestParse_ByteOrderMarkStripped(t *testing.T) {
	for _, in := range []string{
		"\ufeffrelease_date,energy\n1999-05-01,0.7\n",
		"\ufeff\"release_date\",energy\n1999-05-01,0.7\n",
		"\n\ufeffrelease_date,energy\n1999-05-01,0.7\n",
	} {
		res, err := ParseString(in, ParseOptions{})
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if res.Header[0] != "release_date" {
			t.Fatalf("header[0] = %q", res.Header[0])
		}
		if len(res.Records) != 1 || res.Records[0].Year != 1999 {
			t.Fatalf("records = %+v, want one with year 1999", res.Records)
		}
	}
	// only the header line is trimmed
	res, _ := ParseString("name,energy\n\ufeffx,0.1\n", ParseOptions{})
	if res.Records[0].String("name") != "\ufeffx" {
		t.Fatalf("data value changed: %q", res.Records[0].String("name"))
	}
}

func TestRecord_YearDerivation(t *testing.T) {
	cases := []struct {
		header []string
		values []string
		want   int
	}{
		{[]string{"release_date"}, []string{"1999-05-01"}, 1999},
		{[]string{"release_date"}, []string{"1928"}, 1928},
		{[]string{"album_release_date"}, []string{"2010-01"}, 2010},
		{[]string{"release_date", "year"}, []string{"", "1975"}, 1975},
		{[]string{"release_date"}, []string{"n/a"}, 0},
		{[]string{"release_date"}, []string{"0000-01-01"}, 0},
		{[]string{"energy"}, []string{"0.4"}, 0},
	}
	for _, c := range cases {
		r := NewRecord(c.header, c.values)
		if r.Year != c.want {
			t.Errorf("%v=%v: year %d, want %d", c.header, c.values, r.Year, c.want)
		}
	}
	r := NewRecord([]string{"release_date"}, []string{"1987-02-02"})
	if r.Decade() != 1980 {
		t.Fatalf("decade = %d", r.Decade())
	}
}
