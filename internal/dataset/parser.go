package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// byteOrderMark is stripped from the start of the header line.
const byteOrderMark = "\ufeff"

// ErrNoHeader is returned when the input has no parseable header row.
var ErrNoHeader = errors.New("no header row")

// ParseOptions controls delimited text parsing.
type ParseOptions struct {
	// Delimiter between fields. If 0, ',' is used.
	Delimiter rune
}

// ParseResult holds parsed rows plus the rows that were skipped.
type ParseResult struct {
	Header  []string
	Records []Record
	// Skipped aggregates one error per malformed line (nil when none).
	Skipped error
}

// SkippedCount returns the number of malformed lines that were dropped.
func (r ParseResult) SkippedCount() int { return len(multierr.Errors(r.Skipped)) }

// Parse reads delimited text with a header row. Blank lines are ignored and each
// data line is decoded on its own, so a malformed line is skipped without
// affecting the rest of the input.
func Parse(r io.Reader, opt ParseOptions) (ParseResult, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var res ParseResult
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if res.Header == nil {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := splitLine(line, delim)
		if res.Header == nil {
			if err != nil {
				return ParseResult{}, fmt.Errorf("%w: line %d: %v", ErrNoHeader, lineNo, err)
			}
			res.Header = make([]string, len(fields))
			for i, f := range fields {
				res.Header[i] = cleanValue(f)
			}
			continue
		}
		if err != nil {
			res.Skipped = multierr.Append(res.Skipped, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		res.Records = append(res.Records, NewRecord(res.Header, fields))
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}
	return res, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(text string, opt ParseOptions) (ParseResult, error) {
	return Parse(strings.NewReader(text), opt)
}

func splitLine(line string, delim rune) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rec, err := cr.Read()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DelimiterFor picks the field delimiter from a source name.
func DelimiterFor(name string) rune {
	if strings.EqualFold(filepath.Ext(stripQuery(name)), ".tsv") {
		return '\t'
	}
	// Default to comma; the extension is the only signal used.
	return ','
}

func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		return name[:i]
	}
	return name
}
