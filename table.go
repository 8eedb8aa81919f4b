// Package killplot turns mutation-testing kill tables into mutation scores
// and scatter plots, and simulates the kill tables in the first place.
package killplot

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names every kill table must carry.
const (
	ColNTests  = "ntests"
	ColExactly = "exactly"
	ColAtLeast = "atleast"
	ColAtMost  = "atmost"
)

// RequiredColumns are the columns LoadTable insists on.
var RequiredColumns = []string{ColNTests, ColExactly, ColAtLeast, ColAtMost}

var (
	ErrEmptyInput    = errors.New("no header row")
	ErrMissingColumn = errors.New("missing column")
	ErrBadValue      = errors.New("non-numeric value")
)

// Record is one row of a kill table.
type Record struct {
	NTests  float64
	Exactly float64
	AtLeast float64
	AtMost  float64
}

// Table is a kill table loaded fully into memory. It is never modified
// after LoadTable returns.
type Table struct {
	Header  []string
	rows    [][]string
	index   map[string]int
	numeric map[string][]float64
}

// LoadTable reads the CSV file at fName. With strip set, space characters
// outside quoted fields are removed before parsing.
func LoadTable(fName string, strip bool) (*Table, error) {
	f, err := os.Open(fName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strip {
		content, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(StripSpaces(content))
	}

	t, err := ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fName, err)
	}
	return t, nil
}

// ReadTable parses a kill table from r. Blank lines are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	t := &Table{
		Header:  records[0],
		rows:    records[1:],
		index:   make(map[string]int),
		numeric: make(map[string][]float64),
	}
	for i, h := range t.Header {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}

	for _, name := range RequiredColumns {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		vals, err := t.parseColumn(name)
		if err != nil {
			return nil, err
		}
		t.numeric[name] = vals
	}

	return t, nil
}

func (t *Table) parseColumn(name string) ([]float64, error) {
	i := t.index[name]
	vals := make([]float64, len(t.rows))
	for row, rec := range t.rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s row %d: %q", ErrBadValue, name, row+1, rec[i])
		}
		vals[row] = v
	}
	return vals, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Column returns the values of the named column. Required columns are
// parsed at load time; any other column is parsed on demand.
func (t *Table) Column(name string) ([]float64, error) {
	if vals, ok := t.numeric[name]; ok {
		return vals, nil
	}
	if _, ok := t.index[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return t.parseColumn(name)
}

// Raw returns the unparsed cell at row for the named column.
func (t *Table) Raw(row int, name string) (string, bool) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return t.rows[row][i], true
}

// Records returns the required columns row by row.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range out {
		out[i] = Record{
			NTests:  t.numeric[ColNTests][i],
			Exactly: t.numeric[ColExactly][i],
			AtLeast: t.numeric[ColAtLeast][i],
			AtMost:  t.numeric[ColAtMost][i],
		}
	}
	return out
}

// StripSpaces removes every ' ' that is not inside a double-quoted field.
// An escaped quote ("") toggles the state twice and so leaves it unchanged.
func StripSpaces(b []byte) []byte {
	out := make([]byte, 0, len(b))
	quoted := false
	for _, c := range b {
		switch {
		case c == '"':
			quoted = !quoted
		case c == ' ' && !quoted:
			continue
		}
		out = append(out, c)
	}
	return out
}
