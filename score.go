package killplot

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Variant selects how a kill table is loaded, scored and labelled.
type Variant int

const (
	// RowCount counts rows whose exactly column is zero as not detected
	// and every row toward the total.
	RowCount Variant = iota + 1
	// KillSum sums the exactly column: the ntests == 0 row holds the
	// mutants no test killed, every other row holds detected mutants.
	KillSum
)

// RowCountXLimit is the x-axis clamp RowCount plots use.
const RowCountXLimit = 1000

const killsSuffix = "kills.csv"

var ErrNoMutants = errors.New("no mutants: total is zero")

// ParseVariant accepts a variant name or its number.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "rowcount", "1":
		return RowCount, nil
	case "killsum", "2":
		return KillSum, nil
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

func (v Variant) String() string {
	switch v {
	case RowCount:
		return "rowcount"
	case KillSum:
		return "killsum"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// StripSpaces reports whether input is whitespace-normalised before parsing.
func (v Variant) StripSpaces() bool {
	return v == KillSum
}

// XLimit is the upper bound of the x axis, or 0 for no clamp.
func (v Variant) XLimit() float64 {
	if v == RowCount {
		return RowCountXLimit
	}
	return 0
}

// Verbose reports whether per-plot progress goes to stdout.
func (v Variant) Verbose() bool {
	return v == KillSum
}

// Score is a not-detected count against a mutant total.
type Score struct {
	NotDetected float64
	Total       float64
}

// Percent is the mutation score, (1 - NotDetected/Total) * 100.
func (s Score) Percent() float64 {
	return (1 - s.NotDetected/s.Total) * 100
}

// Compute derives the score of t under v. A table with no mutants is an
// error, never a score.
func Compute(t *Table, v Variant) (Score, error) {
	var s Score
	switch v {
	case RowCount:
		for _, e := range t.numeric[ColExactly] {
			if e == 0 {
				s.NotDetected++
			}
		}
		s.Total = float64(t.Len())
	case KillSum:
		ntests := t.numeric[ColNTests]
		exactly := t.numeric[ColExactly]
		var nd, detected []float64
		for i, n := range ntests {
			if n == 0 {
				nd = append(nd, exactly[i])
			} else {
				detected = append(detected, exactly[i])
			}
		}
		s.NotDetected = floats.Sum(nd)
		s.Total = s.NotDetected + floats.Sum(detected)
	default:
		return Score{}, fmt.Errorf("unknown variant %d", int(v))
	}

	if s.Total == 0 {
		return Score{}, ErrNoMutants
	}
	return s, nil
}

// DisplayName turns an input path into the human-readable title prefix.
func DisplayName(fName string, v Variant) string {
	if v == KillSum {
		fName = strings.ReplaceAll(fName, killsSuffix, "")
	}
	return strings.ReplaceAll(fName, "_", " ")
}

// Title is the plot title: display name, ND=<nd>/<total> and the score.
func Title(fName string, v Variant, s Score) string {
	return DisplayName(fName, v) + fmt.Sprintf(" ND=%d/%d (Mu: %3.1f%%)",
		int64(s.NotDetected), int64(s.Total), s.Percent())
}
