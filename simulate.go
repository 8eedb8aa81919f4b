package killplot

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
	"math/rand"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SimOptions parameterise a simulated mutation analysis. Mutants and tests
// are bit sets over ProgramLen positions: a mutant's bits are its faults,
// a test's bits are the positions it checks.
type SimOptions struct {
	ProgramLen   int
	NMutants     int
	NTests       int
	NFaults      int
	NChecks      int
	NEquivalents int
	// Subtle is the kill rule. 0: the test must check every faulty bit.
	// n >= 1: the test must check at least n of them.
	Subtle int
	Seed   int64
}

// DefaultSimOptions mirrors the defaults of the mutants tool.
func DefaultSimOptions() SimOptions {
	return SimOptions{
		ProgramLen: 101000,
		NMutants:   101000,
		NTests:     101000,
		NFaults:    10,
		NChecks:    10,
		Subtle:     1,
	}
}

// Validate rejects options the generator cannot work with.
func (o SimOptions) Validate() error {
	switch {
	case o.ProgramLen < 1:
		return fmt.Errorf("programlen must be at least 1, got %d", o.ProgramLen)
	case o.NFaults < 1:
		return fmt.Errorf("nfaults must be at least 1, got %d", o.NFaults)
	case o.NChecks < 1:
		return fmt.Errorf("nchecks must be at least 1, got %d", o.NChecks)
	case o.NMutants < 0 || o.NTests < 0 || o.NEquivalents < 0:
		return fmt.Errorf("counts must not be negative")
	case o.Subtle < 0:
		return fmt.Errorf("subtle must not be negative, got %d", o.Subtle)
	}
	return nil
}

// Prefix is the file name stem shared by a run's output files.
func (o SimOptions) Prefix() string {
	return fmt.Sprintf("nfaults=%d_ntests=%d_nchecks=%d_", o.NFaults, o.NTests, o.NChecks)
}

// genBits sets between 1 and nflipped random positions below bitlen.
// Positions may repeat, so fewer bits can end up set.
func genBits(rng *rand.Rand, bitlen int, nflipped int) *big.Int {
	m := new(big.Int)
	n := 1 + rng.Intn(nflipped)
	for i := 0; i < n; i++ {
		m.SetBit(m, rng.Intn(bitlen), 1)
	}
	return m
}

func genList(rng *rand.Rand, num int, bitlen int, nflipped int) []*big.Int {
	out := make([]*big.Int, num)
	for i := range out {
		out[i] = genBits(rng, bitlen, nflipped)
	}
	return out
}

func popcount(x *big.Int) int {
	n := 0
	for _, w := range x.Bits() {
		n += bits.OnesCount(uint(w))
	}
	return n
}

// Kills reports whether test detects mutant under the subtle rule.
func Kills(test *big.Int, mutant *big.Int, subtle int) bool {
	return kills(new(big.Int), test, mutant, subtle)
}

func kills(scratch *big.Int, test *big.Int, mutant *big.Int, subtle int) bool {
	scratch.And(test, mutant)
	if subtle == 0 {
		return scratch.Cmp(mutant) == 0
	}
	return popcount(scratch) >= subtle
}

// CountKills returns, per mutant, how many tests kill it. Mutants are
// split into chunks that run concurrently.
func CountKills(ctx context.Context, mutants []*big.Int, tests []*big.Int, subtle int) ([]int, error) {
	const chunk = 256

	counts := make([]int, len(mutants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < len(mutants); start += chunk {
		start := start
		end := min(start+chunk, len(mutants))
		g.Go(func() error {
			scratch := new(big.Int)
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				n := 0
				for _, t := range tests {
					if kills(scratch, t, mutants[i], subtle) {
						n++
					}
				}
				counts[i] = n
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Simulate generates tests, mutants and equivalent mutants from o.Seed and
// returns the kill count of every mutant, equivalents last.
func Simulate(ctx context.Context, o SimOptions) ([]int, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(o.Seed))

	tests := genList(rng, o.NTests, o.ProgramLen, o.NChecks)
	mutants := genList(rng, o.NMutants, o.ProgramLen, o.NFaults)
	for i := 0; i < o.NEquivalents; i++ {
		mutants = append(mutants, new(big.Int))
	}
	log.Infof("Generated %d tests and %d mutants (%d equivalent)", len(tests), len(mutants), o.NEquivalents)

	return CountKills(ctx, mutants, tests, o.Subtle)
}

// KillRow is one line of a kills table: how many mutants were killed by
// exactly, at least and at most NTests tests.
type KillRow struct {
	NTests  int
	AtLeast int
	AtMost  int
	Exactly int
}

// Distribution tabulates kill counts for every n from 0 to the largest count.
func Distribution(counts []int) ([]KillRow, error) {
	if len(counts) == 0 {
		return nil, ErrNoMutants
	}
	top := 0
	for _, k := range counts {
		if k > top {
			top = k
		}
	}

	exactly := make([]int, top+1)
	for _, k := range counts {
		exactly[k]++
	}

	rows := make([]KillRow, top+1)
	atMost := 0
	for n := range rows {
		atMost += exactly[n]
		rows[n] = KillRow{
			NTests:  n,
			Exactly: exactly[n],
			AtMost:  atMost,
			AtLeast: len(counts) - atMost + exactly[n],
		}
	}
	return rows, nil
}
