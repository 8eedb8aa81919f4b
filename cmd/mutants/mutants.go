package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	kp "github.com/teamnsrg/killplot"
)

var (
	opts    = kp.DefaultSimOptions()
	outDir  string
	plot    bool
	variant string
)

var rootCmd = &cobra.Command{
	Use:           "mutants",
	Short:         "Simulate mutation analysis and write kill tables",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&opts.ProgramLen, "programlen", "l", opts.ProgramLen, "length of a mutant")
	f.IntVarP(&opts.NMutants, "nmutants", "m", opts.NMutants, "number of mutants")
	f.IntVarP(&opts.NTests, "ntests", "t", opts.NTests, "number of tests")
	f.IntVarP(&opts.NFaults, "nfaults", "f", opts.NFaults, "maximum number of faults per mutant")
	f.IntVarP(&opts.NChecks, "nchecks", "c", opts.NChecks, "maximum number of checks per test")
	f.IntVarP(&opts.NEquivalents, "nequivalents", "e", opts.NEquivalents, "number of equivalent mutants")
	f.IntVarP(&opts.Subtle, "subtle", "s", opts.Subtle,
		"subtlety of mutants (how many conditions need to be fulfilled?) -- 0 for conditions, 1 for *any* and >1 for hamming weight")
	f.Int64Var(&opts.Seed, "seed", 0, "random seed (default: current time)")
	f.StringVar(&outDir, "out-dir", "data", "directory to write the csv files to")
	f.BoolVar(&plot, "plot", false, "plot the kills table once written")
	f.StringVar(&variant, "variant", kp.DefaultVariant, "scoring variant used with --plot")
}

func run(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("seed") {
		opts.Seed = time.Now().UnixNano()
	}
	log.Infof("%+v", opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	counts, err := kp.Simulate(ctx, opts)
	if err != nil {
		return err
	}

	killsFile, err := kp.SaveSimulation(outDir, opts, counts)
	if err != nil {
		return err
	}
	log.Infof("Wrote %s", killsFile)

	if !plot {
		return nil
	}
	cfg := kp.DefaultConfig()
	cfg.Variant = variant
	p, err := kp.NewPipeline(cfg)
	if err != nil {
		return err
	}
	_, err = p.Run(killsFile)
	return err
}

func main() {
	log.SetReportCaller(true)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
