package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	kp "github.com/teamnsrg/killplot"
)

var (
	configFile string
	variant    string
	backend    string
	logLevel   string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "killplot <kills.csv>",
	Short: "Plot mutant kill distributions and their mutation score",
	Long: "killplot reads a kills table (ntests,exactly,atleast,atmost), computes the\n" +
		"mutation score and writes <input>-exact.png, <input>-atleast.png and\n" +
		"<input>-atmost.png next to the input.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to YAML plot configuration")
	rootCmd.Flags().StringVar(&variant, "variant", kp.DefaultVariant, "Scoring variant: rowcount or killsum")
	rootCmd.Flags().StringVar(&backend, "backend", kp.DefaultBackend, "Plot backend: gonum or chart")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Re-plot whenever the input file changes")
}

func loadConfig(cmd *cobra.Command) (*kp.Config, error) {
	cfg := kp.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = kp.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Override(variant, backend, cmd.Flags().Changed); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := kp.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fName := args[0]
	res, err := p.Run(fName)
	if err != nil {
		return err
	}
	log.Infof("Mutation score %.1f%% (%d plots)", res.Score.Percent(), len(res.Paths))

	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return kp.Watch(ctx, fName, func() error {
		_, err := p.Run(fName)
		return err
	})
}

func main() {
	log.SetReportCaller(true)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
