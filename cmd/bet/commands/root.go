package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hyperpolymath/betlang/config"
	"github.com/hyperpolymath/betlang/core"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configFile string
	envFile    string
	seed       uint64
	workers    int
	logLevel   string

	cfg *config.Config
}

// NewRootCommand builds the bet command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "bet",
		Short: "bet samples and summarizes ternary bets and probability distributions",
		Long: `bet drives the betlang runtime from the command line: draw from the
builtin distributions, resolve ternary bets and summarize numeric data.

Settings come from --config (YAML), a .env file and BETLANG_* variables;
flags override all of them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Path to a dotenv file (ignored when missing)")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for the random generator (default: from entropy)")
	flags.IntVar(&opts.workers, "workers", 0, "Sampling goroutines (default: GOMAXPROCS)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or off")

	rootCmd.AddCommand(newSampleCommand(opts))
	rootCmd.AddCommand(newBetCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// load resolves the configuration.  Flags given on the command line win.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile, o.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := o.seed
		cfg.Seed = &seed
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	core.SetLogLevel(cfg.Level())

	level := slog.LevelInfo
	switch cfg.Level() {
	case core.LogLevelDebug:
		level = slog.LevelDebug
	case core.LogLevelWarn:
		level = slog.LevelWarn
	case core.LogLevelError, core.LogLevelOff:
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	slog.Debug("configuration loaded", "config", o.configFile, "samples", cfg.Samples, "workers", cfg.Workers)
	o.cfg = cfg
	return nil
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
