package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/runtime"
	"github.com/hyperpolymath/betlang/viz"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newBetCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bet <a> <b> <c>",
		Short: "Resolve a ternary bet many times and chart the outcomes",
		Long: `Resolve "bet { a, b, c }" repeatedly and print how often each
alternative won.  With --weights the bet is weighted.

Examples:
  bet bet heads tails edge -n 1000
  bet bet win lose draw --weights 5,3,2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runBet(cmd, args)
		},
	}
	cmd.Flags().IntP("samples", "n", 0, "Number of bets (default: from config)")
	cmd.Flags().Float64Slice("weights", nil, "Three weights for a weighted bet")
	return cmd
}

func (o *options) runBet(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("samples")
	if n <= 0 {
		n = o.cfg.Samples
	}
	weights, _ := cmd.Flags().GetFloat64Slice("weights")

	alts := make([]decl.Expr, 3)
	for i, a := range args {
		alts[i] = literal(a)
	}
	var expr decl.Expr = decl.Bet(alts[0], alts[1], alts[2])
	if len(weights) > 0 {
		if len(weights) != 3 {
			return fmt.Errorf("--weights needs 3 values, got %d", len(weights))
		}
		expr = decl.WeightedBet(
			alts[0], decl.FloatLit(weights[0]),
			alts[1], decl.FloatLit(weights[1]),
			alts[2], decl.FloatLit(weights[2]))
	}

	in := runtime.NewInterpreter(decl.NewInterner(), o.cfg.RNG())
	if ctx := cmd.Context(); ctx != nil {
		in.Context = ctx
	}
	in.MaxConcurrency = o.cfg.MaxConcurrency
	results := make([]core.Value, n)
	for i := range results {
		v, err := in.Run(expr)
		if err != nil {
			return err
		}
		results[i] = v
	}

	chart, err := viz.FrequencyChart(fmt.Sprintf("%d bets", n), results, chartConfig(cmd))
	if err != nil {
		return err
	}
	text, err := chart.Generate()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// literal reads an alternative as an Int, Float or Bool literal, or a
// String literal otherwise.
func literal(s string) decl.Expr {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return decl.IntLit(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return decl.FloatLit(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return decl.BoolLit(b)
	}
	return decl.StringLit(s)
}

// chartConfig colors bars only when writing to a terminal.
func chartConfig(cmd *cobra.Command) viz.ChartConfig {
	config := viz.DefaultChartConfig()
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		config.Color = isatty.IsTerminal(f.Fd())
	}
	return config
}
