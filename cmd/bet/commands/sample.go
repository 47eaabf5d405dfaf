package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hyperpolymath/betlang/bridge"
	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/hyperpolymath/betlang/parallel"
	"github.com/hyperpolymath/betlang/runtime"
	"github.com/hyperpolymath/betlang/viz"
	"github.com/spf13/cobra"
)

// batchSize is the number of draws taken per rate limiter token.
const batchSize = 1000

func newSampleCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample <distribution> [params...]",
		Short: "Draw from a builtin distribution and summarize the draws",
		Long: `Draw from one of the builtin distributions and print a summary.

Parameters are passed to the builtin in order.  Integers stay integers so
that builtins such as binomial receive an Int count.

Examples:
  bet sample normal 0 1 -n 50000 --hist
  bet sample binomial 10 0.3 --seed 7 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runSample(cmd, args)
		},
	}
	cmd.Flags().IntP("samples", "n", 0, "Number of draws (default: from config)")
	cmd.Flags().Bool("hist", false, "Print a histogram of the draws")
	cmd.Flags().Int("bins", 0, "Histogram bins (default: from config)")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

// parseParam reads a command line parameter as an Int, a Float, a Bool or,
// failing those, a String.
func parseParam(s string) core.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return core.IntVal(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return core.FloatVal(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return core.BoolVal(b)
	}
	return core.StringVal(s)
}

// distribution applies the named builtin to params.  A builtin that returns a
// plain value is treated as a constant distribution.
func (o *options) distribution(name string, params []string) (*core.Distribution, error) {
	in := runtime.NewInterpreter(decl.NewInterner(), o.cfg.RNG())
	native, ok := in.Natives.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown distribution %q: %w", name, runtime.ErrNotFound)
	}
	args := make([]core.Value, len(params))
	for i, p := range params {
		args[i] = parseParam(p)
	}
	v, err := in.Apply(native, args...)
	if err != nil {
		return nil, err
	}
	switch d := v.(type) {
	case *core.Distribution:
		return d, nil
	case *core.NativeFunction:
		return nil, fmt.Errorf("%s expects %d parameters, got %d", name, d.Arity, len(params))
	default:
		return core.Constant(v), nil
	}
}

func (o *options) runSample(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("samples")
	if n <= 0 {
		n = o.cfg.Samples
	}
	bins, _ := cmd.Flags().GetInt("bins")
	if bins <= 0 {
		bins = o.cfg.Bins
	}
	hist, _ := cmd.Flags().GetBool("hist")
	asJSON, _ := cmd.Flags().GetBool("json")

	d, err := o.distribution(args[0], args[1:])
	if err != nil {
		core.Warn("cannot build distribution %s: %v", args[0], err)
		return err
	}
	values, err := o.draw(cmd.Context(), d, n)
	if err != nil {
		return err
	}
	summary, err := core.Summarize(values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := bridge.MarshalIndent(summary.AsMap())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintf(out, "%s: %s\n", d.Name, summary)
	if hist {
		h, err := viz.HistogramOf(d.Name, values, bins, chartConfig(cmd))
		if err != nil {
			return err
		}
		chart, err := h.Generate()
		if err != nil {
			return err
		}
		fmt.Fprint(out, chart)
	}
	return nil
}

// draw samples n values in batches.  With a rate limit configured each batch
// waits for a token first.
func (o *options) draw(ctx context.Context, d *core.Distribution, n int) ([]core.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var limiter *parallel.RateLimiter
	if o.cfg.RateLimit > 0 {
		var err error
		if limiter, err = parallel.NewRateLimiter(o.cfg.RateBurst, o.cfg.RateLimit); err != nil {
			return nil, err
		}
	}
	rng := o.cfg.RNG()
	out := make([]core.Value, 0, n)
	for len(out) < n {
		if limiter != nil && !limiter.TryAcquire() {
			core.Info("rate limit reached after %d/%d draws, waiting", len(out), n)
			if err := limiter.Acquire(ctx); err != nil {
				return nil, err
			}
		}
		batch, err := parallel.Sample(ctx, d, min(batchSize, n-len(out)), o.cfg.Workers, rng.Split())
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		core.Debug("drew %d/%d from %s", len(out), n, d.Name)
	}
	return out, nil
}
