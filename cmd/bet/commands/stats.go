package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperpolymath/betlang/bridge"
	"github.com/hyperpolymath/betlang/core"
	"github.com/spf13/cobra"
)

func newStatsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [numbers...]",
		Short: "Summarize numbers given as arguments or on stdin",
		Long: `Print count, mean, standard deviation, extremes and percentiles of a
list of numbers.  Without arguments the numbers are read from stdin,
separated by whitespace or commas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runStats(cmd, args)
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func (o *options) runStats(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	fields := args
	if len(fields) == 0 {
		var err error
		if fields, err = readFields(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	values := make([]core.Value, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", f)
		}
		values = append(values, core.FloatVal(x))
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
	fmt.Fprintln(out, summary)
	return nil
}

func readFields(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		for _, f := range strings.Split(scanner.Text(), ",") {
			if f != "" {
				out = append(out, f)
			}
		}
	}
	return out, scanner.Err()
}
