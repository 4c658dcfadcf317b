package cli

import (
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jsamuelsen11/readycheck/internal/platform/config"
	"github.com/jsamuelsen11/readycheck/internal/ports"
	"github.com/jsamuelsen11/readycheck/internal/report"
)

const defaultConfigPath = "readycheck.yaml"

// checkOptions holds the verification flags. Flags override the config
// file only when explicitly set.
type checkOptions struct {
	configPath  string
	format      string
	concurrency int
	deadline    time.Duration
	policy      string
	verbose     bool

	flags *pflag.FlagSet
}

func newCheckOptions() *checkOptions {
	return &checkOptions{}
}

func (o *checkOptions) register(flags *pflag.FlagSet) {
	o.flags = flags
	flags.StringVarP(&o.configPath, "config", "c", defaultConfigPath, "path to the YAML config file")
	flags.StringVarP(&o.format, "format", "f", "", "report format: text or json")
	flags.IntVar(&o.concurrency, "concurrency", 0, "maximum services probed in parallel")
	flags.DurationVar(&o.deadline, "deadline", 0, "overall deadline for the whole run")
	flags.StringVar(&o.policy, "policy", "", "exit policy: strict or lenient")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "include every probe attempt in text output")
}

// override applies explicitly-set flags on top of the loaded config.
func (o *checkOptions) override(cfg *config.Config) {
	if o.flags.Changed("format") {
		cfg.Run.Format = o.format
	}
	if o.flags.Changed("concurrency") {
		cfg.Run.Concurrency = o.concurrency
	}
	if o.flags.Changed("deadline") {
		cfg.Run.Deadline = o.deadline
	}
	if o.flags.Changed("policy") {
		cfg.Run.Policy = o.policy
	}
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx, opts.configPath, opts.override)
	if err != nil {
		return err
	}
	defer rt.Close()

	evaluator := do.MustInvoke[ports.Evaluator](rt.injector)
	result := evaluator.Evaluate(ctx)

	reporter, err := report.New(rt.cfg.Run.Format, opts.verbose)
	if err != nil {
		return err
	}
	out, err := reporter.Render(result)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	policy, err := report.ParsePolicy(rt.cfg.Run.Policy)
	if err != nil {
		return err
	}
	if code := policy.ExitCode(result.Overall); code != report.ExitReady {
		return &exitError{code: code}
	}
	return nil
}
