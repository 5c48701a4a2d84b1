package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/render"
	"github.com/Sentinel-Gate/admitgate/internal/config"
)

var evaluateInput string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate --input <path>",
	Short: "Evaluate one criteria file",
	Long: `Evaluate a JSON object of criterion values and print the recommendation.

Keys are criterion names of the active policy. Values are true (met), false
(not met) or null (unknown). Omitted criteria are unknown. patient_id and
encounter_id may be given as strings and are echoed in the output.

Exit codes:
  0  evaluation printed
  3  input file not found
  4  input is not a JSON object
  5  unknown criterion name
  6  criterion value is not true, false or null
  1  any other failure

Examples:
  admit-gate evaluate --input patient.json
  admit-gate evaluate --input patient.json --format json
  admit-gate evaluate --input patient.json --unknown ignore --trace`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		return runEvaluate(cmd.Context(), cfg, evaluateInput, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	flags := evaluateCmd.Flags()
	flags.StringVarP(&evaluateInput, "input", "i", "", "path to the criteria JSON file")
	flags.String("format", "", "output format: text, json, yaml (default text)")
	flags.String("unknown", "", "unknown criterion names: reject or ignore (default reject)")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this .prom file")
	flags.Bool("trace", false, "export evaluation spans to stderr")
	_ = evaluateCmd.MarkFlagRequired("input")

	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("unknown_criteria", flags.Lookup("unknown"))
	_ = viper.BindPFlag("metrics.textfile", flags.Lookup("metrics-textfile"))
	_ = viper.BindPFlag("telemetry.trace", flags.Lookup("trace"))

	rootCmd.AddCommand(evaluateCmd)
}

// runEvaluate decodes the file at input, evaluates it and renders the record
// to stdout. Nothing is written to stdout on failure.
func runEvaluate(ctx context.Context, cfg *config.AppConfig, input string, stdout, stderr io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	req, err := a.decoder.DecodeFile(input)
	if err != nil {
		a.service.RecordFailure(ctx, err)
		return err
	}

	rec, err := a.service.Evaluate(ctx, req)
	if err != nil {
		return err
	}

	if err := render.Write(stdout, format, rec, a.service.Catalog()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
