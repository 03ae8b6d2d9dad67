// Package cmd - batch command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isofit/core/batch"
	"isofit/core/output"
	"isofit/core/ui"
	"isofit/internal/config"
	"isofit/internal/errors"
	"isofit/internal/logging"
)

var (
	batchWorkers  int
	batchProgress bool
)

// batchCmd evaluates every block of an HCL batch file
var batchCmd = &cobra.Command{
	Use:   "batch <file.hcl>",
	Short: "Calculate every fit and component in a batch file",
	Long: `Calculate every fit and component block of an HCL batch file.

  language = "de"

  fit "bearing_seat" {
    nominal = 40
    hole    = "H7"
    shaft   = "k6"
  }

  component "bore" {
    nominal = 12.5
    grade   = "F8"
  }

A failing block is reported with its error and does not stop the others.
The command exits with status 1 when any block failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 4, "number of concurrent calculations")
	batchCmd.Flags().BoolVar(&batchProgress, "progress", true, "show a progress bar (text format only)")
	batchCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json, markdown)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file, err := batch.ParseFile(args[0])
	if err != nil {
		return err
	}

	batchLang := lang
	if file.Language != "" && !cmd.Flags().Changed("lang") {
		batchLang = file.Language
	}

	runner := batch.NewRunner(newEngine(), batchWorkers)
	logging.Debug("batch started",
		zap.String("file", args[0]),
		zap.Int("items", len(file.Items)),
		zap.Int("workers", batchWorkers))

	format := formatOf(outputFormat)
	var outcomes []batch.Outcome
	if format == output.FormatText {
		view := ui.NewBatchView(writer(cmd), runner, batchProgress)
		outcomes = view.Run(cmd.Context(), file, batchLang)
		view.Display(outcomes, batchLang)
	} else {
		outcomes = runner.Run(cmd.Context(), file.Items, batchLang)
		report := &output.Report{
			Language:  batchLang,
			Precision: config.Get().Output.Precision,
		}
		for _, o := range outcomes {
			entry := output.Entry{Name: o.Item.Name, Result: o.Result}
			if o.Err != nil {
				entry.Error = output.NewErrorView(o.Err, batchLang)
			}
			report.Entries = append(report.Entries, entry)
		}
		if err := output.NewRegistry().Render(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
	}

	if failed := batch.Failed(outcomes); len(failed) > 0 {
		return errors.Newf(errors.TypeInput, "%d of %d batch items failed", len(failed), len(outcomes))
	}
	return nil
}
