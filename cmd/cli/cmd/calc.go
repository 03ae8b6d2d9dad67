// Package cmd - calc and fit commands
package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"isofit/core/engine"
	"isofit/core/iso286"
	"isofit/core/output"
	"isofit/core/types"
	"isofit/internal/config"
	"isofit/internal/errors"
)

var (
	outputFormat string
	calcMode     string
)

// calcCmd calculates one component or a fit
var calcCmd = &cobra.Command{
	Use:   "calc <nominal> <grade> [shaft-grade]",
	Short: "Calculate limits for a tolerance grade or a fit",
	Long: `Calculate the deviations and limits of a tolerance zone.

With one grade the role is taken from the letter case: H7 is a hole, g6 a
shaft. With two grades the first is the hole and the second the shaft, and
the fit between them is classified.

Examples:
  isofit calc 40 H7
  isofit calc 40 H7 g6
  isofit calc 40 H7 p6 --format markdown`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCalc,
}

// fitCmd calculates a fit given in designation form
var fitCmd = &cobra.Command{
	Use:   "fit <nominal> <hole/shaft>",
	Short: "Calculate a fit such as H7/g6",
	Args:  cobra.ExactArgs(2),
	RunE:  runFit,
}

func init() {
	for _, c := range []*cobra.Command{calcCmd, fitCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json, markdown)")
	}
	calcCmd.Flags().StringVarP(&calcMode, "mode", "m", "", "calculation mode (single, fit)")
}

func runCalc(cmd *cobra.Command, args []string) error {
	nominal, err := parseNominal(args[0])
	if err != nil {
		return err
	}

	req := engine.Request{
		Nominal:  nominal,
		Mode:     types.Mode(calcMode),
		Grade1:   args[1],
		Language: lang,
	}
	if len(args) == 3 {
		req.Grade2 = args[2]
	}

	result, err := newEngine().Calculate(cmd.Context(), req)
	if err != nil {
		return err
	}
	return render(cmd, result)
}

func runFit(cmd *cobra.Command, args []string) error {
	nominal, err := parseNominal(args[0])
	if err != nil {
		return err
	}
	hole, shaft, err := iso286.ParseFit(args[1])
	if err != nil {
		return err
	}

	result, err := newEngine().Calculate(cmd.Context(), engine.Request{
		Nominal:  nominal,
		Mode:     types.ModeFit,
		Grade1:   hole,
		Grade2:   shaft,
		Language: lang,
	})
	if err != nil {
		return err
	}
	return render(cmd, result)
}

func render(cmd *cobra.Command, result *types.CalculationResult) error {
	report := output.Single(result, lang, config.Get().Output.Precision)
	return output.NewRegistry().Render(cmd.OutOrStdout(), formatOf(outputFormat), report)
}

// parseNominal reads a nominal size in millimeters
func parseNominal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrap(errors.TypeInput, "nominal is not a number", err).WithField("nominal", s)
	}
	return d, nil
}
