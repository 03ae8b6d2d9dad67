// Package cmd - advise command
package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"isofit/core/advisor"
	"isofit/core/engine"
	"isofit/core/output"
	"isofit/internal/config"
	"isofit/internal/i18n"
)

var (
	adviseSystem    string
	adviseFunction  string
	adviseCondition string
	adviseNominal   string
)

// adviseCmd walks the fit decision tree
var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Recommend a fit for how two parts work together",
	Long: `Recommend a fit from the fit system, the primary function of the joint
and the assembly condition.

Conditions for moving parts: loose, running, precision
Conditions for fixed parts:  removable, rigid, permanent, drive

Examples:
  isofit advise --function moving --condition precision
  isofit advise --system shaft --function fixed --condition rigid
  isofit advise --function fixed --condition permanent --nominal 40`,
	Args: cobra.NoArgs,
	RunE: runAdvise,
}

func init() {
	adviseCmd.Flags().StringVarP(&adviseSystem, "system", "s", string(advisor.SystemGeneral), "fit system (general, hole, shaft)")
	adviseCmd.Flags().StringVar(&adviseFunction, "function", "", "primary function (moving, fixed)")
	adviseCmd.Flags().StringVarP(&adviseCondition, "condition", "c", "", "assembly condition")
	adviseCmd.Flags().StringVarP(&adviseNominal, "nominal", "n", "", "calculate the fit at this nominal size (mm)")
	adviseCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")
	_ = adviseCmd.MarkFlagRequired("function")
	_ = adviseCmd.MarkFlagRequired("condition")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	q := advisor.Question{
		System:    advisor.System(adviseSystem),
		Function:  advisor.Function(adviseFunction),
		Condition: advisor.Condition(adviseCondition),
		Language:  lang,
	}
	if adviseNominal != "" {
		nominal, err := parseNominal(adviseNominal)
		if err != nil {
			return err
		}
		q.Nominal = &nominal
	}

	advice, err := advisor.Advise(cmd.Context(), newEngine(), q)
	if err != nil {
		return err
	}

	if formatOf(outputFormat) == output.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(advice)
	}

	w := writer(cmd)
	p := i18n.Printer(lang)

	w.Header(advice.Designation)
	w.Println("%s: %s", p.Sprintf("output.type"), advice.Type)
	w.Println("%s: %s", p.Sprintf("output.explanation"), advice.Explanation)
	w.Println("%s: %s", p.Sprintf("output.applications"), advice.Applications)
	w.Println("%s: %s", p.Sprintf("output.assembly"), advice.Assembly)
	if advice.Note != "" {
		w.Println("")
		w.Warning("%s", advice.Note)
	}
	if advice.Result != nil {
		w.Println("")
		w.Println("%s", engine.Summary(p, advice.Result, config.Get().Output.Precision))
	}
	return nil
}
