// Package cmd - reference commands
package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"isofit/core/engine"
	"isofit/core/iso286"
	"isofit/core/output"
	"isofit/core/types"
	"isofit/internal/i18n"
)

var fitsNominal string

// fitsCmd lists the common fits catalog
var fitsCmd = &cobra.Command{
	Use:   "fits",
	Short: "List commonly used hole-basis fits",
	Long: `List the common fits catalog, loosest first.

With --nominal every fit is calculated at that size and its clearance range
is shown.

Examples:
  isofit fits
  isofit fits --nominal 40 --lang fr`,
	Args: cobra.NoArgs,
	RunE: runFits,
}

// gradesCmd lists the supported vocabulary
var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List supported IT grades, deviation letters and size ranges",
	Args:  cobra.NoArgs,
	RunE:  runGrades,
}

func init() {
	fitsCmd.Flags().StringVarP(&fitsNominal, "nominal", "n", "", "evaluate every fit at this nominal size (mm)")
	fitsCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")
}

type fitRow struct {
	iso286.CommonFit
	CategoryLabel string                   `json:"category_label"`
	Description   string                   `json:"description"`
	Result        *types.CalculationResult `json:"result,omitempty"`
}

func runFits(cmd *cobra.Command, args []string) error {
	p := i18n.Printer(lang)
	eng := newEngine()

	var nominal decimal.Decimal
	if fitsNominal != "" {
		var err error
		if nominal, err = parseNominal(fitsNominal); err != nil {
			return err
		}
	}

	var rows []fitRow
	for _, f := range iso286.CommonFits() {
		row := fitRow{
			CommonFit:     f,
			CategoryLabel: p.Sprintf(f.CategoryKey()),
			Description:   p.Sprintf(f.DescriptionKey()),
		}
		if fitsNominal != "" {
			var err error
			row.Result, err = eng.Calculate(cmd.Context(), engine.Request{
				Nominal:  nominal,
				Mode:     types.ModeFit,
				Grade1:   f.Hole,
				Grade2:   f.Shaft,
				Language: lang,
			})
			if err != nil {
				return err
			}
		}
		rows = append(rows, row)
	}

	if formatOf(outputFormat) == output.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(rows)
	}

	w := writer(cmd)
	headers := []string{p.Sprintf("output.fit"), p.Sprintf("output.category"), p.Sprintf("output.type")}
	if fitsNominal != "" {
		headers = append(headers, p.Sprintf("output.max_clearance"), p.Sprintf("output.min_clearance"))
	}
	headers = append(headers, p.Sprintf("output.description"))

	table := w.NewTable(headers...)
	if fitsNominal != "" {
		table.AlignRight(3, 4)
	}
	for _, r := range rows {
		cells := []string{r.Designation, r.CategoryLabel, w.Fit(r.Type, engine.FitTypeName(p, r.Type))}
		if r.Result != nil {
			cells = append(cells, strconv.Itoa(r.Result.Fit.MaxClearance), strconv.Itoa(r.Result.Fit.MinClearance))
		}
		table.AddRow(append(cells, r.Description)...)
	}
	table.Render()
	return nil
}

func runGrades(cmd *cobra.Command, args []string) error {
	w := writer(cmd)
	p := i18n.Printer(lang)

	w.SubHeader("IT grades")
	w.Println("  %s", strings.Join(prefixed("IT", iso286.SupportedITGrades), " "))
	w.SubHeader(p.Sprintf("output.hole"))
	w.Println("  %s", strings.Join(iso286.SupportedHoleLetters, " "))
	w.SubHeader(p.Sprintf("output.shaft"))
	w.Println("  %s", strings.Join(iso286.SupportedShaftLetters, " "))
	w.Println("")

	table := w.NewTable("#", "> mm", "≤ mm").AlignRight(0, 1, 2)
	for _, r := range iso286.Ranges() {
		table.AddRow(strconv.Itoa(r.Index), strconv.Itoa(r.Lower), strconv.Itoa(r.Upper))
	}
	table.Render()
	return nil
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%s%s", prefix, v)
	}
	return out
}
