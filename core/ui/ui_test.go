package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isofit/core/batch"
	"isofit/core/engine"
	"isofit/core/types"
)

func TestWriterNoColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Success("%d done", 3)
	w.Warning("100%% sure")
	w.Debug("hidden at normal verbosity")
	w.SetVerbosity(2)
	w.Debug("shown")

	assert.Equal(t, "✓ 3 done\n⚠ 100% sure\n  shown\n", buf.String())
}

func TestWriterColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	assert.Equal(t, Bold+Magenta+"press"+Reset, w.Fit(types.FitInterference, "press"))
	assert.Equal(t, Green, FitColor(types.FitClearance))
	assert.Equal(t, Dim, FitColor(types.FitUnknown))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Fit", "µm").AlignRight(1)
	table.AddRow("H7/g6", "50")
	table.AddRow("H7/s6", "-18")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Fit   │  µm", lines[0])
	assert.Equal(t, "──────┼────", lines[1])
	assert.Equal(t, "H7/g6 │  50", lines[2])
	assert.Equal(t, "H7/s6 │ -18", lines[3])
}

func TestTableIgnoresColorCodesInWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	table := w.NewTable("A", "B")
	table.AddRow(w.Color(Red, "xy"), "z")
	assert.Equal(t, 2, table.widths[0])
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	bar := w.NewProgressBar(4, "Calc")
	bar.Update(2)
	bar.Increment()
	bar.Update(9)
	bar.Done()

	out := buf.String()
	assert.Contains(t, out, " 50% (2/4)")
	assert.Contains(t, out, " 75% (3/4)")
	assert.Contains(t, out, "100% (4/4)")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestBatchView(t *testing.T) {
	file, err := batch.Parse([]byte(`
fit "seat" {
  nominal = 40
  hole    = "H7"
  shaft   = "g6"
}
component "bore" {
  nominal = 10
  grade   = "H7"
}
fit "bad" {
  nominal = 40
  hole    = "Z7"
  shaft   = "g6"
}
`), "view.hcl")
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	view := NewBatchView(w, batch.NewRunner(engine.NewEngine(engine.EngineConfig{}, nil), 2), true)

	outcomes := view.Run(context.Background(), file, "en")
	require.Len(t, outcomes, 3)
	view.Display(outcomes, "en")

	out := buf.String()
	assert.Contains(t, out, "(3/3)")
	assert.Contains(t, out, "seat │ H7/g6 │ Clearance")
	assert.Contains(t, out, "bore │ H7")
	assert.Contains(t, out, "10.000 - 10.015")
	assert.Contains(t, out, "Unknown deviation letter: Z.")
	assert.Contains(t, out, "⚠ 1 of 3 calculations failed")
}
