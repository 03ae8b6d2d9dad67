package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isofit/internal/errors"
)

// run executes the CLI with fresh flag state and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestCalcFit(t *testing.T) {
	out, err := run(t, "calc", "40", "H7", "g6")
	require.NoError(t, err)
	assert.Contains(t, out, "Nominal Size: 40 mm")
	assert.Contains(t, out, "Fit Result: Clearance")
	assert.Contains(t, out, "- Limits: 39.975 - 39.991 mm")
}

func TestCalcTextHonoursPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isofit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  precision: 4\n"), 0644))

	out, err := run(t, "--config", path, "calc", "40", "H7", "g6")
	require.NoError(t, err)
	assert.Contains(t, out, "- Limits: 40.0000 - 40.0250 mm")
	assert.Contains(t, out, "- Limits: 39.9750 - 39.9910 mm")
}

func TestCalcSingleJSON(t *testing.T) {
	out, err := run(t, "calc", "12.5", "F8", "--format", "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "single", decoded["mode"])
	assert.Equal(t, "12.5", decoded["nominal_size"])
	assert.NotContains(t, decoded, "shaft")
}

func TestFitLocalized(t *testing.T) {
	out, err := run(t, "fit", "40", "H7/p6", "--lang", "de")
	require.NoError(t, err)
	assert.Contains(t, out, "Übermaßpassung")
}

func TestCalcErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind errors.Type
	}{
		{"out of range", []string{"calc", "600", "H7", "g6"}, errors.TypeOutOfRange},
		{"not a number", []string{"calc", "forty", "H7"}, errors.TypeInput},
		{"bad letter", []string{"calc", "40", "H7", "x6"}, errors.TypeUnsupportedLetter},
		{"bad fit", []string{"fit", "40", "H7g6"}, errors.TypeInvalidFormat},
		{"bad format", []string{"calc", "40", "H7", "--format", "html"}, errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.TypeOf(err))
		})
	}
}

func TestFits(t *testing.T) {
	out, err := run(t, "fits", "--nominal", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "H7/g6")
	assert.Contains(t, out, "Sliding")
	assert.Contains(t, out, "Max clearance (µm)")
}

func TestAdvise(t *testing.T) {
	out, err := run(t, "advise", "--function", "fixed", "--condition", "permanent", "--nominal", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "H7/p6")
	assert.Contains(t, out, "Fit Result: Interference")

	_, err = run(t, "advise", "--function", "moving", "--condition", "drive")
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hcl")
	require.NoError(t, os.WriteFile(good, []byte(`
fit "seat" {
  nominal = 40
  hole    = "H7"
  shaft   = "g6"
}

component "bore" {
  nominal = 10
  grade   = "H7"
}
`), 0644))

	out, err := run(t, "batch", good, "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "seat │ H7/g6 │ Clearance")
	assert.Contains(t, out, "10.000 - 10.015")

	out, err = run(t, "batch", good, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## seat: H7/g6 @ 40 mm")

	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`
fit "too_big" {
  nominal = 600
  hole    = "H7"
  shaft   = "g6"
}
`), 0644))
	_, err = run(t, "batch", bad, "--progress=false")
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestGradesAndVersion(t *testing.T) {
	out, err := run(t, "grades")
	require.NoError(t, err)
	assert.Contains(t, out, "IT5 IT6 IT7 IT8 IT9 IT10 IT11")
	assert.Contains(t, out, "12 │  400 │  500")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "isofit version 1.0.0 (ISO 286-1:2010)\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isofit.yaml")

	_, err := run(t, "config", "init", path)
	require.NoError(t, err)
	_, err = run(t, "config", "init", path)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	out, err := run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_language: en")
	assert.Contains(t, out, "precision: 3")
}
