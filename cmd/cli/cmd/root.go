// Package cmd provides the CLI commands for isofit.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"isofit/core/engine"
	"isofit/core/output"
	"isofit/core/ui"
	"isofit/internal/config"
	"isofit/internal/errors"
	"isofit/internal/logging"
)

var (
	cfgFile string
	verbose bool
	lang    string
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "isofit",
	Short: "ISO 286 limits and fits calculator",
	Long: `isofit calculates ISO 286-1 tolerance zones for holes and shafts and
classifies the fit between them.

Examples:
  isofit calc 40 H7 g6
  isofit calc 12.5 F8 --format json
  isofit fit 40 H7/p6 --lang de
  isofit advise --function fixed --condition permanent --nominal 40
  isofit batch fits.hcl`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI and prints a failing command's error
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.isofit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&lang, "lang", "l", "", "output language (en, de, fr, ar)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(fitsCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err == nil {
		err = config.ApplyEnv(cfg)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if lang == "" {
		lang = cfg.Engine.DefaultLanguage
	}
	if cfg.Output.NoColor {
		noColor = true
	}

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newEngine builds an engine from the loaded configuration
func newEngine() *engine.Engine {
	cfg := config.Get()
	return engine.NewEngine(engine.EngineConfig{
		DefaultLanguage: cfg.Engine.DefaultLanguage,
	}, nil)
}

// writer returns a UI writer on the command's output
func writer(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

// formatOf returns the requested output format, or the configured default
func formatOf(flag string) output.Format {
	if flag == "" {
		return output.Format(config.Get().Output.DefaultFormat)
	}
	return output.Format(flag)
}

// printError prints err localized by kind. Errors without a kind, such as
// flag errors from cobra, are printed as they are.
func printError(out io.Writer, err error) {
	w := ui.NewWriter(out, noColor)
	if _, ok := errors.As(err); !ok {
		w.Error("%v", err)
		return
	}
	w.Error("%s", output.NewErrorView(err, lang).Message)
	logging.Debug("command failed", zap.Error(err))
}
