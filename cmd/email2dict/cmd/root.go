// Package cmd implements the email2dict command line.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email2dict/internal/config"
	"github.com/zostay/go-email2dict/internal/logger"
)

// app holds the state shared by every subcommand.
type app struct {
	cfgPath string
	cfg     *config.Config
	log     *slog.Logger

	logLevel  string
	logFormat string
	format    string
	indent    int
	parallel  bool
	maxDepth  int
	workers   int
}

// NewRootCmd returns the email2dict command with all its subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "email2dict",
		Short:             "Turn email messages into structured records",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "TOML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, or error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	pf.StringVarP(&a.format, "format", "f", "", "output format: json or dump")
	pf.IntVar(&a.indent, "indent", 0, "JSON indent width, 0 for one record per line")
	pf.BoolVar(&a.parallel, "parallel", false, "extract the parts of each message concurrently")
	pf.IntVar(&a.maxDepth, "max-depth", 0, "fail on parts nested deeper than this, 0 for no limit")

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newMboxCmd(a))
	rootCmd.AddCommand(newPartsCmd(a))
	rootCmd.AddCommand(newContentTypeCmd(a))
	rootCmd.AddCommand(newDiffCmd(a))

	return rootCmd
}

// setup loads the configuration, applies the flags set on the command line
// over it, and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}

	if changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if changed("format") {
		cfg.Output.Format = a.format
	}
	if changed("indent") {
		cfg.Output.Indent = a.indent
	}
	if changed("parallel") {
		cfg.Extract.ParallelParts = a.parallel
	}
	if changed("max-depth") {
		cfg.Extract.MaxDepth = a.maxDepth
	}
	if changed("workers") {
		cfg.Extract.Workers = a.workers
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(cfg.Log, cmd.ErrOrStderr())
	return nil
}

// Execute runs the email2dict command and exits on failure.
func Execute() {
	err := NewRootCmd().Execute()
	cobra.CheckErr(err)
}
