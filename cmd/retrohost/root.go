package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/retrohost/config"
	rhlog "github.com/reglet-dev/retrohost/log"
)

// Version is set via -ldflags.
var Version = "dev"

// app is the state shared by every subcommand once the root has loaded the
// configuration.
type app struct {
	configPath string
	logLevel   string
	corePath   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "retrohost",
		Short:         "Run libretro cores without a frontend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "override the configured log level")
	flags.StringVar(&a.corePath, "core", "", "override the configured core library")

	root.AddCommand(newRunCommand(a), newInfoCommand(a), newSchemaCommand())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if a.corePath != "" {
		cfg.Core = a.corePath
	}
	a.cfg = cfg
	a.logger = cfg.Logger(rhlog.WithWriter(cmd.ErrOrStderr()))
	return nil
}
