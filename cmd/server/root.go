package main

import (
	"fmt"
	"os"

	"github.com/dfryer1193/postboard/shared/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dbFile     string
	addr       string
	logLevel   string

	cfg config.Config
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "postboard",
		Short:         "Postboard is a minimal blog where anyone can submit a post",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a .toml or .yaml config file")
	flags.StringVar(&opts.dbFile, "db-file", "", "persist the SQLite database to this file instead of memory")
	flags.StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")

	serve := newServeCmd(opts)
	cmd.RunE = serve.RunE
	cmd.AddCommand(serve, newMigrateCmd(opts))

	return cmd
}

// load resolves the configuration; flags that were set win over everything.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db-file") {
		cfg.Database.Path = o.dbFile
	}
	if flags.Changed("addr") {
		cfg.Addr = o.addr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogger(cfg.Log)
	o.cfg = cfg
	return nil
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
