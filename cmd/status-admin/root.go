package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/config"
	"github.com/statusdesk/status-admin/internal/logging"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "status-admin",
		Short:         "Publish and look up version-targeted status announcements",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "config.yaml", "Path to config file")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newCheckCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
