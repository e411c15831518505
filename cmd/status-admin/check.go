package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/statusdesk/status-admin/internal/app"
)

type checkOptions struct {
	deviceType    string
	deviceVersion string
	appVersion    string
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a status lookup directly against the database file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, a.Close())
			}()

			statuses, err := a.Status.LookupCheck(cmd.Context(), opts.deviceType, opts.deviceVersion, opts.appVersion)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(statuses)
		},
	}
	cmd.Flags().StringVar(&opts.deviceType, "device-type", "*", "Client device type")
	cmd.Flags().StringVar(&opts.deviceVersion, "device-version", "*", "Client OS version")
	cmd.Flags().StringVar(&opts.appVersion, "app-version", "*", "Client app version")
	return cmd
}
