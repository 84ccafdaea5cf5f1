package main

import (
	"github.com/spf13/cobra"

	"alertgraph/internal/service"
	"alertgraph/internal/tui"
)

func (a *app) browseCmd() *cobra.Command {
	var (
		file   string
		filter service.AlertFilter
	)

	cmd := &cobra.Command{
		Use:   "browse [alert-id...]",
		Short: "Browse alert graphs in the terminal",
		Long: "Browse opens an interactive view of one or more alerts. Without ids it browses\n" +
			"every alert matching the filter flags; with --file it browses a saved network.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger = a.quietLogger()

			if file != "" {
				network, name, err := readNetwork(file)
				if err != nil {
					return err
				}
				session := service.NewSession("browse", a.graphService(nil), service.NewEventBus())
				session.LoadNetwork(name, nil, network)
				return tui.Run(session, nil, a.cfg.Upstream.Timeout.Duration())
			}

			upstream := a.client()
			ids := args
			if len(ids) == 0 {
				alerts, err := service.NewAlertService(upstream, a.logger).List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				ids = tui.IDs(alerts)
			}

			session := service.NewSession("browse", a.graphService(upstream), service.NewEventBus())
			return tui.Run(session, ids, 3*a.cfg.Upstream.Timeout.Duration())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "Browse a network read from a JSON or YAML file")
	flags.StringSliceVar(&filter.Severities, "severity", nil, "Only alerts of these severities")
	flags.StringSliceVar(&filter.Machines, "machine", nil, "Only alerts on these machines")
	return cmd
}
