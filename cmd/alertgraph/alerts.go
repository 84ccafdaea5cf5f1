package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"alertgraph/internal/domain"
	"alertgraph/internal/service"
	"alertgraph/internal/ui"
)

func (a *app) alertsCmd() *cobra.Command {
	var filter service.AlertFilter

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List alerts from the data service",
		Example: "  alertgraph alerts --severity high,critical --machine ws-01\n" +
			"  alertgraph alerts --from '2024-01-01 00:00:00' --sort severity --desc",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := service.NewAlertService(a.client(), a.logger).List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Subtle.Sprint("  no matching alerts"))
				return nil
			}
			ui.AlertTable(cmd.OutOrStdout(), alerts)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&filter.Machines, "machine", nil, "Only alerts on these machines")
	flags.StringSliceVar(&filter.Severities, "severity", nil, "Only alerts of these severities (low, medium, high, critical)")
	flags.StringSliceVar(&filter.Programs, "program", nil, "Only alerts raised by these programs")
	flags.StringVar(&filter.From, "from", "", "Earliest occurrence time")
	flags.StringVar(&filter.To, "to", "", "Latest occurrence time")
	flags.BoolVar(&filter.IncludeVaried, "varied", false, "Include alerts that occurred at several times")
	flags.StringVar(&filter.SortBy, "sort", domain.SortByID, "Sort key: id, name, severity, machine, program, occurred_on")
	flags.BoolVar(&filter.Descending, "desc", false, "Sort descending")
	return cmd
}
