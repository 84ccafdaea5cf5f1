package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alertgraph/internal/codec"
	"alertgraph/internal/domain"
	"alertgraph/internal/service"
	"alertgraph/internal/ui"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		file        string
		format      string
		output      string
		transparent bool
	)

	cmd := &cobra.Command{
		Use:   "render [alert-id]",
		Short: "Lay out an alert graph and write it as JSON, YAML or DOT",
		Long: "Render fetches an alert network from the data service, or reads it from --file,\n" +
			"lays it out and writes the projected graph.",
		Example: "  alertgraph render 42 --format dot -o alert-42.dot\n" +
			"  alertgraph render --file network.yaml --transparent",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (len(args) == 0) {
				return errors.New("pass either an alert id or --file")
			}
			exporter, err := codec.ExporterFor(format)
			if err != nil {
				return err
			}

			var result *service.ViewResult
			if file != "" {
				result, err = a.renderFile(file, transparent)
			} else {
				result, err = a.graphService(a.client()).View(cmd.Context(), args[0], transparent)
			}
			if err != nil {
				return err
			}
			reportWarnings(cmd.ErrOrStderr(), result)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := exporter.Export(result.Graph, w); err != nil {
				return fmt.Errorf("export %s: %w", exporter.Format(), err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %d nodes and %d edges to %s\n",
					ui.StatusIcon(true), len(result.Graph.Nodes), len(result.Graph.Edges), output)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "Read the network from a JSON or YAML file instead of the data service")
	flags.StringVar(&format, "format", "json", "Output format: "+strings.Join(codec.ExportFormats(), ", "))
	flags.StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	flags.BoolVarP(&transparent, "transparent", "t", false, "Show transparent elements")
	return cmd
}

func (a *app) renderFile(path string, transparent bool) (*service.ViewResult, error) {
	network, name, err := readNetwork(path)
	if err != nil {
		return nil, err
	}
	return a.graphService(nil).FromNetwork(name, network, transparent), nil
}

// readNetwork parses a network file and names it after the file
func readNetwork(path string) (*domain.Network, string, error) {
	importer, err := codec.ImporterFor(codec.FormatFromPath(path))
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open network: %w", err)
	}
	defer f.Close()

	network, err := importer.Parse(f)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	return network, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), nil
}

// reportWarnings lists records that were dropped or could not be ordered
func reportWarnings(w io.Writer, result *service.ViewResult) {
	for _, r := range result.Rejected {
		fmt.Fprintf(w, "%s rejected %s\n", ui.WarnIcon(), r.Error())
	}
	for _, key := range result.DuplicateEdges {
		fmt.Fprintf(w, "%s duplicate edge %s, the latest one wins\n", ui.WarnIcon(), key)
	}
	for _, e := range result.TimeErrors {
		fmt.Fprintf(w, "%s %s\n", ui.WarnIcon(), e)
	}
	if result.AlertError != "" {
		fmt.Fprintf(w, "%s alert metadata unavailable: %s\n", ui.WarnIcon(), result.AlertError)
	}
}
