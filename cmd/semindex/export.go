package main

import (
	"github.com/spf13/cobra"

	"github.com/c360studio/semindex/export"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serialize the resolved index as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			res, err := resolve(cmd.Context(), cfg, newInstruments())
			if err != nil {
				return err
			}

			exportOpts := make([]export.Option, 0, len(cfg.Ontology.Prefixes))
			for prefix, ns := range cfg.Ontology.Prefixes {
				exportOpts = append(exportOpts, export.WithPrefix(prefix, ns))
			}
			out, err := export.New(exportOpts...).Export(res.index, f)
			if err != nil {
				return err
			}
			return writeOutput(output, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "turtle", "Export format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
