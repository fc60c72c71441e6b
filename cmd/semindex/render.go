package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/semindex/ontology"
	"github.com/c360studio/semindex/render"
)

func renderCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		class  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the resolved index as prompt markdown or a JSON Schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			res, err := resolve(cmd.Context(), cfg, newInstruments())
			if err != nil {
				return err
			}

			switch format {
			case "markdown":
				return writeOutput(output, render.NewRenderer().Markdown(res.index))
			case "schema":
				if class == "" {
					return fmt.Errorf("--class is required for schema output")
				}
				schema, err := render.ClassSchema(res.index, ontology.NodeID(class))
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(schema, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal schema: %w", err)
				}
				return writeOutput(output, string(data)+"\n")
			default:
				return fmt.Errorf("unknown render format %q (markdown, schema)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format (markdown, schema)")
	cmd.Flags().StringVar(&class, "class", "", "Class IRI for schema output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
