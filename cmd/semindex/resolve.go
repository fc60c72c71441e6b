package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/semindex/focus"
	"github.com/c360studio/semindex/index"
)

// indexDocument is the JSON shape `resolve` emits.
type indexDocument struct {
	RunID     string           `json:"run_id"`
	Files     []string         `json:"files"`
	Stats     index.Stats      `json:"stats"`
	Reduction *focus.Reduction `json:"reduction,omitempty"`
	Units     []index.Unit     `json:"units"`
}

func resolveCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		statsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the ontology into an enriched knowledge index",
		Long: `Resolve loads the configured ontology files, folds constraints down
the class hierarchy, enriches every class with its inherited constraints,
and prints the resulting index as JSON (or just its stats).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			res, err := resolve(cmd.Context(), cfg, newInstruments())
			if err != nil {
				return err
			}
			if err := publishResolution(cmd.Context(), cfg, res); err != nil {
				return err
			}

			if statsOnly {
				printStats(res)
				return nil
			}

			doc := indexDocument{
				RunID:     res.runID,
				Files:     res.files,
				Stats:     res.index.Stats(),
				Reduction: res.reduction,
				Units:     res.index.Values(),
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal index: %w", err)
			}
			return writeOutput(output, string(data)+"\n")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the index JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&statsOnly, "stats", false, "Print index statistics only")
	return cmd
}

func printStats(res *resolution) {
	stats := res.index.Stats()
	fmt.Printf("Classes:              %d\n", stats.Classes)
	fmt.Printf("Distinct properties:  %d\n", stats.Properties)
	fmt.Printf("Avg properties/class: %.2f\n", stats.AvgPropertiesPerClass)
	fmt.Printf("Max hierarchy depth:  %d\n", stats.MaxDepth)
	if res.reduction != nil {
		fmt.Printf("Pruned:               %d of %d classes (%.1f%%)\n",
			res.reduction.RemovedClasses, res.reduction.FullClasses, res.reduction.Percent)
		fmt.Printf("Tokens saved (est.):  %d\n", res.reduction.TokensSaved)
	}
}
