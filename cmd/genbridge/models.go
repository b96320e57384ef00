package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"genbridge/internal/bundle"
)

func newModelsCmd(a *app) *cobra.Command {
	var showSchema bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List bundled artifacts and optionally the loaded model's schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			arts, err := bundle.List(a.cfg.BundleDir)
			if err != nil {
				return err
			}
			bold := color.New(color.Bold)
			dim := color.New(color.Faint)
			if len(arts) == 0 {
				dim.Fprintf(out, "no artifacts in %s\n", a.cfg.BundleDir)
			} else {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				bold.Fprintln(tw, "NAME\tBACKEND\tPATH")
				for _, art := range arts {
					marker := ""
					if art.Name == a.cfg.ModelName {
						marker = " *"
					}
					fmt.Fprintf(tw, "%s%s\t%s\t%s\n", art.Name, marker, art.Backend, art.Path)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if !showSchema {
				return nil
			}
			if !a.loadNow(cmd.Context()) {
				return fmt.Errorf("model not loaded: %s", a.adapter.Status().LastError)
			}
			d, _ := a.adapter.ModelInfo()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
	cmd.Flags().BoolVar(&showSchema, "schema", false, "Load the model and print its input/output schema")
	return cmd
}
