package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"genbridge/internal/adapter"
	"genbridge/internal/httpapi"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		maxTokens int
		noLoad    bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate one reply locally (falls back when the model is unavailable)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxTokens < 0 {
				return fmt.Errorf("--max-tokens must be >= 0, got %d", maxTokens)
			}
			prompt := strings.Join(args, " ")
			ctx := cmd.Context()
			if !noLoad {
				a.loadNow(ctx)
			}
			res := a.adapter.Generate(ctx, prompt, maxTokens)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Text       string `json:"text"`
					Outcome    string `json:"outcome"`
					Reason     string `json:"reason,omitempty"`
					CallID     string `json:"call_id"`
					DurationMS int64  `json:"duration_ms"`
				}{res.Text, string(res.Outcome), string(res.Reason), res.CallID, res.Duration.Milliseconds()})
			}
			fmt.Fprintln(out, res.Text)
			if res.IsFallback() {
				reasonColor(res.Reason).Fprintf(cmd.ErrOrStderr(), "fallback: %s\n", res.Reason)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTokens, "max-tokens", httpapi.DefaultMaxTokens, "Maximum tokens to generate")
	cmd.Flags().BoolVar(&noLoad, "no-load", false, "Skip loading the model (always answers with a fallback)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

// reasonColor marks an unloaded model as a warning and everything else as
// an error.
func reasonColor(r adapter.Reason) *color.Color {
	if r == adapter.ReasonModelNotLoaded {
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed, color.Bold)
}
