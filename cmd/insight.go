package main

import (
	"context"
	"encoding/json"

	"propsight/analysis"
	"propsight/service"

	"github.com/spf13/cobra"
)

var insightCmd = &cobra.Command{
	Use:   "insight <flood-risk|financial> <address>",
	Short: "Research flood risk or municipal finances for an address",
	Long: `Gather search snippets for an address and ask the model about one topic.

Examples:
  # Flood risk around a listing
  propsight insight flood-risk "東京都足立区千住"

  # Fiscal health of the municipality
  propsight insight financial "大阪市北区"`,
	Args: cobra.ExactArgs(2),
	RunE: runInsight,
}

func runInsight(cmd *cobra.Command, args []string) error {
	topic, err := analysis.ParseTopic(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(a.cfg))
	defer cancel()

	resp, err := a.insights.Research(ctx, topic, service.InsightRequest{Address: args[1]})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
