package main

import (
	"context"
	"encoding/json"

	"propsight/service"

	"github.com/spf13/cobra"
)

var (
	analyzeCompress     bool
	analyzeRatio        float64
	analyzePropertyInfo bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url|property name>",
	Short: "Analyze a listing URL or property name",
	Long: `Scrape and analyze a listing, store the session and print the result as JSON.

Examples:
  # Analyze a listing page
  propsight analyze https://suumo.jp/chintai/jnc_000000000000/

  # Look a property up by name (requires SERPAPI_KEY)
  propsight analyze "パークタワー渋谷" --compress=false`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeCompress, "compress", true, "compress scraped text before analysis")
	analyzeCmd.Flags().Float64Var(&analyzeRatio, "ratio", 0, "compression ratio in (0,1], 0 uses COMPRESSION_RATIO")
	analyzeCmd.Flags().BoolVar(&analyzePropertyInfo, "property-info", false, "reduce text to labelled property facts")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(a.cfg))
	defer cancel()

	resp, err := a.analysis.Analyze(ctx, service.Request{
		Query:               args[0],
		EnableCompression:   analyzeCompress,
		CompressionRatio:    analyzeRatio,
		ExtractPropertyInfo: analyzePropertyInfo,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
