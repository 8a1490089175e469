package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "propsight",
	Short: "Real-estate listing scraper, compressor and analyzer",
	Long: `propsight scrapes a property listing (or searches for one by name),
compresses the page text to the information that matters and asks an LLM
for a structured analysis. Sessions are stored locally in BoltDB.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(insightCmd)
}
