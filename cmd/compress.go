package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"propsight/service"

	"github.com/spf13/cobra"
)

var (
	compressMaxLength int
	compressRatio     float64
	compressStats     bool
)

var compressCmd = &cobra.Command{
	Use:   "compress [file]",
	Short: "Compress text from a file or stdin",
	Long: `Compress text from a file or stdin and print the result.

Examples:
  # Compress a saved page
  propsight compress listing.txt

  # Compress from stdin with a tighter budget
  cat listing.txt | propsight compress --max-length 2000 -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().IntVar(&compressMaxLength, "max-length", 0, "maximum output length in characters (default 30000)")
	compressCmd.Flags().Float64Var(&compressRatio, "ratio", 0, "compression ratio in (0,1] (default 0.7)")
	compressCmd.Flags().BoolVar(&compressStats, "stats", false, "print stage statistics as JSON instead of the text")
}

func runCompress(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	_, log, compressor, err := loadBase()
	if err != nil {
		return err
	}
	defer log.Sync()

	resp := service.NewCompressService(compressor).Compress(service.CompressRequest{
		Text:             string(content),
		MaxLength:        compressMaxLength,
		CompressionRatio: compressRatio,
	})

	out := cmd.OutOrStdout()
	if compressStats {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Stats)
	}
	_, err = fmt.Fprintln(out, resp.Text)
	return err
}
