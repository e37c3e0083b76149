package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-hfsplus/internal/config"
)

var (
	// Global output flags only
	verbose      bool
	quiet        bool
	outputFormat string
	blockSize    uint32

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hfsinspect",
	Short: "Read-only HFS Plus / HFSX volume inspector",
	Long: `hfsinspect is a cross-platform, read-only command-line tool for exploring
and extracting data from HFS Plus and HFSX volumes.

Works directly with raw disks, disk images, or a single partition without
mounting or relying on macOS. Ideal for data recovery, forensic analysis,
and backup verification.

Commands:
  info        Summarize the volume header
  partitions  Show the partition scheme detected ahead of the volume
  ls          List a catalog folder's children
  extract     Extract a file's data or resource fork`,
	Version: "0.1.0-dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		if !cmd.Flags().Changed("output") {
			outputFormat = cfg.DefaultOutputFormat
		}
		if !cmd.Flags().Changed("block-size") {
			blockSize = uint32(cfg.DefaultBlockSize)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().Uint32Var(&blockSize, "block-size", 512, "physical block size of the source, in bytes")
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

// GetQuiet returns the quiet flag value
func GetQuiet() bool {
	return quiet
}

// GetOutputFormat returns the output format
func GetOutputFormat() string {
	return outputFormat
}

// GetBlockSize returns the configured physical block size.
func GetBlockSize() uint32 {
	return blockSize
}

// GetConfig returns the configuration loaded for this invocation.
func GetConfig() *config.Config {
	return cfg
}
