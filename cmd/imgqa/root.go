package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-image-quality/internal/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "imgqa",
		Short: "Assess the technical quality of images",
		Long: `imgqa measures sharpness, brightness and contrast of images and
grades them as low, medium or high quality. It also reports the resolution
standard, aspect ratio, composition and file format.

Example usage:
  imgqa evaluate photo.jpg              # Human readable report
  imgqa evaluate --json scan.png        # Report as JSON
  imgqa formats                         # List recognized file formats`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logLevel)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newEvaluateCmd(), newFormatsCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
