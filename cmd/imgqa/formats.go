package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-image-quality/internal/decoder"
	"go-image-quality/internal/descriptor"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List recognized file formats and whether they can be decoded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFormats(cmd.OutOrStdout())
		},
	}
}

func printFormats(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXTENSION\tFORMAT\tDECODABLE")
	for _, ext := range descriptor.KnownExtensions() {
		decodable := "no"
		if decoder.IsSupported("file" + ext) {
			decodable = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", ext, descriptor.FileFormat("file"+ext), decodable)
	}
	return w.Flush()
}
