package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go-image-quality/internal/analyzer"
	"go-image-quality/internal/factory"
	"go-image-quality/internal/hasher"
	"go-image-quality/internal/logger"
	"go-image-quality/internal/metadata"
	"go-image-quality/pkg/models"
	"go-image-quality/pkg/validation"
)

type evaluateOptions struct {
	asJSON   bool
	strategy string
}

func newEvaluateCmd() *cobra.Command {
	opts := evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <path>",
		Short: "Evaluate a local image file",
		Long: `Decode the file, measure it on a normalized copy and print the report
together with any quality advisories.

Example:
  imgqa evaluate photo.jpg
  imgqa evaluate --strategy threshold --json scan.tif`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&opts.strategy, "strategy", string(factory.CombinedStrategy), "Resolution strategy (exact, threshold, combined)")
	return cmd
}

func runEvaluate(out io.Writer, path string, opts evaluateOptions) error {
	resolutions, err := factory.NewStrategyFactory().CreateStrategy(factory.StrategyType(opts.strategy))
	if err != nil {
		return err
	}
	evaluator := analyzer.NewEvaluator(analyzer.DefaultOptions().WithResolutionStrategy(resolutions))

	resp, err := evaluateFile(evaluator, validation.NewQualityValidator(), path)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printReport(out, resp)
	return nil
}

func evaluateFile(evaluator analyzer.ImageEvaluator, quality *validation.QualityValidator, path string) (*models.EvaluationResponse, error) {
	start := time.Now()

	report, err := evaluator.Evaluate(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Debug("Evaluation failed")
		return nil, err
	}

	resp := &models.EvaluationResponse{
		Source:            path,
		Timestamp:         time.Now().UTC(),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Report:            report,
		Issues:            quality.Validate(report),
	}
	if id, err := hasher.FileHash(path); err == nil {
		resp.ID = id
	}
	if exif, err := metadata.ReadExif(path); err == nil {
		resp.Exif = exif
	}
	return resp, nil
}

func printReport(out io.Writer, resp *models.EvaluationResponse) {
	rep := resp.Report

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", resp.Source)
	fmt.Fprintf(w, "Resolution:\t%s\n", rep.Resolution)
	fmt.Fprintf(w, "Standard:\t%s\n", orNone(string(rep.ResolutionStandard)))
	fmt.Fprintf(w, "Aspect ratio:\t%s (%s)\n", rep.AspectRatio, rep.Composition)
	fmt.Fprintf(w, "Format:\t%s\n", rep.FileFormat)
	fmt.Fprintf(w, "Sharpness:\t%.2f\n", rep.Sharpness)
	fmt.Fprintf(w, "Brightness:\t%.2f\n", rep.Brightness)
	fmt.Fprintf(w, "Contrast:\t%.2f\n", rep.Contrast)
	fmt.Fprintf(w, "Quality:\t%s\n", rep.QualityLevel)
	if resp.Exif != nil {
		fmt.Fprintf(w, "Camera:\t%s %s\n", resp.Exif.Make, resp.Exif.Model)
	}
	w.Flush()

	if len(resp.Issues) == 0 {
		return
	}
	fmt.Fprintln(out, "\nIssues:")
	for _, issue := range resp.Issues {
		fmt.Fprintf(out, "  [%s] %s\n", issue.Severity, issue.Message)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
