package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/fol/batch"
	"github.com/gnolang/fol/formatter"
	"github.com/gnolang/fol/internal"
	tt "github.com/gnolang/fol/internal/types"
)

var errFormulasFailed = errors.New("one or more formulas failed")

var (
	ignoreTransforms string
	runJsonOutput    bool
	outPath          string
	cacheDir         string
	metricsOut       string
	showSteps        bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run the configured pipeline over formula files",
	Long: `Runs every formula in the given .fol files, or in the .fol files below the
given directories, through the configured pipeline.
A .fol file holds one formula per line; blank lines and lines starting with '#' are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		if ignoreTransforms != "" {
			for _, name := range strings.Split(ignoreTransforms, ",") {
				engine.IgnoreTransform(strings.TrimSpace(name))
			}
		}

		metrics := batch.NewMetrics(nil)
		processor := batch.WithMetrics(metrics, batch.ProcessFile)
		if cacheDir != "" {
			cache, err := internal.NewCache(cacheDir)
			if err != nil {
				return fmt.Errorf("error opening cache: %w", err)
			}
			if cfgFile != "" {
				if err := cache.SetDependencies(cfgFile); err != nil {
					return fmt.Errorf("error opening cache: %w", err)
				}
			}
			processor = batch.WithCache(cache, metrics, logger, processor)
		}

		return runFormulas(ctx, cmd.OutOrStdout(), logger, engine, args, processor, metrics)
	},
}

func init() {
	runCmd.Flags().StringVar(&ignoreTransforms, "ignore", "", "Comma-separated list of transforms to skip")
	runCmd.Flags().BoolVar(&runJsonOutput, "json", false, "Output results in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for the result cache (disabled when empty)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write metrics in Prometheus text format to this file")
	runCmd.Flags().BoolVar(&showSteps, "steps", false, "Show the output of every pipeline step")
}

// newEngine builds an engine from the config file, applying --max-depth
// when it was given.
func newEngine(cmd *cobra.Command) (*internal.Engine, error) {
	config, err := batch.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("max-depth") {
		config.MaxDepth = maxDepth
	}
	return internal.NewEngine(logger, config.EngineConfig())
}

func runFormulas(
	ctx context.Context,
	out io.Writer,
	logger *zap.Logger,
	engine batch.Engine,
	paths []string,
	processor batch.FileProcessor,
	metrics *batch.Metrics,
) error {
	results, err := batch.ProcessFiles(ctx, logger, engine, paths, processor)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		return err
	}

	if runJsonOutput {
		if err := writeJSON(out, results, outPath); err != nil {
			return err
		}
	} else {
		printResults(out, logger, results)
	}

	if metricsOut != "" {
		if err := metrics.WriteTextfile(metricsOut); err != nil {
			logger.Error("Error writing metrics", zap.String("path", metricsOut), zap.Error(err))
		}
	}

	for _, r := range results {
		if r.Failed() {
			return &reportedError{err: errFormulasFailed}
		}
	}
	return nil
}

func printResults(out io.Writer, logger *zap.Logger, results []tt.Result) {
	fmt.Fprint(out, formatter.FormatResults(results, showSteps))

	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range tt.Issues(results) {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		fileIssues := issuesByFile[filename]
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprint(out, formatter.GenerateFormattedIssue(fileIssues, sourceCode))
	}
}

func writeJSON(out io.Writer, results []tt.Result, path string) error {
	d, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	if path == "" {
		fmt.Fprintln(out, string(d))
		return nil
	}
	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
