package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gnolang/fol/internal"
	tt "github.com/gnolang/fol/internal/types"
	"github.com/gnolang/fol/scanner"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// Engine runs a transform pipeline over formula files and sources.
type Engine interface {
	Run(filePath string) ([]tt.Result, error)
	RunSource(source []byte) ([]tt.Result, error)
	IgnoreTransform(name string)
}

// FileProcessor processes one file with an engine.
type FileProcessor func(Engine, string) ([]tt.Result, error)

// SourceProcessor processes one in-memory source with an engine.
type SourceProcessor func(Engine, []byte) ([]tt.Result, error)

// ShowProgress controls whether directory runs draw a progress bar on
// standard error.
var ShowProgress = true

// New creates an engine configured from the file at configurationPath.
func New(logger *zap.Logger, configurationPath string) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	return internal.NewEngine(logger, config.EngineConfig())
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor SourceProcessor,
) ([]tt.Result, error) {
	var allResults []tt.Result
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allResults, err
		}
		results, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor FileProcessor,
) ([]tt.Result, error) {
	var allResults []tt.Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// ProcessPath processes a single file, or every formula file below a
// directory using a bounded pool of workers. For directories, files that
// fail are logged and skipped, and their errors are returned joined
// together with the results of the other files.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor FileProcessor,
) ([]tt.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		results, err := processor(engine, path)
		if err != nil {
			return []tt.Result{}, err
		}
		return results, nil
	}

	scanned, err := scanner.New(path, internal.FormulaFileExt).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	files := make([]string, len(scanned))
	for i, f := range scanned {
		files[i] = f.Path
	}
	sort.Strings(files)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(ShowProgress),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	type fileResult struct {
		results []tt.Result
		err     error
	}
	// one slot per file keeps the output in path order
	collected := make([]fileResult, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	var cancelled error
	for i, filePath := range files {
		if err := acquire(ctx, sem); err != nil {
			cancelled = err
			break
		}
		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			results, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			collected[i] = fileResult{results: results, err: err}
			_ = bar.Add(1)
		}(i, filePath)
	}
	wg.Wait()
	_ = bar.Finish()

	results := make([]tt.Result, 0)
	var errs []error
	for _, c := range collected {
		if c.err != nil {
			errs = append(errs, c.err)
			continue
		}
		results = append(results, c.results...)
	}

	if cancelled != nil {
		return results, cancelled
	}
	return results, errors.Join(errs...)
}

func acquire(ctx context.Context, sem chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sem <- struct{}{}:
		return nil
	}
}

func ProcessFile(engine Engine, filePath string) ([]tt.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Result, error) {
	return engine.RunSource(source)
}

// ResultCache stores results per file.
type ResultCache interface {
	Get(filename string) ([]tt.Result, bool)
	Set(filename string, results []tt.Result) error
}

// WithCache serves results from cache when the file is unchanged and
// stores fresh results otherwise.
func WithCache(cache ResultCache, metrics *Metrics, logger *zap.Logger, next FileProcessor) FileProcessor {
	return func(engine Engine, filePath string) ([]tt.Result, error) {
		if results, ok := cache.Get(filePath); ok {
			metrics.ObserveCache(true)
			return results, nil
		}
		metrics.ObserveCache(false)

		results, err := next(engine, filePath)
		if err != nil {
			return nil, err
		}
		if err := cache.Set(filePath, results); err != nil && logger != nil {
			logger.Warn("Error caching results", zap.String("file", filePath), zap.Error(err))
		}
		return results, nil
	}
}

// WithMetrics records every processed file in metrics.
func WithMetrics(metrics *Metrics, next FileProcessor) FileProcessor {
	return func(engine Engine, filePath string) ([]tt.Result, error) {
		start := time.Now()
		results, err := next(engine, filePath)
		if err != nil {
			return nil, err
		}
		metrics.ObserveFile(results, time.Since(start))
		return results, nil
	}
}
