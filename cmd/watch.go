package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/gnolang/fol/formatter"
	"github.com/gnolang/fol/internal"
	tt "github.com/gnolang/fol/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-run the pipeline whenever a .fol file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}

		watcher, err := internal.NewWatcher(engine, logger, dirs, reportTo(cmd.OutOrStdout()))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watcher.Start(ctx); err != nil {
			return err
		}
		logger.Info("Watching for changes", zap.Strings("dirs", dirs))

		<-ctx.Done()
		return watcher.Stop()
	},
}

func reportTo(out io.Writer) internal.ReportFunc {
	return func(filename string, results []tt.Result) {
		fmt.Fprint(out, formatter.FormatResults(results, showSteps))
		issues := tt.Issues(results)
		if len(issues) == 0 {
			return
		}
		// a file that vanished is still reported, without its source
		sourceCode, _ := internal.ReadSourceCode(filename)
		fmt.Fprint(out, formatter.GenerateFormattedIssue(issues, sourceCode))
	}
}
