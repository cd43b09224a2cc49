package formatter

import (
	"fmt"
	"strings"

	tt "github.com/gnolang/fol/internal/types"
)

// FormatResults renders the formulas that made it through the pipeline.
// With verbose set every intermediate step is listed. Results carrying an
// error are left to GenerateFormattedIssue.
func FormatResults(results []tt.Result, verbose bool) string {
	var builder strings.Builder
	for _, r := range results {
		if r.Failed() {
			continue
		}
		builder.WriteString(formatResult(r, verbose))
	}
	return builder.String()
}

func formatResult(r tt.Result, verbose bool) string {
	var builder strings.Builder

	where := fmt.Sprintf("line %d", r.Line)
	if r.Filename != "" {
		where = fmt.Sprintf("%s:%d", r.Filename, r.Line)
	}
	builder.WriteString(fileStyle.Sprint(where) + ": " + r.Input + "\n")

	if verbose {
		width := 0
		for _, step := range r.Steps {
			if len(step.Transform) > width {
				width = len(step.Transform)
			}
		}
		for _, step := range r.Steps {
			builder.WriteString(lineStyle.Sprintf("  %-*s ", width, step.Transform) + step.Output + "\n")
		}
	}

	builder.WriteString(suggestionStyle.Sprint("  => ") + r.Output + "\n")
	return builder.String()
}
