package types

import (
	"fmt"
	"go/token"
	"strings"

	"gopkg.in/yaml.v3"
)

// Issue represents a problem found while processing a formula.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      token.Position
	End        token.Position
	Severity   Severity
}

// Step records the output of one transform in a pipeline.
type Step struct {
	Transform string `json:"transform"`
	Output    string `json:"output"`
}

// Result is the outcome of running the pipeline over one formula.
// Issue is set when parsing or a transform failed; Steps then holds the
// steps that completed before the failure.
type Result struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
	Input    string `json:"input"`
	Steps    []Step `json:"steps,omitempty"`
	Output   string `json:"output"`
	Issue    *Issue `json:"issue,omitempty"`
}

// Failed reports whether the result carries an error-level issue.
func (r Result) Failed() bool {
	return r.Issue != nil && r.Issue.Severity == SeverityError
}

// Issues collects the issues of results.
func Issues(results []Result) []Issue {
	var issues []Issue
	for _, r := range results {
		if r.Issue != nil {
			issues = append(issues, *r.Issue)
		}
	}
	return issues
}

// Severity says how a transform failure is reported. Off disables the
// transform altogether.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a configuration value to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "off", "ignore":
		return SeverityOff, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ConfigTransform is the per-transform section of the configuration file.
type ConfigTransform struct {
	Severity Severity `yaml:"severity"`
}
