package internal

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/fol/formula"
	"github.com/gnolang/fol/internal/skip"
	tt "github.com/gnolang/fol/internal/types"
	"go.uber.org/zap"
)

// Transform is a named rewrite that can take part in a pipeline.
type Transform interface {
	// Apply rewrites n. It must not modify n.
	Apply(n formula.Node) (formula.Node, error)

	// Name returns the name of the transform.
	Name() string

	Severity() tt.Severity
	SetSeverity(s tt.Severity)
}

type transform struct {
	name     string
	apply    func(formula.Node) (formula.Node, error)
	severity tt.Severity
}

func (t *transform) Apply(n formula.Node) (formula.Node, error) { return t.apply(n) }
func (t *transform) Name() string                               { return t.name }
func (t *transform) Severity() tt.Severity                      { return t.severity }
func (t *transform) SetSeverity(s tt.Severity)                  { t.severity = s }

// total adapts a rewrite that cannot fail.
func total(f func(formula.Node) formula.Node) func(formula.Node) (formula.Node, error) {
	return func(n formula.Node) (formula.Node, error) { return f(n), nil }
}

type transformConstructor func() Transform

func newTransform(name string, apply func(formula.Node) (formula.Node, error)) transformConstructor {
	return func() Transform {
		return &transform{name: name, apply: apply}
	}
}

var allTransformConstructors = map[string]transformConstructor{
	"negate":                newTransform("negate", total(formula.Negate)),
	"collapse-negations":    newTransform("collapse-negations", total(formula.CollapseNegations)),
	"remove-implications":   newTransform("remove-implications", total(formula.RemoveImplications)),
	"mark-free":             newTransform("mark-free", total(formula.MarkFree)),
	"rename":                newTransform("rename", formula.Rename),
	"move-quantifiers-left": newTransform("move-quantifiers-left", total(formula.MoveQuantifiersLeft)),
}

// DefaultPipeline brings a formula close to prenex form.
var DefaultPipeline = []string{
	"remove-implications",
	"collapse-negations",
	"rename",
	"move-quantifiers-left",
}

// TransformNames lists every registered transform.
func TransformNames() []string {
	names := make([]string, 0, len(allTransformConstructors))
	for name := range allTransformConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTransform returns a new instance of the named transform.
func LookupTransform(name string) (Transform, error) {
	construct := allTransformConstructors[name]
	if construct == nil {
		return nil, fmt.Errorf("unknown transform %q (known: %s)", name, strings.Join(TransformNames(), ", "))
	}
	return construct(), nil
}

// Config selects the transforms an Engine runs.
type Config struct {
	MaxDepth   int
	Pipeline   []string
	Transforms map[string]tt.ConfigTransform
}

// Engine parses formulas and runs them through a pipeline of transforms.
// It is safe for concurrent use.
type Engine struct {
	logger   *zap.Logger
	maxDepth int
	pipeline []Transform

	mu      sync.RWMutex
	ignored map[string]bool
}

// NewEngine creates an engine. An empty pipeline means DefaultPipeline and
// a nil logger disables logging.
func NewEngine(logger *zap.Logger, cfg Config) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := &Engine{
		logger:   logger,
		maxDepth: cfg.MaxDepth,
		ignored:  make(map[string]bool),
	}
	if engine.maxDepth <= 0 {
		engine.maxDepth = formula.DefaultMaxDepth
	}

	names := cfg.Pipeline
	if len(names) == 0 {
		names = DefaultPipeline
	}
	if err := engine.buildPipeline(names, cfg.Transforms); err != nil {
		return nil, err
	}
	return engine, nil
}

func (e *Engine) buildPipeline(names []string, settings map[string]tt.ConfigTransform) error {
	for key := range settings {
		if allTransformConstructors[key] == nil {
			return fmt.Errorf("unknown transform %q in configuration", key)
		}
	}
	for _, name := range names {
		t, err := LookupTransform(name)
		if err != nil {
			return err
		}
		if setting, ok := settings[name]; ok {
			t.SetSeverity(setting.Severity)
		}
		if t.Severity() == tt.SeverityOff {
			e.logger.Debug("transform disabled", zap.String("transform", name))
			continue
		}
		e.pipeline = append(e.pipeline, t)
	}
	return nil
}

// Pipeline returns the names of the transforms that will run, in order.
func (e *Engine) Pipeline() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.pipeline))
	for _, t := range e.pipeline {
		if !e.ignored[t.Name()] {
			names = append(names, t.Name())
		}
	}
	return names
}

// IgnoreTransform skips the named transform in later runs.
func (e *Engine) IgnoreTransform(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ignored[name] = true
}

func (e *Engine) isIgnored(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ignored[name]
}

// Run processes every formula in the given file.
func (e *Engine) Run(filename string) ([]tt.Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	results, err := e.RunSource(source)
	if err != nil {
		return nil, fmt.Errorf("error processing %s: %w", filename, err)
	}
	for i := range results {
		results[i].Filename = filename
		if results[i].Issue != nil {
			results[i].Issue.Filename = filename
			results[i].Issue.Start.Filename = filename
			results[i].Issue.End.Filename = filename
		}
	}
	return results, nil
}

// RunSource processes source holding one formula per line. Blank lines
// and lines starting with '#' are skipped; "# fol:skip" directives are
// honored.
func (e *Engine) RunSource(source []byte) ([]tt.Result, error) {
	lines := strings.Split(string(source), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	directives := skip.ParseLines(lines)

	results := make([]tt.Result, 0)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lineNo := i + 1
		if directives.SkipsLine(lineNo) {
			e.logger.Debug("formula skipped", zap.Int("line", lineNo))
			continue
		}
		skipped := func(name string) bool { return directives.SkipsTransform(lineNo, name) }
		results = append(results, e.runFormula(line, lineNo, skipped))
	}
	return results, nil
}

// RunFormula parses input and runs the pipeline over it. line is used
// for issue positions only.
func (e *Engine) RunFormula(input string, line int) tt.Result {
	return e.runFormula(input, line, nil)
}

func (e *Engine) runFormula(input string, line int, skipped func(string) bool) tt.Result {
	result := tt.Result{Line: line, Input: strings.TrimSpace(input)}

	node, err := formula.NewParser().WithMaxDepth(e.maxDepth).Parse(input)
	if err != nil {
		issue := IssueFromError(err, input, line)
		result.Issue = &issue
		e.logger.Debug("parse failed", zap.Int("line", line), zap.Error(err))
		return result
	}

	for _, t := range e.pipeline {
		if e.isIgnored(t.Name()) || (skipped != nil && skipped(t.Name())) {
			continue
		}
		next, err := t.Apply(node)
		if err != nil {
			issue := IssueFromError(err, input, line)
			issue.Category = t.Name()
			issue.Severity = t.Severity()
			result.Issue = &issue
			e.logger.Debug("transform failed",
				zap.String("transform", t.Name()), zap.Int("line", line), zap.Error(err))
			if issue.Severity == tt.SeverityError {
				return result
			}
			// non-fatal: skip the step and keep going
			continue
		}
		node = next
		result.Steps = append(result.Steps, tt.Step{Transform: t.Name(), Output: formula.Stringify(node)})
	}

	result.Output = formula.Stringify(node)
	return result
}
