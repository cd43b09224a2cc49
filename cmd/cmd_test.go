package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gnolang/fol/batch"
	"github.com/gnolang/fol/formula"
	tt "github.com/gnolang/fol/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
	batch.ShowProgress = false
}

// execute runs the root command with args. Flag variables are shared
// between runs, so they are reset first.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgFile = ""
	timeout = time.Minute
	verbose = false
	maxDepth = formula.DefaultMaxDepth
	ignoreTransforms = ""
	runJsonOutput = false
	outPath = ""
	cacheDir = ""
	metricsOut = ""
	showSteps = false

	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPrintCommand(t *testing.T) {
	stdout, _, err := execute(t, "print", "∀x (¬P(x) → Q(x))")
	require.NoError(t, err)
	assert.Equal(t, "A.x (!P(x) -> Q(x))\n", stdout)
}

func TestTransformCommands(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"negate", "A.x P(x) & Q"}, "E.x !P(x) | !Q\n"},
		{[]string{"negate", "P", "&", "Q"}, "!P | !Q\n"},
		{[]string{"collapse", "!!!P"}, "!P\n"},
		{[]string{"remove-implications", "P -> Q"}, "!P | Q\n"},
		{[]string{"rename", "A.y f(y) | E.y g(y)"}, "A.y f(y) | E.z g(z)\n"},
		{[]string{"prenex", "P(y) | A.x Q(x)"}, "A.x (P(y) | Q(x))\n"},
	}

	for _, tc := range tests {
		stdout, stderr, err := execute(t, tc.args...)
		require.NoError(t, err, stderr)
		assert.Equal(t, tc.expected, stdout, "%v", tc.args)
	}
}

func TestNamesCommand(t *testing.T) {
	stdout, _, err := execute(t, "names", "P(x, f(y)) & A.z Q(g(z, c))")
	require.NoError(t, err)
	assert.Equal(t, `c: VariableOrConstant
f: FunctionExpression
g: FunctionExpression
x: VariableOrConstant
y: VariableOrConstant
z: VariableOrConstant
`, stdout)
}

func TestNamesCommandConflict(t *testing.T) {
	stdout, stderr, err := execute(t, "names", "P(f(x)) & A.f Q(f)")
	require.Error(t, err)

	var conflict *formula.NameConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: name-conflict")
}

func TestFreeCommand(t *testing.T) {
	stdout, _, err := execute(t, "free", "P(x) & A.x Q(x, y)")
	require.NoError(t, err)
	assert.Equal(t, "P(x) & A.x Q(x, y)\nfree: x, y\nbound: x\n", stdout)

	stdout, _, err = execute(t, "free", "P")
	require.NoError(t, err)
	assert.Equal(t, "P\nfree:\nbound:\n", stdout)
}

func TestContainsFreeCommand(t *testing.T) {
	stdout, _, err := execute(t, "contains-free", "A.x P(x) | Q(x)", "x")
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout)

	stdout, _, err = execute(t, "contains-free", "A.x P(x)", "x")
	require.NoError(t, err)
	assert.Equal(t, "false\n", stdout)

	_, _, err = execute(t, "contains-free", "A.x P(x)")
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	stdout, _, err := execute(t, "parse", "P(x) & !Q")
	require.NoError(t, err)
	assert.Equal(t, `BinaryExpression(&) [0:9]
  Predicate(P) [0:4]
    VariableOrConstant(x) [2:3]
  UnaryExpression(!) [7:9]
    Predicate(Q) [8:9]
`, stdout)

	stdout, _, err = execute(t, "parse", "E.y True")
	require.NoError(t, err)
	assert.Equal(t, "QuantifiedExpression(E.y) [0:8]\n  Literal(True) [4:8]\n", stdout)
}

func TestCommandReportsParseError(t *testing.T) {
	stdout, stderr, err := execute(t, "print", "P &")
	require.Error(t, err)

	var reported *reportedError
	assert.True(t, errors.As(err, &reported))
	var parseErr *formula.ParseError
	assert.True(t, errors.As(err, &parseErr))

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: parse-error")
	assert.Contains(t, stderr, "<input>:1:4")
	assert.Contains(t, stderr, "unexpected end of input")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.fol", "# premises\nP -> A.x Q(x)\n")
	writeFile(t, dir, "b.fol", "P &\n")

	stdout, _, err := execute(t, "run", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFormulasFailed))

	assert.Contains(t, stdout, "a.fol:2: P -> A.x Q(x)")
	assert.Contains(t, stdout, "=> A.x (!P | Q(x))")
	assert.Contains(t, stdout, "error: parse-error")
	assert.Contains(t, stdout, "b.fol:1:4")
}

func TestRunCommandFromRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fol", "!!P\n")

	stdout, _, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "=> P")
}

func TestRunCommandIgnore(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fol", "P -> A.x Q(x)\n")

	stdout, _, err := execute(t, "run", "--ignore", "move-quantifiers-left, rename", "--steps", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "=> !P | A.x Q(x)")
	assert.Contains(t, stdout, "remove-implications")
	assert.NotContains(t, stdout, "rename")
}

func TestRunCommandJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fol", "P -> Q\n")
	out := filepath.Join(dir, "out.json")

	stdout, _, err := execute(t, "run", "--json", "--output", out, path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var results []tt.Result
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, path, results[0].Filename)
	assert.Equal(t, 1, results[0].Line)
	assert.Equal(t, "!P | Q", results[0].Output)
	assert.Nil(t, results[0].Issue)
}

func TestRunCommandCacheAndMetrics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.fol", "A.x P(x) & E.x Q(x)\n")
	cache := filepath.Join(dir, "cache")
	metrics := filepath.Join(dir, "fol.prom")

	first, _, err := execute(t, "run", "--cache-dir", cache, "--metrics-out", metrics, path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cache, "fol_cache.gob"))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fol_cache_requests_total{result="miss"} 1`)
	assert.Contains(t, string(data), "fol_files_processed_total 1")

	second, _, err := execute(t, "run", "--cache-dir", cache, "--metrics-out", metrics, path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err = os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fol_cache_requests_total{result="hit"} 1`)
}

func TestRunCommandMissingPath(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.fol"))
	require.Error(t, err)

	var reported *reportedError
	assert.False(t, errors.As(err, &reported))
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".fol.yaml")

	stdout, _, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	config, err := batch.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, batch.DefaultConfig().Pipeline, config.Pipeline)
}

func TestRunCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "fol.yaml", "name: test\npipeline: [negate]\n")
	path := writeFile(t, dir, "a.fol", "P & Q\n")

	stdout, _, err := execute(t, "run", "--config", config, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "=> !P | !Q")
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	stdout, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "prenex")
}
