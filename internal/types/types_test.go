package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeverityYAML(t *testing.T) {
	t.Parallel()
	var cfg map[string]ConfigTransform
	err := yaml.Unmarshal([]byte("rename:\n  severity: off\nnegate:\n  severity: Warning\n"), &cfg)
	require.NoError(t, err)
	assert.Equal(t, SeverityOff, cfg["rename"].Severity)
	assert.Equal(t, SeverityWarning, cfg["negate"].Severity)

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "off")
	assert.Contains(t, string(out), "warning")

	err = yaml.Unmarshal([]byte("rename:\n  severity: loud\n"), &cfg)
	assert.Error(t, err)
}

func TestIssues(t *testing.T) {
	t.Parallel()
	results := []Result{
		{Line: 1, Input: "P", Output: "P"},
		{Line: 2, Input: "P &", Issue: &Issue{Rule: "parse-error"}},
		{Line: 3, Input: "Q", Output: "Q", Issue: &Issue{Rule: "formula-too-complex", Severity: SeverityWarning}},
	}
	issues := Issues(results)
	require.Len(t, issues, 2)
	assert.Equal(t, "parse-error", issues[0].Rule)
	assert.True(t, results[1].Failed())
	assert.False(t, results[2].Failed())
	assert.False(t, results[0].Failed())
}
