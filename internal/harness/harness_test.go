package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return s
}

func TestRunBasicTree(t *testing.T) {
	result, err := Run(loadScenario(t, "basic_tree.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, OutcomeTree, result.Outcome)
	require.NotNil(t, result.Tree)
	require.Len(t, result.Tree.Groups, 1)
	assert.Equal(t, uint8(2), result.Tree.Groups[0].Opcode)
	assert.Len(t, result.Tree.Groups[0].Slots, 2)
}

func TestRunConflictShadow(t *testing.T) {
	result, err := Run(loadScenario(t, "conflict_shadow.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, OutcomeConflict, result.Outcome)
	assert.Contains(t, result.Names, "macs")
	assert.Contains(t, result.Names, "ldq")
}

func TestRunDuplicateName(t *testing.T) {
	result, err := Run(loadScenario(t, "duplicate_name.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)
	assert.Equal(t, []string{"macs"}, result.Names)
}

func TestRunInvalidFields(t *testing.T) {
	result, err := Run(loadScenario(t, "invalid_fields.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, OutcomeInvalid, result.Outcome)
	assert.Contains(t, result.Codes, "E102")
	assert.Contains(t, result.Codes, "E105")
}

func TestRunOutcomeMismatchFails(t *testing.T) {
	scenario := loadScenario(t, "basic_tree.yaml")
	scenario.Expect.Outcome = OutcomeConflict

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "outcome = tree, expected conflict")
}

func TestRunExpectedNameMismatchFails(t *testing.T) {
	scenario := loadScenario(t, "conflict_shadow.yaml")
	scenario.Expect.Names = []string{"macs", "divq"}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], `"divq"`)
}

func TestRunIsDeterministic(t *testing.T) {
	scenario := loadScenario(t, "basic_tree.yaml")

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Tree, second.Tree)
}
