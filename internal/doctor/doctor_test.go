package doctor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAll_ReturnsFourChecksInFixedOrder(t *testing.T) {
	results := RunAll()
	require.Len(t, results, 4)
	assert.Equal(t, []string{"path", "home", "stdin-tty", "history-dir"}, namesOf(results))
}

func TestPrintResults_AllPassedSummary(t *testing.T) {
	results := []CheckResult{
		{Name: "a", Passed: true, Message: "a ok"},
		{Name: "b", Passed: true, Message: "b ok"},
	}
	var out bytes.Buffer
	assert.True(t, PrintResults(results, &out))
	assert.Contains(t, out.String(), "2/2 passed")
}

func TestPrintResults_FailureIncludesFixHint(t *testing.T) {
	results := []CheckResult{
		{Name: "a", Passed: false, Message: "a broken", FixHint: "fix a"},
	}
	var out bytes.Buffer
	assert.False(t, PrintResults(results, &out))
	assert.Contains(t, out.String(), "a broken")
	assert.Contains(t, out.String(), "fix a")
	assert.Contains(t, out.String(), "0/1 passed, 1 failed")
}

func namesOf(results []CheckResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	return names
}
