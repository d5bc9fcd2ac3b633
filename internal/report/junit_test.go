package report

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJUnitFromOutcomes(t *testing.T) {
	outcomes := []Outcome{
		{Title: "A", File: "login_test.go", Status: StatusPassed, DurationMs: 100},
		{Title: "B", File: "cart_test.go", Status: StatusFailed, DurationMs: 200,
			ErrorMessage: "boom", ErrorStack: "cart_test.go:42"},
		{Title: "C", Status: StatusSkipped},
		{Title: "D", Status: StatusFlaky, DurationMs: 300, Retry: 1},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := Summarize(outcomes, start, start.Add(time.Second))

	doc := JUnitFromOutcomes(summary, outcomes)

	require.Len(t, doc.Suites, 1)
	suite := doc.Suites[0]
	assert.Equal(t, 4, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	assert.Equal(t, 1, suite.Skipped)
	require.Len(t, suite.TestCases, 4)

	assert.Nil(t, suite.TestCases[0].Failure)
	assert.Equal(t, "0.100", suite.TestCases[0].Time)

	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Equal(t, "boom", suite.TestCases[1].Failure.Message)
	assert.Equal(t, "cart_test.go:42", suite.TestCases[1].Failure.Content)

	assert.NotNil(t, suite.TestCases[2].Skipped)

	// Flaky counts as a passing case.
	assert.Nil(t, suite.TestCases[3].Failure)
	assert.Nil(t, suite.TestCases[3].Skipped)
}

func TestWriteJUnit(t *testing.T) {
	outcomes := []Outcome{
		{Title: "A", Status: StatusPassed, DurationMs: 50},
		{Title: "B", Status: StatusFailed, DurationMs: 75, ErrorMessage: "nope"},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary := Summarize(outcomes, start, start.Add(time.Second))

	path := filepath.Join(t.TempDir(), "reports", "junit.xml")
	require.NoError(t, WriteJUnit(path, summary, outcomes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<?xml")

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, 2, parsed.Tests)
	assert.Equal(t, 1, parsed.Failures)
	require.Len(t, parsed.Suites, 1)
	assert.Equal(t, "swag-shop-e2e", parsed.Suites[0].Name)
}
