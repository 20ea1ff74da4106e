package result

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifact(t *testing.T) {
	run := sampleRun()
	dir := t.TempDir()

	path, err := WriteArtifact(run, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ArtifactFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Field names are camelCase projections of the model.
	content := string(data)
	for _, key := range []string{
		`"runId"`, `"instanceId"`, `"startTime"`, `"metaData"`,
		`"testAttributes"`, `"suites"`, `"cases"`, `"steps"`,
		`"displayName"`, `"subType"`, `"isFatal"`,
	} {
		assert.Contains(t, content, key)
	}
	assert.NotContains(t, content, `"run_id"`)
}

func TestWriteArtifactNilRun(t *testing.T) {
	_, err := WriteArtifact(nil, t.TempDir())
	require.Error(t, err)
}

func TestWriteArtifactForeignValuesDegradeToNull(t *testing.T) {
	run := sampleRun()
	run.TestAttributes["bad"] = make(chan int)

	path, err := WriteArtifact(run, t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	attrs, ok := decoded["testAttributes"].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, attrs["bad"])
	assert.Equal(t, "value", attrs["good"])
}

func TestRunRoundTrip(t *testing.T) {
	run := sampleRun()

	first, err := json.Marshal(run)
	require.NoError(t, err)

	var decoded Run
	require.NoError(t, json.Unmarshal(first, &decoded))

	// Nesting order must survive the round trip exactly.
	require.Len(t, decoded.Suites, 1)
	suite := decoded.Suites[0]
	require.Len(t, suite.Cases, 1)
	c := suite.Cases[0]
	require.Len(t, c.Steps, 1)
	outer := c.Steps[0]
	require.Len(t, outer.Steps, 1)
	inner := outer.Steps[0]

	assert.Equal(t, "outer step", outer.Name)
	assert.Equal(t, "inner step", inner.Name)
	require.NotNil(t, c.Failure)
	assert.Equal(t, FailureTypeAssert, c.Failure.Type)
	assert.Equal(t, "values differ", c.Failure.Message)
	assert.True(t, c.Failure.IsFatal)
	assert.Equal(t, run.Suites[0].Cases[0].StartTime, c.StartTime)

	second, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

// sampleRun builds a fully-populated run with deterministic timestamps.
func sampleRun() *Run {
	run := NewRun(
		"run-42",
		"instance-7",
		map[string]any{"target": "staging"},
		map[string]any{"browserName": "chrome"},
		map[string]any{"build": "1.2.3"},
		map[string]string{"CI": "true"},
	)
	run.StartTime = 1_700_000_000_000
	run.TestAttributes["good"] = "value"

	suite := NewSuite("checkout", "shop.checkout")
	suite.StartTime = 1_700_000_000_100

	c := NewCase("pay with card", "shop.checkout.pay")
	c.StartTime = 1_700_000_000_200
	c.Description = "covers the happy path"
	c.Arguments = map[string]any{"card": "visa"}

	c.StartStep("outer step", "")
	c.StartStep("inner step", "")
	c.EndStep(StatusPassed, nil, "")
	c.EndStep(StatusFailed, nil, "")

	c.End(StatusFailed, &Failure{
		Type:       FailureTypeAssert,
		SubType:    "ExpectationError",
		Message:    "values differ",
		Stacktrace: "shop/checkout_test.go:42",
		Location:   "shop/checkout_test.go:42",
		IsFatal:    true,
	})
	suite.AddCase(c)
	suite.End()
	run.AddSuite(suite)
	run.End()
	return run
}
