package testkit

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertHeaders checks every expected header. An empty expected value only
// requires the header to be present.
func AssertHeaders(t *testing.T, scenario *Scenario, got http.Header) {
	t.Helper()

	for name, want := range scenario.ExpectedHeaders {
		value := got.Get(name)
		if want == "" {
			assert.NotEmpty(t, value, "[%s] header %s missing", scenario.Name, name)
			continue
		}
		assert.Equal(t, want, value, "[%s] header %s mismatch", scenario.Name, name)
	}
}

// AssertJSONBody compares both bodies after decoding, so key order and
// whitespace never matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", scenario.Name)
}
