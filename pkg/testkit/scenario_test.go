package testkit_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/testkit"
)

var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/ping" {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
		return
	}
	w.Write([]byte(`{"pong": true, "method": "` + r.Method + `"}`)) //nolint:errcheck
})

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ping.json", `{"requestUrl":"/ping","expectedCode":200,"responseFileName":"ping_res.json"}`)

	s, err := testkit.LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "ping.json", s.Name)
	assert.Equal(t, filepath.Join(dir, "ping_res.json"), s.ResponseBodyPath())
	assert.Empty(t, s.RequestBodyPath())
}

func TestLoadScenarioValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := testkit.LoadScenario(writeFile(t, dir, "a.json", `{"expectedCode":200}`))
	assert.ErrorContains(t, err, "requestUrl")

	_, err = testkit.LoadScenario(writeFile(t, dir, "b.json", `{"requestUrl":"/"}`))
	assert.ErrorContains(t, err, "expectedCode")

	_, err = testkit.LoadScenario(writeFile(t, dir, "c.json", `{`))
	assert.ErrorContains(t, err, "decode")
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ping.json", `{
		"name": "ping answers",
		"requestMethod": "post",
		"requestUrl": "/ping",
		"requestFileName": "ping_req.json",
		"expectedCode": 200,
		"expectedHeaders": {"Content-Type": "application/json"},
		"responseFileName": "ping_res.json"
	}`)
	writeFile(t, dir, "ping_req.json", `{}`)
	writeFile(t, dir, "ping_res.json", `{"method":"POST","pong":true}`)
	writeFile(t, dir, "missing.json", `{"requestUrl":"/nope","expectedCode":404}`)

	testkit.RunDir(t, echo, dir)
}
