package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Run executes the scenario at scenarioPath against handler as a subtest.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir runs every *.json scenario in dir. Files ending in _req.json or
// _res.json are bodies, not scenarios.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("testkit: glob %q: %v", dir, err)
	}

	ran := 0
	for _, path := range entries {
		if isBodyFile(path) {
			continue
		}

		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("testkit: load %q: %v", path, err)
			continue
		}

		ran++
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}

	if ran == 0 && !t.Failed() {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}
}

func isBodyFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	return strings.HasSuffix(base, "_req") || strings.HasSuffix(base, "_res")
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	var body io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		body = bytes.NewReader(data)
	}

	method := strings.ToUpper(s.RequestMethod)
	if method == "" {
		method = http.MethodGet
	}

	req := httptest.NewRequest(method, s.RequestURL, body)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)
	AssertHeaders(t, s, rec.Header())

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
			return
		}
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}
}
