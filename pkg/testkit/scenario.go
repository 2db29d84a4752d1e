// Package testkit drives REST API tests from JSON scenario files.
//
// Each scenario describes one request and what must come back:
//
//	testdata/
//	  health.json       ← scenario
//	  health_res.json   ← expected response body (optional)
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, app.New().Routes(routes.RegisterAPI).Handler(), "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`   // defaults to GET
	RequestURL      string            `json:"requestUrl"`      // e.g. /health
	RequestFileName string            `json:"requestFileName"` // request body, relative to the scenario
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int               `json:"expectedCode"`
	ExpectedHeaders  map[string]string `json:"expectedHeaders"`  // "" means "present, any value"
	ResponseFileName string            `json:"responseFileName"` // expected JSON body, relative to the scenario

	dir string
}

// LoadScenario reads and validates a scenario file. A missing name falls back
// to the file name.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if s.RequestURL == "" {
		return nil, fmt.Errorf("%s: requestUrl is required", path)
	}
	if s.ExpectedCode == 0 {
		return nil, fmt.Errorf("%s: expectedCode is required", path)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}

	s.dir = filepath.Dir(path)
	return &s, nil
}

// RequestBodyPath returns the absolute request body path, or "".
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath returns the absolute expected-response path, or "".
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
