// Package probe exercises a running MatSight API end to end: domain
// endpoints, the divide-by-zero error path, and the persistence path.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the outcome of one endpoint check.
type Result struct {
	Name   string
	OK     bool
	Detail string
}

type check struct {
	name       string
	method     string
	path       string
	wantStatus int
	validate   func(body map[string]any) error
}

// Runner probes one API base URL.
type Runner struct {
	BaseURL string
	Client  *http.Client
}

func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func wantResult(want float64) func(map[string]any) error {
	return func(body map[string]any) error {
		if got, _ := body["result"].(float64); got != want {
			return fmt.Errorf("result = %v, want %v", body["result"], want)
		}
		return nil
	}
}

var calculatorChecks = []check{
	{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
	{name: "simple-test", method: http.MethodGet, path: "/simple-test", wantStatus: http.StatusOK},
	{name: "add", method: http.MethodGet, path: "/add/10/5", wantStatus: http.StatusOK, validate: wantResult(15)},
	{name: "subtract", method: http.MethodGet, path: "/subtract/10/5", wantStatus: http.StatusOK, validate: wantResult(5)},
	{name: "multiply", method: http.MethodGet, path: "/multiply/10/5", wantStatus: http.StatusOK, validate: wantResult(50)},
	{name: "divide", method: http.MethodGet, path: "/divide/10/2", wantStatus: http.StatusOK, validate: wantResult(5)},
	{
		name: "divide-by-zero", method: http.MethodGet, path: "/divide/10/0", wantStatus: http.StatusBadRequest,
		validate: func(body map[string]any) error {
			if body["error"] == nil {
				return fmt.Errorf("missing error message")
			}
			return nil
		},
	},
	{
		name: "info", method: http.MethodGet, path: "/info", wantStatus: http.StatusOK,
		validate: func(body map[string]any) error {
			if _, ok := body["endpoints"].(map[string]any); !ok {
				return fmt.Errorf("missing endpoint catalogue")
			}
			return nil
		},
	},
	{
		name: "storage-status", method: http.MethodGet, path: "/add/1/2", wantStatus: http.StatusOK,
		validate: func(body map[string]any) error {
			switch body["storage_status"] {
			case "saved", "unavailable", "failed":
				return nil
			}
			return fmt.Errorf("storage_status = %v", body["storage_status"])
		},
	},
}

// Run executes every check against the base URL.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(calculatorChecks))
	for _, c := range calculatorChecks {
		results = append(results, r.run(ctx, c))
	}
	return results
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, res := range results {
		if !res.OK {
			return false
		}
	}
	return true
}

func (r *Runner) run(ctx context.Context, c check) Result {
	req, err := http.NewRequestWithContext(ctx, c.method, r.BaseURL+c.path, nil)
	if err != nil {
		return Result{Name: c.name, Detail: err.Error()}
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return Result{Name: c.name, Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Name: c.name, Detail: err.Error()}
	}

	if resp.StatusCode != c.wantStatus {
		return Result{Name: c.name, Detail: fmt.Sprintf("status %d, want %d", resp.StatusCode, c.wantStatus)}
	}

	if c.validate != nil {
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			return Result{Name: c.name, Detail: fmt.Sprintf("invalid JSON: %v", err)}
		}
		if err := c.validate(body); err != nil {
			return Result{Name: c.name, Detail: err.Error()}
		}
	}

	return Result{Name: c.name, OK: true, Detail: fmt.Sprintf("%d", resp.StatusCode)}
}
