package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// The binary is built at most once per test process.
var cli struct {
	once sync.Once
	path string
	err  error
}

// CLIResult is the decoded --json envelope of one modeler invocation.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	RawJSON  string                 `json:"-"`
	Stderr   string                 `json:"-"`
	ExitCode int                    `json:"-"`
}

// CLIError mirrors the error object of the envelope.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

func (e *CLIError) String() string {
	if e == nil {
		return "<no error>"
	}
	return e.Code + ": " + e.Message
}

// BuildCLI compiles ./cmd/modeler into a temporary directory and returns the
// binary path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	cli.once.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			cli.err = err
			return
		}
		dir, err := os.MkdirTemp("", "modeler-bin-*")
		if err != nil {
			cli.err = err
			return
		}
		name := "modeler"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		path := filepath.Join(dir, name)
		build := exec.Command("go", "build", "-o", path, "./cmd/modeler")
		build.Dir = root
		if out, err := build.CombinedOutput(); err != nil {
			cli.err = fmt.Errorf("go build: %w\n%s", err, out)
			return
		}
		cli.path = path
	})
	if cli.err != nil {
		t.Fatalf("failed to build modeler: %v", cli.err)
	}
	return cli.path
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above the working directory")
		}
		dir = parent
	}
}

// RunCLI runs modeler with --dir set to the project and --json output.
func (p *TestProject) RunCLI(args ...string) *CLIResult {
	p.t.Helper()
	return p.run("", args...)
}

// RunCLIWithStdin is RunCLI with stdin fed from the given text. Without a
// subcommand this drives a piped session.
func (p *TestProject) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	p.t.Helper()
	return p.run(stdin, args...)
}

func (p *TestProject) run(stdin string, args ...string) *CLIResult {
	p.t.Helper()

	cmd := exec.Command(BuildCLI(p.t), append([]string{"--dir", p.Path, "--json"}, args...)...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &CLIResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			p.t.Fatalf("failed to run modeler: %v", err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.RawJSON = stdout.String()
	result.Stderr = stderr.String()

	// A session prints plain text; only the last line can be an envelope.
	lines := strings.Split(strings.TrimSpace(result.RawJSON), "\n")
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), result); err != nil {
		result.OK = false
		result.Error = &CLIError{Code: "PARSE_ERROR", Message: err.Error()}
	}
	return result
}

// MustSucceed fails the test unless the envelope reports success.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		t.Fatalf("expected success, got %s\nstdout: %s\nstderr: %s", r.Error, r.RawJSON, r.Stderr)
	}
	return r
}

// MustFail fails the test unless the envelope reports the given error code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("expected %s, but the command succeeded\nstdout: %s", code, r.RawJSON)
	case r.Error == nil || r.Error.Code != code:
		t.Fatalf("expected %s, got %s\nstdout: %s", code, r.Error, r.RawJSON)
	}
	return r
}

// DataList returns Data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns Data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
