// Package integration provides CLI integration tests for docref.
// Implements: prd008-docref-cli R8 (exit codes, end-to-end flows).
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// docrefBin is the path to the built docref binary.
	docrefBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetDocrefBin sets the path to the docref binary (called from TestMain).
func SetDocrefBin(path string) {
	docrefBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config
// directory, data directory, and source root.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
	SrcDir  string
}

// NewTestEnv creates a new isolated test environment.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build docref: %v", buildErr)
	}
	if docrefBin == "" {
		t.Fatal("docref binary not built (docrefBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")
	srcDir := filepath.Join(tempDir, "src")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
		SrcDir:  srcDir,
	}
}

// WriteSource writes a source file under the environment's source root,
// creating parent directories as needed.
func (e *TestEnv) WriteSource(relPath, content string) string {
	e.t.Helper()
	path := filepath.Join(e.SrcDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create source subdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write source file: %v", err)
	}
	return path
}

// CmdResult holds the result of a docref command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunDocref executes the docref CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunDocref(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(docrefBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run docref: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunDocref executes the docref CLI and fails the test if it returns
// non-zero.
func (e *TestEnv) MustRunDocref(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunDocref(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("docref %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// TypeDecl represents a type entity for JSON parsing.
type TypeDecl struct {
	TypeID        string `json:"type_id"`
	QualifiedName string `json:"qualified_name"`
	SimpleName    string `json:"simple_name"`
	Package       string `json:"package"`
	Kind          string `json:"kind"`
}

// MemberDecl represents a member entity for JSON parsing.
type MemberDecl struct {
	MemberID string   `json:"member_id"`
	Owner    string   `json:"owner"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Params   []string `json:"params"`
}

// Reference represents a reference entity for JSON parsing.
type Reference struct {
	RefID    string  `json:"ref_id"`
	Tag      string  `json:"tag"`
	Raw      string  `json:"raw"`
	Form     string  `json:"form"`
	State    string  `json:"state"`
	TargetID *string `json:"target_id"`
	Anchor   string  `json:"anchor"`
}

// Diagnostic represents a diagnostic entity for JSON parsing.
type Diagnostic struct {
	DiagID   string `json:"diag_id"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}
