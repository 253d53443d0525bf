package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// write creates a COOL source file under t's temp directory and
// returns its path.
func write(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunWrongArgumentCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, &stdout, &stderr)
	if code != ExitWrongArgCount {
		t.Fatalf("expected exit code %d, got %d", ExitWrongArgCount, code)
	}

	stdout.Reset()
	stderr.Reset()
	code = Run([]string{"a.cl", "b.cl"}, &stdout, &stderr)
	if code != ExitWrongArgCount {
		t.Fatalf("expected exit code %d, got %d", ExitWrongArgCount, code)
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{filepath.Join(t.TempDir(), "missing.cl")}, &stdout, &stderr)
	if code != ExitFileMissing {
		t.Fatalf("expected exit code %d, got %d", ExitFileMissing, code)
	}
	if stderr.Len() == 0 {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestRunParserError(t *testing.T) {
	path := write(t, "bad.cl", "class Main {")
	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, &stdout, &stderr)
	if code != ExitParserError {
		t.Fatalf("expected exit code %d, got %d", ExitParserError, code)
	}
}

func TestRunSemanticError(t *testing.T) {
	path := write(t, "undef.cl", `class Main inherits Undefined { main() : Int { 0 }; };`)
	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, &stdout, &stderr)
	if code != ExitSemanticError {
		t.Fatalf("expected exit code %d, got %d", ExitSemanticError, code)
	}
}

func TestRunSuccess(t *testing.T) {
	path := write(t, "main.cl", `class Main { main() : Int { 0 }; };`)
	var stdout, stderr bytes.Buffer
	code := Run([]string{path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Main_init") {
		t.Errorf("expected emitted assembly to contain Main_init, got:\n%s", stdout.String())
	}
}
