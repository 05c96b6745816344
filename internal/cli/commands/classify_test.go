package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/logdocker/internal/cli/plugins"
	"github.com/ccollicutt/logdocker/pkg/export"
	"github.com/ccollicutt/logdocker/pkg/record"
)

// installClassifier puts a logdocker-classify script on an isolated PATH.
func installClassifier(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", dir)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(filepath.Join(dir, plugins.Prefix+"classify"), []byte(script), 0755); err != nil {
		t.Fatalf("Failed to install plugin: %v", err)
	}
	t.Cleanup(func() { ExitCode = 0 })
}

func writeTable(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := export.WriteFile(path, []record.LogRecord{mustExtract(t, lineAWS), mustExtract(t, lineStorage)}); err != nil {
		t.Fatalf("Failed to write table: %v", err)
	}
	return path
}

func TestRunClassify_RunsPlugin(t *testing.T) {
	installClassifier(t, `echo "table=$1 extra=$2"; exit 4`)
	table := writeTable(t, "px.csv")

	stdout, stderr, err := execute(t, NewClassifyCommand(), "--verbose", table, "--", "--model=sev")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != "table="+table+" extra=--model=sev" {
		t.Errorf("plugin output = %q", got)
	}
	if ExitCode != 4 {
		t.Errorf("ExitCode = %d, want plugin exit code 4", ExitCode)
	}
	if !strings.Contains(stderr, "Classifying 2 record(s)") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunClassify_DefaultsToExportPath(t *testing.T) {
	installClassifier(t, `echo "$1"`)
	table := writeTable(t, "px.csv.gz")
	configPath := writeFile(t, "logdocker.yaml", "export:\n  path: "+table+"\n")

	stdout, _, err := execute(t, NewClassifyCommand(), "--config", configPath)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if strings.TrimSpace(stdout) != table {
		t.Errorf("plugin received %q, want %q", strings.TrimSpace(stdout), table)
	}
}

func TestRunClassify_PluginMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PATH", t.TempDir())
	table := writeTable(t, "px.csv")

	_, _, err := execute(t, NewClassifyCommand(), table)
	if !errors.Is(err, plugins.ErrPluginNotFound) {
		t.Errorf("error = %v, want ErrPluginNotFound", err)
	}
}

func TestRunClassify_BadTable(t *testing.T) {
	installClassifier(t, "exit 0")
	table := writeFile(t, "bad.csv", "a,b,c,d,e,f,g,h,i,j\n")

	_, _, err := execute(t, NewClassifyCommand(), table)
	if !errors.Is(err, export.ErrHeaderMismatch) {
		t.Errorf("error = %v, want ErrHeaderMismatch", err)
	}
}

func TestRunClassify_TooManyTables(t *testing.T) {
	_, _, err := execute(t, NewClassifyCommand(), "a.csv", "b.csv")
	if err == nil || !strings.Contains(err.Error(), "at most one table file") {
		t.Errorf("error = %v", err)
	}
}
