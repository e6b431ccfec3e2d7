package ztest

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunShell runs script with "bash -e -o pipefail" in dir, prepending the
// directories in path to PATH, and returns its standard output and
// standard error.
func RunShell(ctx context.Context, dir, path, script string, stdin io.Reader, env []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "bash", "-e", "-o", "pipefail", "-c", script)
	cmd.Dir = dir
	cmd.Env = append(cmd.Environ(), env...)
	if path != "" {
		cmd.Env = append(cmd.Env, "PATH="+absPath(path)+string(filepath.ListSeparator)+os.Getenv("PATH"))
	}
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// absPath makes each relative directory in the search path absolute since
// scripts run in a temporary directory.
func absPath(path string) string {
	dirs := filepath.SplitList(path)
	for i, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			dirs[i] = abs
		}
	}
	return strings.Join(dirs, string(filepath.ListSeparator))
}
