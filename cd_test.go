package jobsh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCdCommand(t *testing.T) {
	tempDir := chdirTemp(t)
	subDir := filepath.Join(tempDir, "subdir")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	t.Run("cd moves the shell", func(t *testing.T) {
		cmd, _, errOutput := runLine(t, "cd subdir")
		if cmd.ReturnCode != 0 {
			t.Fatalf("cd failed: %q", errOutput)
		}
		assertSameDir(t, subDir, mustGetwd(t))
		assertSameDir(t, subDir, GetGlobalState().GetCWD())
	})

	t.Run("cd - returns", func(t *testing.T) {
		cmd, _, errOutput := runLine(t, "cd -")
		if cmd.ReturnCode != 0 {
			t.Fatalf("cd - failed: %q", errOutput)
		}
		assertSameDir(t, tempDir, mustGetwd(t))
		assertSameDir(t, subDir, GetGlobalState().GetPreviousDir())
	})

	t.Run("cd applies to later groups", func(t *testing.T) {
		_, output, _ := runLine(t, "cd subdir; pwd")
		assertSameDir(t, subDir, strings.TrimSpace(output))
		runLine(t, "cd ..")
		assertSameDir(t, tempDir, mustGetwd(t))
	})

	t.Run("failed cd skips AND", func(t *testing.T) {
		cmd, output, errOutput := runLine(t, "cd /nonexistent/dir && echo no")
		if cmd.ReturnCode != 1 {
			t.Errorf("Expected exit code 1, got %d", cmd.ReturnCode)
		}
		if output != "" {
			t.Errorf("Expected no output, got %q", output)
		}
		if !strings.Contains(errOutput, "cd:") {
			t.Errorf("Expected cd diagnostic, got %q", errOutput)
		}
		assertSameDir(t, tempDir, mustGetwd(t))
	})

	t.Run("failed cd runs OR", func(t *testing.T) {
		cmd, output, _ := runLine(t, "cd /nonexistent/dir || echo fallback")
		if cmd.ReturnCode != 0 || output != "fallback\n" {
			t.Errorf("Expected fallback with status 0, got %q status %d", output, cmd.ReturnCode)
		}
	})
}

func mustGetwd(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return cwd
}

func assertSameDir(t *testing.T, want, got string) {
	t.Helper()
	wantInfo, err := os.Stat(want)
	if err != nil {
		t.Fatalf("stat %s: %v", want, err)
	}
	gotInfo, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat %s: %v", got, err)
	}
	if !os.SameFile(wantInfo, gotInfo) {
		t.Errorf("Expected directory %s, got %s", want, got)
	}
}
