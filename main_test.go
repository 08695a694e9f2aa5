package jobsh

import (
	"os"
	"testing"
)

// TestMain lets the test binary double as the group runner the scheduler
// re-executes.
func TestMain(m *testing.M) {
	if RunnerInit() {
		return
	}
	os.Exit(m.Run())
}

// runLine builds and runs input, capturing stdout and stderr.
func runLine(t *testing.T, input string) (cmd *Command, stdout, stderr string) {
	t.Helper()
	ResetInterrupt()

	cmd, err := NewCommand(input, NewJobManager())
	if err != nil {
		t.Fatalf("NewCommand(%q) error = %v", input, err)
	}
	var out, errOut lockedBuffer
	cmd.Stdin = nil
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	cmd.Run()
	return cmd, out.String(), errOut.String()
}

// chdirTemp moves the test into a fresh temporary directory and restores the
// original directory afterwards.
func chdirTemp(t *testing.T) string {
	t.Helper()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	GetGlobalState().UpdateCWD(tempDir)
	t.Cleanup(func() {
		os.Chdir(originalDir)
		GetGlobalState().UpdateCWD(originalDir)
	})
	return tempDir
}
