package jobsh

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCommandSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"ls |", ErrEmptyCommand},
		{"echo hi >", ErrMissingRedirectTarget},
		{"&& true", ErrEmptyCommand},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := NewCommand(tt.input, NewJobManager())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if !strings.HasPrefix(err.Error(), "syntax error") {
				t.Errorf("Expected a syntax error, got %q", err)
			}
		})
	}

	if _, err := NewCommand("echo 'unterminated", NewJobManager()); err == nil {
		t.Errorf("Expected an error for an unterminated quote")
	}
}

func TestCommandBookkeeping(t *testing.T) {
	tempDir := chdirTemp(t)

	cmd, _, _ := runLine(t, "true; sleep 0.1")
	if cmd.Input != "true; sleep 0.1" {
		t.Errorf("Expected input to be recorded, got %q", cmd.Input)
	}
	if cmd.CWD != tempDir {
		t.Errorf("Expected CWD %q, got %q", tempDir, cmd.CWD)
	}
	if cmd.Groups != 2 {
		t.Errorf("Expected 2 groups, got %d", cmd.Groups)
	}
	if cmd.Duration <= 0 || cmd.EndTime.Before(cmd.StartTime) {
		t.Errorf("Expected a positive duration, got %v", cmd.Duration)
	}
	if len(cmd.Tokens) != 4 {
		t.Errorf("Expected 4 tokens, got %d", len(cmd.Tokens))
	}
}

func TestEmptyCommand(t *testing.T) {
	cmd, output, _ := runLine(t, "   ")
	if cmd.Len() != 0 || cmd.Groups != 0 || cmd.ReturnCode != 0 || output != "" {
		t.Errorf("Expected an empty line to do nothing, got %d groups status %d", cmd.Groups, cmd.ReturnCode)
	}
}
