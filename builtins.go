package jobsh

import (
	"fmt"
	"io"
	"os"
)

// builtinCall carries what a built-in needs from the process running it.
type builtinCall struct {
	Node    *Node
	Stderr  io.Writer
	PrevDir string // directory "cd -" returns to
}

var builtins map[string]func(call *builtinCall) error

func init() {
	builtins = map[string]func(call *builtinCall) error{
		"cd": cd,
	}
}

// IsBuiltin reports whether name is executed inside the shell process.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltinNames lists the built-in commands.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

// runBuiltin executes a built-in node in the calling process and records its
// outcome on the node. A failing built-in prints a diagnostic and never
// terminates the caller.
func runBuiltin(call *builtinCall) Outcome {
	fn := builtins[call.Node.Args[0]]
	if err := fn(call); err != nil {
		fmt.Fprintf(call.Stderr, "%s: %v\n", call.Node.Args[0], err)
		call.Node.BuiltinOutcome = OutcomeFailure
	} else {
		call.Node.BuiltinOutcome = OutcomeSuccess
	}
	return call.Node.BuiltinOutcome
}

func cd(call *builtinCall) error {
	currentDir, err := os.Getwd()
	if err != nil {
		logger.Debug("cd: failed to get current directory", "error", err)
		return err
	}

	var targetDir string
	if len(call.Node.Args) > 1 {
		targetDir = call.Node.Args[1]
	}

	if targetDir == "" {
		targetDir = os.Getenv("HOME") // Default to HOME if no argument given
	} else if targetDir == "-" {
		if call.PrevDir == "" {
			return fmt.Errorf("no previous directory")
		}
		targetDir = call.PrevDir
	}

	if err := os.Chdir(targetDir); err != nil {
		logger.Debug("cd: unable to change directory", "target", targetDir, "error", err)
		return err
	}
	logger.Debug("cd: changed directory", "from", currentDir, "to", targetDir)
	call.PrevDir = currentDir
	return nil
}
