package jobsh

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Exit statuses synthesised for stages that never ran.
const (
	statusRedirectFailed = 1
	statusLaunchFailed   = 1
	statusCannotExecute  = 126
	statusNotFound       = 127
)

// stage is one launched node. cmd is nil when the stage finished during
// launch: a built-in, or an external command that could not be started.
type stage struct {
	node   *Node
	cmd    *exec.Cmd
	status int
}

// pipelineRun is a contiguous run of pipe-connected nodes launched together.
type pipelineRun struct {
	First    int
	Last     int
	Consumed int // number of nodes the launch walked over
	stages   []*stage
}

// Wait blocks until the run's final stage finishes and returns its status.
// Earlier stages are reaped in the background and never consulted.
func (r *pipelineRun) Wait() int {
	last := r.stages[len(r.stages)-1]
	if last.cmd == nil {
		return last.status
	}
	return waitStatus(last.cmd.Wait())
}

// kill stops every stage already started, used when a run cannot be wired
// completely.
func (r *pipelineRun) kill() {
	for _, s := range r.stages {
		if s.cmd != nil && s.cmd.Process != nil {
			s.cmd.Process.Kill()
			s.cmd.Wait()
		}
	}
}

// waitStatus converts an exec.Cmd.Wait result into a shell exit status.
func waitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}

// launcher starts nodes with the given standard streams as the defaults.
type launcher struct {
	stdin   *os.File
	stdout  *os.File
	stderr  *os.File
	prevDir string
}

// Launch starts the node at i and every node pipe-connected after it without
// waiting for any of them. Only pipe, not process, failures are errors: a
// stage that cannot run is reported on stderr and given a failing status.
func (l *launcher) Launch(list *JobList, i int) (*pipelineRun, error) {
	run := &pipelineRun{First: i}
	var prevRead *os.File

	for idx := i; ; {
		n := list.Node(idx)
		next := list.Next(idx)

		var pipeRead, pipeWrite *os.File
		if n.Pipe.WritesNext() && next != -1 {
			var err error
			pipeRead, pipeWrite, err = os.Pipe()
			if err != nil {
				closeFiles(prevRead)
				run.kill()
				return nil, fmt.Errorf("%w: pipe: %v", ErrLaunch, err)
			}
		}

		var in *os.File
		if n.Pipe.ReadsPrev() {
			in = prevRead
		}
		run.stages = append(run.stages, l.start(n, in, pipeWrite))
		run.Consumed++

		// The launcher's copies must go, or readers never see end of input.
		closeFiles(pipeWrite, prevRead)
		prevRead = pipeRead

		if pipeRead == nil {
			run.Last = idx
			break
		}
		idx = next
	}

	for _, s := range run.stages[:len(run.stages)-1] {
		if s.cmd != nil {
			go s.cmd.Wait()
		}
	}
	return run, nil
}

// start launches a single node. in and out are the pipe ends for this stage,
// nil when the stage is not pipe-connected on that side.
func (l *launcher) start(n *Node, in, out *os.File) *stage {
	s := &stage{node: n}

	if n.Builtin {
		call := &builtinCall{Node: n, Stderr: l.stderr, PrevDir: l.prevDir}
		s.status = runBuiltin(call).Status()
		l.prevDir = call.PrevDir
		return s
	}

	files, err := openRedirects(n)
	if err != nil {
		fmt.Fprintf(l.stderr, "jobsh: %v\n", err)
		s.status = statusRedirectFailed
		return s
	}
	defer closeFiles(files[:]...)

	// Explicit redirections override the pipe wiring.
	stdin, stdout, stderr := l.stdin, l.stdout, l.stderr
	if in != nil {
		stdin = in
	}
	if out != nil {
		stdout = out
	}
	if files[Stdin] != nil {
		stdin = files[Stdin]
	}
	if files[Stdout] != nil {
		stdout = files[Stdout]
	}
	if files[Stderr] != nil {
		stderr = files[Stderr]
	}

	cmd := exec.Command(n.Args[0], n.Args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			fmt.Fprintf(l.stderr, "jobsh: %s: command not found\n", n.Args[0])
			s.status = statusNotFound
		} else {
			fmt.Fprintf(l.stderr, "jobsh: %s: %v\n", n.Args[0], err)
			s.status = statusCannotExecute
		}
		return s
	}

	n.Pid = cmd.Process.Pid
	s.cmd = cmd
	logger.Debug("started stage", "pid", n.Pid, "args", n.Args)
	return s
}
