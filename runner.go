package jobsh

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// runnerEnv marks a process as a group runner. Go cannot fork without exec,
// so the shell re-executes its own binary to get a process per job group.
const runnerEnv = "JOBSH_GROUP_RUNNER"

// File descriptors inherited by a group runner.
const (
	requestFD = 3
	resultFD  = 4
)

// runnerRequest is what the shell sends a group runner.
type runnerRequest struct {
	List       *JobList `json:"list"`
	Background bool     `json:"background"`
	Report     bool     `json:"report"` // a result pipe is attached on resultFD
	PrevDir    string   `json:"prev_dir"`
}

// runnerResult is what a foreground group runner sends back before exiting.
type runnerResult struct {
	Status  int    `json:"status"`
	Dir     string `json:"dir"`
	PrevDir string `json:"prev_dir"`
}

// RunnerInit must be called at the very start of main, and of TestMain in
// tests. In a group runner process it runs the group and exits; otherwise it
// returns false immediately.
func RunnerInit() bool {
	if os.Getenv(runnerEnv) != "1" {
		return false
	}
	os.Exit(runGroupRunner())
	return true
}

func runGroupRunner() int {
	// Stages started from here must not mistake themselves for runners.
	os.Unsetenv(runnerEnv)

	requestFile := os.NewFile(requestFD, "group-request")
	var req runnerRequest
	err := json.NewDecoder(requestFile).Decode(&req)
	requestFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobsh: group runner: bad request: %v\n", err)
		return 1
	}

	var resultFile *os.File
	if req.Report {
		unix.CloseOnExec(resultFD)
		resultFile = os.NewFile(resultFD, "group-result")
		defer resultFile.Close()
	}

	// Survive interrupts aimed at the foreground group; stages still get the
	// default disposition because handled signals are reset on exec.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	defer signal.Stop(sigChan)

	if err := unix.Setpgid(0, 0); err != nil {
		logger.Debug("runner setpgid", "error", err)
	}
	if !req.Background {
		NewTTY(os.Stdin).SetForeground(0)
	}

	r := &groupRunner{
		list: req.List,
		launcher: &launcher{
			stdin:   os.Stdin,
			stdout:  os.Stdout,
			stderr:  os.Stderr,
			prevDir: req.PrevDir,
		},
	}
	status := r.run()

	if resultFile != nil {
		dir, _ := os.Getwd()
		res := runnerResult{Status: status, Dir: dir, PrevDir: r.launcher.prevDir}
		if err := json.NewEncoder(resultFile).Encode(res); err != nil {
			logger.Debug("runner result", "error", err)
		}
	}
	return status
}

// groupRunner executes the nodes of one job group in order, applying
// conditional short-circuiting between pipeline runs.
type groupRunner struct {
	list     *JobList
	launcher *launcher
}

// proceed reports whether the node after one linked by op runs, given the
// status that decides it.
func proceed(op CondOp, status int) bool {
	switch op {
	case OpAnd:
		return status == 0
	case OpOr:
		return status != 0
	}
	return true
}

// run returns the status of the last pipeline run that executed.
func (r *groupRunner) run() int {
	status := 0
	for i := r.list.Head(); i != -1; {
		run, err := r.launcher.Launch(r.list, i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jobsh: %v\n", err)
			return 1
		}
		status = run.Wait()

		last := r.list.Advance(i, run.Consumed-1)
		op := r.list.Node(last).Op
		next := r.list.Next(last)

		// Skipped runs leave the status alone and pass their own operator on,
		// so "false && a || b" still reaches b.
		for next != -1 && !proceed(op, status) {
			skipped := r.list.RunEnd(next)
			logger.Debug("short-circuit", "op", op.String(), "status", status, "skip", r.list.Describe(next, skipped))
			op = r.list.Node(skipped).Op
			next = r.list.Next(skipped)
		}
		i = next
	}
	return status
}
