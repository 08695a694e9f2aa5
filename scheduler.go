package jobsh

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrLaunch wraps failures of the pipe, fork and setpgid calls the scheduler
// depends on. Each one fails only the group it hit.
var ErrLaunch = errors.New("launch failed")

// Scheduler runs a JobList one job group at a time, each group in its own
// group runner process and process group.
type Scheduler struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Terminal Terminal
	Jobs     *JobManager
	State    *GlobalState
}

// Result summarises one executed job list.
type Result struct {
	Status   int  // status of the last foreground group, 0 for background
	Groups   int  // number of groups started
	Canceled bool // an interrupt stopped the list before its end
}

func (s *Scheduler) terminal() Terminal {
	if s.Terminal == nil {
		return nopTerminal{}
	}
	return s.Terminal
}

func (s *Scheduler) state() *GlobalState {
	if s.State == nil {
		s.State = GetGlobalState()
	}
	return s.State
}

func (s *Scheduler) jobs() *JobManager {
	if s.Jobs == nil {
		s.Jobs = NewJobManager()
	}
	return s.Jobs
}

// Run executes every group of list in order. Between groups it polls the
// cancellation flag and stops early when it is set. A launch failure gives
// its group status 1 and the remaining groups still run; all such failures
// are returned together.
func (s *Scheduler) Run(list *JobList) (Result, error) {
	var res Result
	var errs []error
	groups := list.Groups()
	for i, g := range groups {
		status, err := s.runGroup(list, g)
		if err != nil {
			logger.Debug("group launch failed", "group", g.ID, "error", err)
			errs = append(errs, fmt.Errorf("group %d: %w", g.ID, err))
			status = statusLaunchFailed
			s.state().SetLastExitStatus(status)
		} else {
			res.Groups++
		}
		res.Status = status

		if Interrupted() && i < len(groups)-1 {
			logger.Debug("job list canceled", "after_group", g.ID)
			res.Canceled = true
			break
		}
	}
	return res, errors.Join(errs...)
}

// runGroup starts the runner for g and, for a foreground group, hands it the
// terminal and waits for it.
func (s *Scheduler) runGroup(list *JobList, g Group) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	reqRead, reqWrite, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("%w: pipe: %v", ErrLaunch, err)
	}
	extra := []*os.File{reqRead}

	var resultRead, resultWrite *os.File
	if !g.Background {
		resultRead, resultWrite, err = os.Pipe()
		if err != nil {
			closeFiles(reqRead, reqWrite)
			return 0, fmt.Errorf("%w: pipe: %v", ErrLaunch, err)
		}
		defer resultRead.Close()
		extra = append(extra, resultWrite)
	}

	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), runnerEnv+"=1")
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	cmd.ExtraFiles = extra
	// The child joins its own group before exec; the parent repeats it below
	// so neither side can observe the group missing.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	err = cmd.Start()
	closeFiles(reqRead, resultWrite)
	if err != nil {
		reqWrite.Close()
		return 0, fmt.Errorf("%w: start group runner: %v", ErrLaunch, err)
	}

	pid := cmd.Process.Pid
	abort := func(err error) (int, error) {
		cmd.Process.Kill()
		cmd.Wait()
		return 0, fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	// EACCES: the runner already exec'd, so the child-side call won.
	// ESRCH: it already exited.
	if err := unix.Setpgid(pid, pid); err != nil && !errors.Is(err, unix.EACCES) && !errors.Is(err, unix.ESRCH) {
		reqWrite.Close()
		return abort(fmt.Errorf("setpgid: %v", err))
	}

	req := runnerRequest{
		List:       list.Slice(g.First, g.Last),
		Background: g.Background,
		Report:     !g.Background,
		PrevDir:    s.state().GetPreviousDir(),
	}
	err = json.NewEncoder(reqWrite).Encode(req)
	reqWrite.Close()
	if err != nil {
		return abort(fmt.Errorf("send group: %v", err))
	}
	logger.Debug("started group runner", "group", g.ID, "pid", pid, "background", g.Background)

	if g.Background {
		s.jobs().AddJob(list.Describe(g.First, g.Last), cmd)
		s.state().SetLastBackgroundPID(pid)
		return 0, nil
	}

	s.terminal().SetForeground(pid)
	status := waitStatus(cmd.Wait())
	s.terminal().SetForeground(0)

	var result runnerResult
	if err := json.NewDecoder(resultRead).Decode(&result); err == nil {
		status = result.Status
		s.applyDir(result)
	} else {
		logger.Debug("no result from group runner", "group", g.ID, "error", err)
	}

	s.state().SetLastExitStatus(status)
	return status, nil
}

// applyDir moves the shell to the directory a foreground group finished in.
func (s *Scheduler) applyDir(result runnerResult) {
	if result.Dir == "" {
		return
	}
	if cwd, err := os.Getwd(); err == nil && cwd == result.Dir {
		return
	}
	if err := os.Chdir(result.Dir); err != nil {
		logger.Debug("apply group directory", "dir", result.Dir, "error", err)
		return
	}
	gs := s.state()
	gs.UpdateCWD(result.Dir)
	if result.PrevDir != "" {
		gs.SetPreviousDir(result.PrevDir)
	}
}
