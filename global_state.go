package jobsh

import (
	"os"
	"sync"
)

// GlobalState is the shell-process state that outlives a single job list:
// the working directory cd moved to and the status words the prompt shows.
type GlobalState struct {
	CWD               string
	PreviousDir       string // target of "cd -"
	ShellPID          int
	LastBackgroundPID int // group runner of the last background group
	LastExitStatus    int // status of the last foreground group
	mu                sync.RWMutex
}

var (
	globalState *GlobalState
	once        sync.Once
)

func GetGlobalState() *GlobalState {
	once.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = os.Getenv("HOME")
			if cwd == "" {
				cwd = "/"
			}
		}
		globalState = &GlobalState{
			CWD:         cwd,
			PreviousDir: os.Getenv("OLDPWD"),
			ShellPID:    os.Getpid(),
		}
		os.Setenv("PWD", cwd)
	})
	return globalState
}

// UpdateCWD records a directory change and keeps PWD and OLDPWD in step so
// that programs started afterwards see it.
func (gs *GlobalState) UpdateCWD(newCWD string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.CWD != newCWD {
		gs.PreviousDir = gs.CWD
	}
	gs.CWD = newCWD

	os.Setenv("OLDPWD", gs.PreviousDir)
	os.Setenv("PWD", gs.CWD)
}

func (gs *GlobalState) GetCWD() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.CWD
}

func (gs *GlobalState) GetPreviousDir() string {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.PreviousDir
}

func (gs *GlobalState) SetPreviousDir(prevDir string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.PreviousDir = prevDir
	os.Setenv("OLDPWD", prevDir)
}

func (gs *GlobalState) GetShellPID() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.ShellPID
}

func (gs *GlobalState) SetLastBackgroundPID(pid int) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.LastBackgroundPID = pid
}

// GetLastBackgroundPID returns the pid of the most recent background group
// runner, which is also that group's process group id.
func (gs *GlobalState) GetLastBackgroundPID() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.LastBackgroundPID
}

func (gs *GlobalState) SetLastExitStatus(status int) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.LastExitStatus = status
}

func (gs *GlobalState) GetLastExitStatus() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.LastExitStatus
}
