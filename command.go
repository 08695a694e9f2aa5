package jobsh

import (
	"fmt"
	"io"
	"os"
	"time"

	"jobsh/parser"
)

// Command is one input line: its job list plus the bookkeeping recorded
// while it runs.
type Command struct {
	*JobList
	Input      string
	Tokens     []parser.Token
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	CWD        string
	ReturnCode int
	Canceled   bool
	Groups     int
	JobManager *JobManager
	Terminal   Terminal
}

// NewCommand tokenizes and builds input. Malformed input is reported here,
// before anything runs.
func NewCommand(input string, jobManager *JobManager) (*Command, error) {
	tokens, err := parser.Tokenize(input)
	if err != nil {
		return nil, err
	}
	list, err := Build(tokens)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}
	return &Command{
		JobList:    list,
		Input:      input,
		Tokens:     tokens,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		JobManager: jobManager,
	}, nil
}

// Run executes the job list. Launch failures are printed and returned; the
// groups they hit count as failed.
func (cmd *Command) Run() error {
	cmd.StartTime = time.Now()
	gs := GetGlobalState()
	cmd.CWD = gs.GetCWD()

	scheduler := &Scheduler{
		Stdin:    cmd.Stdin,
		Stdout:   cmd.Stdout,
		Stderr:   cmd.Stderr,
		Terminal: cmd.Terminal,
		Jobs:     cmd.JobManager,
		State:    gs,
	}
	res, err := scheduler.Run(cmd.JobList)
	cmd.ReturnCode = res.Status
	cmd.Canceled = res.Canceled
	cmd.Groups = res.Groups
	if err != nil {
		fmt.Fprintf(cmd.Stderr, "jobsh: %v\n", err)
	}

	cmd.EndTime = time.Now()
	cmd.Duration = cmd.EndTime.Sub(cmd.StartTime)
	return err
}
