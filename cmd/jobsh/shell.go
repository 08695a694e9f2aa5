package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"jobsh"
	"jobsh/config"
)

const recentLines = 200

// shell is the front end around the job-control core: it reads lines,
// evaluates them and keeps the history.
type shell struct {
	cfg       *config.Config
	jobs      *jobsh.JobManager
	tty       *jobsh.TTY
	session   *jobsh.Session
	history   *jobsh.HistoryManager
	completer *jobsh.Completer
	recent    []string
	errColor  *color.Color
	stopInt   func()
}

func newShell(cfg *config.Config) (*shell, error) {
	sh := &shell{
		cfg:      cfg,
		jobs:     jobsh.NewJobManager(),
		tty:      jobsh.NewTTY(os.Stdin),
		session:  jobsh.NewSession(),
		errColor: color.New(color.FgRed, color.Bold),
	}
	sh.jobs.Notify = cfg.Notify && sh.tty.IsTerminal()

	if cfg.History.Enabled {
		hm, err := jobsh.NewHistoryManager(cfg.History.Path)
		if err != nil {
			// History is a convenience; the shell still runs without it.
			sh.errorf("history disabled: %v", err)
		} else {
			sh.history = hm
			if err := hm.Trim(cfg.History.MaxEntries); err != nil {
				sh.errorf("history: %v", err)
			}
			if records, err := hm.Records(recentLines); err == nil {
				for _, r := range records {
					sh.recent = append(sh.recent, r.Line)
				}
			}
		}
	}

	// Process-wide terminal setup: take the foreground and turn Ctrl-C into
	// the cancellation flag.
	if err := sh.tty.SetForeground(0); err != nil {
		sh.errorf("cannot take terminal foreground: %v", err)
	}
	sh.stopInt = jobsh.NotifyInterrupt()
	return sh, nil
}

func (sh *shell) Close() {
	sh.stopInt()
	if sh.history != nil {
		sh.history.Close()
	}
}

func (sh *shell) errorf(format string, args ...interface{}) {
	sh.errColor.Fprintf(os.Stderr, "jobsh: "+format+"\n", args...)
}

// eval runs one line and returns its status.
func (sh *shell) eval(line string) int {
	jobsh.ResetInterrupt()
	if strings.TrimSpace(line) == "" {
		return 0
	}

	cmd, err := jobsh.NewCommand(line, sh.jobs)
	if err != nil {
		sh.errorf("%v", err)
		return 2
	}
	if cmd.Len() == 0 {
		return 0
	}
	cmd.Terminal = sh.tty
	cmd.Run()

	if sh.history != nil {
		if err := sh.history.Insert(cmd, sh.session.SessionID); err != nil {
			sh.errorf("history: %v", err)
		}
	}
	sh.recent = append(sh.recent, line)
	return cmd.ReturnCode
}

// runScript evaluates every line of r, printing prompts unless quiet.
func (sh *shell) runScript(r io.Reader) int {
	status := 0
	scanner := bufio.NewScanner(r)
	for {
		if !sh.cfg.Quiet {
			fmt.Print(jobsh.GetPrompt(sh.cfg.Prompt))
		}
		if !scanner.Scan() {
			break
		}
		status = sh.eval(scanner.Text())
		sh.jobs.ReapChildren()
	}
	if err := scanner.Err(); err != nil {
		sh.errorf("%v", err)
	}
	return status
}

// interactive reads lines from the terminal with line editing. Without a
// terminal, or when quiet, it falls back to plain line reading.
func (sh *shell) interactive() int {
	if !sh.tty.IsTerminal() || sh.cfg.Quiet {
		return sh.runScript(os.Stdin)
	}

	// readline keeps reading stdin in the background; while a job owns the
	// terminal that read must fail instead of stopping the shell.
	signal.Ignore(syscall.SIGTTIN)
	sh.completer = jobsh.NewCompleter(jobsh.BuiltinNames())

	status := 0
	for {
		line, err := sh.readLine()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			jobsh.ResetInterrupt()
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			return status
		case err != nil:
			sh.errorf("%v", err)
			return 1
		}
		status = sh.eval(line)
		sh.jobs.ReapChildren()
	}
}

// readLine uses a fresh readline instance per line and closes it before the
// line runs, so it never competes with a foreground job for the terminal.
func (sh *shell) readLine() (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          jobsh.GetPrompt(sh.cfg.Prompt),
		AutoComplete:    sh.completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return "", err
	}
	defer rl.Close()

	for _, line := range sh.recent[max(0, len(sh.recent)-recentLines):] {
		rl.SaveHistory(line)
	}
	return rl.Readline()
}
