package jobsh

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal hands the controlling terminal's foreground to a process group.
// A pgid of 0 means the caller's own process group.
type Terminal interface {
	SetForeground(pgid int) error
}

// TTY is a Terminal backed by a terminal file descriptor. When the file is
// not a terminal every call is a no-op.
type TTY struct {
	fd       int
	terminal bool
}

// NewTTY wraps f, usually os.Stdin.
func NewTTY(f *os.File) *TTY {
	fd := int(f.Fd())
	return &TTY{fd: fd, terminal: term.IsTerminal(fd)}
}

// IsTerminal reports whether the wrapped file is a terminal.
func (t *TTY) IsTerminal() bool { return t.terminal }

func (t *TTY) SetForeground(pgid int) error {
	if !t.terminal {
		return nil
	}
	if pgid == 0 {
		pgid = unix.Getpgrp()
	}

	// A background process group calling tcsetpgrp is sent SIGTTOU unless
	// the signal is ignored.
	signal.Ignore(syscall.SIGTTOU)
	defer signal.Reset(syscall.SIGTTOU)

	if err := unix.IoctlSetPointerInt(t.fd, unix.TIOCSPGRP, pgid); err != nil {
		logger.Debug("set foreground failed", "pgid", pgid, "error", err)
		return err
	}
	logger.Debug("set foreground", "pgid", pgid)
	return nil
}

// nopTerminal is used when no terminal is attached.
type nopTerminal struct{}

func (nopTerminal) SetForeground(int) error { return nil }
