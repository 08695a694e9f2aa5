package jobsh

import (
	"bytes"
	"sync"
	"time"
)

// lockedBuffer is a bytes.Buffer safe to share between the copying
// goroutines exec.Cmd starts for non-file writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// recordingTerminal records every foreground handoff.
type recordingTerminal struct {
	mu    sync.Mutex
	calls []int
}

func (r *recordingTerminal) SetForeground(pgid int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, pgid)
	return nil
}

func (r *recordingTerminal) Calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

const (
	waitFor = 5 * time.Second
	tick    = 20 * time.Millisecond
)
