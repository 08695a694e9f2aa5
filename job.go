package jobsh

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"
)

// Job is a background job group, tracked through its group runner.
type Job struct {
	ID       int
	Command  string
	Cmd      *exec.Cmd
	Status   string
	ExitCode int
	done     bool
}

// JobManager tracks background job groups until they have been reaped and
// reported.
type JobManager struct {
	jobs   map[int]*Job
	nextID int
	mu     sync.Mutex
	wg     sync.WaitGroup

	// Notify enables "[id] pid" and completion messages on Out.
	Notify bool
	Out    io.Writer
}

func NewJobManager() *JobManager {
	return &JobManager{
		jobs:   make(map[int]*Job),
		nextID: 1,
		Out:    os.Stdout,
	}
}

// AddJob registers a started background process and begins waiting for it
// asynchronously.
func (jm *JobManager) AddJob(command string, cmd *exec.Cmd) *Job {
	jm.mu.Lock()
	job := &Job{
		ID:      jm.nextID,
		Command: command,
		Cmd:     cmd,
		Status:  "Running",
	}
	jm.jobs[job.ID] = job
	jm.nextID++
	jm.mu.Unlock()

	if jm.Notify {
		fmt.Fprintf(jm.Out, "[%d] %d\n", job.ID, cmd.Process.Pid)
	}

	jm.wg.Add(1)
	go func() {
		defer jm.wg.Done()
		code := waitStatus(cmd.Wait())

		jm.mu.Lock()
		defer jm.mu.Unlock()
		job.done = true
		job.ExitCode = code
		if code == 0 {
			job.Status = "Done"
		} else {
			job.Status = fmt.Sprintf("Exit %d", code)
		}
		logger.Debug("background job finished", "job", job.ID, "status", code)
	}()

	return job
}

// ListJobs returns the tracked jobs ordered by id.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs
}

func (jm *JobManager) GetJob(id int) (*Job, bool) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	return job, exists
}

func (jm *JobManager) RemoveJob(id int) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	delete(jm.jobs, id)
}

// ReapChildren drops finished jobs, reporting each one when notifications
// are on, and returns how many were reaped. The front end calls it between
// input lines.
func (jm *JobManager) ReapChildren() int {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	var finished []*Job
	for _, job := range jm.jobs {
		if job.done {
			finished = append(finished, job)
		}
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].ID < finished[j].ID })

	for _, job := range finished {
		if jm.Notify {
			fmt.Fprintf(jm.Out, "[%d]+ %s %s\n", job.ID, job.Status, job.Command)
		}
		delete(jm.jobs, job.ID)
	}
	return len(finished)
}

// Wait blocks until every background job has exited.
func (jm *JobManager) Wait() {
	jm.wg.Wait()
}
