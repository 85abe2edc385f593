package gogpu

import (
	"slices"
	"sync"
)

// job is a function waiting to run inside a draw callback.
type job struct {
	fn      func() error
	result  chan error
	started bool
}

func newJob(fn func() error) *job {
	return &job{fn: fn, result: make(chan error, 1)}
}

// jobQueue holds jobs submitted from any goroutine until the next draw
// callback runs them in order.
type jobQueue struct {
	mu   sync.Mutex
	jobs []*job
	err  error // set by fail; later pushes are rejected with it
}

func (q *jobQueue) push(j *job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, j)
	return nil
}

// cancel removes j if it has not started and reports whether it did.
func (q *jobQueue) cancel(j *job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if j.started {
		return false
	}
	i := slices.Index(q.jobs, j)
	if i < 0 {
		return false
	}
	q.jobs = slices.Delete(q.jobs, i, i+1)
	return true
}

func (q *jobQueue) pop() *job {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	j.started = true
	return j
}

// drain runs every queued job, including jobs queued while draining,
// and returns how many ran.
func (q *jobQueue) drain() int {
	n := 0
	for j := q.pop(); j != nil; j = q.pop() {
		j.result <- j.fn()
		n++
	}
	return n
}

// fail completes every queued job with err and rejects later pushes.
func (q *jobQueue) fail(err error) {
	q.mu.Lock()
	q.err = err
	jobs := q.jobs
	q.jobs = nil
	for _, j := range jobs {
		j.started = true
	}
	q.mu.Unlock()
	for _, j := range jobs {
		j.result <- err
	}
}

func (q *jobQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs) == 0
}
