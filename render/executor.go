// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrExecutorClosed is returned by Do after the executor was closed.
var ErrExecutorClosed = errors.New("render: executor closed")

// Executor runs functions on the goroutine that owns the GPU.
//
// Do blocks until fn has returned or ctx is done. If ctx is done before fn
// starts, fn is not run. Once fn has started Do waits for it, because GPU
// work cannot be abandoned half way.
type Executor interface {
	Do(ctx context.Context, fn func() error) error
}

// LoopExecutor is an Executor backed by a single goroutine locked to its
// OS thread. The zero value is not usable; call NewLoopExecutor.
type LoopExecutor struct {
	jobs chan job
	done chan struct{}
	once sync.Once
}

type job struct {
	fn     func() error
	result chan error
}

// NewLoopExecutor starts the executor goroutine.
func NewLoopExecutor() *LoopExecutor {
	e := &LoopExecutor{
		jobs: make(chan job),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *LoopExecutor) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case j := <-e.jobs:
			j.result <- j.fn()
		case <-e.done:
			return
		}
	}
}

// Do runs fn on the executor goroutine.
func (e *LoopExecutor) Do(ctx context.Context, fn func() error) error {
	select {
	case <-e.done:
		return ErrExecutorClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	j := job{fn: fn, result: make(chan error, 1)}
	select {
	case e.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrExecutorClosed
	}
	return <-j.result
}

// Close stops the executor. Pending Do calls return ErrExecutorClosed.
func (e *LoopExecutor) Close() {
	e.once.Do(func() { close(e.done) })
}

// InlineExecutor runs functions on the calling goroutine.
// It suits backends whose device is not bound to a thread.
type InlineExecutor struct{}

// Do calls fn unless ctx is already done.
func (InlineExecutor) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

var (
	_ Executor = (*LoopExecutor)(nil)
	_ Executor = InlineExecutor{}
)
