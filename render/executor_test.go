// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestLoopExecutorRunsJobs(t *testing.T) {
	e := NewLoopExecutor()
	defer e.Close()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		count int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(context.Background(), func() error {
				mu.Lock()
				count++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if count != 32 {
		t.Errorf("count = %d, want 32", count)
	}
}

func TestLoopExecutorReturnsError(t *testing.T) {
	e := NewLoopExecutor()
	defer e.Close()

	if err := e.Do(context.Background(), func() error { return errInjected }); !errors.Is(err, errInjected) {
		t.Errorf("Do() error = %v, want errInjected", err)
	}
}

func TestLoopExecutorSerializes(t *testing.T) {
	e := NewLoopExecutor()
	defer e.Close()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(context.Background(), func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("max concurrent jobs = %d, want 1", maxActive)
	}
}

func TestLoopExecutorCanceledBeforeStart(t *testing.T) {
	e := NewLoopExecutor()
	defer e.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = e.Do(context.Background(), func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := e.Do(ctx, func() error { ran = true; return nil })
	close(block)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("job ran after its context was canceled")
	}
}

func TestLoopExecutorClosed(t *testing.T) {
	e := NewLoopExecutor()
	e.Close()
	e.Close() // idempotent

	err := e.Do(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrExecutorClosed) {
		t.Errorf("Do() error = %v, want ErrExecutorClosed", err)
	}
}

func TestInlineExecutor(t *testing.T) {
	var e InlineExecutor
	if err := e.Do(context.Background(), func() error { return errInjected }); !errors.Is(err, errInjected) {
		t.Errorf("Do() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Do(ctx, func() error { t.Error("ran"); return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
