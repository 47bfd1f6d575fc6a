// Copyright © 2023-2026 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package pool runs a task function on items from a single-pass source
// with a fixed number of workers, and hands results to one consumer.
package pool

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

// Source is a single-pass producer of tasks. Next returns io.EOF after the last one.
type Source[T any] interface {
	Next() (T, error)
}

// Options contains options of a Pool.
type Options struct {
	Threads   int // number of workers
	QueueSize int // size of task and result channels, 0 for 2*Threads
}

// Pool maps tasks to results concurrently.
// Results are consumed in the completion order, not the input order.
type Pool[T, R any] struct {
	threads   int
	queueSize int
}

// New creates a Pool.
func New[T, R any](opt *Options) *Pool[T, R] {
	threads := opt.Threads
	if threads < 1 {
		threads = 1
	}
	queueSize := opt.QueueSize
	if queueSize <= 0 {
		queueSize = threads << 1
	}
	return &Pool[T, R]{threads: threads, queueSize: queueSize}
}

// Threads returns the number of workers.
func (p *Pool[T, R]) Threads() int { return p.threads }

// Run reads all tasks from src, applies fn to each of them in workers,
// and calls consume for every result in a single goroutine.
// The first error from the source, workers or the consumer stops everything
// and is returned. Run returns after all goroutines exit.
func (p *Pool[T, R]) Run(ctx context.Context, src Source[T],
	fn func(T) (R, error), consume func(R) error) error {

	g, ctx := errgroup.WithContext(ctx)

	tasks := make(chan T, p.queueSize)
	results := make(chan R, p.queueSize)

	// producer
	g.Go(func() error {
		defer close(tasks)
		for {
			task, err := src.Next()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			select {
			case tasks <- task:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	// workers
	done := make(chan struct{}, p.threads)
	for i := 0; i < p.threads; i++ {
		g.Go(func() error {
			defer func() { done <- struct{}{} }()
			for task := range tasks {
				r, err := fn(task)
				if err != nil {
					return err
				}
				select {
				case results <- r:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	// close results after all workers exit
	go func() {
		for i := 0; i < p.threads; i++ {
			<-done
		}
		close(results)
	}()

	// consumer
	g.Go(func() error {
		for r := range results {
			if err := consume(r); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}
