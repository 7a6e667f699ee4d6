// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/patrolmap/internal/metrics"
)

// ErrQueueClosed is returned for work submitted after Close.
var ErrQueueClosed = errors.New("geocode queue closed")

// DefaultCallTimeout bounds each live geocoding call.
const DefaultCallTimeout = 6 * time.Second

// Queue runs live geocoding calls strictly one at a time with a minimum
// spacing between call starts. The zero interval disables spacing.
type Queue struct {
	limiter *rate.Limiter
	timeout time.Duration
	jobs    chan *queueJob
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

type queueJob struct {
	ctx  context.Context
	fn   func(ctx context.Context)
	err  error
	done chan struct{}
}

// NewQueue starts the worker goroutine. Call Close to stop it.
func NewQueue(minInterval, callTimeout time.Duration) *Queue {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	q := &Queue{
		limiter: rate.NewLimiter(limit, 1),
		timeout: callTimeout,
		jobs:    make(chan *queueJob),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.stop:
			return
		case job := <-q.jobs:
			metrics.GeocoderQueueDepth.Dec()
			q.execute(job)
		}
	}
}

func (q *Queue) execute(job *queueJob) {
	defer close(job.done)
	if err := job.ctx.Err(); err != nil {
		job.err = err
		return
	}
	if err := q.limiter.Wait(job.ctx); err != nil {
		job.err = err
		return
	}
	ctx, cancel := context.WithTimeout(job.ctx, q.timeout)
	defer cancel()
	job.fn(ctx)
}

// Do runs fn on the worker and waits for it. fn receives a context bounded by
// the per-call timeout. Do returns early with ctx's error if ctx ends first.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context)) error {
	job := &queueJob{ctx: ctx, fn: fn, done: make(chan struct{})}

	metrics.GeocoderQueueDepth.Inc()
	select {
	case q.jobs <- job:
	case <-ctx.Done():
		metrics.GeocoderQueueDepth.Dec()
		return ctx.Err()
	case <-q.stop:
		metrics.GeocoderQueueDepth.Dec()
		return ErrQueueClosed
	}

	select {
	case <-job.done:
		return job.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker after the in-flight call, if any, finishes.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.stop)
	})
	<-q.stopped
}

// runQueued executes fn on q and returns its results. A nil queue runs fn
// inline with only the deadline applied.
func runQueued[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if q == nil {
		callCtx, cancel := context.WithTimeout(ctx, DefaultCallTimeout)
		defer cancel()
		return fn(callCtx)
	}

	var (
		result T
		err    error
	)
	if qerr := q.Do(ctx, func(callCtx context.Context) {
		result, err = fn(callCtx)
	}); qerr != nil {
		return zero, qerr
	}
	return result, err
}
