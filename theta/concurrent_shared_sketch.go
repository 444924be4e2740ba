/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package theta

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultConcurrentPoolSize is the default number of propagation workers.
const DefaultConcurrentPoolSize = 3

// ConcurrentSharedSketch is the shared "gadget" sketch of the concurrent
// sketch protocol. Many goroutine-local ConcurrentLocalBuffer values
// propagate their retained hashes into it; a single-bit latch serializes
// the propagations, and readers observe a lock-free estimation snapshot
// that is republished after every propagation.
type ConcurrentSharedSketch struct {
	union            *Union
	seed             uint64
	propagateOrdered bool

	inProgress    atomic.Bool
	snapshotBits  atomic.Uint64
	observedTheta atomic.Uint64
	pending       atomic.Int64

	jobs     chan *concurrentPropagationJob
	workerWG sync.WaitGroup
}

type concurrentPropagationJob struct {
	payload *CompactSketch
	done    chan error
}

type concurrentSharedOptions struct {
	lgK              uint8
	seed             uint64
	rf               ResizeFactor
	poolSize         int
	propagateOrdered bool
}

// ConcurrentSharedOptionFunc configures a ConcurrentSharedSketch.
type ConcurrentSharedOptionFunc func(*concurrentSharedOptions)

// WithConcurrentSharedLgK sets log2(k_s), the nominal size of the shared sketch.
func WithConcurrentSharedLgK(lgK uint8) ConcurrentSharedOptionFunc {
	return func(opts *concurrentSharedOptions) {
		opts.lgK = lgK
	}
}

// WithConcurrentSharedResizeFactor sets the resize factor of the shared sketch's table.
func WithConcurrentSharedResizeFactor(rf ResizeFactor) ConcurrentSharedOptionFunc {
	return func(opts *concurrentSharedOptions) {
		opts.rf = rf
	}
}

// WithConcurrentSharedSeed sets the seed for the hash function.
func WithConcurrentSharedSeed(seed uint64) ConcurrentSharedOptionFunc {
	return func(opts *concurrentSharedOptions) {
		opts.seed = seed
	}
}

// WithConcurrentSharedPoolSize sets the number of propagation workers (default 3).
func WithConcurrentSharedPoolSize(poolSize int) ConcurrentSharedOptionFunc {
	return func(opts *concurrentSharedOptions) {
		opts.poolSize = poolSize
	}
}

// WithConcurrentSharedOrderedPropagation makes local buffers snapshot an
// ordered compact sketch before propagating, trading a sort at flush time
// for better locality during the merge into the shared table.
func WithConcurrentSharedOrderedPropagation(ordered bool) ConcurrentSharedOptionFunc {
	return func(opts *concurrentSharedOptions) {
		opts.propagateOrdered = ordered
	}
}

// NewConcurrentSharedSketch creates a new concurrent shared sketch and
// starts its bounded propagation worker pool.
func NewConcurrentSharedSketch(opts ...ConcurrentSharedOptionFunc) (*ConcurrentSharedSketch, error) {
	options := &concurrentSharedOptions{
		lgK:      DefaultLgK,
		rf:       DefaultResizeFactor,
		seed:     DefaultSeed,
		poolSize: DefaultConcurrentPoolSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.poolSize < 1 {
		return nil, newArgumentError("pool size must be at least 1: %d", options.poolSize)
	}

	union, err := NewUnion(
		WithUnionLgK(options.lgK),
		WithUnionResizeFactor(options.rf),
		WithUnionSeed(options.seed),
	)
	if err != nil {
		return nil, err
	}

	s := &ConcurrentSharedSketch{
		union:            union,
		seed:             options.seed,
		propagateOrdered: options.propagateOrdered,
		jobs:             make(chan *concurrentPropagationJob, 1),
	}
	s.observedTheta.Store(MaxTheta)
	s.snapshotBits.Store(math.Float64bits(0))

	s.workerWG.Add(options.poolSize)
	for i := 0; i < options.poolSize; i++ {
		go s.runWorker()
	}

	return s, nil
}

func (s *ConcurrentSharedSketch) runWorker() {
	defer s.workerWG.Done()
	for job := range s.jobs {
		s.acquireLatch()
		err := s.union.Update(job.payload)
		if err == nil {
			s.publishSnapshotLocked()
		}
		s.releaseLatch()
		s.pending.Add(-1)
		job.done <- err
	}
}

// acquireLatch tests-and-sets propagation_in_progress, spin-yielding on contention.
func (s *ConcurrentSharedSketch) acquireLatch() {
	for !s.inProgress.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// releaseLatch clears propagation_in_progress. Callers must always reach
// this on every exit path of the section acquireLatch guards, including errors.
func (s *ConcurrentSharedSketch) releaseLatch() {
	s.inProgress.Store(false)
}

// publishSnapshotLocked recomputes the estimation snapshot and the observed
// theta from the union's current state. Must be called with the latch held.
func (s *ConcurrentSharedSketch) publishSnapshotLocked() {
	result, err := s.union.Result(false)
	if err != nil {
		return
	}
	s.snapshotBits.Store(math.Float64bits(result.Estimate()))
	s.observedTheta.Store(result.Theta64())
}

// propagate submits a local buffer's compact snapshot to the single-slot
// mailbox and blocks until a pool worker has merged it under the latch.
func (s *ConcurrentSharedSketch) propagate(payload *CompactSketch) error {
	job := &concurrentPropagationJob{payload: payload, done: make(chan error, 1)}
	s.pending.Add(1)
	s.jobs <- job
	return <-job.done
}

// GetEstimationSnapshot returns the most recently published distinct-count
// estimate. It never blocks: every hash whose propagation completed before
// this call is reflected, with no ordering guarantee relative to in-flight
// propagations.
func (s *ConcurrentSharedSketch) GetEstimationSnapshot() float64 {
	return math.Float64frombits(s.snapshotBits.Load())
}

// ObservedTheta returns the shared sketch's theta as last observed by a
// completed propagation, for local buffers to elide updates early.
func (s *ConcurrentSharedSketch) ObservedTheta() uint64 {
	return s.observedTheta.Load()
}

// WaitForQuiescence spin-waits until every submitted propagation has been
// applied and the latch is clear. It is the basis for termination: the
// shared sketch is done when all local buffers have propagated and
// propagation_in_progress is false.
func (s *ConcurrentSharedSketch) WaitForQuiescence() {
	for s.pending.Load() > 0 || s.inProgress.Load() {
		runtime.Gosched()
	}
}

// Result drains any in-flight propagations and returns a compact snapshot
// of the shared sketch's current state.
func (s *ConcurrentSharedSketch) Result(ordered bool) (*CompactSketch, error) {
	s.WaitForQuiescence()
	s.acquireLatch()
	defer s.releaseLatch()
	return s.union.Result(ordered)
}

// Close waits for quiescence and shuts down the propagation worker pool.
// Callers must not propagate through this sketch (directly or via a
// ConcurrentLocalBuffer's Flush/Update) once Close has been called. ctx
// bounds the shutdown wait only; it has no effect on update semantics.
func (s *ConcurrentSharedSketch) Close(ctx context.Context) error {
	for s.pending.Load() > 0 || s.inProgress.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			runtime.Gosched()
		}
	}

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
