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

import "errors"

// DefaultConcurrentLocalLgK is the default log2(k_l) of a local buffer,
// deliberately small relative to the shared sketch's nominal size.
const DefaultConcurrentLocalLgK uint8 = 4

// ConcurrentLocalBuffer is a small, single-goroutine update sketch that
// batches updates before propagating its retained hashes into a
// ConcurrentSharedSketch. It is not itself safe for concurrent use: the
// concurrency model is one local buffer per writer goroutine, never shared.
type ConcurrentLocalBuffer struct {
	shared   *ConcurrentSharedSketch
	sketch   *QuickSelectUpdateSketch
	capacity uint32
}

type concurrentLocalOptions struct {
	lgK uint8
}

// ConcurrentLocalOptionFunc configures a ConcurrentLocalBuffer.
type ConcurrentLocalOptionFunc func(*concurrentLocalOptions)

// WithConcurrentLocalLgK sets log2(k_l), the flush threshold of the local buffer.
func WithConcurrentLocalLgK(lgK uint8) ConcurrentLocalOptionFunc {
	return func(opts *concurrentLocalOptions) {
		opts.lgK = lgK
	}
}

// NewConcurrentLocalBuffer creates a new local buffer that propagates into shared.
// Unlike NewQuickSelectUpdateSketch, lg_k is not bound by MinLgK: a local
// buffer is deliberately much smaller than any standalone sketch.
func NewConcurrentLocalBuffer(shared *ConcurrentSharedSketch, opts ...ConcurrentLocalOptionFunc) (*ConcurrentLocalBuffer, error) {
	options := &concurrentLocalOptions{lgK: DefaultConcurrentLocalLgK}
	for _, opt := range opts {
		opt(options)
	}

	if options.lgK == 0 {
		return nil, newArgumentError("lg_k must be positive: %d", options.lgK)
	}

	// lgCurSize is sized one bit larger than lgNomSize so the table never
	// needs a resize pass of its own: it only ever rebuilds (trims back to
	// nominal size), the same hardened-size pattern Intersection uses for
	// its own fixed-capacity table.
	table := NewHashtable(options.lgK+1, options.lgK, ResizeX1, 1.0, MaxTheta, shared.seed, true)

	return &ConcurrentLocalBuffer{
		shared:   shared,
		sketch:   &QuickSelectUpdateSketch{table: table},
		capacity: uint32(1) << options.lgK,
	}, nil
}

// UpdateInt64 updates the local buffer with a signed 64-bit integer,
// flushing to the shared sketch if the buffer is now full.
func (b *ConcurrentLocalBuffer) UpdateInt64(value int64) (UpdateResult, error) {
	return b.update(func() error { return b.sketch.UpdateInt64(value) })
}

// UpdateUint64 updates the local buffer with an unsigned 64-bit integer.
func (b *ConcurrentLocalBuffer) UpdateUint64(value uint64) (UpdateResult, error) {
	return b.update(func() error { return b.sketch.UpdateUint64(value) })
}

// UpdateString updates the local buffer with a string.
func (b *ConcurrentLocalBuffer) UpdateString(value string) (UpdateResult, error) {
	return b.update(func() error { return b.sketch.UpdateString(value) })
}

// UpdateBytes updates the local buffer with arbitrary bytes.
func (b *ConcurrentLocalBuffer) UpdateBytes(data []byte) (UpdateResult, error) {
	return b.update(func() error { return b.sketch.UpdateBytes(data) })
}

func (b *ConcurrentLocalBuffer) update(do func() error) (UpdateResult, error) {
	if observed := b.shared.ObservedTheta(); observed < b.sketch.table.theta {
		b.sketch.table.theta = observed
	}

	err := do()
	switch {
	case err == nil:
		if b.sketch.NumRetained() >= b.capacity {
			if flushErr := b.Flush(); flushErr != nil {
				return InsertedCountIncremented, flushErr
			}
		}
		return InsertedCountIncremented, nil
	case errors.Is(err, ErrDuplicateKey):
		return RejectedDuplicate, nil
	case errors.Is(err, ErrHashExceedsTheta):
		return RejectedOverTheta, nil
	default:
		return Other, err
	}
}

// Flush propagates the local buffer's retained hashes into the shared
// sketch and resets the buffer to empty. It blocks until the propagation
// has been merged under the shared sketch's latch.
func (b *ConcurrentLocalBuffer) Flush() error {
	if b.sketch.NumRetained() == 0 {
		return nil
	}

	payload := b.sketch.Compact(b.shared.propagateOrdered)
	b.sketch.Reset()
	return b.shared.propagate(payload)
}

// NumRetained returns the number of hashes currently buffered locally,
// not yet propagated to the shared sketch.
func (b *ConcurrentLocalBuffer) NumRetained() uint32 {
	return b.sketch.NumRetained()
}
