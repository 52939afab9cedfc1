// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pbf streams OpenStreetMap elements out of a PBF file without
// materializing the whole dataset in memory. Open a Reader, optionally
// narrow it with SetElementFilter/SetTagFilter, then drain Blocks or
// ParBlocks until the iterator ends.
package pbf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.osmpbf.dev/reader/block"
	"go.osmpbf.dev/reader/internal/decoder"
	"go.osmpbf.dev/reader/internal/filter"
	"go.osmpbf.dev/reader/internal/framer"
)

// readBufferSize is the buffered-reader window kept in front of the
// framer, sized to absorb one typical blob's worth of I/O per read.
const readBufferSize = 1024 * 1024

// Reader streams element blocks from PBF-framed data. A Reader is not
// safe for concurrent use by multiple goroutines, except where a method
// explicitly says otherwise.
type Reader struct {
	closer io.Closer
	r      *bufio.Reader
	opts   readerOptions

	filter filter.State
}

// Open opens path for streaming. path must have a ".osm.pbf" suffix; the
// file is read, never written, so it is opened read-only.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	if !strings.HasSuffix(path, ".osm.pbf") {
		return nil, fmt.Errorf("%w: %s: not a .osm.pbf file", ErrInvalidData, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrIO, path, err)
	}

	return NewReader(f, opts...), nil
}

// NewReader builds a Reader around an arbitrary, already-open stream —
// stdin, a progress-bar-wrapped file, a network socket — closing it (if
// it implements io.Closer) when the Reader is closed. Unlike Open, it
// performs no filename validation.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	closer, _ := r.(io.Closer)

	return &Reader{
		closer: closer,
		r:      bufio.NewReaderSize(r, readBufferSize),
		opts:   newReaderOptions(opts),
	}
}

// Close releases the underlying stream, if it was opened with a closer.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	if err := r.closer.Close(); err != nil {
		return fmt.Errorf("%w: closing file: %w", ErrIO, err)
	}
	return nil
}

// SetElementFilter restricts which element kinds Blocks/ParBlocks emit. It
// may be called at most once per Reader, before the first call to
// Blocks/ParBlocks.
func (r *Reader) SetElementFilter(e filter.Element) error {
	if err := r.filter.SetElement(e); err != nil {
		return fmt.Errorf("%w: %w", ErrFilter, err)
	}
	return nil
}

// SetTagFilter restricts tag iteration to at most 8 keys. It may be
// called at most once per Reader, before the first call to
// Blocks/ParBlocks.
func (r *Reader) SetTagFilter(keys []string) error {
	if err := r.filter.SetTagKeys(keys); err != nil {
		return fmt.Errorf("%w: %w", ErrFilter, err)
	}
	return nil
}

// Blocks returns a range-over-func iterator that streams element blocks in
// file order using a single decode worker. Iteration stops, with a
// non-nil error on the final yield, on any I/O or framing failure; a
// per-blob decode failure is logged and skipped, not surfaced here.
func (r *Reader) Blocks(ctx context.Context) func(yield func(block.Block, error) bool) {
	return func(yield func(block.Block, error) bool) {
		for blob, err := range framer.Frame(ctx, r.r) {
			if err != nil {
				yield(nil, fmt.Errorf("%w: %w", ErrIO, err))
				return
			}

			for result := range decoder.DecodeBatch([]framer.Blob{blob}, &r.filter) {
				if result.Error != nil {
					yield(nil, fmt.Errorf("%w: %w", ErrInvalidData, result.Error))
					return
				}
				for _, blk := range result.Value.Blocks {
					if !yield(blk, nil) {
						return
					}
				}
			}
		}
	}
}

// ParBlocks returns a range-over-func iterator that streams element blocks
// using a pool of decode workers. Blocks from different workers may
// interleave out of file order; within the blocks a single blob produced,
// order is preserved. Cancelling ctx, or the consumer returning false
// from yield, stops the framer and every worker.
func (r *Reader) ParBlocks(ctx context.Context) func(yield func(block.Block, error) bool) {
	return func(yield func(block.Block, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		blobQueue := make(chan framer.Blob, r.opts.blobQueueDepth)
		elementQueue := make(chan elementOrErr, r.opts.elementQueueDepth)

		go r.runFramer(ctx, blobQueue, elementQueue, cancel)

		var workers sync.WaitGroup
		workers.Add(r.opts.workerCount)
		for i := 0; i < r.opts.workerCount; i++ {
			go func() {
				defer workers.Done()
				r.runWorker(ctx, blobQueue, elementQueue)
			}()
		}

		go func() {
			workers.Wait()
			close(elementQueue)
		}()

		for item := range elementQueue {
			if item.err != nil {
				if !yield(nil, fmt.Errorf("%w: %w", ErrIO, item.err)) {
					return
				}
				continue
			}
			if !yield(item.block, nil) {
				return
			}
		}
	}
}

type elementOrErr struct {
	block block.Block
	err   error
}

// runFramer is the pipeline's single framing goroutine: it owns the
// sequential read side and fans blobs out onto blobQueue. A framing
// failure is reported once and cancels the whole pipeline.
func (r *Reader) runFramer(ctx context.Context, blobQueue chan<- framer.Blob, elementQueue chan<- elementOrErr, cancel context.CancelFunc) {
	defer close(blobQueue)

	for blob, err := range framer.Frame(ctx, r.r) {
		if err != nil {
			select {
			case elementQueue <- elementOrErr{err: err}:
			case <-ctx.Done():
			}
			cancel()
			return
		}

		select {
		case blobQueue <- blob:
		case <-ctx.Done():
			return
		}
	}
}

// runWorker decodes blobs off blobQueue until it closes, pushing each
// resulting block onto elementQueue. Per-blob decode errors never reach
// here: DecodeBatch logs and drops them. Every send is guarded by
// ctx.Done() so a worker never blocks forever on a full elementQueue once
// the consumer has stopped draining it.
func (r *Reader) runWorker(ctx context.Context, blobQueue <-chan framer.Blob, elementQueue chan<- elementOrErr) {
	for blob := range blobQueue {
		for result := range decoder.DecodeBatch([]framer.Blob{blob}, &r.filter) {
			if result.Error != nil {
				continue
			}
			for _, blk := range result.Value.Blocks {
				select {
				case elementQueue <- elementOrErr{block: blk}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
