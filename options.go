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

package pbf

import "runtime"

const (
	// DefaultProtoBufferSize is the default value recorded for the protobuf
	// un-marshaling buffer size. The decode path does not read this setting.
	DefaultProtoBufferSize = 1024 * 1024

	// DefaultBlobQueueDepth is the default depth of the framer-to-worker
	// blob queue when unset: one slot per worker.
	DefaultBlobQueueDepth = 0

	// DefaultElementQueueDepth is the default depth of the worker-to-consumer
	// element-block queue.
	DefaultElementQueueDepth = 1000
)

// DefaultWorkerCount provides the default number of decode workers.
func DefaultWorkerCount() int {
	cpus := runtime.GOMAXPROCS(-1)

	return max(cpus-1, 1)
}

// readerOptions provides optional configuration parameters for Reader construction.
type readerOptions struct {
	protoBufferSize   int
	workerCount       int
	blobQueueDepth    int
	elementQueueDepth int
}

// ReaderOption configures how a Reader is constructed.
type ReaderOption func(*readerOptions)

// WithProtoBufferSize records a buffer size for protobuf un-marshaling. The
// value is stored on the Reader's options but no decode step reads it, so it
// does not change how blobs are decoded.
func WithProtoBufferSize(s int) ReaderOption {
	return func(o *readerOptions) {
		o.protoBufferSize = s
	}
}

// WithWorkerCount lets you set the number of decode workers ParBlocks uses.
func WithWorkerCount(n int) ReaderOption {
	return func(o *readerOptions) {
		o.workerCount = n
	}
}

// WithBlobQueueDepth lets you set the depth of the framer-to-worker blob queue.
func WithBlobQueueDepth(n int) ReaderOption {
	return func(o *readerOptions) {
		o.blobQueueDepth = n
	}
}

// WithElementQueueDepth lets you set the depth of the worker-to-consumer
// element-block queue.
func WithElementQueueDepth(n int) ReaderOption {
	return func(o *readerOptions) {
		o.elementQueueDepth = n
	}
}

// defaultReaderOptions provides the default configuration for a Reader.
var defaultReaderOptions = readerOptions{
	protoBufferSize:   DefaultProtoBufferSize,
	workerCount:       DefaultWorkerCount(),
	blobQueueDepth:    DefaultBlobQueueDepth,
	elementQueueDepth: DefaultElementQueueDepth,
}

func newReaderOptions(opts []ReaderOption) readerOptions {
	o := defaultReaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.blobQueueDepth <= 0 {
		o.blobQueueDepth = o.workerCount
	}

	return o
}
