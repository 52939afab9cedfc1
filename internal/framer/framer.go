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

// Package framer turns a raw *.osm.pbf byte stream into a sequence of
// owned OSMData blob payloads, discarding every other declared blob type
// (OSMHeader, in practice) without allocating for the skipped bytes.
package framer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/protobuf/proto"

	"go.osmpbf.dev/reader/internal/core"
	"go.osmpbf.dev/reader/internal/pb"
)

const (
	// MaxHeaderSize is the hard cap on a BlobHeader's wire size.
	MaxHeaderSize = 64 * 1024
	// MaxBlobSize is the hard cap on a Blob's declared datasize.
	MaxBlobSize = 32 * 1024 * 1024

	osmDataType = "OSMData"

	initialBlobCap = 64 * 1024
)

var (
	// ErrHeaderTooLarge is returned when a BlobHeader declares a size above MaxHeaderSize.
	ErrHeaderTooLarge = errors.New("framer: blob header exceeds 64 KiB")
	// ErrBlobTooLarge is returned when a Blob declares a datasize above MaxBlobSize.
	ErrBlobTooLarge = errors.New("framer: blob exceeds 32 MiB")
)

// Blob is an owned, immutable snapshot of one OSMData payload: the raw
// bytes of a pb.Blob message, not yet decompressed or parsed.
type Blob struct {
	Index int
	Data  []byte
}

// Frame returns a range-over-func iterator yielding one Blob per OSMData
// record in r, in stream order. Iteration stops, with a non-nil error on
// the final yield, on any I/O or parse failure; a clean EOF before any
// bytes are read ends iteration with no error. The loop is fully
// sequential: reading the length prefix, the header, and the payload are
// interleaved on the caller's goroutine, matching the single-threaded
// framer role in the concurrency model.
func Frame(ctx context.Context, r io.Reader) func(yield func(Blob, error) bool) {
	return func(yield func(Blob, error) bool) {
		headerBuf := core.NewPooledBuffer()
		defer headerBuf.Close()

		blobBuf := make([]byte, 0, initialBlobCap)
		index := 0

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			size, err := readRecordSize(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(Blob{}, fmt.Errorf("framer: reading header size: %w", err))
				return
			}

			if size > MaxHeaderSize {
				yield(Blob{}, fmt.Errorf("framer: header declares %d bytes: %w", size, ErrHeaderTooLarge))
				return
			}

			headerBuf.Reset()
			if _, err := io.CopyN(headerBuf, r, int64(size)); err != nil {
				yield(Blob{}, fmt.Errorf("framer: short read on blob header: %w", err))
				return
			}

			header := &pb.BlobHeader{}
			if err := proto.Unmarshal(headerBuf.Bytes(), header); err != nil {
				yield(Blob{}, fmt.Errorf("framer: invalid blob header: %w", err))
				return
			}

			datasize := int64(header.GetDatasize())
			if datasize < 0 || datasize > MaxBlobSize {
				yield(Blob{}, fmt.Errorf("framer: blob declares %d bytes: %w", datasize, ErrBlobTooLarge))
				return
			}

			if header.GetType() != osmDataType {
				if _, err := io.CopyN(io.Discard, r, datasize); err != nil {
					yield(Blob{}, fmt.Errorf("framer: short read skipping %q blob: %w", header.GetType(), err))
					return
				}
				continue
			}

			blobBuf = growTo(blobBuf, datasize)
			if _, err := io.ReadFull(r, blobBuf); err != nil {
				yield(Blob{}, fmt.Errorf("framer: short read on blob payload: %w", err))
				return
			}

			owned := make([]byte, datasize)
			copy(owned, blobBuf)

			if !yield(Blob{Index: index, Data: owned}, nil) {
				return
			}
			index++
		}
	}
}

// growTo returns buf resized to exactly n bytes, doubling its capacity as
// many times as needed rather than growing to the exact requested size, so
// repeated blobs of similar size reuse the same backing array.
func growTo(buf []byte, n int64) []byte {
	if int64(cap(buf)) >= n {
		return buf[:n]
	}

	newCap := cap(buf)
	if newCap == 0 {
		newCap = initialBlobCap
	}
	for int64(newCap) < n {
		newCap *= 2
	}

	return make([]byte, n, newCap)
}

func readRecordSize(r io.Reader) (uint32, error) {
	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return 0, err
	}
	return size, nil
}
