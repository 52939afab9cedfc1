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

// Package decoder turns a framer.Blob's raw Blob-protobuf bytes into zero
// or more element blocks: decompress, parse the PrimitiveBlock, and split
// each primitive group into the element-block variant the registered
// filter admits.
package decoder

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz/lzma"

	"go.osmpbf.dev/reader/internal/core"
	"go.osmpbf.dev/reader/internal/pb"
)

// ErrUnknownCompressionType is returned when a Blob's payload is of a type
// unpack has no decompressor for.
var ErrUnknownCompressionType = errors.New("decoder: blob has no recognized payload field")

// ErrEmptyBlob is returned when a Blob has no payload at all.
var ErrEmptyBlob = errors.New("decoder: empty OSMData blob")

// unpack decompresses blob into buf and returns the decompressed bytes.
// buf is grown to accommodate blob's declared raw size (or a 2x heuristic
// when unknown) before decompression begins.
func unpack(buf *core.PooledBuffer, blob *pb.Blob) ([]byte, error) {
	if raw := blob.GetData(); raw == nil {
		return nil, ErrEmptyBlob
	}

	var factory func(b *pb.Blob) (io.Reader, error)

	switch blob.GetData().(type) {
	case *pb.Blob_Raw:
		return blob.GetRaw(), nil
	case *pb.Blob_ZlibData:
		factory = func(b *pb.Blob) (io.Reader, error) {
			return zlib.NewReader(bytes.NewReader(b.GetZlibData()))
		}
	case *pb.Blob_LzmaData:
		factory = func(b *pb.Blob) (io.Reader, error) {
			return lzma.NewReader(bytes.NewReader(b.GetLzmaData()))
		}
	case *pb.Blob_Lz4Data:
		factory = func(b *pb.Blob) (io.Reader, error) {
			return lz4.NewReader(bytes.NewReader(b.GetLz4Data())), nil
		}
	case *pb.Blob_ZstdData:
		factory = func(b *pb.Blob) (io.Reader, error) {
			return zstd.NewReader(bytes.NewReader(b.GetZstdData()))
		}
	default:
		return nil, ErrUnknownCompressionType
	}

	size := int(blob.GetRawSize())
	if size == 0 {
		size = 2 * len(blob.GetZlibData()) + 2*len(blob.GetLzmaData()) + 2*len(blob.GetLz4Data()) + 2*len(blob.GetZstdData())
	}
	if size > buf.Cap() {
		buf.Grow(size)
	}

	rdr, err := factory(blob)
	if err != nil {
		return nil, fmt.Errorf("decoder: unpack: %w", err)
	}

	if _, err := buf.ReadFrom(rdr); err != nil {
		return nil, fmt.Errorf("decoder: unpack read: %w", err)
	}

	return buf.Bytes(), nil
}
