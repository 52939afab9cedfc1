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

package decoder

import (
	"fmt"
	"log/slog"

	"github.com/destel/rill"
	"github.com/golang/protobuf/proto"

	"go.osmpbf.dev/reader/block"
	"go.osmpbf.dev/reader/internal/core"
	"go.osmpbf.dev/reader/internal/filter"
	"go.osmpbf.dev/reader/internal/framer"
	"go.osmpbf.dev/reader/internal/pb"
)

// Result is one decoded blob's contribution to the element stream: the
// blob's position in the file (for diagnostics) and the blocks its
// primitive groups yielded under the registered filter.
type Result struct {
	Index  int
	Blocks []block.Block
}

// DecodeBatch decodes blobs sequentially on a dedicated goroutine, reusing
// one PooledBuffer across blobs, and streams a Result per blob down the
// returned channel. A blob that fails to decode is logged and dropped —
// the batch continues with the next blob — matching the pipeline's
// best-effort-per-blob contract; only the framer, upstream of this
// function, carries I/O errors that should end the whole read.
func DecodeBatch(blobs []framer.Blob, fs *filter.State) <-chan rill.Try[Result] {
	ch := make(chan rill.Try[Result])

	buf := core.NewPooledBuffer()

	go func() {
		defer close(ch)
		defer buf.Close()

		for _, blob := range blobs {
			buf.Reset()

			blocks, err := decodeOne(buf, blob, fs)
			if err != nil {
				slog.Error("dropping blob that failed to decode", "blob_index", blob.Index, "error", err)
				continue
			}

			ch <- rill.Try[Result]{Value: Result{Index: blob.Index, Blocks: blocks}}
		}
	}()

	return ch
}

// decodeOne unmarshals one blob's raw bytes, decompresses its payload, and
// parses the result into element blocks.
func decodeOne(buf *core.PooledBuffer, blob framer.Blob, fs *filter.State) ([]block.Block, error) {
	pbBlob := &pb.Blob{}
	if err := proto.Unmarshal(blob.Data, pbBlob); err != nil {
		return nil, fmt.Errorf("decoder: invalid blob %d: %w", blob.Index, err)
	}

	unpacked, err := unpack(buf, pbBlob)
	if err != nil {
		return nil, fmt.Errorf("decoder: blob %d: %w", blob.Index, err)
	}

	blocks, err := ParsePrimitiveBlock(unpacked, fs)
	if err != nil {
		return nil, fmt.Errorf("decoder: blob %d: %w", blob.Index, err)
	}

	return blocks, nil
}
