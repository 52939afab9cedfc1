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

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.osmpbf.dev/reader/block"
	"go.osmpbf.dev/reader/internal/filter"
	"go.osmpbf.dev/reader/internal/pb"
)

// writeRecord appends one length-prefixed BlobHeader+Blob record to buf.
func writeRecord(t *testing.T, buf *bytes.Buffer, blobType string, blob *pb.Blob) {
	t.Helper()

	blobBytes, err := proto.Marshal(blob)
	require.NoError(t, err)

	header := &pb.BlobHeader{
		Type:     proto.String(blobType),
		Datasize: proto.Int32(int32(len(blobBytes))),
	}
	headerBytes, err := proto.Marshal(header)
	require.NoError(t, err)

	require.NoError(t, binary.Write(buf, binary.BigEndian, uint32(len(headerBytes))))
	buf.Write(headerBytes)
	buf.Write(blobBytes)
}

func singleDenseNodeBlock() *pb.Blob {
	block := &pb.PrimitiveBlock{
		Stringtable: &pb.StringTable{S: [][]byte{[]byte(""), []byte("name"), []byte("main")}},
		Primitivegroup: []*pb.PrimitiveGroup{
			{
				Dense: &pb.DenseNodes{
					Id:       []int64{42},
					Lat:      []int64{515000000},
					Lon:      []int64{134000000},
					KeysVals: []int32{1, 2, 0},
				},
			},
		},
	}
	raw, err := proto.Marshal(block)
	if err != nil {
		panic(err)
	}
	return &pb.Blob{Data: &pb.Blob_Raw{Raw: raw}}
}

// TestBlocksEmptyFile covers spec scenario 1: an empty stream yields zero
// blocks and no error.
func TestBlocksEmptyFile(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	defer r.Close()

	var n int
	for _, err := range r.Blocks(context.Background()) {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 0, n)
}

// TestBlocksSkipsUnknownBlobType covers spec scenario 5: an OSMHeader blob
// interleaved with OSMData blobs contributes nothing to the element
// stream; only the OSMData blob's blocks are yielded.
func TestBlocksSkipsUnknownBlobType(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(t, &buf, "OSMHeader", &pb.Blob{Data: &pb.Blob_Raw{Raw: []byte("not a primitive block")}})
	writeRecord(t, &buf, "OSMData", singleDenseNodeBlock())

	r := NewReader(&buf)
	defer r.Close()

	var got []block.Block
	for blk, err := range r.Blocks(context.Background()) {
		require.NoError(t, err)
		got = append(got, blk)
	}

	require.Len(t, got, 1)
	assert.Equal(t, block.KindDenseNode, got[0].Kind())
	assert.Equal(t, 1, got[0].Len())
}

// TestBlocksStopsOnCancellation exercises cooperative cancellation: a
// large stream of records stops being decoded once ctx is cancelled, and
// the iterator returns promptly rather than draining the whole file.
func TestBlocksStopsOnCancellation(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 1000; i++ {
		writeRecord(t, &buf, "OSMData", singleDenseNodeBlock())
	}

	r := NewReader(&buf)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var n int
	for range r.Blocks(ctx) {
		n++
		if n == 5 {
			cancel()
		}
	}

	assert.Less(t, n, 1000)
}

// TestParBlocksDecodesAllBlobs exercises the concurrent pipeline end to
// end: every blob's blocks are eventually observed, even though workers
// may emit them out of file order.
func TestParBlocksDecodesAllBlobs(t *testing.T) {
	var buf bytes.Buffer
	const blobCount = 20
	for i := 0; i < blobCount; i++ {
		writeRecord(t, &buf, "OSMData", singleDenseNodeBlock())
	}

	r := NewReader(&buf, WithWorkerCount(4))
	defer r.Close()

	var n int
	for blk, err := range r.ParBlocks(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, 1, blk.Len())
		n++
	}

	assert.Equal(t, blobCount, n)
}

// TestSetElementFilterRejectsSecondCall documents the write-once filter
// contract at the Reader boundary.
func TestSetElementFilterRejectsSecondCall(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	defer r.Close()

	require.NoError(t, r.SetElementFilter(filter.Element{Nodes: true}))
	err := r.SetElementFilter(filter.Element{Ways: true})
	assert.ErrorIs(t, err, ErrFilter)
}
