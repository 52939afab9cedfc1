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

package block

import "go.osmpbf.dev/reader/internal/core"

// DenseNodeBlock is the columnar, delta-encoded representation of N nodes:
// parallel id/lat/lon delta streams and one interleaved, 0-terminated
// keys_vals stream. kvOffsets[i]..kvOffsets[i+1] bounds the i-th node's tag
// run, including its terminating 0.
type DenseNodeBlock struct {
	table        StringTable
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int

	granularity int64
	latOffset   int64
	lonOffset   int64

	ids  []int64
	lats []int64
	lons []int64

	keysVals  []int32
	kvOffsets []int
}

// NewDenseNodeBlock builds a DenseNodeBlock from the raw delta streams a
// DenseNodes protobuf message carries, precomputing the per-node tag-run
// offsets in a single forward pass.
func NewDenseNodeBlock(table StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, granularity, latOffset, lonOffset int64, ids, lats, lons []int64, keysVals []int32) *DenseNodeBlock {
	return &DenseNodeBlock{
		table:        table,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
		granularity:  granularity,
		latOffset:    latOffset,
		lonOffset:    lonOffset,
		ids:          ids,
		lats:         lats,
		lons:         lons,
		keysVals:     keysVals,
		kvOffsets:    computeKVOffsets(keysVals, len(ids)),
	}
}

// computeKVOffsets walks keys_vals once, stepping by 2 on (k,v) pairs and
// by 1 on the terminating 0, appending the post-terminator index for each
// of the n nodes. A missing terminator is malformed but not undefined: the
// current index is recorded and the scan continues from there.
func computeKVOffsets(keysVals []int32, n int) []int {
	offsets := make([]int, 0, n+1)
	offsets = append(offsets, 0)

	idx := 0
	for i := 0; i < n; i++ {
		for idx < len(keysVals) && keysVals[idx] != 0 {
			idx += 2
		}

		if idx >= len(keysVals) {
			offsets = append(offsets, idx)
			continue
		}

		idx++ // skip the terminating 0
		offsets = append(offsets, idx)
	}

	return offsets
}

func (b *DenseNodeBlock) Kind() Kind { return KindDenseNode }
func (b *DenseNodeBlock) Len() int   { return len(b.ids) }

// Iter returns a forward-only, single-pass iterator starting at the first
// node. Each call to Iter restarts from the beginning.
func (b *DenseNodeBlock) Iter() *DenseNodeIter {
	return &DenseNodeIter{block: b}
}

// DenseNodeIter walks a DenseNodeBlock's nodes, maintaining running
// id/lat/lon accumulators so each step delta-decodes exactly one node.
type DenseNodeIter struct {
	block    *DenseNodeBlock
	i        int
	id       int64
	latSum   int64
	lonSum   int64
}

func (it *DenseNodeIter) Next() (DenseNodeRef, bool) {
	if it.i >= len(it.block.ids) {
		return DenseNodeRef{}, false
	}

	it.id += it.block.ids[it.i]
	it.latSum += it.block.lats[it.i]
	it.lonSum += it.block.lons[it.i]

	ref := DenseNodeRef{
		block:  it.block,
		index:  it.i,
		id:     it.id,
		latSum: it.latSum,
		lonSum: it.lonSum,
	}
	it.i++

	return ref, true
}

// DenseNodeRef is a transient view over one dense node. It never outlives
// the block it was derived from.
type DenseNodeRef struct {
	block  *DenseNodeBlock
	index  int
	id     int64
	latSum int64
	lonSum int64
}

func (r DenseNodeRef) ID() int64 { return r.id }

func (r DenseNodeRef) Lat() float64 {
	return scale(r.latSum, r.block.granularity, r.block.latOffset)
}

func (r DenseNodeRef) Lon() float64 {
	return scale(r.lonSum, r.block.granularity, r.block.lonOffset)
}

// Tags returns an iterator over this node's (key, value) pairs.
func (r DenseNodeRef) Tags() *DenseTagIter {
	start, end := r.block.kvOffsets[r.index], r.block.kvOffsets[r.index+1]
	return newDenseTagIter(r.block.table, r.block.keysVals[start:end], r.block.cachedKeyIDs, r.block.filtered, r.block.cardinality)
}

// DenseNodeColumns is the bulk, densely-packed interop layout: delta-decoded
// and degree-scaled ids/lats/lons, plus flattened, 0-terminator-free
// key/value id arrays bounded by a per-node offset table (kvOffsets[i] is a
// pair count, not a raw keys_vals array index).
type DenseNodeColumns struct {
	IDs       []int64
	Lats      []float64
	Lons      []float64
	KeyIDs    []uint32
	ValIDs    []uint32
	KVOffsets []int
}

// Columnar materializes every node's fields in one pass, using the delta
// kernel for the id/lat/lon streams.
func (b *DenseNodeBlock) Columnar() DenseNodeColumns {
	n := len(b.ids)

	ids := make([]int64, n)
	core.PrefixSumI64(b.ids, ids, 0)

	latSums := make([]int64, n)
	core.PrefixSumI64(b.lats, latSums, 0)

	lonSums := make([]int64, n)
	core.PrefixSumI64(b.lons, lonSums, 0)

	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := 0; i < n; i++ {
		lats[i] = scale(latSums[i], b.granularity, b.latOffset)
		lons[i] = scale(lonSums[i], b.granularity, b.lonOffset)
	}

	keyIDs := make([]uint32, 0, len(b.keysVals)/2)
	valIDs := make([]uint32, 0, len(b.keysVals)/2)
	kvOffsets := make([]int, n+1)

	for i := 0; i < n; i++ {
		start, end := b.kvOffsets[i], b.kvOffsets[i+1]
		for p := start; p+1 < end; p += 2 {
			if b.keysVals[p] == 0 {
				break
			}
			keyIDs = append(keyIDs, uint32(b.keysVals[p]))
			valIDs = append(valIDs, uint32(b.keysVals[p+1]))
		}
		kvOffsets[i+1] = len(keyIDs)
	}

	return DenseNodeColumns{IDs: ids, Lats: lats, Lons: lons, KeyIDs: keyIDs, ValIDs: valIDs, KVOffsets: kvOffsets}
}
