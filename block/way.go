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

// wayRecord is one way: an absolute id plus a delta-encoded node-ref
// stream private to this way (no continuation across ways).
type wayRecord struct {
	id   int64
	keys []uint32
	vals []uint32
	refs []int64
}

// WayBlock is the columnar carrier for a primitive group's ways[].
type WayBlock struct {
	table        StringTable
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int

	records []wayRecord
}

// NewWayBlock builds a WayBlock from parallel per-way fields.
func NewWayBlock(table StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, ids []int64, keys, vals [][]uint32, refs [][]int64) *WayBlock {
	records := make([]wayRecord, len(ids))
	for i := range ids {
		records[i] = wayRecord{id: ids[i], keys: keys[i], vals: vals[i], refs: refs[i]}
	}

	return &WayBlock{
		table:        table,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
		records:      records,
	}
}

func (b *WayBlock) Kind() Kind { return KindWay }
func (b *WayBlock) Len() int   { return len(b.records) }

func (b *WayBlock) Iter() *WayIter {
	return &WayIter{block: b}
}

// WayIter walks a WayBlock's records in order.
type WayIter struct {
	block *WayBlock
	i     int
}

func (it *WayIter) Next() (WayRef, bool) {
	if it.i >= len(it.block.records) {
		return WayRef{}, false
	}
	ref := WayRef{block: it.block, rec: it.block.records[it.i]}
	it.i++
	return ref, true
}

// WayRef is a transient view over one way.
type WayRef struct {
	block *WayBlock
	rec   wayRecord
}

func (r WayRef) ID() int64 { return r.rec.id }

func (r WayRef) Tags() *TagIter {
	return newTagIter(r.block.table, r.rec.keys, r.rec.vals, r.block.cachedKeyIDs, r.block.filtered, r.block.cardinality)
}

// NodeIDs returns an iterator over this way's absolute node ids, computed
// as the running prefix sum of its delta-encoded refs.
func (r WayRef) NodeIDs() *NodeRefIter {
	return &NodeRefIter{refs: r.rec.refs}
}

// NodeRefIter yields absolute node ids from a way's delta-encoded refs.
type NodeRefIter struct {
	refs []int64
	i    int
	acc  int64
}

func (it *NodeRefIter) Next() (int64, bool) {
	if it.i >= len(it.refs) {
		return 0, false
	}
	it.acc += it.refs[it.i]
	it.i++
	return it.acc, true
}

// WayColumns is the bulk interop layout for a WayBlock.
type WayColumns struct {
	IDs         []int64
	KeyIDs      []uint32
	ValIDs      []uint32
	KVOffsets   []int
	NodeIDs     []int64
	NodeOffsets []int
}

func (b *WayBlock) Columnar() WayColumns {
	n := len(b.records)

	ids := make([]int64, n)
	keyIDs := make([]uint32, 0, n)
	valIDs := make([]uint32, 0, n)
	kvOffsets := make([]int, n+1)
	nodeIDs := make([]int64, 0, n)
	nodeOffsets := make([]int, n+1)

	for i, rec := range b.records {
		ids[i] = rec.id

		keyIDs = append(keyIDs, rec.keys...)
		valIDs = append(valIDs, rec.vals...)
		kvOffsets[i+1] = len(keyIDs)

		absRefs := make([]int64, len(rec.refs))
		core.PrefixSumI64(rec.refs, absRefs, 0)
		nodeIDs = append(nodeIDs, absRefs...)
		nodeOffsets[i+1] = len(nodeIDs)
	}

	return WayColumns{IDs: ids, KeyIDs: keyIDs, ValIDs: valIDs, KVOffsets: kvOffsets, NodeIDs: nodeIDs, NodeOffsets: nodeOffsets}
}
