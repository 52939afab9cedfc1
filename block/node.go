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

import "github.com/golang/geo/s2"

// nodeRecord is one standalone (non-dense) node: unlike DenseNodeBlock, a
// node message carries its own absolute id and lat/lon rather than a
// cross-element delta stream, so no running accumulator is needed across
// records.
type nodeRecord struct {
	id   int64
	lat  int64
	lon  int64
	keys []uint32
	vals []uint32
}

// NodeBlock is the columnar carrier for a primitive group's non-dense
// nodes[].
type NodeBlock struct {
	table        StringTable
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int

	granularity int64
	latOffset   int64
	lonOffset   int64

	records []nodeRecord
}

// NewNodeBlock builds a NodeBlock. ids, lats, and lons must be the same
// length; keys and vals must pair positionally per node.
func NewNodeBlock(table StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, granularity, latOffset, lonOffset int64, ids, lats, lons []int64, keys, vals [][]uint32) *NodeBlock {
	records := make([]nodeRecord, len(ids))
	for i := range ids {
		records[i] = nodeRecord{id: ids[i], lat: lats[i], lon: lons[i], keys: keys[i], vals: vals[i]}
	}

	return &NodeBlock{
		table:        table,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
		granularity:  granularity,
		latOffset:    latOffset,
		lonOffset:    lonOffset,
		records:      records,
	}
}

func (b *NodeBlock) Kind() Kind { return KindNode }
func (b *NodeBlock) Len() int   { return len(b.records) }

func (b *NodeBlock) Iter() *NodeIter {
	return &NodeIter{block: b}
}

// NodeIter walks a NodeBlock's records in order.
type NodeIter struct {
	block *NodeBlock
	i     int
}

func (it *NodeIter) Next() (NodeRef, bool) {
	if it.i >= len(it.block.records) {
		return NodeRef{}, false
	}
	ref := NodeRef{block: it.block, rec: it.block.records[it.i]}
	it.i++
	return ref, true
}

// NodeRef is a transient view over one standalone node.
type NodeRef struct {
	block *NodeBlock
	rec   nodeRecord
}

func (r NodeRef) ID() int64 { return r.rec.id }

func (r NodeRef) Lat() float64 {
	return scale(r.rec.lat, r.block.granularity, r.block.latOffset)
}

func (r NodeRef) Lon() float64 {
	return scale(r.rec.lon, r.block.granularity, r.block.lonOffset)
}

// LatLng returns this node's position as an s2.LatLng, for consumers doing
// geometric work (distance, containment) directly against the decoded
// stream rather than against raw degree floats.
func (r NodeRef) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(r.Lat(), r.Lon())
}

func (r NodeRef) Tags() *TagIter {
	return newTagIter(r.block.table, r.rec.keys, r.rec.vals, r.block.cachedKeyIDs, r.block.filtered, r.block.cardinality)
}

// NodeColumns is the bulk interop layout for a NodeBlock. Unlike the
// source this is grounded on, granularity and offset are always applied —
// see the design notes on the known bulk-materializer scaling
// inconsistency in the non-dense path.
type NodeColumns struct {
	IDs       []int64
	Lats      []float64
	Lons      []float64
	KeyIDs    []uint32
	ValIDs    []uint32
	KVOffsets []int
}

func (b *NodeBlock) Columnar() NodeColumns {
	n := len(b.records)

	ids := make([]int64, n)
	lats := make([]float64, n)
	lons := make([]float64, n)
	keyIDs := make([]uint32, 0, n)
	valIDs := make([]uint32, 0, n)
	kvOffsets := make([]int, n+1)

	for i, rec := range b.records {
		ids[i] = rec.id
		lats[i] = scale(rec.lat, b.granularity, b.latOffset)
		lons[i] = scale(rec.lon, b.granularity, b.lonOffset)

		keyIDs = append(keyIDs, rec.keys...)
		valIDs = append(valIDs, rec.vals...)
		kvOffsets[i+1] = len(keyIDs)
	}

	return NodeColumns{IDs: ids, Lats: lats, Lons: lons, KeyIDs: keyIDs, ValIDs: valIDs, KVOffsets: kvOffsets}
}
