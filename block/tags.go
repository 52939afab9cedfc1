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

// TagIterator is satisfied by both tag iterator shapes: DenseTagIter, over
// a dense node's 0-terminated keys_vals run, and TagIter, over a
// node/way/relation's parallel keys[]/vals[] arrays. Iterator methods never
// fail; a malformed tag stream silently yields fewer pairs rather than
// erroring.
type TagIterator interface {
	// Next returns the next admissible (key, value) pair resolved through
	// the block's string table, or ok=false once exhausted.
	Next() (key, val []byte, ok bool)
	// Len drains the remainder of the iterator and returns how many pairs
	// it yielded. It consumes the iterator, mirroring the source's
	// ownership-taking TagIter::len.
	Len() int
	// HasAllFilterKeys reports whether this element carries a distinct
	// admitted tag for every key in the registered filter. It also drains
	// the iterator. The contract assumes no duplicate keys within one
	// element, true for well-formed OSM data.
	HasAllFilterKeys() bool
}

// TagIter iterates the positional keys[]/vals[] arrays a Node, Way, or
// Relation carries.
type TagIter struct {
	table        StringTable
	keys         []uint32
	vals         []uint32
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int
	pos          int
}

func newTagIter(table StringTable, keys, vals []uint32, cachedKeyIDs []uint32, filtered bool, cardinality int) *TagIter {
	return &TagIter{
		table:        table,
		keys:         keys,
		vals:         vals,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
	}
}

func (it *TagIter) Next() (key, val []byte, ok bool) {
	for it.pos < len(it.keys) {
		k, v := it.keys[it.pos], it.vals[it.pos]
		it.pos++

		if it.filtered && !containsID(it.cachedKeyIDs, k) {
			continue
		}

		return it.table.At(k), it.table.At(v), true
	}
	return nil, nil, false
}

func (it *TagIter) Len() int {
	n := 0
	for {
		if _, _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	return n
}

func (it *TagIter) HasAllFilterKeys() bool {
	return it.Len() == it.cardinality
}

// DenseTagIter iterates one dense node's 0-terminated run within the
// shared keys_vals array, bounded by that node's kv_offset slice.
type DenseTagIter struct {
	table        StringTable
	kv           []int32
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int
	pos          int
}

func newDenseTagIter(table StringTable, kv []int32, cachedKeyIDs []uint32, filtered bool, cardinality int) *DenseTagIter {
	return &DenseTagIter{
		table:        table,
		kv:           kv,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
	}
}

func (it *DenseTagIter) Next() (key, val []byte, ok bool) {
	for it.pos+1 < len(it.kv) {
		k := it.kv[it.pos]
		if k == 0 {
			return nil, nil, false
		}
		v := it.kv[it.pos+1]
		it.pos += 2

		if it.filtered && !containsID(it.cachedKeyIDs, uint32(k)) {
			continue
		}

		return it.table.At(uint32(k)), it.table.At(uint32(v)), true
	}
	return nil, nil, false
}

func (it *DenseTagIter) Len() int {
	n := 0
	for {
		if _, _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	return n
}

func (it *DenseTagIter) HasAllFilterKeys() bool {
	return it.Len() == it.cardinality
}
