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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSingleDenseNode covers spec scenario 2.
func TestSingleDenseNode(t *testing.T) {
	table := StringTable{[]byte(""), []byte("name"), []byte("main")}
	cachedKeyIDs := []uint32{1}

	b := NewDenseNodeBlock(table, cachedKeyIDs, true, 1,
		100, 0, 0,
		[]int64{42}, []int64{515000000}, []int64{134000000},
		[]int32{1, 2, 0},
	)

	assert.Equal(t, 1, b.Len())

	it := b.Iter()
	ref, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(42), ref.ID())
	assert.InDelta(t, 51.5, ref.Lat(), 1e-9)
	assert.InDelta(t, 13.4, ref.Lon(), 1e-9)

	tags := ref.Tags()
	key, val, ok := tags.Next()
	assert.True(t, ok)
	assert.Equal(t, "name", string(key))
	assert.Equal(t, "main", string(val))
	_, _, ok = tags.Next()
	assert.False(t, ok)

	tags2 := ref.Tags()
	assert.True(t, tags2.HasAllFilterKeys())

	_, ok = it.Next()
	assert.False(t, ok)
}

// TestWayWithDeltas covers spec scenario 3.
func TestWayWithDeltas(t *testing.T) {
	b := NewWayBlock(StringTable{}, nil, false, 0,
		[]int64{7},
		[][]uint32{{}},
		[][]uint32{{}},
		[][]int64{{10, 5, -3, 2}},
	)

	it := b.Iter()
	ref, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(7), ref.ID())

	var ids []int64
	nodeIt := ref.NodeIDs()
	for {
		id, ok := nodeIt.Next()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{10, 15, 12, 14}, ids)
}

// TestRelationWithRoles covers spec scenario 4.
func TestRelationWithRoles(t *testing.T) {
	table := StringTable{[]byte(""), []byte(""), []byte(""), []byte("outer"), []byte("stop")}

	b := NewRelationBlock(table, nil, false, 0,
		[]int64{1},
		[][]uint32{{}},
		[][]uint32{{}},
		[][]int64{{100, 50}},
		[][]int32{{3, 4}},
		[][]MemberKind{{MemberWay, MemberNode}},
	)

	it := b.Iter()
	ref, ok := it.Next()
	assert.True(t, ok)

	members := ref.Members()
	m1, ok := members.Next()
	assert.True(t, ok)
	assert.Equal(t, Member{ID: 100, Role: []byte("outer"), Kind: MemberWay}, m1)

	m2, ok := members.Next()
	assert.True(t, ok)
	assert.Equal(t, Member{ID: 150, Role: []byte("stop"), Kind: MemberNode}, m2)

	_, ok = members.Next()
	assert.False(t, ok)
}

// TestRelationDropsNegativeRoleButAdvancesAccumulator exercises the
// malformed-roles_sid resolution: the member is dropped but later member
// ids stay correctly positioned.
func TestRelationDropsNegativeRoleButAdvancesAccumulator(t *testing.T) {
	table := StringTable{[]byte(""), []byte("stop")}

	b := NewRelationBlock(table, nil, false, 0,
		[]int64{1},
		[][]uint32{{}},
		[][]uint32{{}},
		[][]int64{{100, 50}},
		[][]int32{{-1, 1}},
		[][]MemberKind{{MemberWay, MemberNode}},
	)

	members := b.Iter()
	ref, _ := members.Next()
	it := ref.Members()

	m, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(150), m.ID)
	assert.Equal(t, "stop", string(m.Role))

	_, ok = it.Next()
	assert.False(t, ok)
}

// TestDenseTagFilterMalformedTerminator covers spec scenario 6.
func TestDenseTagFilterMalformedTerminator(t *testing.T) {
	keysVals := []int32{1, 2, 1, 3}
	offsets := computeKVOffsets(keysVals, 2)

	assert.Equal(t, []int{0, 4, 4}, offsets)
	assert.Equal(t, len(keysVals), offsets[2])

	table := StringTable{[]byte(""), []byte("k"), []byte("v1"), []byte("v2")}
	b := NewDenseNodeBlock(table, nil, false, 0, 100, 0, 0,
		[]int64{1, 1}, []int64{0, 0}, []int64{0, 0}, keysVals)

	it := b.Iter()
	ref1, _ := it.Next()
	n1 := ref1.Tags().Len()
	assert.Equal(t, 2, n1)

	ref2, _ := it.Next()
	n2 := ref2.Tags().Len()
	assert.Equal(t, 0, n2)
}

// TestTagFilterAdmitsOnlyRegisteredKeys verifies the admissibility
// invariant for the non-dense TagIter.
func TestTagFilterAdmitsOnlyRegisteredKeys(t *testing.T) {
	table := StringTable{[]byte(""), []byte("name"), []byte("main"), []byte("highway"), []byte("residential")}
	b := NewNodeBlock(table, []uint32{1}, true, 1, 100, 0, 0,
		[]int64{1}, []int64{0}, []int64{0},
		[][]uint32{{1, 3}}, [][]uint32{{2, 4}},
	)

	ref, _ := b.Iter().Next()
	tags := ref.Tags()
	key, _, ok := tags.Next()
	assert.True(t, ok)
	assert.Equal(t, "name", string(key))
	_, _, ok = tags.Next()
	assert.False(t, ok)
}

// TestIteratorCardinalityMatchesLen checks block.Len() against the count
// yielded by block.Iter().
func TestIteratorCardinalityMatchesLen(t *testing.T) {
	b := NewWayBlock(StringTable{}, nil, false, 0,
		[]int64{1, 2, 3},
		[][]uint32{{}, {}, {}},
		[][]uint32{{}, {}, {}},
		[][]int64{{1}, {2}, {3}},
	)

	n := 0
	it := b.Iter()
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, b.Len(), n)
}

func TestDenseNodeColumnarAppliesScalingUniformly(t *testing.T) {
	table := StringTable{[]byte(""), []byte("name"), []byte("main")}
	b := NewDenseNodeBlock(table, nil, false, 0, 100, 0, 0,
		[]int64{42, 1}, []int64{515000000, 1}, []int64{134000000, 1},
		[]int32{1, 2, 0, 0},
	)

	cols := b.Columnar()
	assert.Equal(t, []int64{42, 43}, cols.IDs)
	assert.InDelta(t, 51.5, cols.Lats[0], 1e-9)
	assert.InDelta(t, 13.4, cols.Lons[0], 1e-9)
	assert.Equal(t, []uint32{1}, cols.KeyIDs)
	assert.Equal(t, []uint32{2}, cols.ValIDs)
	assert.Equal(t, []int{0, 1, 1}, cols.KVOffsets)
}

func TestNodeColumnarAppliesGranularityAndOffset(t *testing.T) {
	b := NewNodeBlock(StringTable{}, nil, false, 0, 100, 5, 7,
		[]int64{1}, []int64{1000}, []int64{2000},
		[][]uint32{{}}, [][]uint32{{}},
	)
	cols := b.Columnar()
	assert.InDelta(t, (1000.0*100+5)*1e-9, cols.Lats[0], 1e-12)
	assert.InDelta(t, (2000.0*100+7)*1e-9, cols.Lons[0], 1e-12)
}
