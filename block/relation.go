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

// relationRecord is one relation: an absolute id, its tags, and a
// delta-encoded member-id stream paired positionally with role indices and
// member kinds.
type relationRecord struct {
	id       int64
	keys     []uint32
	vals     []uint32
	memids   []int64
	rolesSid []int32
	kinds    []MemberKind
}

// RelationBlock is the columnar carrier for a primitive group's relations[].
type RelationBlock struct {
	table        StringTable
	cachedKeyIDs []uint32
	filtered     bool
	cardinality  int

	records []relationRecord
}

// NewRelationBlock builds a RelationBlock from parallel per-relation
// fields. rolesSid and kinds carry one entry per member, paired
// positionally with memids.
func NewRelationBlock(table StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, ids []int64, keys, vals [][]uint32, memids [][]int64, rolesSid [][]int32, kinds [][]MemberKind) *RelationBlock {
	records := make([]relationRecord, len(ids))
	for i := range ids {
		records[i] = relationRecord{
			id:       ids[i],
			keys:     keys[i],
			vals:     vals[i],
			memids:   memids[i],
			rolesSid: rolesSid[i],
			kinds:    kinds[i],
		}
	}

	return &RelationBlock{
		table:        table,
		cachedKeyIDs: cachedKeyIDs,
		filtered:     filtered,
		cardinality:  cardinality,
		records:      records,
	}
}

func (b *RelationBlock) Kind() Kind { return KindRelation }
func (b *RelationBlock) Len() int   { return len(b.records) }

func (b *RelationBlock) Iter() *RelationIter {
	return &RelationIter{block: b}
}

// RelationIter walks a RelationBlock's records in order.
type RelationIter struct {
	block *RelationBlock
	i     int
}

func (it *RelationIter) Next() (RelationRef, bool) {
	if it.i >= len(it.block.records) {
		return RelationRef{}, false
	}
	ref := RelationRef{block: it.block, rec: it.block.records[it.i]}
	it.i++
	return ref, true
}

// RelationRef is a transient view over one relation.
type RelationRef struct {
	block *RelationBlock
	rec   relationRecord
}

func (r RelationRef) ID() int64 { return r.rec.id }

func (r RelationRef) Tags() *TagIter {
	return newTagIter(r.block.table, r.rec.keys, r.rec.vals, r.block.cachedKeyIDs, r.block.filtered, r.block.cardinality)
}

// Members returns an iterator over this relation's members. A member whose
// role_sid is negative — a signed field used as an unsigned string-table
// index, so negative is malformed per the design notes — is dropped from
// iteration; the memids accumulator still advances across it so later
// members remain correctly positioned.
func (r RelationRef) Members() *RelationMemberIter {
	return &RelationMemberIter{
		table:    r.block.table,
		memids:   r.rec.memids,
		rolesSid: r.rec.rolesSid,
		kinds:    r.rec.kinds,
	}
}

// Member is one relation member: an absolute id, its role resolved through
// the string table, and its semantic kind.
type Member struct {
	ID   int64
	Role []byte
	Kind MemberKind
}

// RelationMemberIter yields a relation's members in order, delta-decoding
// ids as it advances.
type RelationMemberIter struct {
	table    StringTable
	memids   []int64
	rolesSid []int32
	kinds    []MemberKind
	i        int
	acc      int64
}

func (it *RelationMemberIter) Next() (Member, bool) {
	for it.i < len(it.memids) {
		it.acc += it.memids[it.i]
		roleSid := it.rolesSid[it.i]
		kind := it.kinds[it.i]
		it.i++

		if roleSid < 0 {
			continue
		}

		return Member{ID: it.acc, Role: it.table.At(uint32(roleSid)), Kind: kind}, true
	}
	return Member{}, false
}

// RelationColumns is the bulk interop layout for a RelationBlock. Member
// roles are left as raw string-table indices and member types as
// MemberKind values — not resolved bytes — so the tuple stays densely packed and
// primitive-typed for foreign runtimes, exactly like the id/key/value
// arrays of the other variants.
type RelationColumns struct {
	IDs           []int64
	KeyIDs        []uint32
	ValIDs        []uint32
	KVOffsets     []int
	MemberIDs     []int64
	MemberRoles   []int32
	MemberKinds   []MemberKind
	MemberOffsets []int
}

func (b *RelationBlock) Columnar() RelationColumns {
	n := len(b.records)

	ids := make([]int64, n)
	keyIDs := make([]uint32, 0, n)
	valIDs := make([]uint32, 0, n)
	kvOffsets := make([]int, n+1)
	memberIDs := make([]int64, 0, n)
	memberRoles := make([]int32, 0, n)
	memberKinds := make([]MemberKind, 0, n)
	memberOffsets := make([]int, n+1)

	for i, rec := range b.records {
		ids[i] = rec.id

		keyIDs = append(keyIDs, rec.keys...)
		valIDs = append(valIDs, rec.vals...)
		kvOffsets[i+1] = len(keyIDs)

		absMemids := make([]int64, len(rec.memids))
		core.PrefixSumI64(rec.memids, absMemids, 0)
		memberIDs = append(memberIDs, absMemids...)
		memberRoles = append(memberRoles, rec.rolesSid...)
		memberKinds = append(memberKinds, rec.kinds...)
		memberOffsets[i+1] = len(memberIDs)
	}

	return RelationColumns{
		IDs:           ids,
		KeyIDs:        keyIDs,
		ValIDs:        valIDs,
		KVOffsets:     kvOffsets,
		MemberIDs:     memberIDs,
		MemberRoles:   memberRoles,
		MemberKinds:   memberKinds,
		MemberOffsets: memberOffsets,
	}
}
