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

	"github.com/golang/protobuf/proto"

	"go.osmpbf.dev/reader/block"
	"go.osmpbf.dev/reader/internal/filter"
	"go.osmpbf.dev/reader/internal/pb"
)

// ParsePrimitiveBlock parses a decompressed PrimitiveBlock and emits one
// element block per primitive group the filter admits. Every emitted block
// shares the same string table and cached tag-key-id set.
func ParsePrimitiveBlock(data []byte, fs *filter.State) ([]block.Block, error) {
	pBlock := &pb.PrimitiveBlock{}
	if err := proto.Unmarshal(data, pBlock); err != nil {
		return nil, fmt.Errorf("decoder: invalid primitive block: %w", err)
	}

	table := block.StringTable(pBlock.GetStringtable().GetS())
	cachedKeyIDs := fs.CachedKeyIDs(table)
	filtered := fs.TagCardinality() > 0
	cardinality := fs.TagCardinality()

	granularity := int64(pBlock.GetGranularity())
	latOffset := pBlock.GetLatOffset()
	lonOffset := pBlock.GetLonOffset()

	var blocks []block.Block

	for _, group := range pBlock.GetPrimitivegroup() {
		if dense := group.GetDense(); dense != nil && fs.AdmitsNodes() {
			blocks = append(blocks, block.NewDenseNodeBlock(
				table, cachedKeyIDs, filtered, cardinality,
				granularity, latOffset, lonOffset,
				dense.GetId(), dense.GetLat(), dense.GetLon(), dense.GetKeysVals(),
			))
		}

		if nodes := group.GetNodes(); len(nodes) > 0 && fs.AdmitsNodes() {
			blocks = append(blocks, buildNodeBlock(table, cachedKeyIDs, filtered, cardinality, granularity, latOffset, lonOffset, nodes))
		}

		if ways := group.GetWays(); len(ways) > 0 && fs.AdmitsWays() {
			blocks = append(blocks, buildWayBlock(table, cachedKeyIDs, filtered, cardinality, ways))
		}

		if relations := group.GetRelations(); len(relations) > 0 && fs.AdmitsRelations() {
			blocks = append(blocks, buildRelationBlock(table, cachedKeyIDs, filtered, cardinality, relations))
		}
	}

	return blocks, nil
}

func buildNodeBlock(table block.StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, granularity, latOffset, lonOffset int64, nodes []*pb.Node) *block.NodeBlock {
	ids := make([]int64, len(nodes))
	lats := make([]int64, len(nodes))
	lons := make([]int64, len(nodes))
	keys := make([][]uint32, len(nodes))
	vals := make([][]uint32, len(nodes))

	for i, n := range nodes {
		ids[i] = n.GetId()
		lats[i] = n.GetLat()
		lons[i] = n.GetLon()
		keys[i] = n.GetKeys()
		vals[i] = n.GetVals()
	}

	return block.NewNodeBlock(table, cachedKeyIDs, filtered, cardinality, granularity, latOffset, lonOffset, ids, lats, lons, keys, vals)
}

func buildWayBlock(table block.StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, ways []*pb.Way) *block.WayBlock {
	ids := make([]int64, len(ways))
	keys := make([][]uint32, len(ways))
	vals := make([][]uint32, len(ways))
	refs := make([][]int64, len(ways))

	for i, w := range ways {
		ids[i] = w.GetId()
		keys[i] = w.GetKeys()
		vals[i] = w.GetVals()
		refs[i] = w.GetRefs()
	}

	return block.NewWayBlock(table, cachedKeyIDs, filtered, cardinality, ids, keys, vals, refs)
}

func buildRelationBlock(table block.StringTable, cachedKeyIDs []uint32, filtered bool, cardinality int, relations []*pb.Relation) *block.RelationBlock {
	ids := make([]int64, len(relations))
	keys := make([][]uint32, len(relations))
	vals := make([][]uint32, len(relations))
	memids := make([][]int64, len(relations))
	rolesSid := make([][]int32, len(relations))
	kinds := make([][]block.MemberKind, len(relations))

	for i, r := range relations {
		ids[i] = r.GetId()
		keys[i] = r.GetKeys()
		vals[i] = r.GetVals()
		memids[i] = r.GetMemids()
		rolesSid[i] = r.GetRolesSid()
		kinds[i] = memberKinds(r.GetTypes())

		if hasNegativeRole(rolesSid[i]) {
			slog.Warn("relation carries a negative role_sid; affected members are dropped", "relation_id", ids[i])
		}
	}

	return block.NewRelationBlock(table, cachedKeyIDs, filtered, cardinality, ids, keys, vals, memids, rolesSid, kinds)
}

func memberKinds(types []pb.Relation_MemberType) []block.MemberKind {
	kinds := make([]block.MemberKind, len(types))
	for i, t := range types {
		switch t {
		case pb.Relation_WAY:
			kinds[i] = block.MemberWay
		case pb.Relation_RELATION:
			kinds[i] = block.MemberRelation
		default:
			kinds[i] = block.MemberNode
		}
	}
	return kinds
}

func hasNegativeRole(rolesSid []int32) bool {
	for _, r := range rolesSid {
		if r < 0 {
			return true
		}
	}
	return false
}
