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

// StringTable is the per-block, immutable array of byte strings every
// element in a primitive group resolves tag keys, values, and relation
// roles through. Index 0 is reserved; it is never dereferenced by the
// iterators that treat it as a run terminator. Strings are not required to
// be valid UTF-8 — callers wanting a validated view must decode themselves.
type StringTable [][]byte

// At returns the string at index i, or nil if i is out of range. Out of
// range is treated as empty rather than a panic: a malformed stream should
// degrade iteration, not crash it.
func (t StringTable) At(i uint32) []byte {
	if int(i) >= len(t) {
		return nil
	}
	return t[i]
}

func scale(sum, granularity, offset int64) float64 {
	return (float64(sum)*float64(granularity) + float64(offset)) * 1e-9
}

func containsID(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
