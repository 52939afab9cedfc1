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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsetStateAdmitsEverything(t *testing.T) {
	var s State
	assert.True(t, s.AdmitsNodes())
	assert.True(t, s.AdmitsWays())
	assert.True(t, s.AdmitsRelations())
	assert.Equal(t, 0, s.TagCardinality())
	assert.False(t, s.HasKey("name"))
}

func TestSetElementRejectsSecondCall(t *testing.T) {
	var s State
	assert.NoError(t, s.SetElement(Element{Nodes: true}))
	assert.False(t, s.AdmitsWays())
	assert.ErrorIs(t, s.SetElement(Element{Ways: true}), ErrAlreadySet)
}

func TestSetTagKeysSortsAndInterns(t *testing.T) {
	var s State
	err := s.SetTagKeys([]string{"name", "highway", "building"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"building", "highway", "name"}, s.TagKeys())
	assert.Equal(t, 3, s.TagCardinality())
	assert.True(t, s.HasKey("name"))
	assert.False(t, s.HasKey("amenity"))
}

func TestSetTagKeysRejectsSecondCall(t *testing.T) {
	var s State
	assert.NoError(t, s.SetTagKeys([]string{"name"}))
	assert.ErrorIs(t, s.SetTagKeys([]string{"highway"}), ErrAlreadySet)
}

func TestSetTagKeysRejectsTooMany(t *testing.T) {
	var s State
	keys := make([]string, MaxTagKeys+1)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	assert.ErrorIs(t, s.SetTagKeys(keys), ErrTooManyKeys)
}

func TestCachedKeyIDsEmptyWhenUnset(t *testing.T) {
	var s State
	table := [][]byte{[]byte(""), []byte("name"), []byte("main")}
	assert.Nil(t, s.CachedKeyIDs(table))
}

func TestCachedKeyIDsMatchesRegisteredKeys(t *testing.T) {
	var s State
	assert.NoError(t, s.SetTagKeys([]string{"name"}))
	table := [][]byte{[]byte(""), []byte("name"), []byte("main"), []byte("highway")}
	assert.Equal(t, []uint32{1}, s.CachedKeyIDs(table))
}
