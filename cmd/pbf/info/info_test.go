//go:build integration

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

package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInfo(t *testing.T) {
	c, err := runInfo("../../../testdata/greater-london.osm.pbf", false)
	require.NoError(t, err)

	assert.Equal(t, int64(2729006), c.Nodes)
	assert.Equal(t, int64(459055), c.Ways)
	assert.Equal(t, int64(12833), c.Relations)
}
