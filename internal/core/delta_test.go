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

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func syntheticDeltas(n int) []int64 {
	in := make([]int64, n)
	for i := range in {
		in[i] = int64(i%7) - 3
	}
	return in
}

func TestPrefixSumVariantsAgree(t *testing.T) {
	for n := 0; n <= 1024; n++ {
		in := syntheticDeltas(n)

		wantOut := make([]int64, n)
		wantSeed := prefixSumScalar(in, wantOut, 17)

		gotOut128 := make([]int64, n)
		gotSeed128 := prefixSum128(in, gotOut128, 17)

		gotOut256 := make([]int64, n)
		gotSeed256 := prefixSum256(in, gotOut256, 17)

		assert.Equalf(t, wantOut, gotOut128, "n=%d: 128-lane output diverged from scalar", n)
		assert.Equalf(t, wantSeed, gotSeed128, "n=%d: 128-lane seed diverged from scalar", n)
		assert.Equalf(t, wantOut, gotOut256, "n=%d: 256-lane output diverged from scalar", n)
		assert.Equalf(t, wantSeed, gotSeed256, "n=%d: 256-lane seed diverged from scalar", n)
	}
}

func TestPrefixSumI64InPlace(t *testing.T) {
	buf := []int64{1, 1, 1, 1, 1}
	seed := PrefixSumI64(buf, buf, 0)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, buf)
	assert.Equal(t, int64(5), seed)
}

func TestPrefixSumI64EmptyInput(t *testing.T) {
	seed := PrefixSumI64(nil, nil, 42)
	assert.Equal(t, int64(42), seed)
}

func TestPrefixSumI64WrapsOnOverflow(t *testing.T) {
	out := make([]int64, 1)
	seed := PrefixSumI64([]int64{1}, out, 9223372036854775807)
	assert.Equal(t, int64(-9223372036854775808), out[0])
	assert.Equal(t, out[0], seed)
}

func BenchmarkPrefixSumI64(b *testing.B) {
	in := syntheticDeltas(4096)
	out := make([]int64, len(in))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PrefixSumI64(in, out, 0)
	}
}
