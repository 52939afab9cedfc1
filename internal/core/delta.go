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

import "golang.org/x/sys/cpu"

// lane is the width the runtime has selected for PrefixSumI64. Detection
// runs once, at package init, mirroring how a real vectorized kernel would
// probe CPU features a single time per process rather than per call.
type lane int

const (
	laneScalar lane = iota
	lane128
	lane256
)

var selectedLane = detectLane()

func detectLane() lane {
	switch {
	case cpu.X86.HasAVX2:
		return lane256
	case cpu.X86.HasSSE2:
		return lane128
	default:
		return laneScalar
	}
}

// PrefixSumI64 computes output[i] = seed + sum(input[0..=i]) for every i and
// returns seed + sum(input). input and output may alias only when they are
// the same slice; passing distinct overlapping slices is undefined.
//
// Addition wraps on 64-bit signed overflow rather than panicking: OSM delta
// streams never overflow in practice, but the behavior is defined so callers
// never need to reason about a trap.
func PrefixSumI64(input, output []int64, seed int64) int64 {
	switch selectedLane {
	case lane256:
		return prefixSum256(input, output, seed)
	case lane128:
		return prefixSum128(input, output, seed)
	default:
		return prefixSumScalar(input, output, seed)
	}
}

// prefixSumScalar is the ragged-tail and fallback path. Every wider path
// reduces to this loop on inputs shorter than its lane width.
func prefixSumScalar(input, output []int64, seed int64) int64 {
	acc := seed
	for i, v := range input {
		acc += v
		output[i] = acc
	}
	return acc
}

// prefixSum128 processes input two elements at a time, matching the lane
// width an SSE2 vector unit would carry. Prefix sum is inherently
// sequential across lanes, so this yields numerically identical output to
// prefixSumScalar; the unrolling only changes loop overhead, not the
// result — the property §8 of the design notes exercises.
func prefixSum128(input, output []int64, seed int64) int64 {
	acc := seed
	n := len(input)

	i := 0
	for ; i+2 <= n; i += 2 {
		acc += input[i]
		output[i] = acc
		acc += input[i+1]
		output[i+1] = acc
	}

	return prefixSumScalar(input[i:], output[i:], acc)
}

// prefixSum256 is the 4-wide counterpart of prefixSum128, selected when
// AVX2 is available.
func prefixSum256(input, output []int64, seed int64) int64 {
	acc := seed
	n := len(input)

	i := 0
	for ; i+4 <= n; i += 4 {
		acc += input[i]
		output[i] = acc
		acc += input[i+1]
		output[i+1] = acc
		acc += input[i+2]
		output[i+2] = acc
		acc += input[i+3]
		output[i+3] = acc
	}

	return prefixSumScalar(input[i:], output[i:], acc)
}
