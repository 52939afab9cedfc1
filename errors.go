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

package pbf

import "errors"

// The three sentinel categories every error returned from this package
// wraps. Callers that want to distinguish "stop reading" from "this file
// is corrupt" from "I misused the API" can errors.Is against these instead
// of matching individual error values.
var (
	// ErrIO wraps failures reading the underlying file or stream.
	ErrIO = errors.New("pbf: i/o error")

	// ErrInvalidData wraps failures decoding PBF-framed or protobuf-encoded
	// bytes: malformed headers, oversize blobs, unrecognized compression,
	// or a primitive block that fails to unmarshal.
	ErrInvalidData = errors.New("pbf: invalid data")

	// ErrFilter wraps misuse of the filter API: setting an element or tag
	// filter more than once, or registering too many tag keys.
	ErrFilter = errors.New("pbf: filter error")
)
