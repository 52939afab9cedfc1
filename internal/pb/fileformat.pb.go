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

// Package pb is a hand-maintained stand-in for the code protoc-gen-go would
// produce from the standard OSM PBF schema (fileformat.proto, osmformat.proto).
// Generating and vendoring that schema is out of scope here — see §1 of the
// design notes: the schema loader is a black-box decoder for the wire types
// it produces. Only the message shapes actually consumed downstream are
// declared; unknown field numbers on the wire (OSM metadata, header bounding
// boxes) are tolerated by the proto runtime and simply discarded.
package pb

import (
	"github.com/golang/protobuf/proto"
)

// BlobHeader precedes every Blob on the wire and declares its type and length.
type BlobHeader struct {
	Type      *string `protobuf:"bytes,1,req,name=type" json:"type,omitempty"`
	Indexdata []byte  `protobuf:"bytes,2,opt,name=indexdata" json:"indexdata,omitempty"`
	Datasize  *int32  `protobuf:"varint,3,req,name=datasize" json:"datasize,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *BlobHeader) Reset()         { *m = BlobHeader{} }
func (m *BlobHeader) String() string { return proto.CompactTextString(m) }
func (*BlobHeader) ProtoMessage()    {}

func (m *BlobHeader) GetType() string {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return ""
}

func (m *BlobHeader) GetIndexdata() []byte {
	if m != nil {
		return m.Indexdata
	}
	return nil
}

func (m *BlobHeader) GetDatasize() int32 {
	if m != nil && m.Datasize != nil {
		return *m.Datasize
	}
	return 0
}

// Blob carries exactly one compressed or raw payload, plus a size hint.
type Blob struct {
	// Types that are valid to be assigned to Data:
	//	*Blob_Raw
	//	*Blob_ZlibData
	//	*Blob_LzmaData
	//	*Blob_Lz4Data
	//	*Blob_ZstdData
	Data    isBlob_Data `protobuf_oneof:"data"`
	RawSize *int32      `protobuf:"varint,2,opt,name=raw_size,json=rawSize" json:"raw_size,omitempty"`

	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Blob) Reset()         { *m = Blob{} }
func (m *Blob) String() string { return proto.CompactTextString(m) }
func (*Blob) ProtoMessage()    {}

type isBlob_Data interface {
	isBlob_Data()
}

type Blob_Raw struct {
	Raw []byte `protobuf:"bytes,1,opt,name=raw,oneof"`
}

type Blob_ZlibData struct {
	ZlibData []byte `protobuf:"bytes,3,opt,name=zlib_data,json=zlibData,oneof"`
}

type Blob_LzmaData struct {
	LzmaData []byte `protobuf:"bytes,4,opt,name=lzma_data,json=lzmaData,oneof"`
}

type Blob_Lz4Data struct {
	Lz4Data []byte `protobuf:"bytes,6,opt,name=lz4_data,json=lz4Data,oneof"`
}

type Blob_ZstdData struct {
	ZstdData []byte `protobuf:"bytes,7,opt,name=zstd_data,json=zstdData,oneof"`
}

func (*Blob_Raw) isBlob_Data()      {}
func (*Blob_ZlibData) isBlob_Data() {}
func (*Blob_LzmaData) isBlob_Data() {}
func (*Blob_Lz4Data) isBlob_Data()  {}
func (*Blob_ZstdData) isBlob_Data() {}

func (m *Blob) GetData() isBlob_Data {
	if m != nil {
		return m.Data
	}
	return nil
}

func (m *Blob) GetRaw() []byte {
	if x, ok := m.GetData().(*Blob_Raw); ok {
		return x.Raw
	}
	return nil
}

func (m *Blob) GetZlibData() []byte {
	if x, ok := m.GetData().(*Blob_ZlibData); ok {
		return x.ZlibData
	}
	return nil
}

func (m *Blob) GetLzmaData() []byte {
	if x, ok := m.GetData().(*Blob_LzmaData); ok {
		return x.LzmaData
	}
	return nil
}

func (m *Blob) GetLz4Data() []byte {
	if x, ok := m.GetData().(*Blob_Lz4Data); ok {
		return x.Lz4Data
	}
	return nil
}

func (m *Blob) GetZstdData() []byte {
	if x, ok := m.GetData().(*Blob_ZstdData); ok {
		return x.ZstdData
	}
	return nil
}

func (m *Blob) GetRawSize() int32 {
	if m != nil && m.RawSize != nil {
		return *m.RawSize
	}
	return 0
}
