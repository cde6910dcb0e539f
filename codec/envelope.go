// Copyright 2025 StatForge, Inc
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

// Package codec serializes accumulator state for checkpoints and
// transfer between processes. The binary form is a little-endian
// envelope with a magic number, format version, kind tag, and an
// xxhash64 checksum over the payload. A YAML form is provided for
// human-readable checkpoints.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Magic spells "ACMX" and opens every binary envelope.
const Magic uint32 = 0x41434D58

// FormatVersion is bumped on incompatible wire changes.
const FormatVersion uint8 = 1

// Kind tags the accumulator type held in an envelope.
type Kind uint16

const (
	KindInvalid Kind = iota
	KindKBNSum
	KindWelford
	KindCovariance
	KindMin
	KindMax
	KindMinMax
	KindCount
	KindProduct
	KindEMA
	KindHistogram
	KindP2Quantile
	KindReservoir
)

var kindNames = map[Kind]string{
	KindKBNSum:     "kbnsum",
	KindWelford:    "welford",
	KindCovariance: "covariance",
	KindMin:        "min",
	KindMax:        "max",
	KindMinMax:     "minmax",
	KindCount:      "count",
	KindProduct:    "product",
	KindEMA:        "ema",
	KindHistogram:  "histogram",
	KindP2Quantile: "p2quantile",
	KindReservoir:  "reservoir",
}

// String returns the kind's wire name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// KindFromName resolves a wire name back to its tag.
func KindFromName(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindInvalid
}

var (
	ErrBadMagic     = errors.New("codec: bad magic")
	ErrVersion      = errors.New("codec: unsupported format version")
	ErrChecksum     = errors.New("codec: checksum mismatch")
	ErrTruncated    = errors.New("codec: truncated envelope")
	ErrKindMismatch = errors.New("codec: unexpected accumulator kind")
)

// envelope header: magic(4) version(1) kind(2) payloadLen(4), then the
// payload, then xxhash64(payload)(8).
const headerLen = 4 + 1 + 2 + 4
const checksumLen = 8

// seal wraps a payload in the envelope.
func seal(kind Kind, payload []byte) []byte {
	out := make([]byte, headerLen+len(payload)+checksumLen)
	binary.LittleEndian.PutUint32(out[0:4], Magic)
	out[4] = FormatVersion
	binary.LittleEndian.PutUint16(out[5:7], uint16(kind))
	binary.LittleEndian.PutUint32(out[7:11], uint32(len(payload)))
	copy(out[headerLen:], payload)
	binary.LittleEndian.PutUint64(out[headerLen+len(payload):], xxhash.Sum64(payload))
	return out
}

// open validates an envelope and returns its kind and payload. The
// payload aliases data; callers must not retain it past data's
// lifetime.
func open(data []byte) (Kind, []byte, error) {
	if len(data) < headerLen+checksumLen {
		return KindInvalid, nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return KindInvalid, nil, ErrBadMagic
	}
	if data[4] != FormatVersion {
		return KindInvalid, nil, fmt.Errorf("%w: %d", ErrVersion, data[4])
	}
	kind := Kind(binary.LittleEndian.Uint16(data[5:7]))
	plen := int(binary.LittleEndian.Uint32(data[7:11]))
	if len(data) != headerLen+plen+checksumLen {
		return KindInvalid, nil, ErrTruncated
	}
	payload := data[headerLen : headerLen+plen]
	want := binary.LittleEndian.Uint64(data[headerLen+plen:])
	if xxhash.Sum64(payload) != want {
		return KindInvalid, nil, ErrChecksum
	}
	return kind, payload, nil
}

// PeekKind returns the kind tag of a sealed envelope without verifying
// the payload.
func PeekKind(data []byte) (Kind, error) {
	if len(data) < headerLen {
		return KindInvalid, ErrTruncated
	}
	if binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return KindInvalid, ErrBadMagic
	}
	return Kind(binary.LittleEndian.Uint16(data[5:7])), nil
}
