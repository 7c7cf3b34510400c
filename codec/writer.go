// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package codec provides the binary format of cache entries.
//
// Entries start with a 32-bit format version, followed by their fixed-width
// fields and finally by variable sized fields, each preceded by an explicit
// 8- or 16-bit length or count. All integers are little-endian.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/proximax-storage/statecache/go/common"
)

// Writer accumulates the serialized form of an entry. The first error
// encountered is retained and reported by Err; later writes are ignored.
type Writer struct {
	buffer []byte
	err    error
}

func NewWriter() *Writer {
	return &Writer{buffer: make([]byte, 0, 64)}
}

// Bytes returns the serialized data written so far.
func (w *Writer) Bytes() []byte {
	return w.buffer
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) WriteUint8(value uint8) {
	if w.err == nil {
		w.buffer = append(w.buffer, value)
	}
}

func (w *Writer) WriteUint16(value uint16) {
	if w.err == nil {
		w.buffer = binary.LittleEndian.AppendUint16(w.buffer, value)
	}
}

func (w *Writer) WriteUint32(value uint32) {
	if w.err == nil {
		w.buffer = binary.LittleEndian.AppendUint32(w.buffer, value)
	}
}

func (w *Writer) WriteUint64(value uint64) {
	if w.err == nil {
		w.buffer = binary.LittleEndian.AppendUint64(w.buffer, value)
	}
}

func (w *Writer) WriteHeight(value common.Height) {
	w.WriteUint64(uint64(value))
}

func (w *Writer) WriteKey(value common.Key) {
	w.WriteFixed(value[:])
}

func (w *Writer) WriteHash(value common.Hash) {
	w.WriteFixed(value[:])
}

// WriteFixed appends the given bytes without a length prefix.
func (w *Writer) WriteFixed(data []byte) {
	if w.err == nil {
		w.buffer = append(w.buffer, data...)
	}
}

// WriteCount8 writes an 8-bit element count.
func (w *Writer) WriteCount8(count int) {
	if w.checkLimit(count, math.MaxUint8) {
		w.WriteUint8(uint8(count))
	}
}

// WriteCount16 writes a 16-bit element count.
func (w *Writer) WriteCount16(count int) {
	if w.checkLimit(count, math.MaxUint16) {
		w.WriteUint16(uint16(count))
	}
}

// WriteCount64 writes a 64-bit element count.
func (w *Writer) WriteCount64(count int) {
	if w.checkLimit(count, math.MaxInt) {
		w.WriteUint64(uint64(count))
	}
}

// WriteBytes16 writes the given bytes preceded by their 16-bit length.
func (w *Writer) WriteBytes16(data []byte) {
	w.WriteCount16(len(data))
	w.WriteFixed(data)
}

func (w *Writer) checkLimit(count int, limit int) bool {
	if w.err != nil {
		return false
	}
	if count < 0 || count > limit {
		w.err = fmt.Errorf("%w: length %d exceeds limit %d", common.ErrMalformedEntry, count, limit)
		return false
	}
	return true
}
