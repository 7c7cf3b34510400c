// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/proximax-storage/statecache/go/common"
)

// Reader decodes serialized entries. A read exceeding the available data
// fails with common.ErrMalformedEntry; the first error is retained and all
// subsequent reads produce zero values.
type Reader struct {
	data []byte
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error encountered while reading.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data)
}

// ReadVersion reads an entry format version and checks that it is in the
// range [1, supported].
func (r *Reader) ReadVersion(supported uint32) uint32 {
	version := r.ReadUint32()
	if r.err == nil && (version == 0 || version > supported) {
		r.err = fmt.Errorf("%w: unsupported version %d, supported up to %d", common.ErrMalformedEntry, version, supported)
		return 0
	}
	return version
}

func (r *Reader) ReadUint8() uint8 {
	if data := r.take(1); data != nil {
		return data[0]
	}
	return 0
}

func (r *Reader) ReadUint16() uint16 {
	if data := r.take(2); data != nil {
		return binary.LittleEndian.Uint16(data)
	}
	return 0
}

func (r *Reader) ReadUint32() uint32 {
	if data := r.take(4); data != nil {
		return binary.LittleEndian.Uint32(data)
	}
	return 0
}

func (r *Reader) ReadUint64() uint64 {
	if data := r.take(8); data != nil {
		return binary.LittleEndian.Uint64(data)
	}
	return 0
}

func (r *Reader) ReadHeight() common.Height {
	return common.Height(r.ReadUint64())
}

func (r *Reader) ReadKey() common.Key {
	var res common.Key
	copy(res[:], r.take(len(res)))
	return res
}

func (r *Reader) ReadHash() common.Hash {
	var res common.Hash
	copy(res[:], r.take(len(res)))
	return res
}

// ReadFixed reads the given number of bytes. The result is a copy, nil for
// an empty read.
func (r *Reader) ReadFixed(size int) []byte {
	data := r.take(size)
	if len(data) == 0 {
		return nil
	}
	res := make([]byte, size)
	copy(res, data)
	return res
}

// ReadCount8 reads an 8-bit element count and verifies that the declared
// elements of the given size fit into the remaining data.
func (r *Reader) ReadCount8(elementSize int) int {
	return r.checkCount(int(r.ReadUint8()), elementSize)
}

// ReadCount16 reads a 16-bit element count and verifies that the declared
// elements of the given size fit into the remaining data.
func (r *Reader) ReadCount16(elementSize int) int {
	return r.checkCount(int(r.ReadUint16()), elementSize)
}

// ReadCount64 reads a 64-bit element count and verifies that the declared
// elements of the given size fit into the remaining data.
func (r *Reader) ReadCount64(elementSize int) int {
	count := r.ReadUint64()
	if r.err != nil {
		return 0
	}
	if count > uint64(len(r.data)/elementSize) {
		r.err = fmt.Errorf("%w: declared %d elements of %d bytes, available %d bytes", common.ErrMalformedEntry, count, elementSize, len(r.data))
		return 0
	}
	return int(count)
}

// ReadBytes16 reads bytes preceded by their 16-bit length.
func (r *Reader) ReadBytes16() []byte {
	size := r.ReadCount16(1)
	if r.err != nil {
		return nil
	}
	return r.ReadFixed(size)
}

func (r *Reader) checkCount(count int, elementSize int) int {
	if r.err != nil {
		return 0
	}
	if declared := count * elementSize; declared > len(r.data) {
		r.err = fmt.Errorf("%w: declared %d bytes, available %d", common.ErrMalformedEntry, declared, len(r.data))
		return 0
	}
	return count
}

func (r *Reader) take(size int) []byte {
	if r.err != nil {
		return nil
	}
	if size > len(r.data) {
		r.err = fmt.Errorf("%w: declared %d bytes, available %d", common.ErrMalformedEntry, size, len(r.data))
		return nil
	}
	res := r.data[:size]
	r.data = r.data[size:]
	return res
}
