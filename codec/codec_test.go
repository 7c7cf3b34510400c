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
	"errors"
	"testing"

	"github.com/proximax-storage/statecache/go/common"
	"github.com/stretchr/testify/require"
)

type sample struct {
	id      uint64
	owner   common.Key
	payload []byte
	items   []uint32
}

type sampleSerializer struct{}

func (sampleSerializer) Save(value *sample, w *Writer) {
	w.WriteUint32(1)
	w.WriteUint64(value.id)
	w.WriteKey(value.owner)
	w.WriteBytes16(value.payload)
	w.WriteCount8(len(value.items))
	for _, item := range value.items {
		w.WriteUint32(item)
	}
}

func (sampleSerializer) Load(r *Reader) (*sample, error) {
	r.ReadVersion(1)
	res := &sample{
		id:      r.ReadUint64(),
		owner:   r.ReadKey(),
		payload: r.ReadBytes16(),
	}
	count := r.ReadCount8(4)
	for i := 0; i < count; i++ {
		res.items = append(res.items, r.ReadUint32())
	}
	return res, r.Err()
}

type sampleSet map[uint64]*sample

func (s sampleSet) Contains(key uint64) bool {
	_, found := s[key]
	return found
}

func (s sampleSet) Insert(value *sample) error {
	if s.Contains(value.id) {
		return common.ErrDuplicateKey
	}
	s[value.id] = value
	return nil
}

func sampleKey(value *sample) uint64 {
	return value.id
}

func TestCodec_WriterUsesLittleEndian(t *testing.T) {
	w := NewWriter()
	w.WriteUint16(0x0102)
	w.WriteUint32(0x03040506)
	w.WriteHeight(7)
	require.NoError(t, w.Err())
	require.Equal(t, []byte{2, 1, 6, 5, 4, 3, 7, 0, 0, 0, 0, 0, 0, 0}, w.Bytes())
}

func TestCodec_SerializeDeserializeRestoresEntry(t *testing.T) {
	value := &sample{id: 12, owner: common.Key{1, 2}, payload: []byte("abc"), items: []uint32{4, 5}}
	data, err := Serialize[sample](sampleSerializer{}, value)
	require.NoError(t, err)
	restored, err := Deserialize[sample](sampleSerializer{}, data)
	require.NoError(t, err)
	require.Equal(t, value, restored)
}

func TestCodec_OversizedCountFailsOnWrite(t *testing.T) {
	value := &sample{items: make([]uint32, 256)}
	_, err := Serialize[sample](sampleSerializer{}, value)
	require.True(t, errors.Is(err, common.ErrMalformedEntry), "got %v", err)
}

func TestCodec_DeclaredLengthExceedingInputFails(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(1)
	w.WriteUint64(1)
	w.WriteKey(common.Key{})
	w.WriteUint16(100) // declares 100 payload bytes
	w.WriteFixed([]byte("short"))

	_, err := Deserialize[sample](sampleSerializer{}, w.Bytes())
	require.ErrorIs(t, err, common.ErrMalformedEntry)
	require.Contains(t, err.Error(), "declared 100 bytes, available 5")
}

func TestCodec_TruncatedInputFails(t *testing.T) {
	data, err := Serialize[sample](sampleSerializer{}, &sample{id: 1, items: []uint32{1, 2, 3}})
	require.NoError(t, err)
	for i := 0; i < len(data); i++ {
		_, err := Deserialize[sample](sampleSerializer{}, data[:i])
		require.ErrorIs(t, err, common.ErrMalformedEntry, "truncated to %d bytes", i)
	}
}

func TestCodec_TrailingBytesFail(t *testing.T) {
	data, err := Serialize[sample](sampleSerializer{}, &sample{id: 1})
	require.NoError(t, err)
	_, err = Deserialize[sample](sampleSerializer{}, append(data, 0))
	require.ErrorIs(t, err, common.ErrMalformedEntry)
}

func TestCodec_UnsupportedVersionsFail(t *testing.T) {
	for _, version := range []uint32{0, 2} {
		r := NewReader([]byte{byte(version), 0, 0, 0})
		r.ReadVersion(1)
		require.ErrorIs(t, r.Err(), common.ErrMalformedEntry, "version %d", version)
	}
}

func TestCodec_LoadIntoSkipsPresentKeys(t *testing.T) {
	first, err := Serialize[sample](sampleSerializer{}, &sample{id: 1, payload: []byte("first")})
	require.NoError(t, err)
	second, err := Serialize[sample](sampleSerializer{}, &sample{id: 1, payload: []byte("second")})
	require.NoError(t, err)

	target := sampleSet{}
	inserted, err := LoadInto[uint64, sample](sampleSerializer{}, sampleKey, first, target)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = LoadInto[uint64, sample](sampleSerializer{}, sampleKey, second, target)
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, []byte("first"), target[1].payload)
}

func TestCodec_LoadIntoReportsMalformedData(t *testing.T) {
	_, err := LoadInto[uint64, sample](sampleSerializer{}, sampleKey, []byte{1}, sampleSet{})
	require.ErrorIs(t, err, common.ErrMalformedEntry)
}
