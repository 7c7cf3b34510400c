// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import "encoding/binary"

// Serializer allows to convert the type to a slice of bytes and back.
// Serialized forms are used as database keys and as patricia tree paths, so
// numeric types are encoded big-endian to keep the byte order equal to the
// natural order.
type Serializer[T any] interface {
	// ToBytes serialize the type to bytes
	ToBytes(T) []byte
	// CopyBytes serialize the type into a provided slice
	CopyBytes(T, []byte)
	// FromBytes deserialize the type from bytes
	FromBytes([]byte) T
	// Size provides the size of the type when serialized (bytes)
	Size() int
}

// HeightSerializer is a Serializer of the Height type
type HeightSerializer struct{}

func (a HeightSerializer) ToBytes(value Height) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), uint64(value))
}
func (a HeightSerializer) CopyBytes(value Height, out []byte) {
	binary.BigEndian.PutUint64(out, uint64(value))
}
func (a HeightSerializer) FromBytes(bytes []byte) Height {
	return Height(binary.BigEndian.Uint64(bytes))
}
func (a HeightSerializer) Size() int {
	return 8
}

// MosaicIDSerializer is a Serializer of the MosaicID type
type MosaicIDSerializer struct{}

func (a MosaicIDSerializer) ToBytes(value MosaicID) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), uint64(value))
}
func (a MosaicIDSerializer) CopyBytes(value MosaicID, out []byte) {
	binary.BigEndian.PutUint64(out, uint64(value))
}
func (a MosaicIDSerializer) FromBytes(bytes []byte) MosaicID {
	return MosaicID(binary.BigEndian.Uint64(bytes))
}
func (a MosaicIDSerializer) Size() int {
	return 8
}

// KeySerializer is a Serializer of the Key type
type KeySerializer struct{}

func (a KeySerializer) ToBytes(key Key) []byte {
	return key[:]
}
func (a KeySerializer) CopyBytes(key Key, out []byte) {
	copy(out, key[:])
}
func (a KeySerializer) FromBytes(bytes []byte) Key {
	var key Key
	copy(key[:], bytes)
	return key
}
func (a KeySerializer) Size() int {
	return 32
}

// HashSerializer is a Serializer of the Hash type
type HashSerializer struct{}

func (a HashSerializer) ToBytes(hash Hash) []byte {
	return hash[:]
}
func (a HashSerializer) CopyBytes(hash Hash, out []byte) {
	copy(out, hash[:])
}
func (a HashSerializer) FromBytes(bytes []byte) Hash {
	var hash Hash
	copy(hash[:], bytes)
	return hash
}
func (a HashSerializer) Size() int {
	return 32
}
