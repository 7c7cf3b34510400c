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
	"fmt"

	"github.com/proximax-storage/statecache/go/common"
)

// Serializer converts entries of one kind from and to their binary form.
type Serializer[V any] interface {
	// Save writes the given entry including its format version.
	Save(value *V, w *Writer)
	// Load parses an entry written by Save.
	Load(r *Reader) (*V, error)
}

// Serialize produces the binary form of the given entry.
func Serialize[V any](serializer Serializer[V], value *V) ([]byte, error) {
	w := NewWriter()
	serializer.Save(value, w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Deserialize parses a complete entry. Trailing bytes are reported as a
// malformed entry.
func Deserialize[V any](serializer Serializer[V], data []byte) (*V, error) {
	r := NewReader(data)
	res, err := serializer.Load(r)
	if err == nil {
		err = r.Err()
	}
	if err != nil {
		return nil, err
	}
	if r.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d unexpected trailing bytes", common.ErrMalformedEntry, r.Remaining())
	}
	return res, nil
}

// Target is a collection receiving entries during a bulk reload.
type Target[K comparable, V any] interface {
	Contains(key K) bool
	Insert(value *V) error
}

// LoadInto parses a single entry and inserts it into the target unless an
// entry with the same key is already present. It reports whether the entry
// has been inserted. Secondary indices of the target are not updated.
func LoadInto[K comparable, V any](
	serializer Serializer[V],
	keyOf func(*V) K,
	data []byte,
	target Target[K, V],
) (bool, error) {
	value, err := Deserialize(serializer, data)
	if err != nil {
		return false, err
	}
	if target.Contains(keyOf(value)) {
		return false, nil
	}
	if err := target.Insert(value); err != nil {
		return false, err
	}
	return true, nil
}
