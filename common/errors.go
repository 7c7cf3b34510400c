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

// ConstError is a error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrDuplicateKey is reported when inserting an entry whose key is
	// already present.
	ErrDuplicateKey = ConstError("duplicate key")

	// ErrMissingKey is reported when removing or mutably accessing an
	// entry that is not present.
	ErrMissingKey = ConstError("missing key")

	// ErrStaleDelta is reported when a delta is used after the canonical
	// state it was derived from has been superseded by another commit.
	ErrStaleDelta = ConstError("stale delta")

	// ErrMalformedEntry is reported by entry codecs for unsupported
	// versions and declared lengths exceeding the available input.
	ErrMalformedEntry = ConstError("malformed entry")

	// ErrConfigurationNotFound is reported if no configuration is active
	// at a requested height.
	ErrConfigurationNotFound = ConstError("configuration not found")

	// ErrPruningInconsistency is reported when a commit would move the
	// state to a height at or below an already pruned boundary.
	ErrPruningInconsistency = ConstError("pruning inconsistency")

	// ErrHeightNotRetained is reported when a view is requested for a
	// height no longer (or not yet) retained by a cache.
	ErrHeightNotRetained = ConstError("height not retained")

	// ErrCorruptedState is reported when persisted state does not
	// reproduce its recorded root hash.
	ErrCorruptedState = ConstError("corrupted state")
)
