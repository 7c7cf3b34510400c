// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

//go:generate mockgen -source indexer.go -destination indexer_mocks.go -package cache

// Indexer mirrors committed cache content into an external store. It is
// called once per changed key, in key order, after a commit has been
// published. Detached and failed commits are never reported.
type Indexer[K comparable] interface {
	// Insert is called for keys added by a commit.
	Insert(key K, serialized []byte) error
	// Update is called for keys whose entries were replaced or modified.
	Update(key K, serialized []byte) error
	// Remove is called for keys removed by a commit.
	Remove(key K) error
}
