// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package patricia

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/proximax-storage/statecache/go/common"
)

// node is an immutable trie node. Its hash is computed when the node is
// created, so shared sub-trees are never re-hashed.
type node interface {
	hash() common.Hash
}

// leafNode references the hash of an entry value through the remaining
// suffix of its path.
type leafNode struct {
	path  []Nibble
	value common.Hash
	h     common.Hash
}

// extensionNode shortcuts a path segment shared by all leaves below it. The
// child is always a branch.
type extensionNode struct {
	path  []Nibble
	child node
	h     common.Hash
}

type branchNode struct {
	children [16]node
	h        common.Hash
}

func (n *leafNode) hash() common.Hash      { return n.h }
func (n *extensionNode) hash() common.Hash { return n.h }
func (n *branchNode) hash() common.Hash    { return n.h }

func newLeaf(hashFunc common.HashFunc, path []Nibble, value common.Hash) *leafNode {
	return &leafNode{
		path:  path,
		value: value,
		h:     hashFunc(encode([][]byte{encodePath(path, true), value[:]})),
	}
}

func newExtension(hashFunc common.HashFunc, path []Nibble, child node) *extensionNode {
	childHash := child.hash()
	return &extensionNode{
		path:  path,
		child: child,
		h:     hashFunc(encode([][]byte{encodePath(path, false), childHash[:]})),
	}
}

func newBranch(hashFunc common.HashFunc, children [16]node) *branchNode {
	items := make([][]byte, len(children))
	for i, child := range children {
		if child == nil {
			items[i] = []byte{}
			continue
		}
		h := child.hash()
		items[i] = h[:]
	}
	return &branchNode{
		children: children,
		h:        hashFunc(encode(items)),
	}
}

func encode(items [][]byte) []byte {
	res, err := rlp.EncodeToBytes(items)
	if err != nil {
		panic(fmt.Sprintf("failed to encode trie node: %v", err))
	}
	return res
}
