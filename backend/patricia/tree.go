// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package patricia implements a persistent hexary Merkle-Patricia trie
// committing to the content of a cache.
//
// Trees are immutable. Every update returns a new Tree sharing all untouched
// nodes with its predecessor, so branching a tree is free and older versions
// stay valid for as long as they are referenced. The shape of the trie is
// canonical, thus the root hash depends only on the set of stored leaves and
// not on the order of updates.
package patricia

import (
	"github.com/proximax-storage/statecache/go/common"
	"golang.org/x/exp/slices"
)

// Tree is an immutable trie version.
type Tree struct {
	hashFunc common.HashFunc
	root     node
	size     int
}

// New creates an empty tree hashing nodes with the given function.
func New(hashFunc common.HashFunc) *Tree {
	if hashFunc == nil {
		hashFunc = common.Keccak256
	}
	return &Tree{hashFunc: hashFunc}
}

// Root returns the root hash of the tree. The root of an empty tree is the
// zero hash.
func (t *Tree) Root() common.Hash {
	if t.root == nil {
		return common.Hash{}
	}
	return t.root.hash()
}

// Size returns the number of leaves.
func (t *Tree) Size() int {
	return t.size
}

// Get returns the value hash stored at the given path.
func (t *Tree) Get(path common.Hash) (common.Hash, bool) {
	rest := toNibbles(path[:])
	cur := t.root
	for {
		switch n := cur.(type) {
		case nil:
			return common.Hash{}, false
		case *leafNode:
			if slices.Equal(n.path, rest) {
				return n.value, true
			}
			return common.Hash{}, false
		case *extensionNode:
			if !isPrefixOf(n.path, rest) {
				return common.Hash{}, false
			}
			rest = rest[len(n.path):]
			cur = n.child
		case *branchNode:
			cur = n.children[rest[0]]
			rest = rest[1:]
		}
	}
}

// Set produces a tree in which the given path maps to the given value hash.
func (t *Tree) Set(path common.Hash, value common.Hash) *Tree {
	root, added := t.set(t.root, toNibbles(path[:]), value)
	res := &Tree{hashFunc: t.hashFunc, root: root, size: t.size}
	if added {
		res.size++
	}
	return res
}

// Delete produces a tree without the given path. The receiver is returned if
// the path is not present.
func (t *Tree) Delete(path common.Hash) *Tree {
	root, changed := t.delete(t.root, toNibbles(path[:]))
	if !changed {
		return t
	}
	return &Tree{hashFunc: t.hashFunc, root: root, size: t.size - 1}
}

func (t *Tree) set(cur node, path []Nibble, value common.Hash) (node, bool) {
	switch n := cur.(type) {
	case nil:
		return newLeaf(t.hashFunc, path, value), true
	case *leafNode:
		if slices.Equal(n.path, path) {
			if n.value == value {
				return n, false
			}
			return newLeaf(t.hashFunc, path, value), false
		}
		// all paths have the same length, so they differ before their end
		split := getCommonPrefixLength(n.path, path)
		var children [16]node
		children[n.path[split]] = newLeaf(t.hashFunc, n.path[split+1:], n.value)
		children[path[split]] = newLeaf(t.hashFunc, path[split+1:], value)
		return t.join(path[:split], newBranch(t.hashFunc, children)), true
	case *extensionNode:
		split := getCommonPrefixLength(n.path, path)
		if split == len(n.path) {
			child, added := t.set(n.child, path[split:], value)
			return newExtension(t.hashFunc, n.path, child), added
		}
		var children [16]node
		children[n.path[split]] = t.join(n.path[split+1:], n.child)
		children[path[split]] = newLeaf(t.hashFunc, path[split+1:], value)
		return t.join(path[:split], newBranch(t.hashFunc, children)), true
	case *branchNode:
		children := n.children
		child, added := t.set(children[path[0]], path[1:], value)
		children[path[0]] = child
		return newBranch(t.hashFunc, children), added
	}
	panic("unsupported node type")
}

func (t *Tree) delete(cur node, path []Nibble) (node, bool) {
	switch n := cur.(type) {
	case nil:
		return nil, false
	case *leafNode:
		if slices.Equal(n.path, path) {
			return nil, true
		}
		return n, false
	case *extensionNode:
		if !isPrefixOf(n.path, path) {
			return n, false
		}
		child, changed := t.delete(n.child, path[len(n.path):])
		if !changed {
			return n, false
		}
		if child == nil {
			return nil, true
		}
		return t.join(n.path, child), true
	case *branchNode:
		child, changed := t.delete(n.children[path[0]], path[1:])
		if !changed {
			return n, false
		}
		children := n.children
		children[path[0]] = child
		count, last := 0, 0
		for i, c := range children {
			if c != nil {
				count++
				last = i
			}
		}
		switch count {
		case 0:
			return nil, true
		case 1:
			return t.join([]Nibble{Nibble(last)}, children[last]), true
		}
		return newBranch(t.hashFunc, children), true
	}
	panic("unsupported node type")
}

// join prefixes the given node with a path, merging consecutive path
// segments to keep the trie canonical.
func (t *Tree) join(prefix []Nibble, child node) node {
	if len(prefix) == 0 {
		return child
	}
	switch n := child.(type) {
	case *leafNode:
		return newLeaf(t.hashFunc, concat(prefix, n.path), n.value)
	case *extensionNode:
		return newExtension(t.hashFunc, concat(prefix, n.path), n.child)
	}
	return newExtension(t.hashFunc, prefix, child)
}
