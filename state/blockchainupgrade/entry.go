// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package blockchainupgrade holds the blockchain-level configuration: the
// node software version required from a height onwards.
package blockchainupgrade

import (
	"fmt"

	"github.com/proximax-storage/statecache/go/common"
)

// BlockChainVersion packs major, minor, revision and build numbers into
// 16 bits each, major in the highest bits.
type BlockChainVersion uint64

func NewBlockChainVersion(major, minor, revision, build uint16) BlockChainVersion {
	return BlockChainVersion(uint64(major)<<48 | uint64(minor)<<32 | uint64(revision)<<16 | uint64(build))
}

func (v BlockChainVersion) Major() uint16    { return uint16(v >> 48) }
func (v BlockChainVersion) Minor() uint16    { return uint16(v >> 32) }
func (v BlockChainVersion) Revision() uint16 { return uint16(v >> 16) }
func (v BlockChainVersion) Build() uint16    { return uint16(v) }

func (v BlockChainVersion) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Revision(), v.Build())
}

// Entry schedules a blockchain version upgrade at Height.
type Entry struct {
	Height            common.Height
	BlockChainVersion BlockChainVersion
}
