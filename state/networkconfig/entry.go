// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package networkconfig holds the network configuration entries of the
// chain. Each entry carries the configuration payload becoming active at its
// height; the configuration active at any height H is the entry with the
// greatest height not exceeding H.
package networkconfig

import (
	"github.com/proximax-storage/statecache/go/common"
)

// Entry is a network configuration scheduled to become active at Height.
type Entry struct {
	Height common.Height
	// NetworkConfig is the property-file payload of the configuration.
	NetworkConfig string
	// SupportedEntityVersions is the JSON list of entity versions accepted
	// while the configuration is active.
	SupportedEntityVersions string
}

func NewEntry(height common.Height, networkConfig, supportedEntityVersions string) *Entry {
	return &Entry{
		Height:                  height,
		NetworkConfig:           networkConfig,
		SupportedEntityVersions: supportedEntityVersions,
	}
}
