// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package grouping

import (
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

const summaryVersion = 1

// WriteSummary writes the heights of all groups as
// version:u32, count:u64, count x height:u64.
func WriteSummary(w *codec.Writer, heights []common.Height) {
	w.WriteUint32(summaryVersion)
	w.WriteCount64(len(heights))
	for _, height := range heights {
		w.WriteHeight(height)
	}
}

// ReadSummary parses heights written by WriteSummary.
func ReadSummary(r *codec.Reader) ([]common.Height, error) {
	r.ReadVersion(summaryVersion)
	count := r.ReadCount64(heightSize)
	if err := r.Err(); err != nil {
		return nil, err
	}
	res := make([]common.Height, 0, count)
	for i := 0; i < count; i++ {
		res = append(res, r.ReadHeight())
	}
	return res, r.Err()
}
