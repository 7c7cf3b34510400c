// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package liquidityprovider keeps the liquidity provider of each mosaic
// together with the turnover history used for slashing.
package liquidityprovider

import (
	"math/bits"

	"github.com/proximax-storage/statecache/go/common"
)

// ExchangeRate is the ratio of currency to mosaic held by a provider.
type ExchangeRate struct {
	CurrencyAmount common.Amount
	MosaicAmount   common.Amount
}

// Less compares the currency price of one mosaic unit.
func (r ExchangeRate) Less(other ExchangeRate) bool {
	// r.c / r.m < o.c / o.m  <=>  r.c * o.m < o.c * r.m
	lh, ll := bits.Mul64(uint64(r.CurrencyAmount), uint64(other.MosaicAmount))
	rh, rl := bits.Mul64(uint64(other.CurrencyAmount), uint64(r.MosaicAmount))
	return lh < rh || (lh == rh && ll < rl)
}

// HistoryObservation records the rate at the start of a slashing period and
// the turnover accumulated within it.
type HistoryObservation struct {
	Rate     ExchangeRate
	Turnover common.Amount
}

type Entry struct {
	MosaicID           common.MosaicID
	ProviderKey        common.Key
	Owner              common.Key
	AdditionallyMinted common.Amount
	SlashingAccount    common.Key
	SlashingPeriod     uint32
	WindowSize         uint16
	CreationHeight     common.Height
	Alpha              uint32
	Beta               uint32
	TurnoverHistory    []HistoryObservation
	RecentTurnover     HistoryObservation
}

func NewEntry(mosaicID common.MosaicID) *Entry {
	return &Entry{MosaicID: mosaicID}
}

// AddTurnover accounts an exchanged amount in the current period.
func (e *Entry) AddTurnover(amount common.Amount) {
	e.RecentTurnover.Turnover += amount
}

// IsSlashingHeight is true at the end of every slashing period after
// creation.
func (e *Entry) IsSlashingHeight(height common.Height) bool {
	if e.SlashingPeriod == 0 || height <= e.CreationHeight {
		return false
	}
	return uint64(height-e.CreationHeight)%uint64(e.SlashingPeriod) == 0
}

// CompletePeriod moves the recent observation into the history, keeping at
// most WindowSize observations, and starts a new period at the given rate.
func (e *Entry) CompletePeriod(rate ExchangeRate) {
	if e.WindowSize > 0 {
		e.TurnoverHistory = append(e.TurnoverHistory, e.RecentTurnover)
		if over := len(e.TurnoverHistory) - int(e.WindowSize); over > 0 {
			e.TurnoverHistory = append(e.TurnoverHistory[:0], e.TurnoverHistory[over:]...)
		}
	}
	e.RecentTurnover = HistoryObservation{Rate: rate}
}

// MaxTurnoverObservation returns the first observation of the history with
// the highest turnover.
func (e *Entry) MaxTurnoverObservation() (HistoryObservation, bool) {
	if len(e.TurnoverHistory) == 0 {
		return HistoryObservation{}, false
	}
	res := e.TurnoverHistory[0]
	for _, cur := range e.TurnoverHistory[1:] {
		if res.Turnover < cur.Turnover {
			res = cur
		}
	}
	return res, true
}

func (e *Entry) clone() *Entry {
	res := *e
	if e.TurnoverHistory != nil {
		res.TurnoverHistory = make([]HistoryObservation, len(e.TurnoverHistory))
		copy(res.TurnoverHistory, e.TurnoverHistory)
	}
	return &res
}
