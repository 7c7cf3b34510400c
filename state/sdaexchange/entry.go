// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sdaexchange holds the SDA-SDA exchange offers of each account.
//
// Every owner has one entry containing its active offers, keyed by the pair
// of exchanged mosaics, and a buffer of expired offers grouped by the height
// they expired at. Expired offers are kept until pruned so that expiry can be
// reverted on rollback.
package sdaexchange

import (
	"fmt"
	"sort"

	"github.com/proximax-storage/statecache/go/common"
)

const (
	// ErrOfferExists is reported when adding or restoring an offer for a
	// mosaic pair that already has an active offer.
	ErrOfferExists = common.ConstError("offer exists")
	// ErrOfferNotFound is reported when accessing an offer that does not
	// exist.
	ErrOfferNotFound = common.ConstError("offer not found")
	// ErrOfferAlreadyExpired is reported when expiring an offer twice at
	// the same height.
	ErrOfferAlreadyExpired = common.ConstError("offer already expired at height")
)

// MosaicsPair identifies an offer by the mosaic given and the mosaic
// requested in exchange.
type MosaicsPair struct {
	Give common.MosaicID
	Get  common.MosaicID
}

func (p MosaicsPair) String() string {
	return fmt.Sprintf("(%d, %d)", p.Give, p.Get)
}

func (p MosaicsPair) compare(other MosaicsPair) int {
	if c := common.CompareOrdered(p.Give, other.Give); c != 0 {
		return c
	}
	return common.CompareOrdered(p.Get, other.Get)
}

// OfferBalance tracks the remaining and initial amounts of an offer.
type OfferBalance struct {
	CurrentMosaicGive common.Amount
	CurrentMosaicGet  common.Amount
	InitialMosaicGive common.Amount
	InitialMosaicGet  common.Amount
	Deadline          common.Height
}

// Receive accounts for an amount of the requested mosaic received by the
// offer.
func (b *OfferBalance) Receive(amount common.Amount) {
	b.CurrentMosaicGet += amount
}

// Spend accounts for an amount of the offered mosaic handed out by the
// offer.
func (b *OfferBalance) Spend(amount common.Amount) {
	b.CurrentMosaicGive -= amount
}

// Offers maps mosaic pairs to offer balances.
type Offers map[MosaicsPair]*OfferBalance

// pairs lists the mosaic pairs in ascending order.
func (o Offers) pairs() []MosaicsPair {
	res := make([]MosaicsPair, 0, len(o))
	for pair := range o {
		res = append(res, pair)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].compare(res[j]) < 0 })
	return res
}

func (o Offers) clone() Offers {
	res := make(Offers, len(o))
	for pair, balance := range o {
		copied := *balance
		res[pair] = &copied
	}
	return res
}

// Entry holds all exchange offers of one owner.
type Entry struct {
	Owner   common.Key
	Offers  Offers
	Expired map[common.Height]Offers
}

func NewEntry(owner common.Key) *Entry {
	return &Entry{
		Owner:   owner,
		Offers:  Offers{},
		Expired: map[common.Height]Offers{},
	}
}

// OfferExists tests whether there is an active offer for the pair.
func (e *Entry) OfferExists(pair MosaicsPair) bool {
	_, found := e.Offers[pair]
	return found
}

// AddOffer creates an active offer of give in exchange for get, expiring at
// deadline.
func (e *Entry) AddOffer(pair MosaicsPair, give, get common.Amount, deadline common.Height) error {
	if e.OfferExists(pair) {
		return fmt.Errorf("%w: %v", ErrOfferExists, pair)
	}
	e.Offers[pair] = &OfferBalance{
		CurrentMosaicGive: give,
		CurrentMosaicGet:  get,
		InitialMosaicGive: give,
		InitialMosaicGet:  get,
		Deadline:          deadline,
	}
	return nil
}

// RemoveOffer drops the active offer for the pair, if present.
func (e *Entry) RemoveOffer(pair MosaicsPair) {
	delete(e.Offers, pair)
}

// Offer returns a mutable reference to the active offer for the pair.
func (e *Entry) Offer(pair MosaicsPair) (*OfferBalance, error) {
	res, found := e.Offers[pair]
	if !found {
		return nil, fmt.Errorf("%w: %v", ErrOfferNotFound, pair)
	}
	return res, nil
}

// ExpireOffer moves the active offer for the pair into the expired buffer of
// the given height.
func (e *Entry) ExpireOffer(pair MosaicsPair, height common.Height) error {
	offer, found := e.Offers[pair]
	if !found {
		return fmt.Errorf("%w: %v", ErrOfferNotFound, pair)
	}
	expired := e.Expired[height]
	if _, found := expired[pair]; found {
		return fmt.Errorf("%w: %v at %v", ErrOfferAlreadyExpired, pair, height)
	}
	if expired == nil {
		expired = Offers{}
		e.Expired[height] = expired
	}
	expired[pair] = offer
	delete(e.Offers, pair)
	return nil
}

// UnexpireOffer moves the offer for the pair from the expired buffer of the
// given height back to the active offers.
func (e *Entry) UnexpireOffer(pair MosaicsPair, height common.Height) error {
	if e.OfferExists(pair) {
		return fmt.Errorf("%w: %v", ErrOfferExists, pair)
	}
	offer, found := e.Expired[height][pair]
	if !found {
		return fmt.Errorf("%w: %v expired at %v", ErrOfferNotFound, pair, height)
	}
	e.Offers[pair] = offer
	e.removeExpired(pair, height)
	return nil
}

// ExpireOffers moves all active offers with the given deadline into the
// expired buffer of that height. The action, if any, is invoked for every
// expired offer in pair order.
func (e *Entry) ExpireOffers(height common.Height, action func(MosaicsPair, *OfferBalance)) error {
	for _, pair := range e.Offers.pairs() {
		offer := e.Offers[pair]
		if offer.Deadline != height {
			continue
		}
		if err := e.ExpireOffer(pair, height); err != nil {
			return err
		}
		if action != nil {
			action(pair, offer)
		}
	}
	return nil
}

// UnexpireOffers reverts ExpireOffers for the given height.
func (e *Entry) UnexpireOffers(height common.Height, action func(MosaicsPair, *OfferBalance)) error {
	for _, pair := range e.Expired[height].pairs() {
		offer := e.Expired[height][pair]
		if offer.Deadline != height {
			continue
		}
		if err := e.UnexpireOffer(pair, height); err != nil {
			return err
		}
		if action != nil {
			action(pair, offer)
		}
	}
	return nil
}

// MinExpiryHeight returns the earliest deadline of all active offers, or
// InvalidHeight if there are none.
func (e *Entry) MinExpiryHeight() common.Height {
	res := common.InvalidHeight
	for _, offer := range e.Offers {
		if res == common.InvalidHeight || offer.Deadline < res {
			res = offer.Deadline
		}
	}
	return res
}

// MinPruneHeight returns the lowest height of the expired buffer, or
// InvalidHeight if it is empty.
func (e *Entry) MinPruneHeight() common.Height {
	res := common.InvalidHeight
	for height := range e.Expired {
		if res == common.InvalidHeight || height < res {
			res = height
		}
	}
	return res
}

// PruneExpired drops all expired offers at or below the given height and
// returns the number of dropped offers.
func (e *Entry) PruneExpired(height common.Height) int {
	res := 0
	for expiredAt, offers := range e.Expired {
		if expiredAt <= height {
			res += len(offers)
			delete(e.Expired, expiredAt)
		}
	}
	return res
}

// Empty is true if the entry has neither active nor expired offers.
func (e *Entry) Empty() bool {
	return len(e.Offers) == 0 && len(e.Expired) == 0
}

// expiredHeights lists the heights of the expired buffer in ascending order.
func (e *Entry) expiredHeights() []common.Height {
	res := make([]common.Height, 0, len(e.Expired))
	for height := range e.Expired {
		res = append(res, height)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (e *Entry) removeExpired(pair MosaicsPair, height common.Height) {
	expired := e.Expired[height]
	delete(expired, pair)
	if len(expired) == 0 {
		delete(e.Expired, height)
	}
}

func (e *Entry) clone() *Entry {
	res := &Entry{
		Owner:   e.Owner,
		Offers:  e.Offers.clone(),
		Expired: make(map[common.Height]Offers, len(e.Expired)),
	}
	for height, offers := range e.Expired {
		res.Expired[height] = offers.clone()
	}
	return res
}
