// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sdaoffergroup indexes exchange offers sharing the same mosaic pair
// and initial exchange rate. Matching uses the group to pick counter offers
// in one of several arrangements.
package sdaoffergroup

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/proximax-storage/statecache/go/common"
)

const (
	// ErrOwnerExists is reported when an owner places a second offer in the
	// same group.
	ErrOwnerExists = common.ConstError("owner already has an offer in group")
	// ErrOwnerNotFound is reported when accessing an owner without an offer
	// in the group.
	ErrOwnerNotFound = common.ConstError("owner has no offer in group")
)

// OfferBasicInfo is the part of an exchange offer needed for matching.
type OfferBasicInfo struct {
	Owner      common.Key
	MosaicGive common.Amount
	Deadline   common.Height
}

func compareByAmount(a, b *OfferBasicInfo) int {
	if c := common.CompareOrdered(a.MosaicGive, b.MosaicGive); c != 0 {
		return c
	}
	return a.Owner.Compare(b.Owner)
}

// Entry lists the offers of one group ordered by amount, then owner.
type Entry struct {
	GroupHash common.Hash
	Offers    []OfferBasicInfo
}

func NewEntry(groupHash common.Hash) *Entry {
	return &Entry{GroupHash: groupHash}
}

// GroupHash computes the hash identifying the group of offers exchanging
// give for get at the rate initialGive/initialGet. Rates are reduced, so
// offers 10/4 and 5/2 share a group.
func GroupHash(hashFunc common.HashFunc, give, get common.MosaicID, initialGive, initialGet common.Amount) common.Hash {
	data := make([]byte, 16, 64)
	binary.LittleEndian.PutUint64(data[0:], uint64(give))
	binary.LittleEndian.PutUint64(data[8:], uint64(get))
	data = append(data, reducedFraction(initialGive, initialGet)...)
	return hashFunc(data)
}

func reducedFraction(numerator, denominator common.Amount) string {
	a, b := numerator, denominator
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", numerator/a, denominator/a)
}

func (e *Entry) position(owner common.Key) int {
	for i := range e.Offers {
		if e.Offers[i].Owner == owner {
			return i
		}
	}
	return -1
}

// AddOffer registers the offer of an owner in the group.
func (e *Entry) AddOffer(offer OfferBasicInfo) error {
	if e.position(offer.Owner) >= 0 {
		return fmt.Errorf("%w: %v", ErrOwnerExists, offer.Owner)
	}
	i := sort.Search(len(e.Offers), func(i int) bool {
		return compareByAmount(&e.Offers[i], &offer) > 0
	})
	e.Offers = append(e.Offers, OfferBasicInfo{})
	copy(e.Offers[i+1:], e.Offers[i:])
	e.Offers[i] = offer
	return nil
}

// RemoveOffer drops the offer of the given owner.
func (e *Entry) RemoveOffer(owner common.Key) error {
	i := e.position(owner)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrOwnerNotFound, owner)
	}
	e.Offers = append(e.Offers[:i], e.Offers[i+1:]...)
	return nil
}

// UpdateOffer replaces the remaining amount and deadline of the offer of
// the given owner.
func (e *Entry) UpdateOffer(owner common.Key, amount common.Amount, deadline common.Height) error {
	if err := e.RemoveOffer(owner); err != nil {
		return err
	}
	return e.AddOffer(OfferBasicInfo{Owner: owner, MosaicGive: amount, Deadline: deadline})
}

// Empty is true if no offers are left in the group.
func (e *Entry) Empty() bool {
	return len(e.Offers) == 0
}

// SmallToBig lists the offers by ascending amount.
func (e *Entry) SmallToBig() []OfferBasicInfo {
	return e.arrange(func(a, b *OfferBasicInfo) bool {
		return a.MosaicGive < b.MosaicGive
	})
}

// BigToSmall lists the offers by descending amount.
func (e *Entry) BigToSmall() []OfferBasicInfo {
	return e.arrange(func(a, b *OfferBasicInfo) bool {
		return a.MosaicGive > b.MosaicGive
	})
}

// SmallToBigSortedByEarliestExpiry lists the offers by deadline, and offers
// with the same deadline by ascending amount.
func (e *Entry) SmallToBigSortedByEarliestExpiry() []OfferBasicInfo {
	return e.arrange(func(a, b *OfferBasicInfo) bool {
		if a.Deadline != b.Deadline {
			return a.Deadline < b.Deadline
		}
		return a.MosaicGive < b.MosaicGive
	})
}

// BigToSmallSortedByEarliestExpiry lists the offers by deadline, and offers
// with the same deadline by descending amount.
func (e *Entry) BigToSmallSortedByEarliestExpiry() []OfferBasicInfo {
	return e.arrange(func(a, b *OfferBasicInfo) bool {
		if a.Deadline != b.Deadline {
			return a.Deadline < b.Deadline
		}
		return a.MosaicGive > b.MosaicGive
	})
}

// ExactOrClosest lists the offers by the distance of their amount to the
// target amount.
func (e *Entry) ExactOrClosest(target common.Amount) []OfferBasicInfo {
	distance := func(amount common.Amount) common.Amount {
		if amount > target {
			return amount - target
		}
		return target - amount
	}
	return e.arrange(func(a, b *OfferBasicInfo) bool {
		return distance(a.MosaicGive) < distance(b.MosaicGive)
	})
}

// arrange produces a sorted copy; ties keep the stored order.
func (e *Entry) arrange(less func(a, b *OfferBasicInfo) bool) []OfferBasicInfo {
	res := make([]OfferBasicInfo, len(e.Offers))
	copy(res, e.Offers)
	sort.SliceStable(res, func(i, j int) bool { return less(&res[i], &res[j]) })
	return res
}

func (e *Entry) clone() *Entry {
	res := &Entry{GroupHash: e.GroupHash}
	if e.Offers != nil {
		res.Offers = make([]OfferBasicInfo, len(e.Offers))
		copy(res.Offers, e.Offers)
	}
	return res
}
