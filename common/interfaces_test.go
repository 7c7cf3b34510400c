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

import "testing"

func Test_MapEntry_String(t *testing.T) {
	e := MapEntry[Height, int]{10, 20}

	if got, want := e.String(), "Entry: 10 -> 20"; got != want {
		t.Errorf("provided string does not match: %s != %s", got, want)
	}
}

func TestHeight_String(t *testing.T) {
	if got, want := Height(42).String(), "42"; got != want {
		t.Errorf("unexpected height string, wanted %s, got %s", want, got)
	}
	if got, want := HeightOfLatest.String(), "latest"; got != want {
		t.Errorf("unexpected height string, wanted %s, got %s", want, got)
	}
}

func TestCompareOrdered(t *testing.T) {
	tests := []struct {
		a, b Height
		want int
	}{
		{1, 2, -1},
		{2, 2, 0},
		{3, 2, 1},
	}
	for _, test := range tests {
		if got := CompareOrdered(test.a, test.b); got != test.want {
			t.Errorf("CompareOrdered(%d, %d) = %d, wanted %d", test.a, test.b, got, test.want)
		}
	}
}

func TestKey_CompareIsByteOrder(t *testing.T) {
	a := Key{1}
	b := Key{2}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Errorf("keys are not ordered by bytes")
	}
}
