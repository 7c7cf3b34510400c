// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package config

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	common "github.com/proximax-storage/statecache/go/common"
	networkconfig "github.com/proximax-storage/statecache/go/state/networkconfig"
)

// MockEntrySource is a mock of EntrySource interface.
type MockEntrySource struct {
	ctrl     *gomock.Controller
	recorder *MockEntrySourceMockRecorder
}

// MockEntrySourceMockRecorder is the mock recorder for MockEntrySource.
type MockEntrySourceMockRecorder struct {
	mock *MockEntrySource
}

// NewMockEntrySource creates a new mock instance.
func NewMockEntrySource(ctrl *gomock.Controller) *MockEntrySource {
	mock := &MockEntrySource{ctrl: ctrl}
	mock.recorder = &MockEntrySourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockEntrySource) EXPECT() *MockEntrySourceMockRecorder {
	return m.recorder
}

// FindFloor mocks base method.
func (m *MockEntrySource) FindFloor(height common.Height) (*networkconfig.Entry, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindFloor", height)
	ret0, _ := ret[0].(*networkconfig.Entry)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// FindFloor indicates an expected call of FindFloor.
func (mr *MockEntrySourceMockRecorder) FindFloor(height any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindFloor", reflect.TypeOf((*MockEntrySource)(nil).FindFloor), height)
}

// Height mocks base method.
func (m *MockEntrySource) Height() common.Height {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Height")
	ret0, _ := ret[0].(common.Height)
	return ret0
}

// Height indicates an expected call of Height.
func (mr *MockEntrySourceMockRecorder) Height() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Height", reflect.TypeOf((*MockEntrySource)(nil).Height))
}
