// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockIndexer is a mock of Indexer interface.
type MockIndexer[K comparable] struct {
	ctrl     *gomock.Controller
	recorder *MockIndexerMockRecorder[K]
}

// MockIndexerMockRecorder is the mock recorder for MockIndexer.
type MockIndexerMockRecorder[K comparable] struct {
	mock *MockIndexer[K]
}

// NewMockIndexer creates a new mock instance.
func NewMockIndexer[K comparable](ctrl *gomock.Controller) *MockIndexer[K] {
	mock := &MockIndexer[K]{ctrl: ctrl}
	mock.recorder = &MockIndexerMockRecorder[K]{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIndexer[K]) EXPECT() *MockIndexerMockRecorder[K] {
	return m.recorder
}

// Insert mocks base method.
func (m *MockIndexer[K]) Insert(key K, serialized []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", key, serialized)
	ret0, _ := ret[0].(error)
	return ret0
}

// Insert indicates an expected call of Insert.
func (mr *MockIndexerMockRecorder[K]) Insert(key, serialized any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockIndexer[K])(nil).Insert), key, serialized)
}

// Remove mocks base method.
func (m *MockIndexer[K]) Remove(key K) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", key)
	ret0, _ := ret[0].(error)
	return ret0
}

// Remove indicates an expected call of Remove.
func (mr *MockIndexerMockRecorder[K]) Remove(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockIndexer[K])(nil).Remove), key)
}

// Update mocks base method.
func (m *MockIndexer[K]) Update(key K, serialized []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", key, serialized)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockIndexerMockRecorder[K]) Update(key, serialized any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockIndexer[K])(nil).Update), key, serialized)
}
