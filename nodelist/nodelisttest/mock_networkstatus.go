// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelisttest

import (
	"reflect"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/nodelist"
)

// MockNetworkStatus is a gomock mock of nodelist.NetworkStatus, written
// by hand in the shape mockgen would produce.
type MockNetworkStatus struct {
	ctrl     *gomock.Controller
	recorder *MockNetworkStatusMockRecorder
}

type MockNetworkStatusMockRecorder struct {
	mock *MockNetworkStatus
}

func NewMockNetworkStatus(ctrl *gomock.Controller) *MockNetworkStatus {
	mock := &MockNetworkStatus{ctrl: ctrl}
	mock.recorder = &MockNetworkStatusMockRecorder{mock}
	return mock
}

func (m *MockNetworkStatus) EXPECT() *MockNetworkStatusMockRecorder {
	return m.recorder
}

func (m *MockNetworkStatus) GetLatestConsensus() *directory.Consensus {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLatestConsensus")
	ret0, _ := ret[0].(*directory.Consensus)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) GetLatestConsensus() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLatestConsensus", reflect.TypeOf((*MockNetworkStatus)(nil).GetLatestConsensus))
}

func (m *MockNetworkStatus) GetLatestConsensusByFlavor(flavor directory.Flavor) *directory.Consensus {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLatestConsensusByFlavor", flavor)
	ret0, _ := ret[0].(*directory.Consensus)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) GetLatestConsensusByFlavor(flavor any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLatestConsensusByFlavor", reflect.TypeOf((*MockNetworkStatus)(nil).GetLatestConsensusByFlavor), flavor)
}

func (m *MockNetworkStatus) GetRouterDigestByNickname(name string) (identity.Fingerprint, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetRouterDigestByNickname", name)
	ret0, _ := ret[0].(identity.Fingerprint)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

func (mr *MockNetworkStatusMockRecorder) GetRouterDigestByNickname(name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetRouterDigestByNickname", reflect.TypeOf((*MockNetworkStatus)(nil).GetRouterDigestByNickname), name)
}

func (m *MockNetworkStatus) NicknameIsUnnamed(name string) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NicknameIsUnnamed", name)
	ret0, _ := ret[0].(bool)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) NicknameIsUnnamed(name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NicknameIsUnnamed", reflect.TypeOf((*MockNetworkStatus)(nil).NicknameIsUnnamed), name)
}

func (m *MockNetworkStatus) GetParam(name string, def, lo, hi int) int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetParam", name, def, lo, hi)
	ret0, _ := ret[0].(int)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) GetParam(name, def, lo, hi any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetParam", reflect.TypeOf((*MockNetworkStatus)(nil).GetParam), name, def, lo, hi)
}

func (m *MockNetworkStatus) GetReasonablyLiveConsensus(now time.Time, flavor directory.Flavor) *directory.Consensus {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetReasonablyLiveConsensus", now, flavor)
	ret0, _ := ret[0].(*directory.Consensus)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) GetReasonablyLiveConsensus(now, flavor any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetReasonablyLiveConsensus", reflect.TypeOf((*MockNetworkStatus)(nil).GetReasonablyLiveConsensus), now, flavor)
}

func (m *MockNetworkStatus) ClientWouldUseRouter(rs directory.RouterStatus, now time.Time) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ClientWouldUseRouter", rs, now)
	ret0, _ := ret[0].(bool)
	return ret0
}

func (mr *MockNetworkStatusMockRecorder) ClientWouldUseRouter(rs, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClientWouldUseRouter", reflect.TypeOf((*MockNetworkStatus)(nil).ClientWouldUseRouter), rs, now)
}

var _ nodelist.NetworkStatus = (*MockNetworkStatus)(nil)
