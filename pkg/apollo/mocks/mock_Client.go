// Package mocks provides test doubles for the apollo client.
package mocks

import (
	"context"

	apollo "github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// MatchPerson provides a mock function with given fields: ctx, req
func (_m *MockClient) MatchPerson(ctx context.Context, req apollo.MatchRequest) (*apollo.Person, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for MatchPerson")
	}

	var r0 *apollo.Person
	if rf, ok := ret.Get(0).(func(context.Context, apollo.MatchRequest) *apollo.Person); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*apollo.Person)
	}

	return r0, ret.Error(1)
}

// SearchPeople provides a mock function with given fields: ctx, req
func (_m *MockClient) SearchPeople(ctx context.Context, req apollo.SearchRequest) (*apollo.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for SearchPeople")
	}

	var r0 *apollo.SearchResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*apollo.SearchResponse)
	}

	return r0, ret.Error(1)
}

// FindEmail provides a mock function with given fields: ctx, req
func (_m *MockClient) FindEmail(ctx context.Context, req apollo.EmailFinderRequest) (*apollo.EmailFinderResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for FindEmail")
	}

	var r0 *apollo.EmailFinderResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*apollo.EmailFinderResponse)
	}

	return r0, ret.Error(1)
}

// SearchOrganizations provides a mock function with given fields: ctx
func (_m *MockClient) SearchOrganizations(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for SearchOrganizations")
	}

	return ret.Error(0)
}

// EnrichOrganization provides a mock function with given fields: ctx, domain
func (_m *MockClient) EnrichOrganization(ctx context.Context, domain string) (*apollo.Organization, error) {
	ret := _m.Called(ctx, domain)

	if len(ret) == 0 {
		panic("no return value specified for EnrichOrganization")
	}

	var r0 *apollo.Organization
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*apollo.Organization)
	}

	return r0, ret.Error(1)
}

// ProbeMatch provides a mock function with given fields: ctx
func (_m *MockClient) ProbeMatch(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ProbeMatch")
	}

	return ret.Int(0), ret.Error(1)
}

// NewMockClient creates a new instance of MockClient and registers cleanup
// that asserts expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
