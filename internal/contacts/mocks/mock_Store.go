// Package mocks provides test doubles for the contact store.
package mocks

import (
	"context"

	model "github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// UpdateContact provides a mock function with given fields: ctx, userID, contactID, u
func (_m *MockStore) UpdateContact(ctx context.Context, userID string, contactID string, u model.ContactUpdate) error {
	ret := _m.Called(ctx, userID, contactID, u)

	if len(ret) == 0 {
		panic("no return value specified for UpdateContact")
	}

	return ret.Error(0)
}

// FindContactByProviderID provides a mock function with given fields: ctx, userID, providerPersonID
func (_m *MockStore) FindContactByProviderID(ctx context.Context, userID string, providerPersonID string) (*model.Contact, error) {
	ret := _m.Called(ctx, userID, providerPersonID)

	if len(ret) == 0 {
		panic("no return value specified for FindContactByProviderID")
	}

	var r0 *model.Contact
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Contact)
	}

	return r0, ret.Error(1)
}

// GetContact provides a mock function with given fields: ctx, userID, contactID
func (_m *MockStore) GetContact(ctx context.Context, userID string, contactID string) (*model.Contact, error) {
	ret := _m.Called(ctx, userID, contactID)

	if len(ret) == 0 {
		panic("no return value specified for GetContact")
	}

	var r0 *model.Contact
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Contact)
	}

	return r0, ret.Error(1)
}

// UpsertContact provides a mock function with given fields: ctx, c
func (_m *MockStore) UpsertContact(ctx context.Context, c *model.Contact) error {
	ret := _m.Called(ctx, c)

	if len(ret) == 0 {
		panic("no return value specified for UpsertContact")
	}

	return ret.Error(0)
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore and registers cleanup
// that asserts expectations.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
