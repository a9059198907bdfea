package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"whatif-server/internal/feedback"
)

// MockFeedbackRepository is a mock type for the feedback.Repository type
type MockFeedbackRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, fb
func (_m *MockFeedbackRepository) Save(ctx context.Context, fb *feedback.Feedback) error {
	ret := _m.Called(ctx, fb)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *feedback.Feedback) error); ok {
		r0 = rf(ctx, fb)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockFeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*feedback.Feedback, error) {
	ret := _m.Called(ctx, id)

	var r0 *feedback.Feedback
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *feedback.Feedback); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*feedback.Feedback)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListRecent provides a mock function with given fields: ctx, limit
func (_m *MockFeedbackRepository) ListRecent(ctx context.Context, limit int) ([]feedback.Feedback, error) {
	ret := _m.Called(ctx, limit)

	var r0 []feedback.Feedback
	if rf, ok := ret.Get(0).(func(context.Context, int) []feedback.Feedback); ok {
		r0 = rf(ctx, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]feedback.Feedback)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockFeedbackRepository creates a new instance of MockFeedbackRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockFeedbackRepository(t interface {
	mock.TestingT
	Helper()
}) *MockFeedbackRepository {
	m := &MockFeedbackRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ feedback.Repository = (*MockFeedbackRepository)(nil)
