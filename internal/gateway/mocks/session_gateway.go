package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

// SessionGateway is a testify mock of gateway.SessionGateway.
type SessionGateway struct {
	mock.Mock
}

func (_m *SessionGateway) CheckLogin(ctx context.Context) (*models.LoginStatus, error) {
	ret := _m.Called(ctx)

	var status *models.LoginStatus
	if ret.Get(0) != nil {
		status = ret.Get(0).(*models.LoginStatus)
	}

	return status, ret.Error(1)
}

func (_m *SessionGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	ret := _m.Called(ctx)

	var user *models.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*models.User)
	}

	return user, ret.Error(1)
}

func (_m *SessionGateway) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	ret := _m.Called(ctx, req)

	var user *models.User
	if ret.Get(0) != nil {
		user = ret.Get(0).(*models.User)
	}

	return user, ret.Error(1)
}

func (_m *SessionGateway) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	ret := _m.Called(ctx, req)

	return ret.String(0), ret.Error(1)
}

func (_m *SessionGateway) Logout(ctx context.Context) error {
	ret := _m.Called(ctx)

	return ret.Error(0)
}
