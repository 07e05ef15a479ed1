package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

// ProductGateway is a testify mock of gateway.ProductGateway.
type ProductGateway struct {
	mock.Mock
}

func (_m *ProductGateway) ListAll(ctx context.Context) ([]models.Product, error) {
	ret := _m.Called(ctx)

	var products []models.Product
	if rf, ok := ret.Get(0).(func(context.Context) []models.Product); ok {
		products = rf(ctx)
	} else if ret.Get(0) != nil {
		products = ret.Get(0).([]models.Product)
	}

	return products, ret.Error(1)
}

func (_m *ProductGateway) GetByID(ctx context.Context, id string) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	var product *models.Product
	if ret.Get(0) != nil {
		product = ret.Get(0).(*models.Product)
	}

	return product, ret.Error(1)
}

func (_m *ProductGateway) Create(ctx context.Context, product models.Product) (string, error) {
	ret := _m.Called(ctx, product)

	return ret.String(0), ret.Error(1)
}

func (_m *ProductGateway) Update(ctx context.Context, product models.Product) (string, error) {
	ret := _m.Called(ctx, product)

	return ret.String(0), ret.Error(1)
}

func (_m *ProductGateway) DeleteByID(ctx context.Context, id string) (string, error) {
	ret := _m.Called(ctx, id)

	return ret.String(0), ret.Error(1)
}

// NewProductGateway registers AssertExpectations as a cleanup on t.
func NewProductGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProductGateway {
	m := &ProductGateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
