package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/gateway"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedProducts() []models.Product {
	return []models.Product{
		{ID: "P1", Name: "Red Shoe", Price: decimal.NewFromInt(2500), Description: "running shoe", Category: "Footwear", ImageURL: strPtr("http://img/p1.png")},
		{ID: "P2", Name: "Blue Hat", Price: decimal.RequireFromString("999.5"), Description: "sun hat", Category: "Fashion"},
	}
}

func newProductGateway(t *testing.T) (gateway.ProductGateway, *testutils.FakeBackend) {
	t.Helper()

	backend := testutils.NewFakeBackend(t, seedProducts()...)

	client, err := gateway.NewHTTPClient(config.Backend{BaseURL: backend.URL})
	require.NoError(t, err)

	return gateway.NewProductGateway(backend.URL, client), backend
}

func TestListAll(t *testing.T) {
	t.Run("Success - Order preserved", func(t *testing.T) {
		// Arrange
		gw, _ := newProductGateway(t)

		// Act
		products, err := gw.ListAll(testutils.QuietContext())

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "P1", products[0].ID)
		assert.Equal(t, "P2", products[1].ID)
		assert.True(t, products[1].Price.Equal(decimal.RequireFromString("999.5")))
		assert.Nil(t, products[1].ImageURL)
	})

	t.Run("Success - Empty catalog", func(t *testing.T) {
		backend := testutils.NewFakeBackend(t)
		gw := gateway.NewProductGateway(backend.URL, nil)

		products, err := gw.ListAll(testutils.QuietContext())

		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("Success - String prices decode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"productId":"P9","productName":"Tea","productPrice":"1000","productDescription":"Ceylon","productCategory":"Groceries","productImageUrl":null}]`))
		}))
		defer server.Close()

		products, err := gateway.NewProductGateway(server.URL, server.Client()).ListAll(testutils.QuietContext())

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "1000", products[0].Price.String())
	})

	t.Run("Failure - Server error", func(t *testing.T) {
		// Arrange
		gw, backend := newProductGateway(t)
		backend.SetFailAll(true)

		// Act
		products, err := gw.ListAll(testutils.QuietContext())

		// Assert
		require.Error(t, err)
		assert.Nil(t, products)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
	})

	t.Run("Failure - Backend unreachable", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		// Act
		_, err := gateway.NewProductGateway(url, nil).ListAll(testutils.QuietContext())

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
	})
}

func TestGetByID(t *testing.T) {
	t.Run("Success - Found", func(t *testing.T) {
		gw, _ := newProductGateway(t)

		product, err := gw.GetByID(testutils.QuietContext(), "P1")

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Red Shoe", product.Name)
		assert.True(t, product.HasImage())
	})

	t.Run("Failure - Empty body is not found", func(t *testing.T) {
		gw, _ := newProductGateway(t)

		product, err := gw.GetByID(testutils.QuietContext(), "P404")

		require.Error(t, err)
		assert.Nil(t, product)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		assert.Equal(t, `Product with ID "P404" not found`, err.Error())
	})

	t.Run("Failure - Non-2xx is not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := gateway.NewProductGateway(server.URL, nil).GetByID(testutils.QuietContext(), "P1")

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Success - Id is path escaped", func(t *testing.T) {
		var gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			_, _ = w.Write([]byte(`{"productId":"A/B","productName":"Odd","productPrice":1}`))
		}))
		defer server.Close()

		product, err := gateway.NewProductGateway(server.URL, nil).GetByID(testutils.QuietContext(), "A/B")

		require.NoError(t, err)
		assert.Equal(t, "A/B", product.ID)
		assert.Equal(t, "/products/A%2FB", gotPath)
	})
}

func TestCreateAndUpdate(t *testing.T) {
	t.Run("Success - Create then list contains product", func(t *testing.T) {
		// Arrange
		gw, _ := newProductGateway(t)
		ctx := testutils.QuietContext()
		product := models.Product{ID: "P3", Name: "Tea Pot", Price: decimal.NewFromInt(1500), Description: "clay pot", Category: "Home & Kitchen"}

		// Act
		reply, err := gw.Create(ctx, product)
		require.NoError(t, err)
		products, err := gw.ListAll(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Product added successfully", reply)
		assert.Contains(t, ids(products), "P3")
	})

	t.Run("Failure - Create rejected", func(t *testing.T) {
		gw, _ := newProductGateway(t)

		reply, err := gw.Create(testutils.QuietContext(), seedProducts()[0])

		require.Error(t, err)
		assert.Empty(t, reply)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
		assert.Equal(t, "Failed to add product", err.Error())
	})

	t.Run("Success - Update replaces product", func(t *testing.T) {
		gw, backend := newProductGateway(t)
		updated := seedProducts()[1]
		updated.Name = "Straw Hat"

		reply, err := gw.Update(testutils.QuietContext(), updated)

		require.NoError(t, err)
		assert.Equal(t, "Product updated successfully", reply)
		assert.Equal(t, "Straw Hat", backend.Products()[1].Name)
	})

	t.Run("Failure - Update unknown product", func(t *testing.T) {
		gw, _ := newProductGateway(t)

		_, err := gw.Update(testutils.QuietContext(), models.Product{ID: "P404", Name: "x", Price: decimal.NewFromInt(1)})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
	})
}

func TestDeleteByID(t *testing.T) {
	t.Run("Success - Delete then list omits product", func(t *testing.T) {
		// Arrange
		gw, _ := newProductGateway(t)
		ctx := testutils.QuietContext()

		// Act
		reply, err := gw.DeleteByID(ctx, "P1")
		require.NoError(t, err)
		products, err := gw.ListAll(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Product P1 deleted successfully!", reply)
		assert.NotContains(t, ids(products), "P1")
	})

	t.Run("Failure - Unknown id is not found", func(t *testing.T) {
		// Arrange
		gw, backend := newProductGateway(t)

		// Act
		_, err := gw.DeleteByID(testutils.QuietContext(), "P404")

		// Assert
		require.Error(t, err)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		assert.Len(t, backend.Products(), 2)
	})
}

func TestRequestHeaders(t *testing.T) {
	t.Run("Correlation id forwarded", func(t *testing.T) {
		gw, backend := newProductGateway(t)
		ctx := logging.WithCorrelation(testutils.QuietContext(), "list")

		_, err := gw.ListAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{logging.CorrelationID(ctx)}, backend.RequestIDs())
	})

	t.Run("Fresh id without a command", func(t *testing.T) {
		gw, backend := newProductGateway(t)

		_, err := gw.ListAll(testutils.QuietContext())

		require.NoError(t, err)
		require.Len(t, backend.RequestIDs(), 1)
		assert.NotEmpty(t, backend.RequestIDs()[0])
	})
}

func TestContextCancellation(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(testutils.QuietContext(), 50*time.Millisecond)
	defer cancel()

	// Act
	_, err := gateway.NewProductGateway(server.URL, nil).ListAll(ctx)

	// Assert
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNetwork))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}

	return out
}
