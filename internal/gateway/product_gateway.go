package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

type ProductGateway interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product models.Product) (string, error)
	Update(ctx context.Context, product models.Product) (string, error)
	DeleteByID(ctx context.Context, id string) (string, error)
}

type productGateway struct {
	backend
}

func NewProductGateway(baseURL string, client *http.Client) ProductGateway {
	return &productGateway{backend: newBackend(baseURL, client)}
}

func (g *productGateway) ListAll(ctx context.Context) ([]models.Product, error) {
	logger := logging.LoggerFromContext(ctx)

	resp, err := g.do(ctx, http.MethodGet, "/products", "/products", nil)
	if err != nil {
		logger.Error("Failed to fetch products", slog.Any("error", err))
		return nil, appErrors.NetworkError("Failed to fetch products").WithError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		logger.Error("Backend rejected product list", slog.Int("status", resp.StatusCode))
		return nil, appErrors.NetworkError("Failed to fetch products").
			WithDetail(fmt.Sprintf("backend returned status %d", resp.StatusCode))
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("Failed to decode product list", slog.Any("error", err))
		return nil, appErrors.NetworkError("Failed to fetch products").WithError(err)
	}

	if products == nil {
		products = []models.Product{}
	}

	logger.Debug("Fetched products", slog.Int("count", len(products)))

	return products, nil
}

func (g *productGateway) GetByID(ctx context.Context, id string) (*models.Product, error) {
	logger := logging.LoggerFromContext(ctx).With(slog.String("productId", id))

	resp, err := g.do(ctx, http.MethodGet, "/products/{id}", "/products/"+url.PathEscape(id), nil)
	if err != nil {
		logger.Error("Failed to fetch product", slog.Any("error", err))
		return nil, appErrors.NetworkError("Failed to fetch product").WithError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		logger.Warn("Product not found", slog.Int("status", resp.StatusCode))
		return nil, notFound(id)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.NetworkError("Failed to fetch product").WithError(err)
	}

	// Some backends answer 200 with an empty body or null for unknown ids.
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		logger.Warn("Product not found", slog.Int("status", resp.StatusCode))
		return nil, notFound(id)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		logger.Error("Failed to decode product", slog.Any("error", err))
		return nil, appErrors.NetworkError("Failed to fetch product").WithError(err)
	}

	if product.ID == "" {
		return nil, notFound(id)
	}

	return &product, nil
}

func (g *productGateway) Create(ctx context.Context, product models.Product) (string, error) {
	return g.write(ctx, http.MethodPost, "/products/create", product, "Failed to add product")
}

func (g *productGateway) Update(ctx context.Context, product models.Product) (string, error) {
	return g.write(ctx, http.MethodPut, "/products/update", product, "Failed to update product")
}

func (g *productGateway) write(ctx context.Context, method, path string, product models.Product, failure string) (string, error) {
	logger := logging.LoggerFromContext(ctx).With(slog.String("productId", product.ID))

	resp, err := g.do(ctx, method, path, path, product)
	if err != nil {
		logger.Error(failure, slog.Any("error", err))
		return "", appErrors.NetworkError(failure).WithError(err)
	}
	defer resp.Body.Close()

	text, err := readText(resp)
	if err != nil {
		return "", appErrors.NetworkError(failure).WithError(err)
	}

	if !isSuccess(resp.StatusCode) {
		logger.Error(failure, slog.Int("status", resp.StatusCode), slog.String("body", text))
		return "", appErrors.NetworkError(failure).
			WithDetail(fmt.Sprintf("backend returned status %d: %s", resp.StatusCode, text))
	}

	logger.Info("Backend accepted product", slog.String("method", method), slog.String("reply", text))

	return text, nil
}

func (g *productGateway) DeleteByID(ctx context.Context, id string) (string, error) {
	logger := logging.LoggerFromContext(ctx).With(slog.String("productId", id))

	resp, err := g.do(ctx, http.MethodDelete, "/products/delete/{id}", "/products/delete/"+url.PathEscape(id), nil)
	if err != nil {
		logger.Error("Failed to delete product", slog.Any("error", err))
		return "", appErrors.NetworkError("Failed to delete product").WithError(err)
	}
	defer resp.Body.Close()

	text, err := readText(resp)
	if err != nil {
		return "", appErrors.NetworkError("Failed to delete product").WithError(err)
	}

	if !isSuccess(resp.StatusCode) {
		logger.Warn("Backend refused delete", slog.Int("status", resp.StatusCode), slog.String("body", text))
		return "", notFound(id).WithDetail(text)
	}

	logger.Info("Product deleted", slog.String("reply", text))

	return text, nil
}

func notFound(id string) *appErrors.AppError {
	return appErrors.NotFoundError(fmt.Sprintf("Product with ID %q not found", id))
}
