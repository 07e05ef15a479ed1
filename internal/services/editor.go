package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/gateway"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/notify"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/validation"
)

var ErrNoProductLoaded = errors.New("look up a product before updating it")

const invalidFormMessage = "Please fill in all required fields correctly"

// EditorService backs the add-product and update-product forms. It talks to
// the backend only; the catalog list picks up changes on its next load.
type EditorService interface {
	Create(ctx context.Context, form models.ProductForm) (string, error)
	Lookup(ctx context.Context, rawID string) (*models.ProductForm, error)
	Update(ctx context.Context, form models.ProductForm) (string, error)
	Loaded() (string, bool)
}

type editorService struct {
	gateway   gateway.ProductGateway
	validator *validation.ProductValidator
	sink      notify.Sink

	mu       sync.Mutex
	loadedID string
}

func NewEditorService(gw gateway.ProductGateway, validator *validation.ProductValidator, sink notify.Sink) EditorService {
	return &editorService{gateway: gw, validator: validator, sink: sink}
}

func (s *editorService) Create(ctx context.Context, form models.ProductForm) (string, error) {
	logger := logging.LoggerFromContext(ctx)

	product, err := s.prepare(form, validation.ModeCreate)
	if err != nil {
		logger.Info("Create rejected by form validation", slog.Any("error", err))
		return "", err
	}

	reply, err := s.gateway.Create(ctx, product)
	if err != nil {
		logger.Error("Failed to create product", slog.String("productId", product.ID), slog.Any("error", err))
		notify.Error(s.sink, "Failed to add product. Make sure your backend is running.")

		return "", err
	}

	logger.Info("Product created", slog.String("productId", product.ID))
	notify.Success(s.sink, "✅ Product added successfully!")

	return reply, nil
}

// Lookup fetches a product for editing and remembers its id as the update
// target.
func (s *editorService) Lookup(ctx context.Context, rawID string) (*models.ProductForm, error) {
	logger := logging.LoggerFromContext(ctx)

	id := strings.TrimSpace(rawID)
	if id == "" {
		notify.Error(s.sink, "Please enter a Product ID")

		return nil, appErrors.AddValidationError("productId", "Please enter a Product ID")
	}

	product, err := s.gateway.GetByID(ctx, id)
	if err != nil {
		logger.Warn("Lookup failed", slog.String("productId", id), slog.Any("error", err))

		if appErrors.HasCode(err, appErrors.ErrCodeNotFound) {
			notify.Error(s.sink, fmt.Sprintf("Product with ID %q not found", id))
		} else {
			notify.Error(s.sink, "Failed to load product details")
		}

		s.mu.Lock()
		s.loadedID = ""
		s.mu.Unlock()

		return nil, err
	}

	s.mu.Lock()
	s.loadedID = product.ID
	s.mu.Unlock()

	notify.Success(s.sink, "Product found! You can now update the information.")

	form := models.FormFromProduct(*product)

	return &form, nil
}

func (s *editorService) Loaded() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadedID, s.loadedID != ""
}

// Update sends a full replacement for the looked-up product. The id always
// comes from the lookup, never from the form.
func (s *editorService) Update(ctx context.Context, form models.ProductForm) (string, error) {
	logger := logging.LoggerFromContext(ctx)

	id, ok := s.Loaded()
	if !ok {
		notify.Error(s.sink, "Please search for a product first")

		return "", ErrNoProductLoaded
	}

	form.ProductID = id

	product, err := s.prepare(form, validation.ModeUpdate)
	if err != nil {
		logger.Info("Update rejected by form validation", slog.Any("error", err))
		return "", err
	}

	reply, err := s.gateway.Update(ctx, product)
	if err != nil {
		logger.Error("Failed to update product", slog.String("productId", id), slog.Any("error", err))
		notify.Error(s.sink, "Failed to update product. Please try again.")

		return "", err
	}

	logger.Info("Product updated", slog.String("productId", id))
	notify.Success(s.sink, "Product updated successfully!")

	return reply, nil
}

func (s *editorService) prepare(form models.ProductForm, mode validation.Mode) (models.Product, error) {
	if err := s.validator.Validate(form, mode); err != nil {
		notify.Error(s.sink, invalidFormMessage)

		return models.Product{}, err
	}

	product, err := form.ToProduct()
	if err != nil {
		notify.Error(s.sink, invalidFormMessage)

		return models.Product{}, appErrors.AddValidationError("productPrice", "Please enter a valid price").WithError(err)
	}

	return product, nil
}
