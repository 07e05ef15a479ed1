package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/catalog"
	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/gateway"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/notify"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/view"
)

// Display is where the catalog view is drawn.
type Display interface {
	ShowPage(page view.Page)
	ShowDetails(details view.Details)
	ShowConfirm(prompt string)
}

type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteConfirmPending
	DeleteInFlight
)

func (s DeleteState) String() string {
	switch s {
	case DeleteConfirmPending:
		return "confirm-pending"
	case DeleteInFlight:
		return "in-flight"
	default:
		return "idle"
	}
}

var (
	ErrDeleteInFlight  = errors.New("a delete is already in progress")
	ErrNoPendingDelete = errors.New("no delete is waiting for confirmation")
	ErrAdminOnly       = errors.New("only available in the admin view")
	ErrBrowseOnly      = errors.New("only available in the browse view")
)

type pendingDelete struct {
	id   string
	name string
	// set by the delete-by-id box: the reply text is shown and the list reloaded
	byID bool
}

type CatalogService interface {
	Load(ctx context.Context) error
	Search(term, category string) view.Page
	Filters() (term, category string)
	Current() view.Page
	ViewDetails(ctx context.Context, id string) error
	AddToCart(ctx context.Context, id string) error
	RequestDelete(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, rawID string) error
	ConfirmDelete(ctx context.Context) error
	CancelDelete(ctx context.Context) error
	DeleteState() DeleteState
	Mode() view.Mode
}

type catalogService struct {
	gateway  gateway.ProductGateway
	cache    *catalog.Cache
	renderer *view.Renderer
	display  Display
	sink     notify.Sink

	mu         sync.Mutex
	searchTerm string
	category   string
	state      DeleteState
	pending    *pendingDelete
}

func NewCatalogService(mode view.Mode, gw gateway.ProductGateway, formatter *view.PriceFormatter, display Display, sink notify.Sink) CatalogService {
	s := &catalogService{
		gateway: gw,
		cache:   catalog.NewCache(),
		display: display,
		sink:    sink,
	}

	handlers := view.Handlers{ViewDetails: s.ViewDetails}

	switch mode {
	case view.ModeAdmin:
		handlers.Delete = s.RequestDelete
	case view.ModeBrowse:
		handlers.AddToCart = s.AddToCart
	}

	s.renderer = view.NewRenderer(mode, formatter, handlers)

	return s
}

func (s *catalogService) Mode() view.Mode {
	return s.renderer.Mode()
}

// Load fetches the whole catalog, replaces the cache and clears the filters.
// On failure the cache keeps its previous snapshot.
func (s *catalogService) Load(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)

	products, err := s.gateway.ListAll(ctx)
	if err != nil {
		logger.Error("Failed to load products", slog.Any("error", err))
		s.display.ShowPage(s.renderer.RenderLoadFailure())
		notify.Error(s.sink, "Failed to load products")

		return err
	}

	s.cache.Replace(products)

	s.mu.Lock()
	s.searchTerm, s.category = "", ""
	s.mu.Unlock()

	logger.Info("Products loaded", slog.Int("count", len(products)))

	s.display.ShowPage(s.renderer.Render(products))

	return nil
}

func (s *catalogService) Search(term, category string) view.Page {
	s.mu.Lock()
	s.searchTerm, s.category = term, category
	s.mu.Unlock()

	page := s.Current()
	s.display.ShowPage(page)

	return page
}

func (s *catalogService) Filters() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.searchTerm, s.category
}

// Current renders the cache through the remembered filters without drawing.
func (s *catalogService) Current() view.Page {
	term, category := s.Filters()

	return s.renderer.Render(s.cache.Filter(term, category))
}

// ViewDetails fetches the product from the backend in the admin view and
// reads it from the cache in the browse view.
func (s *catalogService) ViewDetails(ctx context.Context, id string) error {
	logger := logging.LoggerFromContext(ctx).With(slog.String("productId", id))

	var product *models.Product

	if s.Mode() == view.ModeAdmin {
		fetched, err := s.gateway.GetByID(ctx, id)
		if err != nil {
			logger.Warn("Failed to load product details", slog.Any("error", err))
			notify.Error(s.sink, "Failed to load product details")

			return err
		}

		product = fetched
	} else {
		cached, ok := s.cache.Get(id)
		if !ok {
			notify.Error(s.sink, "Failed to load product details")

			return appErrors.NotFoundError(fmt.Sprintf("Product with ID %q not found", id))
		}

		product = &cached
	}

	s.display.ShowDetails(s.renderer.Details(*product))

	return nil
}

// AddToCart only acknowledges the click; there is no cart state.
func (s *catalogService) AddToCart(ctx context.Context, id string) error {
	if s.Mode() != view.ModeBrowse {
		return ErrBrowseOnly
	}

	product, ok := s.cache.Get(id)
	if !ok {
		notify.Error(s.sink, "Product not found")

		return appErrors.NotFoundError(fmt.Sprintf("Product with ID %q not found", id))
	}

	logging.LoggerFromContext(ctx).Info("Added to cart", slog.String("productId", id))
	notify.Success(s.sink, product.Name+" added to cart!")

	return nil
}

func (s *catalogService) DeleteState() DeleteState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// RequestDelete moves Idle -> ConfirmPending for a card's delete button.
// A second request while one is pending replaces it.
func (s *catalogService) RequestDelete(ctx context.Context, id string) error {
	name := id
	if product, ok := s.cache.Get(id); ok {
		name = product.Name
	}

	prompt := fmt.Sprintf("Are you sure you want to delete:\n\nProduct: %s\nID: %s\n\nThis action cannot be undone.", name, id)

	return s.awaitConfirm(ctx, &pendingDelete{id: id, name: name}, prompt)
}

// DeleteByID is the admin "delete by id" box.
func (s *catalogService) DeleteByID(ctx context.Context, rawID string) error {
	id := strings.TrimSpace(rawID)
	if id == "" {
		notify.Error(s.sink, "Please enter a Product ID")

		return appErrors.AddValidationError("productId", "Please enter a Product ID")
	}

	prompt := fmt.Sprintf("Are you sure you want to delete product with ID: %s?\n\nThis action cannot be undone.", id)

	return s.awaitConfirm(ctx, &pendingDelete{id: id, name: id, byID: true}, prompt)
}

func (s *catalogService) awaitConfirm(ctx context.Context, pending *pendingDelete, prompt string) error {
	if s.Mode() != view.ModeAdmin {
		return ErrAdminOnly
	}

	s.mu.Lock()
	if s.state == DeleteInFlight {
		s.mu.Unlock()
		notify.Error(s.sink, "Please wait for the current delete to finish")

		return ErrDeleteInFlight
	}

	s.state = DeleteConfirmPending
	s.pending = pending
	s.mu.Unlock()

	logging.LoggerFromContext(ctx).Debug("Delete awaiting confirmation", slog.String("productId", pending.id))
	s.display.ShowConfirm(prompt)

	return nil
}

func (s *catalogService) CancelDelete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != DeleteConfirmPending {
		return ErrNoPendingDelete
	}

	logging.LoggerFromContext(ctx).Debug("Delete cancelled", slog.String("productId", s.pending.id))

	s.state = DeleteIdle
	s.pending = nil

	return nil
}

// ConfirmDelete runs the pending delete. On success the product leaves the
// cache and the view is redrawn with the current filters; on failure the
// cache is left alone.
func (s *catalogService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case DeleteInFlight:
		s.mu.Unlock()
		return ErrDeleteInFlight
	case DeleteIdle:
		s.mu.Unlock()
		return ErrNoPendingDelete
	}

	pending := s.pending
	s.state = DeleteInFlight
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = DeleteIdle
		s.pending = nil
		s.mu.Unlock()
	}()

	logger := logging.LoggerFromContext(ctx).With(slog.String("productId", pending.id))

	reply, err := s.gateway.DeleteByID(ctx, pending.id)
	if err != nil {
		logger.Warn("Delete failed", slog.Any("error", err))

		if pending.byID {
			notify.Error(s.sink, fmt.Sprintf("Failed to delete product %s. Product may not exist.", pending.id))
		} else {
			notify.Error(s.sink, "Failed to delete product. Please try again.")
		}

		return err
	}

	if pending.byID {
		if reply == "" {
			reply = fmt.Sprintf("Product %s deleted successfully!", pending.id)
		}

		s.cache.Remove(pending.id)
		notify.Success(s.sink, reply)

		// the delete went through even if the refresh does not
		if err := s.Load(ctx); err != nil {
			logger.Warn("Reload after delete failed", slog.Any("error", err))
		}

		return nil
	}

	s.cache.Remove(pending.id)
	notify.Success(s.sink, fmt.Sprintf("Product %s deleted successfully!", pending.id))
	s.display.ShowPage(s.Current())

	return nil
}
