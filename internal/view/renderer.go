package view

import (
	"context"
	"errors"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

type Mode int

const (
	// ModeBrowse is the customer storefront.
	ModeBrowse Mode = iota
	// ModeAdmin is the product management console.
	ModeAdmin
)

func (m Mode) String() string {
	if m == ModeAdmin {
		return "admin"
	}

	return "browse"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "admin":
		return ModeAdmin, nil
	case "browse", "":
		return ModeBrowse, nil
	}

	return ModeBrowse, errors.New("unknown view mode " + s)
}

type ActionKind string

const (
	ActionViewDetails ActionKind = "view"
	ActionAddToCart   ActionKind = "add-to-cart"
	ActionDelete      ActionKind = "delete"
)

const (
	ImagePlaceholder = "📷"
	badgeNew         = "New"
)

var ErrNoHandler = errors.New("no handler bound for action")

// Handlers are the callbacks card actions are bound to.
type Handlers struct {
	ViewDetails func(ctx context.Context, productID string) error
	AddToCart   func(ctx context.Context, productID string) error
	Delete      func(ctx context.Context, productID string) error
}

type Action struct {
	Kind      ActionKind
	Label     string
	ProductID string
	invoke    func(ctx context.Context, productID string) error
}

func (a Action) Trigger(ctx context.Context) error {
	if a.invoke == nil {
		return ErrNoHandler
	}

	return a.invoke(ctx, a.ProductID)
}

type Card struct {
	ProductID   string
	Name        string
	Category    string
	Description string
	Price       string
	ImageURL    string
	Placeholder string
	Badge       string
	Actions     []Action
}

// ImageFailed falls back to the placeholder when the image cannot be loaded.
func (c *Card) ImageFailed() {
	c.ImageURL = ""
	c.Placeholder = ImagePlaceholder
}

func (c Card) Action(kind ActionKind) (Action, bool) {
	for _, a := range c.Actions {
		if a.Kind == kind {
			return a, true
		}
	}

	return Action{}, false
}

type EmptyState struct {
	Icon  string
	Title string
	Text  string
	// Retry is offered when the list failed to load.
	Retry bool
}

type Page struct {
	Cards        []Card
	Empty        *EmptyState
	Count        int
	CountVisible bool
}

// Details is the full read-out of one product.
type Details struct {
	ProductID   string
	Name        string
	Category    string
	Price       string
	Description string
	ImageURL    string
}

type Renderer struct {
	mode      Mode
	formatter *PriceFormatter
	handlers  Handlers
}

func NewRenderer(mode Mode, formatter *PriceFormatter, handlers Handlers) *Renderer {
	return &Renderer{mode: mode, formatter: formatter, handlers: handlers}
}

func (r *Renderer) Mode() Mode {
	return r.mode
}

// Render projects products into cards, in order. An empty list renders the
// "no results" placeholder and hides the count.
func (r *Renderer) Render(products []models.Product) Page {
	if len(products) == 0 {
		return Page{Empty: r.noResults()}
	}

	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, r.card(p))
	}

	return Page{Cards: cards, Count: len(cards), CountVisible: true}
}

func (r *Renderer) RenderLoadFailure() Page {
	text := "Please check your connection and try again"
	if r.mode == ModeAdmin {
		text = "Make sure the backend server is running"
	}

	return Page{Empty: &EmptyState{
		Icon:  "❌",
		Title: "Failed to Load Products",
		Text:  text,
		Retry: r.mode == ModeAdmin,
	}}
}

func (r *Renderer) Details(p models.Product) Details {
	image := "No image"
	if p.HasImage() {
		image = *p.ImageURL
	}

	return Details{
		ProductID:   p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       r.formatter.WithCurrency(p.Price),
		Description: p.Description,
		ImageURL:    image,
	}
}

func (r *Renderer) noResults() *EmptyState {
	text := "Try adjusting your search or filters"
	if r.mode == ModeAdmin {
		text = "Start by adding your first product to LankaBuy"
	}

	return &EmptyState{Icon: "📦", Title: "No Products Found", Text: text}
}

func (r *Renderer) card(p models.Product) Card {
	card := Card{
		ProductID:   p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       r.formatter.Format(p.Price),
	}

	if p.HasImage() {
		card.ImageURL = *p.ImageURL
	} else {
		card.Placeholder = ImagePlaceholder
	}

	card.Actions = append(card.Actions, Action{
		Kind: ActionViewDetails, Label: "View Details", ProductID: p.ID, invoke: r.handlers.ViewDetails,
	})

	switch r.mode {
	case ModeBrowse:
		card.Badge = badgeNew
		card.Actions = append(card.Actions, Action{
			Kind: ActionAddToCart, Label: "Add to Cart", ProductID: p.ID, invoke: r.handlers.AddToCart,
		})
	case ModeAdmin:
		card.Actions = append(card.Actions, Action{
			Kind: ActionDelete, Label: "Delete", ProductID: p.ID, invoke: r.handlers.Delete,
		})
	}

	return card
}
