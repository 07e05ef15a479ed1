package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product mirrors the backend's product record. The backend keeps the price
// as a string, so Price decodes from either a JSON string or number.
type Product struct {
	ID          string          `json:"productId"`
	Name        string          `json:"productName"`
	Price       decimal.Decimal `json:"productPrice"`
	Description string          `json:"productDescription"`
	Category    string          `json:"productCategory"`
	ImageURL    *string         `json:"productImageUrl"`
}

func (p Product) HasImage() bool {
	return p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) != ""
}

// ProductForm holds the raw values typed into the create/update forms.
type ProductForm struct {
	ProductID   string `json:"productId" validate:"notblank"`
	Name        string `json:"productName" validate:"notblank"`
	Price       string `json:"productPrice" validate:"required,positive_price"`
	Description string `json:"productDescription" validate:"notblank"`
	Category    string `json:"productCategory" validate:"required"`
	ImageURL    string `json:"productImageUrl"`
}

// ToProduct builds the request payload. A blank image URL becomes nil.
func (f ProductForm) ToProduct() (Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return Product{}, err
	}

	product := Product{
		ID:          strings.TrimSpace(f.ProductID),
		Name:        strings.TrimSpace(f.Name),
		Price:       price,
		Description: strings.TrimSpace(f.Description),
		Category:    f.Category,
	}

	if image := strings.TrimSpace(f.ImageURL); image != "" {
		product.ImageURL = &image
	}

	return product, nil
}

func FormFromProduct(p Product) ProductForm {
	form := ProductForm{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price.String(),
		Description: p.Description,
		Category:    p.Category,
	}

	if p.ImageURL != nil {
		form.ImageURL = *p.ImageURL
	}

	return form
}
