package validation

import (
	"log/slog"
	"reflect"
	"strings"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Mode int

const (
	ModeCreate Mode = iota
	// ModeUpdate skips productId, which is carried over from the lookup.
	ModeUpdate
)

// inline messages shown under each form field
var fieldMessages = map[string]string{
	"productId":          "Product ID is required",
	"productName":        "Product name is required",
	"productCategory":    "Please select a category",
	"productPrice":       "Please enter a valid price",
	"productDescription": "Product description is required",
}

type ProductValidator struct {
	validate *validator.Validate
}

func NewProductValidator() *ProductValidator {
	return &ProductValidator{validate: newValidate()}
}

// newValidate reports fields by their json names and knows the form rules.
func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("positive_price", positivePrice)

	return v
}

// Validate checks every rule and reports all failing fields together.
func (p *ProductValidator) Validate(form models.ProductForm, mode Mode) error {
	var err error

	if mode == ModeUpdate {
		err = p.validate.StructExcept(form, "ProductID")
	} else {
		err = p.validate.Struct(form)
	}

	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		message, known := fieldMessages[fe.Field()]
		if !known {
			message = "Field " + fe.Field() + " is invalid"
		}

		fields[fe.Field()] = message
	}

	slog.Debug("Product form rejected", slog.Any("fields", fields))

	return appErrors.ValidationError("Please fill in all required fields correctly").WithFields(fields)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func positivePrice(fl validator.FieldLevel) bool {
	price, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}

	return price.IsPositive()
}
