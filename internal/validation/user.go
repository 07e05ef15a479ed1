package validation

import (
	"errors"
	"log/slog"
	"strings"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/go-playground/validator/v10"
)

// field -> failing tag -> message
var registrationMessages = map[string]map[string]string{
	"fullName": {"notblank": "Please enter your full name"},
	"username": {"notblank": "Please enter a username", "min": "Username must be at least 3 characters long"},
	"email":    {"notblank": "Please enter your email address", "email": "Please enter a valid email address"},
	"password": {"notblank": "Please enter a password", "min": "Password must be at least 6 characters long"},
}

type registrationForm struct {
	FullName string `json:"fullName" validate:"notblank"`
	Username string `json:"username" validate:"notblank,min=3"`
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,min=6"`
}

type UserValidator struct {
	validate *validator.Validate
}

func NewUserValidator() *UserValidator {
	return &UserValidator{validate: newValidate()}
}

func (u *UserValidator) ValidateRegistration(req models.RegisterRequest) error {
	form := registrationForm{
		FullName: strings.TrimSpace(req.FullName),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	err := u.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return appErrors.InternalError("Unexpected validation error").WithError(err)
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = registrationMessages[fe.Field()][fe.Tag()]
	}

	slog.Debug("Registration rejected", slog.Any("fields", fields))

	// the form shows the first problem, in field order
	for _, field := range []string{"fullName", "username", "email", "password"} {
		if message, ok := fields[field]; ok {
			return appErrors.ValidationError(message).WithFields(fields)
		}
	}

	return appErrors.ValidationError("Registration failed. Please try again.").WithFields(fields)
}

// ValidateLogin mirrors the login form's two blank checks.
func (u *UserValidator) ValidateLogin(req models.LoginRequest) error {
	if strings.TrimSpace(req.UsernameOrEmail) == "" {
		return fieldError("usernameOrEmail", "Please enter your username or email")
	}

	if req.Password == "" {
		return fieldError("password", "Please enter your password")
	}

	return nil
}

func fieldError(field, message string) error {
	return appErrors.ValidationError(message).WithFields(map[string]string{field: message})
}
