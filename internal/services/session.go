package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/cache"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/gateway"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/notify"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/validation"
)

var currentUserKey = cache.Key(cache.SessionKeyPrefix, cache.CurrentUserKey)

// SessionService signs users in and out and keeps the signed-in user in the
// session store, the console's stand-in for the browser's local storage.
// The catalog views never consult it.
type SessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	CheckLogin(ctx context.Context) (*models.LoginStatus, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	StoredUser(ctx context.Context) (*models.User, error)
}

type sessionService struct {
	gateway   gateway.SessionGateway
	store     cache.Cache
	validator *validation.UserValidator
	sink      notify.Sink
}

func NewSessionService(gw gateway.SessionGateway, store cache.Cache, validator *validation.UserValidator, sink notify.Sink) SessionService {
	return &sessionService{gateway: gw, store: store, validator: validator, sink: sink}
}

func (s *sessionService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	logger := logging.LoggerFromContext(ctx)

	if err := s.validator.ValidateLogin(req); err != nil {
		notify.Error(s.sink, err.Error())
		return nil, err
	}

	user, err := s.gateway.Login(ctx, req)
	if err != nil {
		logger.Warn("Login failed", slog.String("user", req.UsernameOrEmail), slog.Any("error", err))
		notify.Error(s.sink, err.Error())

		return nil, err
	}

	if err := s.store.Set(ctx, currentUserKey, user, 0); err != nil {
		// the backend session is live, only the local copy is missing
		logger.Error("Failed to store current user", slog.Any("error", err))
	}

	logger.Info("User logged in", slog.String("username", user.Username), slog.String("role", user.Role))
	notify.Success(s.sink, "Login successful!")

	return user, nil
}

// Logout always clears the stored user, even when the backend call fails.
func (s *sessionService) Logout(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)

	err := s.gateway.Logout(ctx)

	if delErr := s.store.Delete(ctx, currentUserKey); delErr != nil {
		logger.Error("Failed to clear current user", slog.Any("error", delErr))
	}

	if err != nil {
		logger.Warn("Logout failed", slog.Any("error", err))
		notify.Error(s.sink, "Logout failed. Please try again.")

		return err
	}

	notify.Success(s.sink, "Logged out successfully")

	return nil
}

func (s *sessionService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if err := s.validator.ValidateRegistration(req); err != nil {
		notify.Error(s.sink, err.Error())
		return "", err
	}

	message, err := s.gateway.Register(ctx, req)
	if err != nil {
		logging.LoggerFromContext(ctx).Warn("Registration failed", slog.String("username", req.Username), slog.Any("error", err))
		notify.Error(s.sink, err.Error())

		return "", err
	}

	notify.Success(s.sink, message)

	return message, nil
}

func (s *sessionService) CheckLogin(ctx context.Context) (*models.LoginStatus, error) {
	return s.gateway.CheckLogin(ctx)
}

func (s *sessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.gateway.CurrentUser(ctx)
}

// StoredUser returns the locally remembered user, or nil.
func (s *sessionService) StoredUser(ctx context.Context) (*models.User, error) {
	var user models.User

	found, err := s.store.Get(ctx, currentUserKey, &user)
	if err != nil || !found {
		return nil, err
	}

	return &user, nil
}
