package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

// SessionGateway talks to the backend's cookie-session user endpoints.
type SessionGateway interface {
	CheckLogin(ctx context.Context) (*models.LoginStatus, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
}

type sessionGateway struct {
	backend
}

func NewSessionGateway(baseURL string, client *http.Client) SessionGateway {
	return &sessionGateway{backend: newBackend(baseURL, client)}
}

func (g *sessionGateway) CheckLogin(ctx context.Context) (*models.LoginStatus, error) {
	var status models.LoginStatus

	if err := g.call(ctx, http.MethodGet, "/users/check-login", nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func (g *sessionGateway) CurrentUser(ctx context.Context) (*models.User, error) {
	var reply models.SessionResponse

	if err := g.call(ctx, http.MethodGet, "/users/current", nil, &reply); err != nil {
		return nil, err
	}

	if !reply.Success || reply.User == nil {
		return nil, appErrors.NotFoundError(messageOr(reply.Message, "No user logged in"))
	}

	return reply.User, nil
}

func (g *sessionGateway) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var reply models.SessionResponse

	if err := g.call(ctx, http.MethodPost, "/users/login", req, &reply); err != nil {
		return nil, err
	}

	if !reply.Success || reply.User == nil {
		logging.LoggerFromContext(ctx).Warn("Login rejected", slog.String("user", req.UsernameOrEmail))
		return nil, appErrors.UnauthorizedError(messageOr(reply.Message, "Invalid username or password"))
	}

	return reply.User, nil
}

func (g *sessionGateway) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var reply models.SessionResponse

	if err := g.call(ctx, http.MethodPost, "/users/register", req, &reply); err != nil {
		return "", err
	}

	if !reply.Success {
		return "", appErrors.BadRequestError(messageOr(reply.Message, "Registration failed"))
	}

	return messageOr(reply.Message, "Registration successful"), nil
}

func (g *sessionGateway) Logout(ctx context.Context) error {
	var reply models.SessionResponse

	if err := g.call(ctx, http.MethodPost, "/users/logout", nil, &reply); err != nil {
		return err
	}

	if !reply.Success {
		return appErrors.BadRequestError(messageOr(reply.Message, "Logout failed"))
	}

	return nil
}

// call decodes the JSON envelope. The user endpoints report failures inside
// the body, so only non-JSON replies and transport errors fail here.
func (g *sessionGateway) call(ctx context.Context, method, path string, body, out any) error {
	logger := logging.LoggerFromContext(ctx)

	resp, err := g.do(ctx, method, path, path, body)
	if err != nil {
		logger.Error("Session request failed", slog.String("path", path), slog.Any("error", err))
		return appErrors.NetworkError("Could not reach the server").WithError(err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error("Failed to decode session reply", slog.String("path", path), slog.Int("status", resp.StatusCode), slog.Any("error", err))
		return appErrors.NetworkError("Could not reach the server").
			WithDetail(fmt.Sprintf("backend returned status %d", resp.StatusCode)).
			WithError(err)
	}

	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}

	return fallback
}
