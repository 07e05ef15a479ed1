package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/google/uuid"
)

const sessionCookie = "JSESSIONID"

// FakeBackend is an in-memory stand-in for the storefront REST backend. It
// serves the product and user endpoints with the same shapes and plain-text
// replies as the real service.
type FakeBackend struct {
	*httptest.Server

	mu         sync.Mutex
	products   []models.Product
	users      map[string]registeredUser
	sessions   map[string]models.User
	requestIDs []string
	// FailAll makes every product endpoint answer 500.
	FailAll bool
}

type registeredUser struct {
	user     models.User
	password string
}

func NewFakeBackend(t *testing.T, products ...models.Product) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		products: slices.Clone(products),
		users:    make(map[string]registeredUser),
		sessions: make(map[string]models.User),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", fb.listProducts)
	mux.HandleFunc("GET /products/{id}", fb.getProduct)
	mux.HandleFunc("POST /products/create", fb.createProduct)
	mux.HandleFunc("PUT /products/update", fb.updateProduct)
	mux.HandleFunc("DELETE /products/delete/{id}", fb.deleteProduct)
	mux.HandleFunc("GET /users/check-login", fb.checkLogin)
	mux.HandleFunc("GET /users/current", fb.currentUser)
	mux.HandleFunc("POST /users/login", fb.login)
	mux.HandleFunc("POST /users/register", fb.register)
	mux.HandleFunc("POST /users/logout", fb.logout)

	fb.Server = httptest.NewServer(fb.track(mux))
	t.Cleanup(fb.Close)

	return fb
}

// AddUser registers an account the fake accepts at /users/login.
func (fb *FakeBackend) AddUser(user models.User, password string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.users[user.Username] = registeredUser{user: user, password: password}
}

func (fb *FakeBackend) Products() []models.Product {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return slices.Clone(fb.products)
}

func (fb *FakeBackend) RequestIDs() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return slices.Clone(fb.requestIDs)
}

func (fb *FakeBackend) SetFailAll(fail bool) {
	fb.mu.Lock()
	fb.FailAll = fail
	fb.mu.Unlock()
}

func (fb *FakeBackend) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requestIDs = append(fb.requestIDs, r.Header.Get("X-Request-ID"))
		fail := fb.FailAll
		fb.mu.Unlock()

		if fail && strings.HasPrefix(r.URL.Path, "/products") {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) indexOf(id string) int {
	return slices.IndexFunc(fb.products, func(p models.Product) bool { return p.ID == id })
}

func (fb *FakeBackend) listProducts(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	writeJSON(w, http.StatusOK, fb.products)
}

// unknown ids answer 200 with an empty body, as the Spring backend does
func (fb *FakeBackend) getProduct(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	i := fb.indexOf(r.PathValue("id"))
	if i < 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	writeJSON(w, http.StatusOK, fb.products[i])
}

func (fb *FakeBackend) createProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if fb.indexOf(product.ID) >= 0 {
		http.Error(w, "Product already exists", http.StatusConflict)
		return
	}

	fb.products = append(fb.products, product)
	writeText(w, http.StatusOK, "Product added successfully")
}

func (fb *FakeBackend) updateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	i := fb.indexOf(product.ID)
	if i < 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	fb.products[i] = product
	writeText(w, http.StatusOK, "Product updated successfully")
}

func (fb *FakeBackend) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	fb.mu.Lock()
	defer fb.mu.Unlock()

	i := fb.indexOf(id)
	if i < 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	fb.products = slices.Delete(fb.products, i, i+1)
	writeText(w, http.StatusOK, "Product "+id+" deleted successfully!")
}

func (fb *FakeBackend) sessionUser(r *http.Request) (models.User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return models.User{}, false
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	user, ok := fb.sessions[cookie.Value]

	return user, ok
}

func (fb *FakeBackend) checkLogin(w http.ResponseWriter, r *http.Request) {
	user, ok := fb.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, models.LoginStatus{LoggedIn: false})
		return
	}

	writeJSON(w, http.StatusOK, models.LoginStatus{LoggedIn: true, Username: user.Username, Role: user.Role})
}

func (fb *FakeBackend) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := fb.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, models.SessionResponse{Success: false, Message: "No user logged in"})
		return
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{Success: true, User: &user})
}

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SessionResponse{Success: false, Message: "Invalid request"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	var match *registeredUser

	for _, candidate := range fb.users {
		if candidate.user.Username == req.UsernameOrEmail || candidate.user.Email == req.UsernameOrEmail {
			match = &candidate
			break
		}
	}

	if match == nil || match.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, models.SessionResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	sessionID := uuid.NewString()
	fb.sessions[sessionID] = match.user

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionID, Path: "/"})
	writeJSON(w, http.StatusOK, models.SessionResponse{Success: true, Message: "Login successful", User: &match.user})
}

func (fb *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SessionResponse{Success: false, Message: "Invalid request"})
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	if _, exists := fb.users[req.Username]; exists {
		writeJSON(w, http.StatusOK, models.SessionResponse{Success: false, Message: "Username already exists"})
		return
	}

	fb.users[req.Username] = registeredUser{
		user:     models.User{ID: int64(len(fb.users) + 1), Username: req.Username, FullName: req.FullName, Email: req.Email, Role: "USER"},
		password: req.Password,
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{Success: true, Message: "Registration successful"})
}

func (fb *FakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		fb.mu.Lock()
		delete(fb.sessions, cookie.Value)
		fb.mu.Unlock()
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{Success: true, Message: "Logged out successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

// QuietContext carries a logger that discards output, for tests.
func QuietContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return logging.WithLogger(context.Background(), logger)
}
