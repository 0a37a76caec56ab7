package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sportsstore/internal/domain/user"
)

func TestHandler_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	refresh := newFakeRefresh()
	r := newAuthRouter(users, refresh)

	w := doJSON(r, "/register", `{"email":"Shopper@Example.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected short password rejected, got %d", w.Code)
	}

	w = doJSON(r, "/register", `{"email":"Shopper@Example.com","password":"long-enough"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}

	w = doJSON(r, "/register", `{"email":"shopper@example.com","password":"long-enough"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected duplicate email conflict, got %d", w.Code)
	}

	w = doJSON(r, "/login", `{"email":"shopper@example.com","password":"wrong-password"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", w.Code)
	}

	w = doJSON(r, "/login", `{"email":"SHOPPER@example.com","password":"long-enough"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		t.Fatalf("expected tokens in response")
	}
	if len(refresh.tokens) != 1 {
		t.Fatalf("expected refresh token stored, got %d", len(refresh.tokens))
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), AccessCookie+"=") {
		t.Fatalf("expected access cookie to be set")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "SameSite=Lax") {
		t.Fatalf("expected SameSite=Lax on access cookie, got %q", w.Header().Get("Set-Cookie"))
	}

	// Rotation: the old refresh token stops working once used.
	w = doJSON(r, "/refresh", `{"refresh_token":"`+body.RefreshToken+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected refresh 200, got %d", w.Code)
	}
	w = doJSON(r, "/refresh", `{"refresh_token":"`+body.RefreshToken+`"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected reused refresh token rejected, got %d", w.Code)
	}
}

func TestHandler_CookieAttributes(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	refresh := newFakeRefresh()
	h := NewHandler(Dependencies{JWT: testJWT(), Users: users, Refresh: refresh, SecureCookie: true})
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	if w := doJSON(r, "/register", `{"email":"secure@example.com","password":"long-enough"}`); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	tests := []struct {
		name string
		path string
		body func(refresh string) string
	}{
		{name: "login", path: "/login", body: func(string) string {
			return `{"email":"secure@example.com","password":"long-enough"}`
		}},
		{name: "logout", path: "/logout", body: func(rt string) string {
			return `{"refresh_token":"` + rt + `"}`
		}},
	}

	var refreshToken string
	for _, tt := range tests {
		w := doJSON(r, tt.path, tt.body(refreshToken))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.name, w.Code)
		}
		cookie := w.Header().Get("Set-Cookie")
		for _, attr := range []string{"SameSite=Lax", "Secure", "HttpOnly"} {
			if !strings.Contains(cookie, attr) {
				t.Fatalf("%s: expected %s in %q", tt.name, attr, cookie)
			}
		}
		if tt.name == "login" {
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			refreshToken = body.RefreshToken
		}
	}
}

func TestSeedAdmin(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()

	if err := SeedAdmin(context.Background(), users, "", "whatever1"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(users.byEmail) != 0 {
		t.Fatalf("expected no admin created")
	}

	if err := SeedAdmin(context.Background(), users, "admin@example.com", "short"); err == nil {
		t.Fatalf("expected short admin password rejected")
	}

	if err := SeedAdmin(context.Background(), users, " Admin@Example.com", "Secret123$"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	u, ok := users.byEmail["admin@example.com"]
	if !ok || u.Role != user.RoleAdmin || !CheckPassword(u.PasswordHash, "Secret123$") {
		t.Fatalf("unexpected admin %+v", u)
	}
}

func newAuthRouter(users *fakeUsers, refresh *fakeRefresh) *gin.Engine {
	h := NewHandler(Dependencies{JWT: testJWT(), Users: users, Refresh: refresh})
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
	r.POST("/logout", h.Logout)
	return r
}

func doJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeUsers struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]user.User{}}
}

func (f *fakeUsers) Create(_ context.Context, email, hash, role string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return user.User{}, ErrEmailTaken
	}
	f.nextID++
	u := user.User{ID: f.nextID, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, ErrUserNotFound
}

func (f *fakeUsers) EnsureAdmin(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byEmail[email]
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	}
	u.Email, u.PasswordHash, u.Role, u.IsActive = email, hash, user.RoleAdmin, true
	f.byEmail[email] = u
	return nil
}

type fakeRefresh struct {
	tokens map[string]bool // hash -> revoked
}

func newFakeRefresh() *fakeRefresh {
	return &fakeRefresh{tokens: map[string]bool{}}
}

func (f *fakeRefresh) Store(_ context.Context, _ int64, hash string, _ time.Time) error {
	f.tokens[hash] = false
	return nil
}

func (f *fakeRefresh) IsValid(_ context.Context, _ int64, hash string) (bool, error) {
	revoked, ok := f.tokens[hash]
	return ok && !revoked, nil
}

func (f *fakeRefresh) Revoke(_ context.Context, _ int64, hash string) error {
	if _, ok := f.tokens[hash]; ok {
		f.tokens[hash] = true
	}
	return nil
}

func (f *fakeRefresh) RevokeAll(_ context.Context, _ int64) error {
	for h := range f.tokens {
		f.tokens[h] = true
	}
	return nil
}
