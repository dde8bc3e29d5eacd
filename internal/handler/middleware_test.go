package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/msomdec/todo-api/internal/auth"
	"github.com/msomdec/todo-api/internal/handler"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
	"github.com/msomdec/todo-api/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

// Cookies are not Secure so the cookie jar sends them to httptest servers.
var testCookies = service.CookiePolicy{
	Secure:     false,
	SameSite:   http.SameSiteLaxMode,
	AccessTTL:  30 * time.Minute,
	RefreshTTL: 7 * 24 * time.Hour,
}

type testEnv struct {
	db    *sqlite.DB
	codec *auth.TokenCodec
	auth  *service.AuthService
	todos *service.TodoService
}

func newTestServices(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	codec, err := auth.NewTokenCodec(testJWTSecret, "HS256")
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}

	return &testEnv{
		db:    db,
		codec: codec,
		auth:  service.NewAuthService(db.Users(), auth.NewHasher(4), codec, testCookies),
		todos: service.NewTodoService(db.Todos()),
	}
}

// loginUser registers and logs in, returning the token pair.
func (e *testEnv) loginUser(t *testing.T, email string) *service.TokenPair {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, email, "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := e.auth.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return pair
}

func runGate(t *testing.T, env *testEnv, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = handler.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	handler.RequireAuth(env.auth, inner).ServeHTTP(w, req)
	return w, gotUser
}

func assertUnauthorized(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate Bearer, got %q", got)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Could not validate credentials" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	env := newTestServices(t)
	pair := env.loginUser(t, "valid@example.com")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: pair.AccessToken})

	w, gotUser := runGate(t, env, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser == "" {
		t.Fatal("expected user id in context")
	}
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	env := newTestServices(t)
	pair := env.loginUser(t, "bearer@example.com")

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", scheme+" "+pair.AccessToken)

		w, gotUser := runGate(t, env, req)
		if w.Code != http.StatusOK {
			t.Fatalf("scheme %q: expected 200, got %d", scheme, w.Code)
		}
		if gotUser == "" {
			t.Fatalf("scheme %q: expected user id in context", scheme)
		}
	}
}

func TestRequireAuth_CookieWinsOverHeader(t *testing.T) {
	env := newTestServices(t)
	pair := env.loginUser(t, "cookie@example.com")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: pair.AccessToken})
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	w, _ := runGate(t, env, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	env := newTestServices(t)
	pair := env.loginUser(t, "reject@example.com")

	expired, err := env.codec.WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}).Issue("someone", auth.TokenAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name   string
		cookie string
		header string
	}{
		{"nothing", "", ""},
		{"garbage cookie", "invalid.jwt.token", ""},
		{"tampered", pair.AccessToken + "x", ""},
		{"refresh token as access", pair.RefreshToken, ""},
		{"expired", expired, ""},
		{"basic scheme", "", "Basic dXNlcjpwYXNz"},
		{"bearer without token", "", "Bearer"},
		{"too many parts", "", "Bearer " + pair.AccessToken + " extra"},
		{"bearer refresh token", "", "Bearer " + pair.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w, gotUser := runGate(t, env, req)
			assertUnauthorized(t, w)
			if gotUser != "" {
				t.Fatal("inner handler should not be called")
			}
		})
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	env := newTestServices(t)
	pair := env.loginUser(t, "gone@example.com")

	if _, err := env.db.SqlDB.Exec("DELETE FROM users WHERE email = ?", "gone@example.com"); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: pair.AccessToken})

	w, _ := runGate(t, env, req)
	assertUnauthorized(t, w)
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the inner handler")
	})
	h := handler.CORS([]string{"http://localhost:3000"}, inner)

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS, PATCH" {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func TestCORS_SimpleRequest(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	h := handler.CORS([]string{"http://localhost:3000", "https://app.example.com"}, inner)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if !called {
		t.Fatal("expected inner handler to run")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if !slices.Contains(w.Header().Values("Vary"), "Origin") {
		t.Fatal("expected Vary: Origin")
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := handler.CORS([]string{"http://localhost:3000"}, inner)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed preflight, got %d", w.Code)
	}
}
