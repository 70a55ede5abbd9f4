package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"leadpress/internal/middleware"
	"leadpress/internal/session"
)

// withSession attaches session data to the request context the way the
// session-loading middleware does.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// createTestUser inserts a user and registers cleanup.
func createTestUser(t *testing.T, env *testEnv) (email, password string, id uuid.UUID) {
	t.Helper()

	email = "auth-" + uuid.NewString()[:8] + "@example.com"
	password = "test-password-123"
	user, err := env.Users.Create(email, password, "Auth Test")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return email, password, user.ID
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	email, password, _ := createTestUser(t, env)

	w := httptest.NewRecorder()
	env.Auth.Login(w, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]any{
		"email":    email,
		"password": password,
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("expected success=true, got %v", body)
	}
	if body["requires2FA"] != false {
		t.Errorf("requires2FA: got %v, want false for a fresh account", body["requires2FA"])
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie on login")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	email, _, _ := createTestUser(t, env)

	tests := []struct {
		name        string
		email, pass string
	}{
		{"wrong password", email, "nope"},
		{"unknown user", "ghost-" + uuid.NewString()[:8] + "@example.com", "whatever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.Auth.Login(w, jsonRequest(t, http.MethodPost, "/api/admin/login", map[string]any{
				"email":    tt.email,
				"password": tt.pass,
			}))
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", w.Code)
			}
		})
	}
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// No session at all.
	w := httptest.NewRecorder()
	env.Auth.Session(w, httptest.NewRequest(http.MethodGet, "/api/admin/session", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no session: got %d, want 401", w.Code)
	}

	// Half-open session: logged in but 2FA pending.
	half := &session.Data{UserID: uuid.New(), Email: "half@example.com", TwoFADone: false}
	w = httptest.NewRecorder()
	env.Auth.Session(w, withSession(httptest.NewRequest(http.MethodGet, "/api/admin/session", nil), half))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("half-open session: got %d, want 401", w.Code)
	}

	// Fully authenticated.
	full := &session.Data{UserID: uuid.New(), Email: "full@example.com", DisplayName: "Full", TwoFADone: true}
	w = httptest.NewRecorder()
	env.Auth.Session(w, withSession(httptest.NewRequest(http.MethodGet, "/api/admin/session", nil), full))
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated: got %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	if !ok || user["email"] != "full@example.com" {
		t.Errorf("user: got %v", body)
	}
}

func TestTwoFASetupAndVerify(t *testing.T) {
	env := newTestEnv(t)
	email, _, userID := createTestUser(t, env)

	// Establish a half-open session backed by Valkey so the verify step can
	// persist the upgrade.
	createW := httptest.NewRecorder()
	sess := &session.Data{UserID: userID, Email: email, TwoFADone: false}
	if _, err := env.Sessions.Create(context.Background(), createW, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range createW.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}

	// Setup returns the shared secret and a QR code.
	w := httptest.NewRecorder()
	env.Auth.TwoFASetup(w, withSession(httptest.NewRequest(http.MethodPost, "/api/admin/2fa/setup", nil), sess))
	if w.Code != http.StatusOK {
		t.Fatalf("setup: got %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	secret, _ := body["secret"].(string)
	if secret == "" {
		t.Fatal("expected TOTP secret")
	}
	if qr, _ := body["qrCode"].(string); qr == "" {
		t.Fatal("expected QR code")
	}

	// A wrong code is rejected and 2FA stays disabled.
	r := jsonRequest(t, http.MethodPost, "/api/admin/2fa/verify", map[string]any{"code": "000000"})
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	env.Auth.TwoFAVerify(w, withSession(r, sess))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad code: got %d, want 401", w.Code)
	}

	// A valid code completes authentication and enables 2FA.
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	r = jsonRequest(t, http.MethodPost, "/api/admin/2fa/verify", map[string]any{"code": code})
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	env.Auth.TwoFAVerify(w, withSession(r, sess))
	if w.Code != http.StatusOK {
		t.Fatalf("verify: got %d, want 200: %s", w.Code, w.Body.String())
	}

	user, err := env.Users.FindByID(userID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !user.TOTPEnabled {
		t.Error("expected 2FA enabled after first verify")
	}

	// The stored session must now count as fully authenticated.
	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getReq.AddCookie(cookie)
	stored, err := env.Sessions.Get(context.Background(), getReq)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stored == nil || !stored.TwoFADone {
		t.Errorf("session not upgraded: %+v", stored)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)

	createW := httptest.NewRecorder()
	sess := &session.Data{UserID: uuid.New(), Email: "logout@example.com", TwoFADone: true}
	if _, err := env.Sessions.Create(context.Background(), createW, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	for _, c := range createW.Result().Cookies() {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.Auth.Logout(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: got %d, want 200", w.Code)
	}

	stored, err := env.Sessions.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stored != nil {
		t.Error("expected session destroyed")
	}
}
