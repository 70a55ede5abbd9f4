package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test keys.
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requestWithCookies builds a request carrying the cookies from a recorder.
func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	data := &Data{
		UserID:      uuid.New(),
		Email:       "test@session.local",
		DisplayName: "Test User",
		TwoFADone:   true,
	}

	sessionID, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sessionID == "" {
		t.Error("expected non-empty session ID")
	}

	// Verify cookie was set.
	cookies := w.Result().Cookies()
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == CookieName {
			found = c
		}
	}
	if found == nil {
		t.Fatal("session cookie not set")
	}
	if !found.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// Read the session back.
	got, err := store.Get(ctx, requestWithCookies(w))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session data")
	}
	if got.Email != data.Email || got.UserID != data.UserID || !got.TwoFADone {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := store.Get(context.Background(), r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil session without cookie")
	}
}

func TestSessionUpdate(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	data := &Data{UserID: uuid.New(), Email: "update@session.local", TwoFADone: false}
	if _, err := store.Create(ctx, w, data); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := requestWithCookies(w)
	data.TwoFADone = true
	if err := store.Update(ctx, r, data); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || !got.TwoFADone {
		t.Errorf("expected TwoFADone after update, got %+v", got)
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	if _, err := store.Create(ctx, w, &Data{UserID: uuid.New(), Email: "destroy@session.local"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := requestWithCookies(w)
	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, r); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	got, err := store.Get(ctx, r)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if got != nil {
		t.Error("expected nil session after destroy")
	}

	// The replacement cookie must be expired and carry the same
	// attributes Create sets, or browsers may keep the original.
	var replaced bool
	for _, c := range w2.Result().Cookies() {
		if c.Name != CookieName {
			continue
		}
		replaced = true
		if c.MaxAge >= 0 {
			t.Error("expected expired cookie after destroy")
		}
		if !c.HttpOnly {
			t.Error("expected HttpOnly on the replacement cookie")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("replacement cookie SameSite: got %v, want Lax", c.SameSite)
		}
	}
	if !replaced {
		t.Error("expected a replacement cookie after destroy")
	}
}
