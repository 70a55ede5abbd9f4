// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"leadpress/internal/cache"
	"leadpress/internal/database"
	"leadpress/internal/session"
	"leadpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "leadpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "leadpress")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "resp:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB           *sql.DB
	Valkey       *redis.Client
	Sessions     *session.Store
	Posts        *store.PostStore
	Categories   *store.CategoryStore
	Tags         *store.TagStore
	Leads        *store.LeadStore
	Applications *store.ApplicationStore
	Users        *store.UserStore
	RespCache    *cache.ResponseCache
	Admin        *Admin
	Auth         *Auth
	Public       *Public
}

// newTestEnv creates a complete test environment. Mail and object storage
// are left unconfigured: submissions must still persist without them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	posts := store.NewPostStore(db)
	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	leads := store.NewLeadStore(db)
	applications := store.NewApplicationStore(db)
	users := store.NewUserStore(db)
	respCache := cache.NewResponseCache(vk, 1*time.Minute)

	return &testEnv{
		DB:           db,
		Valkey:       vk,
		Sessions:     sessions,
		Posts:        posts,
		Categories:   categories,
		Tags:         tags,
		Leads:        leads,
		Applications: applications,
		Users:        users,
		RespCache:    respCache,
		Admin:        NewAdmin(posts, categories, tags, leads, applications, nil, respCache),
		Auth:         NewAuth(sessions, users),
		Public:       NewPublic(posts, categories, tags, leads, applications, nil, respCache),
	}
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals a recorder body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// cleanPosts removes test posts by slug.
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1 OR slug LIKE $2", s, s+"-copy%")
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", s)
	}
}

// cleanTags removes test tags by slug.
func cleanTags(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM tags WHERE slug = $1", s)
	}
}

// cleanLeads removes test leads by email.
func cleanLeads(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM leads WHERE email = $1", email)
	}
}

// cleanApplications removes test applications by email.
func cleanApplications(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM applications WHERE email = $1", email)
	}
}
