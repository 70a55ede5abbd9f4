package store

import (
	"testing"

	"github.com/google/uuid"

	"leadpress/internal/apperr"
	"leadpress/internal/models"
	"leadpress/internal/slug"
)

func TestTagStoreCreateAndConflict(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	tagSlug := "test-tag-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTags(t, db, tagSlug) })

	created, err := s.Create("My Tag", tagSlug)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "My Tag" {
		t.Errorf("name: got %q", created.Name)
	}

	_, err = s.Create("Other Name", tagSlug)
	ae := apperr.As(err)
	if ae == nil || ae.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestTagStoreCreateBulkSkipsExisting(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	base := "test-bulk-" + uuid.NewString()[:8]
	nameA := base + " alpha"
	nameB := base + " beta"
	t.Cleanup(func() { cleanTags(t, db, slug.Generate(nameA), slug.Generate(nameB)) })

	// Pre-create one of the two.
	if _, err := s.Create(nameA, slug.Generate(nameA)); err != nil {
		t.Fatalf("pre-create: %v", err)
	}

	created, err := s.CreateBulk([]string{nameA, nameB, "  "})
	if err != nil {
		t.Fatalf("CreateBulk: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created: got %d tags, want 1 (existing and blank skipped)", len(created))
	}
	if created[0].Slug != slug.Generate(nameB) {
		t.Errorf("slug: got %q, want %q", created[0].Slug, slug.Generate(nameB))
	}
}

func TestTagStoreDeleteGuard(t *testing.T) {
	db := testDB(t)
	tags := NewTagStore(db)
	posts := NewPostStore(db)

	tagSlug := "test-tag-guard-" + uuid.NewString()[:8]
	postSlug := "test-tag-guard-post-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, postSlug)
		cleanTags(t, db, tagSlug)
	})

	tag, err := tags.Create("Guarded Tag", tagSlug)
	if err != nil {
		t.Fatalf("Create tag: %v", err)
	}
	post, err := posts.Create(&models.PostInput{
		Title: "Tagged", Slug: postSlug,
		Tags:   []uuid.UUID{tag.ID},
		Status: models.PostStatusDraft,
	})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}

	err = tags.Delete(tag.ID)
	ae := apperr.As(err)
	if ae == nil || ae.Code != "CONFLICT" {
		t.Fatalf("expected CONFLICT while referenced, got %v", err)
	}

	if err := posts.Delete(post.ID); err != nil {
		t.Fatalf("Delete post: %v", err)
	}
	if err := tags.Delete(tag.ID); err != nil {
		t.Fatalf("Delete tag after unreference: %v", err)
	}
}

func TestTagStoreSidebarOrdersByCount(t *testing.T) {
	db := testDB(t)
	tags := NewTagStore(db)
	posts := NewPostStore(db)

	hotSlug := "test-tag-hot-" + uuid.NewString()[:8]
	coldSlug := "test-tag-cold-" + uuid.NewString()[:8]
	postA := "test-tag-sb-a-" + uuid.NewString()[:8]
	postB := "test-tag-sb-b-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanPosts(t, db, postA, postB)
		cleanTags(t, db, hotSlug, coldSlug)
	})

	hot, err := tags.Create("Hot", hotSlug)
	if err != nil {
		t.Fatalf("Create hot: %v", err)
	}
	cold, err := tags.Create("Cold", coldSlug)
	if err != nil {
		t.Fatalf("Create cold: %v", err)
	}

	// Hot gets two visible posts, cold gets one.
	if _, err := posts.Create(&models.PostInput{
		Title: "A", Slug: postA,
		Tags: []uuid.UUID{hot.ID, cold.ID}, Status: models.PostStatusPublished,
	}); err != nil {
		t.Fatalf("Create A: %v", err)
	}
	if _, err := posts.Create(&models.PostInput{
		Title: "B", Slug: postB,
		Tags: []uuid.UUID{hot.ID}, Status: models.PostStatusPublished,
	}); err != nil {
		t.Fatalf("Create B: %v", err)
	}

	sidebar, err := tags.Sidebar(100)
	if err != nil {
		t.Fatalf("Sidebar: %v", err)
	}

	hotIdx, coldIdx := -1, -1
	for i, tag := range sidebar {
		switch tag.Slug {
		case hotSlug:
			hotIdx = i
			if tag.PostCount != 2 {
				t.Errorf("hot count: got %d, want 2", tag.PostCount)
			}
		case coldSlug:
			coldIdx = i
		}
	}
	if hotIdx == -1 || coldIdx == -1 {
		t.Fatal("expected both tags in sidebar")
	}
	if hotIdx > coldIdx {
		t.Errorf("hot tag should rank before cold: hot=%d cold=%d", hotIdx, coldIdx)
	}
}
