package blog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateAndGetRoundtrip(t *testing.T) {
	store := newTestStore(t)

	in := Post{
		Slug:    "first-post",
		Date:    "2026-08-01",
		Title:   "First Post",
		Tagline: "hello world",
		Preview: "a short preview",
		Image:   "https://cdn.example/hero.jpg",
		Body:    "# Heading\n\nSome **markdown** body.\n",
	}
	require.NoError(t, store.Create(in))

	got, err := store.Get("first-post")
	require.NoError(t, err)
	assert.Equal(t, in.Date, got.Date)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Tagline, got.Tagline)
	assert.Equal(t, in.Preview, got.Preview)
	assert.Equal(t, in.Image, got.Image)
	assert.Equal(t, in.Body, got.Body)
}

func TestCreateDuplicateSlug(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create(Post{Slug: "dupe", Title: "A"}))
	err := store.Create(Post{Slug: "dupe", Title: "B"})
	require.ErrorIs(t, err, ErrExists)
}

func TestListSortsByDateDescending(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create(Post{Slug: "old", Date: "2025-01-01", Title: "Old", Body: "x"}))
	require.NoError(t, store.Create(Post{Slug: "new", Date: "2026-06-15", Title: "New", Body: "y"}))
	require.NoError(t, store.Create(Post{Slug: "mid", Date: "2025-12-31", Title: "Mid", Body: "z"}))

	posts, err := store.List()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "new", posts[0].Slug)
	assert.Equal(t, "mid", posts[1].Slug)
	assert.Equal(t, "old", posts[2].Slug)

	// Listings omit bodies.
	for _, p := range posts {
		assert.Empty(t, p.Body)
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create(Post{Slug: "gone", Title: "Gone"}))
	require.NoError(t, store.Delete("gone"))

	_, err := store.Get("gone")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete("gone"), ErrNotFound)
}

func TestSlugValidationRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, slug := range []string{"", "../escape", "a/b", `a\b`, "..", "nested/.."} {
		_, err := store.Get(slug)
		assert.ErrorIs(t, err, ErrInvalidSlug, "slug %q", slug)
		assert.ErrorIs(t, store.Create(Post{Slug: slug}), ErrInvalidSlug, "slug %q", slug)
		assert.ErrorIs(t, store.Delete(slug), ErrInvalidSlug, "slug %q", slug)
	}
}

func TestGetUnknownSlug(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReindexPicksUpExternalFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	// A post dropped in by an external sync, not through the store.
	content := "---\ndate: \"2026-02-02\"\ntitle: Synced\ntagline: \"\"\npreview: \"\"\nimage: \"\"\n---\n\nBody text.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "synced.md"), []byte(content), 0o644))

	require.NoError(t, store.Reindex())
	posts, err := store.List()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "synced", posts[0].Slug)
	assert.Equal(t, "Synced", posts[0].Title)
}

func TestNewStoreIndexesExistingPosts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre.md"), []byte("just a body\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store, err := NewStore(dir)
	require.NoError(t, err)

	posts, err := store.List()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "pre", posts[0].Slug)
}
