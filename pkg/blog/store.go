// Package blog stores posts as Markdown files with YAML front-matter,
// identified by filename-derived slugs. The relational store is not involved;
// the content directory is the source of truth.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNotFound is returned when no post exists for a slug.
var ErrNotFound = errors.New("post not found")

// ErrExists is returned when creating a post whose slug is already taken.
var ErrExists = errors.New("post already exists")

// ErrInvalidSlug is returned for slugs that are empty or would escape the
// content directory.
var ErrInvalidSlug = errors.New("invalid slug")

// Post is a blog post: front-matter fields plus the raw Markdown body.
type Post struct {
	Slug    string `json:"slug"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	Preview string `json:"preview"`
	Image   string `json:"image"`
	Body    string `json:"body,omitempty"`
}

// Store reads and writes posts under a single content directory. A cached
// slug index backs existence checks and listing; the index is refreshed on
// every mutation and, when Watch is running, on external file changes.
type Store struct {
	dir string

	mu    sync.RWMutex
	slugs map[string]struct{}
}

// NewStore creates a Store rooted at dir, creating the directory if needed,
// and builds the initial slug index.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	s := &Store{dir: dir, slugs: map[string]struct{}{}}
	if err := s.Reindex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reindex rebuilds the slug index from the directory contents.
func (s *Store) Reindex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read content dir: %w", err)
	}
	slugs := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slugs[strings.TrimSuffix(name, ".md")] = struct{}{}
	}
	s.mu.Lock()
	s.slugs = slugs
	s.mu.Unlock()
	return nil
}

// List returns all posts without bodies, newest date first.
func (s *Store) List() ([]Post, error) {
	s.mu.RLock()
	slugs := make([]string, 0, len(s.slugs))
	for slug := range s.slugs {
		slugs = append(slugs, slug)
	}
	s.mu.RUnlock()

	posts := make([]Post, 0, len(slugs))
	for _, slug := range slugs {
		post, err := s.Get(slug)
		if err != nil {
			// A file deleted between index and read is not an error.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		post.Body = ""
		posts = append(posts, *post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// Get reads and parses one post by slug.
func (s *Store) Get(slug string) (*Post, error) {
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("read post: %w", err)
	}
	post, err := decodePost(slug, data)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create writes a new post file. The write is atomic (temp file + rename) so
// a crash never leaves a half-written post behind.
func (s *Store) Create(post Post) error {
	if err := validateSlug(post.Slug); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.slugs[post.Slug]; taken {
		return fmt.Errorf("%s: %w", post.Slug, ErrExists)
	}

	data, err := encodePost(post)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".post-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write post: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(post.Slug)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename post: %w", err)
	}
	s.slugs[post.Slug] = struct{}{}
	return nil
}

// Delete removes a post file by slug.
func (s *Store) Delete(slug string) error {
	if err := validateSlug(slug); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(slug)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", slug, ErrNotFound)
		}
		return fmt.Errorf("delete post: %w", err)
	}
	delete(s.slugs, slug)
	return nil
}

// Watch refreshes the slug index when the content directory changes on disk,
// e.g. posts synced by an external deploy. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch content dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if err := s.Reindex(); err != nil {
				logger.Error("blog reindex failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("blog watcher error", "error", err)
		}
	}
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// validateSlug rejects empty slugs and anything containing a path separator
// or traversal component.
func validateSlug(slug string) error {
	if slug == "" {
		return ErrInvalidSlug
	}
	if strings.ContainsAny(slug, "/\\") || strings.Contains(slug, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}
