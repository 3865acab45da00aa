// Package catalog holds the published tool directory.
//
// Tools enter the catalog from a YAML seed at startup, from approved
// submissions, and from bulk imports. A tool whose URL is already listed
// (compared case-insensitively, ignoring a trailing slash) is skipped.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/aitools/internal/core"
)

//go:embed seed.yaml
var defaultSeed []byte

// seedFile is the YAML document shape.
type seedFile struct {
	Tools []core.Tool `yaml:"tools"`
}

// CategoryCount is a category with the number of tools filed under it.
type CategoryCount struct {
	core.Category
	Count int `json:"count"`
}

// Catalog is an in-memory, concurrency-safe tool directory.
type Catalog struct {
	mu    sync.RWMutex
	tools []core.Tool
	urls  map[string]struct{}
	now   func() time.Time
}

var _ core.Catalog = (*Catalog)(nil)

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{urls: make(map[string]struct{}), now: time.Now}
}

// Load creates a catalog seeded from path, or from the embedded seed when
// path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog seed: %w", err)
		}
		data = b
	}

	tools, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}

	c := New()
	if _, err := c.Add(context.Background(), tools...); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) ([]core.Tool, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	for i, t := range doc.Tools {
		if t.Name == "" || t.URL == "" {
			return nil, fmt.Errorf("parse catalog seed: tool %d needs name and url", i+1)
		}
		if doc.Tools[i].Source == "" {
			doc.Tools[i].Source = "seed"
		}
	}
	return doc.Tools, nil
}

// Add publishes tools and returns how many were new.
func (c *Catalog) Add(_ context.Context, tools ...core.Tool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, t := range tools {
		key := core.NormalizeURLKey(t.URL)
		if key == "" {
			continue
		}
		if _, dup := c.urls[key]; dup {
			continue
		}
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.AddedAt.IsZero() {
			t.AddedAt = c.now().UTC()
		}
		t.Tags = append([]string(nil), t.Tags...)
		c.urls[key] = struct{}{}
		c.tools = append(c.tools, t)
		added++
	}
	return added, nil
}

// List returns tools in the given category, or every tool when category is
// empty. Category matching accepts slugs and labels.
func (c *Catalog) List(category string) []core.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	want := categoryMatcher(category)
	out := make([]core.Tool, 0, len(c.tools))
	for _, t := range c.tools {
		if want(t.Category) {
			out = append(out, copyTool(t))
		}
	}
	return out
}

// Search returns tools whose name, description or tags contain query,
// ignoring case. An empty query returns nothing.
func (c *Catalog) Search(query string) []core.Tool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []core.Tool{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []core.Tool{}
	for _, t := range c.tools {
		if matches(t, q) {
			out = append(out, copyTool(t))
		}
	}
	return out
}

// Filter combines List and Search: tools in category matching query.
func (c *Catalog) Filter(category, query string) []core.Tool {
	if strings.TrimSpace(query) == "" {
		return c.List(category)
	}
	want := categoryMatcher(category)
	var out []core.Tool
	for _, t := range c.Search(query) {
		if want(t.Category) {
			out = append(out, t)
		}
	}
	if out == nil {
		out = []core.Tool{}
	}
	return out
}

// Categories returns every enumerated category with its tool count, followed
// by any other category names present in the catalog.
func (c *Catalog) Categories() []CategoryCount {
	c.mu.RLock()
	counts := make(map[string]int)
	for _, t := range c.tools {
		counts[t.Category]++
	}
	c.mu.RUnlock()

	out := make([]CategoryCount, 0, len(core.Categories))
	for _, cat := range core.Categories {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat.Label]})
		delete(counts, cat.Label)
	}

	extra := make([]string, 0, len(counts))
	for name := range counts {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, CategoryCount{
			Category: core.Category{Slug: slugify(name), Label: name},
			Count:    counts[name],
		})
	}
	return out
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

func categoryMatcher(category string) func(string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return func(string) bool { return true }
	}
	if cat, ok := core.LookupCategory(category); ok {
		return func(s string) bool { return s == cat.Label }
	}
	return func(s string) bool { return strings.EqualFold(s, category) }
}

func matches(t core.Tool, q string) bool {
	if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func copyTool(t core.Tool) core.Tool {
	t.Tags = append([]string(nil), t.Tags...)
	return t
}

func slugify(s string) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
}
