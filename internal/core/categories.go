package core

import "strings"

// Category is one of the fixed directory sections a tool can be filed under.
type Category struct {
	Slug  string `json:"slug" yaml:"slug"`
	Label string `json:"label" yaml:"label"`
}

// Categories is the enumerated category set, in display order.
var Categories = []Category{
	{Slug: "chatbots", Label: "Chatbots"},
	{Slug: "image_generation", Label: "Image Generation"},
	{Slug: "video", Label: "Video"},
	{Slug: "audio", Label: "Audio"},
	{Slug: "productivity", Label: "Productivity"},
	{Slug: "development", Label: "Development"},
	{Slug: "business", Label: "Business"},
	{Slug: "education", Label: "Education"},
	{Slug: "marketing", Label: "Marketing"},
}

// LookupCategory finds a category by slug or label, ignoring case.
// Spaces, hyphens and underscores are interchangeable, so "image-generation",
// "Image Generation" and "image_generation" all resolve to the same entry.
func LookupCategory(s string) (Category, bool) {
	key := categoryKey(s)
	if key == "" {
		return Category{}, false
	}
	for _, c := range Categories {
		if categoryKey(c.Slug) == key || categoryKey(c.Label) == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryLabels returns the display labels of all categories.
func CategoryLabels() []string {
	labels := make([]string, len(Categories))
	for i, c := range Categories {
		labels[i] = c.Label
	}
	return labels
}

func categoryKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
