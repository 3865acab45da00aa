package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateColumns is the full column set of an import, required ones first.
var TemplateColumns = []string{"name", "description", "category", "url", "logoUrl", "tags"}

// templateRows are the example rows shipped in downloadable templates.
var templateRows = []Candidate{
	{
		Name:        "ChatGPT",
		Description: "OpenAI's GPT-4 based conversational AI assistant.",
		Category:    "Chatbots",
		URL:         "https://chat.openai.com",
		LogoURL:     "https://example.com/logo.png",
		Tags:        "ai,chatbot,nlp",
	},
	{
		Name:        "DALL-E 3",
		Description: "Create realistic images and art from natural language descriptions.",
		Category:    "Image Generation",
		URL:         "https://openai.com/dall-e-3",
		LogoURL:     "https://example.com/dalle.png",
		Tags:        "ai,image,art",
	},
}

// ImportTemplate returns an example payload for the format.
// Every template imports cleanly: both rows are valid.
func ImportTemplate(format Format) (string, error) {
	switch format {
	case FormatCSV:
		var b strings.Builder
		b.WriteString(strings.Join(TemplateColumns, ","))
		for _, c := range templateRows {
			b.WriteString("\n")
			b.WriteString(quoteFields(c.Name, c.Description, c.Category, c.URL, c.LogoURL, c.Tags))
		}
		return b.String(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(templateRows, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal template: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown import format %q (use csv or json)", format)
	}
}

// TemplateFileName returns the download name for a format's template.
func TemplateFileName(format Format) string {
	return "ai-tools-template." + string(format)
}

func quoteFields(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}
