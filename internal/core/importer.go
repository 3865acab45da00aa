package core

// importer.go parses bulk import payloads into candidates.
//
// Two formats are supported:
//
//   - csv:  the first line is a header naming the columns; each following
//     non-blank line is one row. Fields are comma separated and a double
//     quote toggles quoted mode, inside which commas are literal.
//   - json: a single array; each element is one row object.
//
// Every row is validated independently. A row missing any of name,
// description, category or url becomes one entry in ImportResult.Errors and
// processing continues. Only structural problems (missing headers, a payload
// that is not a JSON array) abort the import, as a *FormatError.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// missingFieldsMessage is the per-row error text for an invalid row.
const missingFieldsMessage = "Missing required fields"

// ParseImport parses and validates a payload in the given format.
// It returns the counts, the valid candidates in input order, or a
// *FormatError when the payload is structurally invalid.
func ParseImport(data string, format Format) (ImportResult, []Candidate, error) {
	switch format {
	case FormatCSV:
		return parseDelimited(data)
	case FormatJSON:
		return parseStructured(data)
	default:
		return ImportResult{}, nil, &FormatError{Format: format, Message: "unsupported format"}
	}
}

// parseDelimited handles the csv format.
func parseDelimited(data string) (ImportResult, []Candidate, error) {
	lines := strings.Split(data, "\n")

	idx, missing := ValidateHeaders(SplitDelimitedLine(lines[0]))
	if len(missing) > 0 {
		return ImportResult{}, nil, &FormatError{
			Format:  FormatCSV,
			Message: "missing required headers: " + strings.Join(missing, ", "),
		}
	}

	result := ImportResult{Format: FormatCSV, Errors: []string{}}
	var candidates []Candidate

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		result.Total++

		row := delimitedRow{idx: idx, values: SplitDelimitedLine(lines[i])}
		c := row.candidate()
		if !c.Valid() {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %s", i+1, missingFieldsMessage))
			continue
		}
		candidates = append(candidates, c)
	}

	result.Failed = len(result.Errors)
	result.Success = result.Total - result.Failed
	return result, candidates, nil
}

// delimitedRow pairs one line's fields with the declared header set.
type delimitedRow struct {
	idx    HeaderIndex
	values []string
}

// field returns the trimmed value under the named column, or "" when the
// column is undeclared or the line is short.
func (r delimitedRow) field(name string) string {
	pos, ok := r.idx[name]
	if !ok || pos >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[pos])
}

func (r delimitedRow) candidate() Candidate {
	return Candidate{
		Name:        r.field("name"),
		Description: r.field("description"),
		Category:    r.field("category"),
		URL:         r.field("url"),
		LogoURL:     r.field("logoUrl"),
		Tags:        r.field("tags"),
	}
}

// SplitDelimitedLine splits one line on commas outside double quotes.
// Quote characters toggle quoted mode and are not kept in the output.
func SplitDelimitedLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(fields, current.String())
}

// parseStructured handles the json format.
func parseStructured(data string) (ImportResult, []Candidate, error) {
	var doc json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return ImportResult{}, nil, &FormatError{Format: FormatJSON, Message: "payload is not valid JSON", Err: err}
	}

	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ImportResult{}, nil, &FormatError{Format: FormatJSON, Message: "JSON data must be an array of tools"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return ImportResult{}, nil, &FormatError{Format: FormatJSON, Message: "payload is not valid JSON", Err: err}
	}

	result := ImportResult{Format: FormatJSON, Errors: []string{}}
	var candidates []Candidate

	for i, item := range items {
		result.Total++

		c := structuredCandidate(item)
		if !c.Valid() {
			result.Errors = append(result.Errors, fmt.Sprintf("Item %d: %s", i+1, missingFieldsMessage))
			continue
		}
		candidates = append(candidates, c)
	}

	result.Failed = len(result.Errors)
	result.Success = result.Total - result.Failed
	return result, candidates, nil
}

// structuredCandidate reads the known keys of one array element.
// Elements that are not objects yield an empty (invalid) candidate.
func structuredCandidate(item json.RawMessage) Candidate {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
		return Candidate{}
	}
	return Candidate{
		Name:        jsonText(obj["name"]),
		Description: jsonText(obj["description"]),
		Category:    jsonText(obj["category"]),
		URL:         jsonText(obj["url"]),
		LogoURL:     jsonText(obj["logoUrl"]),
		Tags:        jsonText(obj["tags"]),
	}
}

// jsonText converts a JSON value to field text.
// Strings are trimmed, so a whitespace-only string is absent, the same as a
// blank CSV cell; both formats count the same rows as failed. null, false
// and numeric zero count as absent; any other scalar or container is kept as
// its JSON text.
func jsonText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case 'n', 'f':
		return ""
	case 't', '[', '{':
		return string(raw)
	default:
		if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == 0 {
			return ""
		}
		return string(raw)
	}
}
