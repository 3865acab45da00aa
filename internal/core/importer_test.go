package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseImport_CSV(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantTotal   int
		wantSuccess int
		wantErrors  []string
	}{
		{
			name: "all rows valid",
			data: "name,description,category,url\n" +
				"A,Desc A,Chatbots,https://a.com\n" +
				"B,Desc B,Video,https://b.com",
			wantTotal:   2,
			wantSuccess: 2,
			wantErrors:  []string{},
		},
		{
			name: "missing field reported by physical line",
			data: "name,description,category,url\n" +
				"A,Desc A,Chatbots,https://a.com\n" +
				",Desc B,Video,https://b.com",
			wantTotal:   2,
			wantSuccess: 1,
			wantErrors:  []string{"Line 3: Missing required fields"},
		},
		{
			name:        "header only",
			data:        "name,description,category,url",
			wantTotal:   0,
			wantSuccess: 0,
			wantErrors:  []string{},
		},
		{
			name: "blank lines skipped but keep numbering",
			data: "name,description,category,url\n" +
				"\n" +
				"A,Desc,Chatbots,https://a.com\n" +
				"   \n" +
				"B,,Video,https://b.com\n",
			wantTotal:   2,
			wantSuccess: 1,
			wantErrors:  []string{"Line 5: Missing required fields"},
		},
		{
			name: "quoted commas stay in the field",
			data: "name,description,category,url\n" +
				`"Tool, Inc","Writes, edits and more",Productivity,https://t.com`,
			wantTotal:   1,
			wantSuccess: 1,
			wantErrors:  []string{},
		},
		{
			name: "short line fails validation",
			data: "name,description,category,url\n" +
				"A,Desc",
			wantTotal:   1,
			wantSuccess: 0,
			wantErrors:  []string{"Line 2: Missing required fields"},
		},
		{
			name: "whitespace-only value counts as missing",
			data: "name,description,category,url\n" +
				"A,   ,Chatbots,https://a.com",
			wantTotal:   1,
			wantSuccess: 0,
			wantErrors:  []string{"Line 2: Missing required fields"},
		},
		{
			name: "columns in any order",
			data: "url,category,name,description,tags\n" +
				"https://a.com,Chatbots,A,Desc,\"x,y\"",
			wantTotal:   1,
			wantSuccess: 1,
			wantErrors:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, candidates, err := ParseImport(tt.data, FormatCSV)
			if err != nil {
				t.Fatalf("ParseImport() error = %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", result.Total, tt.wantTotal)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %d, want %d", result.Success, tt.wantSuccess)
			}
			if result.Failed != len(tt.wantErrors) {
				t.Errorf("Failed = %d, want %d", result.Failed, len(tt.wantErrors))
			}
			if !reflect.DeepEqual(result.Errors, tt.wantErrors) {
				t.Errorf("Errors = %#v, want %#v", result.Errors, tt.wantErrors)
			}
			if len(candidates) != tt.wantSuccess {
				t.Errorf("len(candidates) = %d, want %d", len(candidates), tt.wantSuccess)
			}
			if result.Success+result.Failed != result.Total {
				t.Errorf("Success+Failed = %d, Total = %d", result.Success+result.Failed, result.Total)
			}
		})
	}
}

func TestParseImport_CSVCandidateFields(t *testing.T) {
	data := "name,description,category,url,logoUrl,tags\n" +
		`" Tool, Inc ",Does things,Chatbots,https://t.com,https://t.com/logo.png,"ai,chat"`

	_, candidates, err := ParseImport(data, FormatCSV)
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}

	want := Candidate{
		Name:        "Tool, Inc",
		Description: "Does things",
		Category:    "Chatbots",
		URL:         "https://t.com",
		LogoURL:     "https://t.com/logo.png",
		Tags:        "ai,chat",
	}
	if candidates[0] != want {
		t.Errorf("candidate = %+v, want %+v", candidates[0], want)
	}
}

func TestParseImport_CSVMissingHeaders(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		missing string
	}{
		{name: "no url", data: "name,description,category\nA,B,C", missing: "url"},
		{name: "two missing", data: "name,url\nA,https://a.com", missing: "description, category"},
		{name: "empty payload", data: "", missing: "name, description, category, url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseImport(tt.data, FormatCSV)

			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			want := "missing required headers: " + tt.missing
			if ferr.Message != want {
				t.Errorf("Message = %q, want %q", ferr.Message, want)
			}
		})
	}
}

func TestParseImport_JSON(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantTotal   int
		wantSuccess int
		wantErrors  []string
	}{
		{
			name:        "one valid item",
			data:        `[{"name":"A","description":"D","category":"Chatbots","url":"https://a.com"}]`,
			wantTotal:   1,
			wantSuccess: 1,
			wantErrors:  []string{},
		},
		{
			name: "second item missing url",
			data: `[{"name":"A","description":"D","category":"Chatbots","url":"https://a.com"},
				{"name":"B","description":"D","category":"Video"}]`,
			wantTotal:   2,
			wantSuccess: 1,
			wantErrors:  []string{"Item 2: Missing required fields"},
		},
		{
			name:        "empty array",
			data:        `[]`,
			wantTotal:   0,
			wantSuccess: 0,
			wantErrors:  []string{},
		},
		{
			name:        "non-object element",
			data:        `["just a string", 42]`,
			wantTotal:   2,
			wantSuccess: 0,
			wantErrors:  []string{"Item 1: Missing required fields", "Item 2: Missing required fields"},
		},
		{
			name:        "null false and zero count as missing",
			data:        `[{"name":null,"description":"D","category":"C","url":"u"},{"name":"A","description":false,"category":"C","url":"u"},{"name":"A","description":"D","category":0,"url":"u"}]`,
			wantTotal:   3,
			wantSuccess: 0,
			wantErrors:  []string{"Item 1: Missing required fields", "Item 2: Missing required fields", "Item 3: Missing required fields"},
		},
		{
			name:        "whitespace string counts as missing",
			data:        `[{"name":"  ","description":"D","category":"C","url":"u"}]`,
			wantTotal:   1,
			wantSuccess: 0,
			wantErrors:  []string{"Item 1: Missing required fields"},
		},
		{
			name:        "non-zero number is a value",
			data:        `[{"name":7,"description":"D","category":"C","url":"u"}]`,
			wantTotal:   1,
			wantSuccess: 1,
			wantErrors:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, candidates, err := ParseImport(tt.data, FormatJSON)
			if err != nil {
				t.Fatalf("ParseImport() error = %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", result.Total, tt.wantTotal)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %d, want %d", result.Success, tt.wantSuccess)
			}
			if !reflect.DeepEqual(result.Errors, tt.wantErrors) {
				t.Errorf("Errors = %#v, want %#v", result.Errors, tt.wantErrors)
			}
			if len(candidates) != tt.wantSuccess {
				t.Errorf("len(candidates) = %d, want %d", len(candidates), tt.wantSuccess)
			}
		})
	}
}

func TestParseImport_JSONStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed", data: `[{"name":`},
		{name: "object not array", data: `{"name":"A"}`},
		{name: "scalar", data: `"tools"`},
		{name: "empty", data: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, candidates, err := ParseImport(tt.data, FormatJSON)
			if !IsFormat(err) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if result.Total != 0 || candidates != nil {
				t.Errorf("expected no partial result, got %+v / %v", result, candidates)
			}
		})
	}
}

func TestParseImport_UnknownFormat(t *testing.T) {
	_, _, err := ParseImport("x", Format("xml"))
	if !IsFormat(err) {
		t.Errorf("expected *FormatError, got %v", err)
	}
}

func TestParseImport_FormatsAgree(t *testing.T) {
	csvData := "name,description,category,url\n" +
		"A,Desc,Chatbots,https://a.com\n" +
		"B,,Video,https://b.com\n" +
		"C,Desc,Audio,https://c.com"
	jsonData := `[
		{"name":"A","description":"Desc","category":"Chatbots","url":"https://a.com"},
		{"name":"B","description":"","category":"Video","url":"https://b.com"},
		{"name":"C","description":"Desc","category":"Audio","url":"https://c.com"}
	]`

	csvResult, csvCandidates, err := ParseImport(csvData, FormatCSV)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	jsonResult, jsonCandidates, err := ParseImport(jsonData, FormatJSON)
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	if csvResult.Total != jsonResult.Total || csvResult.Success != jsonResult.Success || csvResult.Failed != jsonResult.Failed {
		t.Errorf("counts differ: csv %+v, json %+v", csvResult, jsonResult)
	}
	if !reflect.DeepEqual(csvCandidates, jsonCandidates) {
		t.Errorf("candidates differ:\ncsv  %+v\njson %+v", csvCandidates, jsonCandidates)
	}
}

func TestSplitDelimitedLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "a,b,c", want: []string{"a", "b", "c"}},
		{line: `"a,b",c`, want: []string{"a,b", "c"}},
		{line: "a,,c", want: []string{"a", "", "c"}},
		{line: "", want: []string{""}},
		{line: `"unterminated,rest`, want: []string{"unterminated,rest"}},
		{line: "trailing,", want: []string{"trailing", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := SplitDelimitedLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitDelimitedLine(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestImportTemplate_ParsesCleanly(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			tmpl, err := ImportTemplate(format)
			if err != nil {
				t.Fatalf("ImportTemplate() error = %v", err)
			}
			result, _, err := ParseImport(tmpl, format)
			if err != nil {
				t.Fatalf("ParseImport(template) error = %v", err)
			}
			if result.Total != len(templateRows) || result.Failed != 0 {
				t.Errorf("template result = %+v, want %d clean rows", result, len(templateRows))
			}
		})
	}

	if _, err := ImportTemplate(Format("xml")); err == nil {
		t.Error("expected error for unknown format")
	}
	if got := TemplateFileName(FormatCSV); !strings.HasSuffix(got, ".csv") {
		t.Errorf("TemplateFileName(csv) = %q", got)
	}
}

func TestParseImport_DocumentedExamples(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		data := "name,description,category,url\n" +
			`"A","d1","Chatbots","https://a.com"` + "\n" +
			`"B","","Chatbots","https://b.com"`

		result, _, err := ParseImport(data, FormatCSV)
		if err != nil {
			t.Fatalf("ParseImport() error = %v", err)
		}
		want := ImportResult{Format: FormatCSV, Total: 2, Success: 1, Failed: 1, Errors: []string{"Line 3: Missing required fields"}}
		if !reflect.DeepEqual(result, want) {
			t.Errorf("result = %+v, want %+v", result, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		data := `[{"name":"A","description":"d","category":"c","url":"https://a.com"}, {"name":"B"}]`

		result, _, err := ParseImport(data, FormatJSON)
		if err != nil {
			t.Fatalf("ParseImport() error = %v", err)
		}
		want := ImportResult{Format: FormatJSON, Total: 2, Success: 1, Failed: 1, Errors: []string{"Item 2: Missing required fields"}}
		if !reflect.DeepEqual(result, want) {
			t.Errorf("result = %+v, want %+v", result, want)
		}
	})
}
