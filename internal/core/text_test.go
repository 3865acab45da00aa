package core

import "testing"

func TestCleanPayload(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain", in: []byte("a,b\nc,d"), want: "a,b\nc,d"},
		{name: "bom stripped", in: append([]byte{0xEF, 0xBB, 0xBF}, "name"...), want: "name"},
		{name: "crlf normalized", in: []byte("a\r\nb\r\n"), want: "a\nb\n"},
		{name: "lone cr normalized", in: []byte("a\rb"), want: "a\nb"},
		{name: "invalid byte replaced", in: []byte{'c', 'a', 'f', 0xE9}, want: "caf\uFFFD"},
		{name: "valid multibyte kept", in: []byte("café"), want: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanPayload(tt.in); got != tt.want {
				t.Errorf("CleanPayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanPayload_CRLFKeepsLineNumbers(t *testing.T) {
	data := CleanPayload([]byte("name,description,category,url\r\nA,D,Chatbots,https://a.com\r\n,D,Video,https://b.com\r\n"))

	result, _, err := ParseImport(data, FormatCSV)
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Line 3: Missing required fields" {
		t.Errorf("Errors = %v", result.Errors)
	}
}
