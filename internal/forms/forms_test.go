package forms

import (
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare domain gets https", "google.com", "https://google.com", false},
		{"existing https kept", "https://example.org/page", "https://example.org/page", false},
		{"existing http kept", "http://example.org", "http://example.org", false},
		{"subdomain and path", "blog.example.co.uk/posts", "https://blog.example.co.uk/posts", false},
		{"spaces rejected", "not a url", "", true},
		{"no extension rejected", "localhost", "", true},
		{"single-letter extension rejected", "site.x", "", true},
		{"numeric extension rejected", "site.123", "", true},
		{"empty rejected", "", "", true},
		{"whitespace only rejected", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateEntryFields(t *testing.T) {
	validDesc := "A perfectly reasonable description."

	tests := []struct {
		name       string
		entryName  string
		category   string
		url        string
		desc       string
		wantFields []string
	}{
		{"all valid", "My Site", "Portfolio", "mysite.example", validDesc, nil},
		{"missing name", "", "Portfolio", "mysite.example", validDesc, []string{"name"}},
		{"name too short", "X", "Portfolio", "mysite.example", validDesc, []string{"name"}},
		{"name too long", strings.Repeat("a", 101), "Portfolio", "mysite.example", validDesc, []string{"name"}},
		{"missing category", "My Site", "", "mysite.example", validDesc, []string{"category"}},
		{"bad url", "My Site", "Portfolio", "not a url", validDesc, []string{"url"}},
		{"description too short", "My Site", "Portfolio", "mysite.example", "too short", []string{"description"}},
		{"description too long", "My Site", "Portfolio", "mysite.example", strings.Repeat("a", 1001), []string{"description"}},
		{"multiple failures collected", "", "", "bad", "short", []string{"name", "category", "url", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, errs := ValidateEntryFields(tt.entryName, tt.category, tt.url, tt.desc)
			if len(tt.wantFields) == 0 {
				if errs != nil {
					t.Fatalf("unexpected field errors: %v", errs)
				}
				if normalized != "https://mysite.example" {
					t.Errorf("normalized url = %q", normalized)
				}
				return
			}
			for _, field := range tt.wantFields {
				if errs[field] == "" {
					t.Errorf("expected an error for field %q, got %v", field, errs)
				}
			}
			if len(errs) != len(tt.wantFields) {
				t.Errorf("got %d field errors %v, want %d", len(errs), errs, len(tt.wantFields))
			}
		})
	}
}

func TestValidateCategoryName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{"valid", "Web Design", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too short", "A", true},
		{"too long", strings.Repeat("a", 51), true},
		{"illegal characters", "News & Views", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateCategoryName(tt.input)
			if tt.wantError && msg == "" {
				t.Error("expected an error message, got none")
			}
			if !tt.wantError && msg != "" {
				t.Errorf("unexpected error: %s", msg)
			}
		})
	}
}
