package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "My Portfolio Site", "my-portfolio-site"},
		{"punctuation stripped", "News & Blogs!", "news-blogs"},
		{"underscores become hyphens", "e_com_sites", "e-com-sites"},
		{"surrounding whitespace", "  Padded  ", "padded"},
		{"consecutive separators collapse", "a -- b", "a-b"},
		{"empty falls back", "!!!", "item"},
		{"long input truncated", strings.Repeat("abc ", 40), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if tt.want != "" && got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > maxLen {
				t.Errorf("Generate(%q) produced %d chars, cap is %d", tt.input, len(got), maxLen)
			}
			if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
				t.Errorf("Generate(%q) = %q has a dangling hyphen", tt.input, got)
			}
		})
	}
}
