package wikilink

import (
	"bytes"
	"testing"

	"github.com/yuin/goldmark"
)

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func TestWikilink_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		src  string
		want string
	}{
		{
			name: "simple link",
			cfg:  Config{BaseURL: "/wiki/", EndURL: "/", HTMLClass: "wikilink", SpaceSep: "-"},
			src:  "This is a [[Simple Link]].",
			want: "<p>This is a <a href=\"/wiki/simple-link/\" class=\"wikilink\">Simple Link</a>.</p>\n",
		},
		{
			name: "two links with html suffix",
			cfg:  Config{BaseURL: "/docs/", EndURL: ".html", SpaceSep: "-"},
			src:  "Multiple [[First Link]] and [[Second Link]] here.",
			want: "<p>Multiple <a href=\"/docs/first-link.html\">First Link</a> and " +
				"<a href=\"/docs/second-link.html\">Second Link</a> here.</p>\n",
		},
		{
			name: "numbers kept",
			cfg:  Config{BaseURL: "/kb/", SpaceSep: "-"},
			src:  "[[Link with Numbers 123]]",
			want: "<p><a href=\"/kb/link-with-numbers-123\">Link with Numbers 123</a></p>\n",
		},
		{
			name: "empty base and end",
			cfg:  Config{SpaceSep: "-"},
			src:  "[[Single Word]]",
			want: "<p><a href=\"single-word\">Single Word</a></p>\n",
		},
		{
			name: "underscore separator",
			cfg:  Config{BaseURL: "/", EndURL: "/", SpaceSep: "_"},
			src:  "Link to [[My Page Name]].",
			want: "<p>Link to <a href=\"/my_page_name/\">My Page Name</a>.</p>\n",
		},
		{
			name: "transliterated label",
			cfg:  Config{BaseURL: "/", EndURL: "/", SpaceSep: "-"},
			src:  "[[Café Menu]]",
			want: "<p><a href=\"/cafe-menu/\">Café Menu</a></p>\n",
		},
		{
			name: "no wiki links",
			cfg:  DefaultConfig(),
			src:  "No wiki links here.",
			want: "<p>No wiki links here.</p>\n",
		},
		{
			name: "empty label stays text",
			cfg:  DefaultConfig(),
			src:  "Empty [[]] link.",
			want: "<p>Empty [[]] link.</p>\n",
		},
		{
			name: "whitespace label stays text",
			cfg:  DefaultConfig(),
			src:  "Blank [[   ]] link.",
			want: "<p>Blank [[   ]] link.</p>\n",
		},
		{
			name: "ordinary link untouched",
			cfg:  DefaultConfig(),
			src:  "[Example](https://example.com)",
			want: "<p><a href=\"https://example.com\">Example</a></p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md := goldmark.New(goldmark.WithExtensions(New(tt.cfg)))
			var buf bytes.Buffer
			if err := md.Convert([]byte(tt.src), &buf); err != nil {
				t.Fatalf("convert: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Slugs
// ---------------------------------------------------------------------------

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label, sep, want string
	}{
		{"Main Page", "-", "main-page"},
		{"UPPERCASE", "-", "uppercase"},
		{"Getting Started Guide", "_", "getting_started_guide"},
		{"a-b c", ".", "a.b.c"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.label, tt.sep); got != tt.want {
			t.Errorf("Slugify(%q, %q) = %q, want %q", tt.label, tt.sep, got, tt.want)
		}
	}
}
