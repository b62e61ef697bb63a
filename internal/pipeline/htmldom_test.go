package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ---------------------------------------------------------------------------
// TestEditHTML - Fragment and document round-trips through goquery
// ---------------------------------------------------------------------------

func TestEditHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		html         string
		normalize    bool
		edit         func(doc *goquery.Document) error
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "fragment unchanged",
			html:         "<p>one</p>\n<p>two</p>\n",
			edit:         func(*goquery.Document) error { return nil },
			wantContains: []string{"<p>one</p>\n<p>two</p>\n"},
			wantExcludes: []string{"<html>", "<body>"},
		},
		{
			name: "element removed, tail text kept",
			html: "<p>keep <del>drop</del> tail</p>",
			edit: func(doc *goquery.Document) error {
				doc.Find("del").Remove()
				return nil
			},
			wantContains: []string{"<p>keep  tail</p>"},
			wantExcludes: []string{"drop"},
		},
		{
			name: "attributes added",
			html: "<code>x</code>",
			edit: func(doc *goquery.Document) error {
				doc.Find("code").SetAttr("translate", "no")
				return nil
			},
			wantContains: []string{`<code translate="no">x</code>`},
		},
		{
			name:         "normalize builds a full document",
			html:         "<p>x</p>",
			normalize:    true,
			edit:         func(*goquery.Document) error { return nil },
			wantContains: []string{"<html><head></head><body><p>x</p></body></html>"},
		},
		{
			name:         "full document input stays a document",
			html:         "<!DOCTYPE html><html><head></head><body><p>x</p></body></html>",
			edit:         func(*goquery.Document) error { return nil },
			wantContains: []string{"<!DOCTYPE html>", "<body><p>x</p></body>"},
		},
		{
			name:         "void elements",
			html:         `<p><img src="a.png" alt="a"/></p>`,
			edit:         func(*goquery.Document) error { return nil },
			wantContains: []string{`<img src="a.png" alt="a"/>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := EditHTML([]byte(tt.html), tt.normalize, tt.edit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := string(out)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestEditHTML_EditError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := EditHTML([]byte("<p>x</p>"), false, func(*goquery.Document) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestParseHTML_DetectsDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input        string
		wantFragment bool
	}{
		{"<p>x</p>", true},
		{"  <!doctype html><p>x</p>", false},
		{"<HTML><body></body></HTML>", false},
		{"", true},
	}

	for _, tt := range tests {
		_, isFragment, err := ParseHTML([]byte(tt.input))
		if err != nil {
			t.Fatalf("ParseHTML(%q): %v", tt.input, err)
		}
		if isFragment != tt.wantFragment {
			t.Errorf("ParseHTML(%q) fragment = %v, want %v", tt.input, isFragment, tt.wantFragment)
		}
	}
}
