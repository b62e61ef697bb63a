package figcap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

func convert(t *testing.T, src string) string {
	t.Helper()
	md := goldmark.New(
		goldmark.WithExtensions(Figcap),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatalf("convert: %v", err)
	}
	return buf.String()
}

func TestFigcap_Exact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "titled image becomes figure",
			src:  `![alt text](image.png "This is the caption")`,
			want: "<figure>\n" +
				`<img src="image.png" alt="alt text" title="This is the caption" />` + "\n" +
				"<figcaption>This is the caption</figcaption>\n" +
				"</figure>\n",
		},
		{
			name: "untitled image untouched",
			src:  "![alt text](image.png)",
			want: `<p><img src="image.png" alt="alt text" /></p>` + "\n",
		},
		{
			name: "inline figure inside text",
			src:  `An image ![alt text](image.png "Caption here") and text.`,
			want: `<p>An image <figure><img src="image.png" alt="alt text" title="Caption here" />` +
				`<figcaption>Caption here</figcaption></figure> and text.</p>` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := convert(t, tt.src); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestFigcap_Contains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		src          string
		wantContains []string
		wantCount    map[string]int
	}{
		{
			name: "caption escaped like the title",
			src:  `![alt with "quotes"](url/to/image.jpeg "Caption with & ampersand and < > symbols")`,
			wantContains: []string{
				`alt="alt with &quot;quotes&quot;"`,
				`title="Caption with &amp; ampersand and &lt; &gt; symbols"`,
				"<figcaption>Caption with &amp; ampersand and &lt; &gt; symbols</figcaption>",
			},
		},
		{
			name:         "image rendered once",
			src:          `![alt text](image.png "My Caption")`,
			wantContains: []string{`title="My Caption"`},
			wantCount:    map[string]int{`src="image.png"`: 1, "<figure>": 1},
		},
		{
			name:         "reference image with title",
			src:          "![logo][l]\n\n[l]: logo.svg \"Company logo\"",
			wantContains: []string{"<figcaption>Company logo</figcaption>"},
		},
		{
			name:         "two titled images in one paragraph",
			src:          `![a](a.png "A") ![b](b.png "B")`,
			wantContains: []string{"<figcaption>A</figcaption>", "<figcaption>B</figcaption>", "<p>"},
			wantCount:    map[string]int{"<figure>": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := convert(t, tt.src)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for s, n := range tt.wantCount {
				if c := strings.Count(got, s); c != n {
					t.Errorf("count(%q) = %d, want %d\ngot: %s", s, c, n, got)
				}
			}
		})
	}
}
