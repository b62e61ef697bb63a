package pipeline

import (
	"context"
	"regexp"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocessor rewrites Markdown source before goldmark parses it.
// meta holds the document front matter and may be nil.
type Preprocessor interface {
	Preprocess(ctx context.Context, src []byte, meta map[string]any) ([]byte, error)
}

// Postprocessor rewrites the HTML fragment goldmark rendered.
type Postprocessor interface {
	Postprocess(ctx context.Context, html []byte) ([]byte, error)
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(src []byte) []byte {
	return crlfOrCR.ReplaceAll(src, []byte("\n"))
}

// RunPreprocessors applies stages in order, stopping at the first error or
// when ctx is done.
func RunPreprocessors(ctx context.Context, stages []Preprocessor, src []byte, meta map[string]any) ([]byte, error) {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := s.Preprocess(ctx, src, meta)
		if err != nil {
			return nil, err
		}
		src = out
	}
	return src, nil
}

// RunPostprocessors applies stages in order, stopping at the first error or
// when ctx is done.
func RunPostprocessors(ctx context.Context, stages []Postprocessor, html []byte) ([]byte, error) {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := s.Postprocess(ctx, html)
		if err != nil {
			return nil, err
		}
		html = out
	}
	return html, nil
}
