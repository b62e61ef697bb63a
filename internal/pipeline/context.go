package pipeline

import (
	"context"

	"github.com/yuin/goldmark/parser"
)

var (
	sourceDirKey  = parser.NewContextKey()
	convertCtxKey = parser.NewContextKey()
)

// WithSourceDir records the directory of the document being converted, so
// extensions can resolve relative file references.
func WithSourceDir(pc parser.Context, dir string) parser.Context {
	pc.Set(sourceDirKey, dir)
	return pc
}

// SourceDir returns the directory stored by WithSourceDir, or "".
func SourceDir(pc parser.Context) string {
	if pc == nil {
		return ""
	}
	dir, _ := pc.Get(sourceDirKey).(string)
	return dir
}

// WithConvertContext records the context of the running conversion, so
// transformers doing I/O stop when it is cancelled.
func WithConvertContext(pc parser.Context, ctx context.Context) parser.Context {
	pc.Set(convertCtxKey, ctx)
	return pc
}

// ConvertContext returns the context stored by WithConvertContext, or
// context.Background.
func ConvertContext(pc parser.Context) context.Context {
	if pc == nil {
		return context.Background()
	}
	if ctx, ok := pc.Get(convertCtxKey).(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}
