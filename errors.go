package mdsteroids

import (
	"errors"

	"github.com/alnah/go-mdsteroids/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// Registry errors.
	ErrUnknownExtension = errors.New("unknown extension")
	ErrExtensionConfig  = errors.New("invalid extension config")
)
