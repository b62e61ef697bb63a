// Package pipeline implements the stages shared by every conversion:
//   - text normalization before parsing
//   - the goldmark engine and its context-aware Render
//   - chaining of text preprocessors and HTML postprocessors
//   - fragment-aware HTML parsing and rendering for postprocessors
//   - parser.Context helpers that carry per-document values to extensions
//
// The root mdsteroids package assembles these stages into a Converter.
package pipeline
