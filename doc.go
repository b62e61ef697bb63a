// Package mdsteroids converts Markdown to HTML with goldmark and a set of
// small extensions for images, links, keyboard keys, element removal and
// templating.
//
// # Quick Start
//
//	conv, err := mdsteroids.NewConverter(
//	    mdsteroids.WithExtensions(
//	        figcap.New(),
//	        wikilink.New(wikilink.DefaultConfig()),
//	    ),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mdsteroids.Input{
//	    Markdown: "# Hello\n\nSee [[Other Page]].",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// # Conversion Pipeline
//
// Every extension is a goldmark.Extender. Some also work on text or HTML:
//
//  1. Preprocessors rewrite the Markdown source (templating)
//  2. goldmark parses and renders, running the inline parsers, AST
//     transformers and node renderers the extensions registered
//  3. Postprocessors rewrite the rendered HTML (kill_tags, translate_no)
//
// The converter detects Preprocessor and Postprocessor implementations
// among the extensions passed to WithExtensions and runs them in order.
//
// # Extensions by Name
//
// Configuration files refer to extensions by name. NewExtension builds
// one from a decoded YAML map:
//
//	ext, err := mdsteroids.NewExtension("img_smart", map[string]any{
//	    "lazy":  true,
//	    "cache": ".imgsize.json",
//	})
//
// ExtensionNames lists the names that are understood.
//
// # Front Matter
//
// YAML ("---") and TOML ("+++") front matter is always parsed and returned
// in ConvertResult.Meta. The "title" key names standalone documents.
package mdsteroids
