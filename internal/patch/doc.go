// Package patch implements the text-level highlight operations on a plain
// Markdown document. A highlight is the literal substring ==body== where body
// is canonical inline Markdown.
//
// All operations are pure functions of the document text: they take the
// current document and return a new document, or an error when the target
// text cannot be located unambiguously. The package performs no I/O and knows
// nothing about rendering; callers are expected to re-read the document
// immediately before computing a patch and to treat Ambiguous/NotFound as
// "do nothing" outcomes.
//
// The central invariant: unwrapping a marked span reproduces exactly the
// characters that existed before wrapping. Create followed by a second create
// of the same text is therefore a round trip back to the original document.
//
// Basic usage:
//
//	doc := "alpha beta gamma"
//	out, err := patch.ApplyCreate(doc, "beta")
//	// out == "alpha ==beta== gamma"
//
//	out, err = patch.ApplyAdjust(out, "beta", "beta gamma")
//	// out == "alpha ==beta gamma=="
//
//	out, err = patch.ApplyRemove(out, "beta gamma")
//	// out == "alpha beta gamma"
package patch
