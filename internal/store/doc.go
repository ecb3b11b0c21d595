// Package store provides whole-document text persistence for the highlight
// pipeline. The contract is deliberately narrow: read the entire current
// text of a document, or atomically replace the entire text. No byte-range
// patching exists, so the storage layer's offset semantics never matter.
//
// Operations on one document are serialized; operations on different
// documents proceed independently. The store promises nothing about
// read-then-write atomicity against concurrent external edits - the patch
// package's uniqueness checks are the system's only defense, which is why
// every highlight operation re-reads the document immediately before
// computing its patch.
package store
