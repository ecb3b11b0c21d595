package patch

import "strings"

// Marker is the two-character delimiter that opens and closes a highlight.
const Marker = "=="

// markerLen is the length of one delimiter.
const markerLen = len(Marker)

// FindAll returns the byte offsets of all non-overlapping literal occurrences
// of needle in doc, scanned left to right. Each search resumes strictly after
// the end of the previous match, so overlapping occurrences are not counted
// twice. An empty needle matches nothing.
func FindAll(doc, needle string) []int {
	if needle == "" {
		return nil
	}

	var offsets []int
	from := 0
	for {
		i := strings.Index(doc[from:], needle)
		if i < 0 {
			return offsets
		}
		at := from + i
		offsets = append(offsets, at)
		from = at + len(needle)
	}
}

// UnmarkedOccurrences returns the offsets of occurrences of plain in doc that
// are not already wrapped in marker delimiters. An occurrence counts as
// marked only when it is immediately preceded and immediately followed by the
// delimiter; this guards against re-wrapping text that is already part of a
// highlight due to coincidental duplication elsewhere in the document.
func UnmarkedOccurrences(doc, plain string) []int {
	var offsets []int
	for _, at := range FindAll(doc, plain) {
		if isMarkedAt(doc, at, len(plain)) {
			continue
		}
		offsets = append(offsets, at)
	}
	return offsets
}

// MarkedOccurrences returns the offsets of fully marked occurrences of plain
// in doc. The returned offsets point at the opening delimiter.
func MarkedOccurrences(doc, plain string) []int {
	if !validBody(plain) {
		return nil
	}
	return FindAll(doc, Marker+plain+Marker)
}

// ApplyCreate toggles a highlight on plain. Exactly one qualifying location
// must exist in doc: a single fully marked occurrence is unwrapped (the user
// re-selected an existing highlight), a single unmarked occurrence is
// wrapped. Zero qualifying locations returns ErrNotFound; more than one,
// counting marked and unmarked together, returns ErrAmbiguous. The document
// is never modified on failure.
func ApplyCreate(doc, plain string) (string, error) {
	if !validBody(plain) {
		return "", ErrNotFound
	}

	marked := MarkedOccurrences(doc, plain)
	unmarked := UnmarkedOccurrences(doc, plain)

	switch {
	case len(marked)+len(unmarked) == 0:
		return "", ErrNotFound
	case len(marked)+len(unmarked) > 1:
		return "", ErrAmbiguous
	case len(marked) == 1:
		return unwrapAt(doc, marked[0], len(plain)), nil
	default:
		return wrapAt(doc, unmarked[0], len(plain)), nil
	}
}

// ApplyAdjust moves the boundaries of the single highlight whose body is
// original so that its body becomes next. The relocation runs in three
// steps: unwrap the marked occurrence in place, locate next among the
// unmarked occurrences of the intermediate document, and re-wrap only the
// occurrence anchored to the span the original body occupied (offsets within
// that span, inclusive). Text excluded by a shrink is simply left unwrapped
// in the intermediate document and never touched, so no adjustment can lose
// characters. If no anchored occurrence exists the document is returned to
// the caller unmodified with ErrNotFound.
func ApplyAdjust(doc, original, next string) (string, error) {
	if !validBody(original) || !validBody(next) {
		return "", ErrNotFound
	}

	marked := MarkedOccurrences(doc, original)
	switch {
	case len(marked) == 0:
		return "", ErrNotFound
	case len(marked) > 1:
		return "", ErrAmbiguous
	}

	if original == next {
		return doc, nil
	}

	at := marked[0]
	intermediate := unwrapAt(doc, at, len(original))

	// The body now starts where the opening delimiter used to be.
	spanStart := at
	spanEnd := at + len(original)

	for _, off := range UnmarkedOccurrences(intermediate, next) {
		if off >= spanStart && off <= spanEnd {
			return wrapAt(intermediate, off, len(next)), nil
		}
	}
	return "", ErrNotFound
}

// ApplyRemove unwraps the single fully marked occurrence of plain. Zero
// occurrences returns ErrNotFound, more than one returns ErrAmbiguous, and in
// both cases the document is untouched.
func ApplyRemove(doc, plain string) (string, error) {
	marked := MarkedOccurrences(doc, plain)
	switch {
	case len(marked) == 0:
		return "", ErrNotFound
	case len(marked) > 1:
		return "", ErrAmbiguous
	}
	return unwrapAt(doc, marked[0], len(plain)), nil
}

// Mark is a highlight found in a document.
type Mark struct {
	// Offset is the byte offset of the opening delimiter.
	Offset int

	// Body is the canonical inline text between the delimiters.
	Body string
}

// Marks scans doc left to right and returns every well-formed marked span.
// Malformed pairs (empty bodies, unterminated delimiters) are skipped.
func Marks(doc string) []Mark {
	var marks []Mark
	from := 0
	for {
		i := strings.Index(doc[from:], Marker)
		if i < 0 {
			return marks
		}
		open := from + i

		j := strings.Index(doc[open+markerLen:], Marker)
		if j < 0 {
			return marks
		}
		body := doc[open+markerLen : open+markerLen+j]
		if !validBody(body) {
			from = open + markerLen
			continue
		}
		marks = append(marks, Mark{Offset: open, Body: body})
		from = open + 2*markerLen + len(body)
	}
}

// validBody reports whether plain can legally appear between delimiters:
// non-blank, no embedded delimiter, and no marker character at either edge
// (an edge '=' would merge with the delimiter and change meaning on unwrap).
func validBody(plain string) bool {
	if strings.TrimSpace(plain) == "" {
		return false
	}
	if strings.Contains(plain, Marker) {
		return false
	}
	return plain[0] != '=' && plain[len(plain)-1] != '='
}

// isMarkedAt reports whether the occurrence of length n at offset at is
// immediately wrapped in delimiters.
func isMarkedAt(doc string, at, n int) bool {
	if at < markerLen || at+n+markerLen > len(doc) {
		return false
	}
	return doc[at-markerLen:at] == Marker && doc[at+n:at+n+markerLen] == Marker
}

// wrapAt inserts delimiters around the n bytes at offset at.
func wrapAt(doc string, at, n int) string {
	var b strings.Builder
	b.Grow(len(doc) + 2*markerLen)
	b.WriteString(doc[:at])
	b.WriteString(Marker)
	b.WriteString(doc[at : at+n])
	b.WriteString(Marker)
	b.WriteString(doc[at+n:])
	return b.String()
}

// unwrapAt removes the delimiter pair whose opening delimiter sits at offset
// at, keeping the n-byte body intact.
func unwrapAt(doc string, at, n int) string {
	bodyStart := at + markerLen
	return doc[:at] + doc[bodyStart:bodyStart+n] + doc[bodyStart+n+markerLen:]
}
