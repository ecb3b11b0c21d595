package session

import (
	"time"

	"golang.org/x/net/html"

	"github.com/google/uuid"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/view"
)

// AdjustSession tracks an in-progress boundary adjustment of one highlight.
// It records the highlight's current committed text and the latest candidate
// selection; commits go through the controller so the document and the
// session advance together.
type AdjustSession struct {
	id        string
	view      view.View
	block     *html.Node
	current   string
	candidate string
	dragging  bool
	timer     *time.Timer
}

func newAdjustSession(v view.View, block *html.Node, text string) *AdjustSession {
	return &AdjustSession{
		id:      uuid.NewString(),
		view:    v,
		block:   block,
		current: text,
	}
}

// ID returns the instance identifier.
func (s *AdjustSession) ID() string { return s.id }

// Current returns the text of the highlight as last committed.
func (s *AdjustSession) Current() string { return s.current }

// Block returns the block node that bounds the adjustment.
func (s *AdjustSession) Block() *html.Node { return s.block }

func (s *AdjustSession) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// setCandidate records the latest serialized selection and restarts the
// debounce clock. fire runs on the timer goroutine once the selection has
// been stable for the full window.
func (s *AdjustSession) setCandidate(text string, debounce time.Duration, fire func()) {
	s.candidate = text
	s.dragging = true
	s.stopTimer()
	s.timer = time.AfterFunc(debounce, fire)
}
