package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/simonvlc/obsidian-reader-highlighter/internal/config"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/patch"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer/block"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/renderer/serialize"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/signal"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/store"
	"github.com/simonvlc/obsidian-reader-highlighter/internal/view"
)

// Controller drives the full highlight lifecycle across attached views:
// selection capture, source patching, the floating removal control, and the
// touch adjustment session. One controller serves every reader-mode view of
// the host; at most one affordance and one adjustment session exist at a
// time.
type Controller struct {
	mu   sync.Mutex
	st   store.Store
	cfg  *config.Config
	rend *renderer.Renderer
	diag *Diagnostics

	attached   map[view.View]*signal.Scope
	adjust     *AdjustSession
	affordance *Affordance
	locate     *time.Timer
	hostSub    signal.Subscription
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig supplies a configuration store. Defaults apply when omitted.
func WithConfig(cfg *config.Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithRenderer supplies a shared renderer.
func WithRenderer(r *renderer.Renderer) Option {
	return func(c *Controller) { c.rend = r }
}

// NewController creates a controller over the given document store.
func NewController(st store.Store, opts ...Option) *Controller {
	c := &Controller{
		st:       st,
		cfg:      config.Default(),
		rend:     renderer.New(),
		diag:     NewDiagnostics(),
		attached: make(map[view.View]*signal.Scope),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diagnostics returns the controller's operation counters.
func (c *Controller) Diagnostics() *Diagnostics { return c.diag }

// ActiveAffordance returns the current removal control, or nil.
func (c *Controller) ActiveAffordance() *Affordance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.affordance
}

// ActiveSession returns the current adjustment session, or nil.
func (c *Controller) ActiveSession() *AdjustSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adjust
}

// Bind subscribes the controller to the host's reader-mode announcements so
// every announced view is attached automatically.
func (c *Controller) Bind(host view.Host) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hostSub != nil {
		c.hostSub.Cancel()
	}
	c.hostSub = host.ReaderModeEntered().Subscribe(func(v view.View) {
		c.Attach(v)
	})
}

// Attach wires the controller to a view's signal hubs. Attaching an already
// attached view is a no-op.
func (c *Controller) Attach(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.attached[v]; ok {
		return
	}
	scope := signal.NewScope()
	scope.Add(v.SelectionFinalized().Subscribe(func(struct{}) {
		c.onSelectionFinalized(v)
	}))
	scope.Add(v.DoubleActivated().Subscribe(func(pt serialize.Point) {
		c.onDoubleActivated(v, pt)
	}))
	scope.Add(v.SelectionChanged().Subscribe(func(struct{}) {
		c.onSelectionChanged(v)
	}))
	c.attached[v] = scope
}

// Detach releases the view's subscriptions and tears down any state bound to
// it.
func (c *Controller) Detach(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	scope, ok := c.attached[v]
	if !ok {
		return
	}
	scope.Release()
	delete(c.attached, v)
	if c.affordance != nil && c.affordance.view == v {
		c.dropAffordance()
	}
	if c.adjust != nil && c.adjust.view == v {
		c.endAdjust()
	}
}

// Close detaches every view and cancels the host subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hostSub != nil {
		c.hostSub.Cancel()
		c.hostSub = nil
	}
	for v, scope := range c.attached {
		scope.Release()
		delete(c.attached, v)
	}
	c.dropAffordance()
	c.endAdjust()
	if c.locate != nil {
		c.locate.Stop()
		c.locate = nil
	}
}

// onSelectionFinalized handles the end of a selection gesture: either the
// final boundary of an active adjustment or a new create/remove toggle.
func (c *Controller) onSelectionFinalized(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := v.Selection()
	if c.adjust != nil && c.adjust.view == v {
		if ok && !r.Collapsed() && block.Same(block.Of(r.Anchor.Node), c.adjust.block) {
			c.commitAdjust(c.adjust, serialize.Serialize(r))
		}
		return
	}

	if !ok || r.Collapsed() {
		return
	}
	if !block.Same(block.Of(r.Anchor.Node), block.Of(r.Focus.Node)) {
		c.diag.RecordFailure(OpCreate, ErrCrossBlock)
		return
	}
	text := serialize.Serialize(r)
	if text == "" {
		c.diag.RecordFailure(OpCreate, ErrEmptySelection)
		return
	}
	v.ClearSelection()
	c.create(v, text)
}

// onDoubleActivated turns a double-click or double-tap into a whole-block
// toggle: the activated block's full text is highlighted, or unhighlighted
// when it already is one highlight.
func (c *Controller) onDoubleActivated(v view.View, pt serialize.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blk := block.Of(pt.Node)
	if blk == nil {
		return
	}
	text := serialize.Serialize(serialize.BlockRange(blk))
	if text == "" {
		return
	}
	v.ClearSelection()
	c.create(v, text)
}

// onSelectionChanged routes live selection mutations to the adjustment
// session. Outside a session the platform owns the selection and nothing
// happens.
func (c *Controller) onSelectionChanged(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.adjust
	if s == nil || s.view != v {
		return
	}
	r, ok := v.Selection()
	if !ok || r.Collapsed() {
		c.endAdjust()
		return
	}
	if !block.Same(block.Of(r.Anchor.Node), s.block) || !block.Same(block.Of(r.Focus.Node), s.block) {
		v.ClearSelection()
		c.endAdjust()
		return
	}
	text := serialize.Serialize(r)
	if text == "" {
		return
	}
	debounce := c.cfg.Session().AdjustDebounce
	s.setCandidate(text, debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.adjust != s {
			return
		}
		c.commitAdjust(s, s.candidate)
	})
}

// HandlePointerDown resolves a raw pointer-down against the floating control
// and rendered highlights. target is the rendered node under the pointer, or
// nil.
func (c *Controller) HandlePointerDown(v view.View, x, y float64, target *html.Node) {
	c.mu.Lock()

	if a := c.affordance; a != nil && a.view == v && a.rect.Contains(x, y) {
		c.mu.Unlock()
		c.ActivateAffordance()
		return
	}

	for _, m := range renderer.Marks(v.Container()) {
		if insideNode(target, m) {
			c.mu.Unlock()
			c.HandleHighlightTapped(v, m)
			return
		}
	}

	// An outside interaction dismisses the control and any live session.
	c.dropAffordance()
	c.endAdjust()
	c.mu.Unlock()
}

// HandleHighlightTapped presents the removal control for an existing
// rendered highlight and, on touch-first platforms, opens an adjustment
// session for it.
func (c *Controller) HandleHighlightTapped(v view.View, mark *html.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := serialize.NodeText(mark)
	if text == "" {
		return
	}
	c.presentAffordance(v, mark, text)
	if c.touchFirst(v) {
		c.startAdjust(v, mark, text)
	}
}

// HandleGestureEnd commits the pending adjustment boundary immediately
// instead of waiting out the debounce window.
func (c *Controller) HandleGestureEnd(v view.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.adjust
	if s == nil || s.view != v || !s.dragging {
		return
	}
	s.dragging = false
	if s.candidate != "" {
		c.commitAdjust(s, s.candidate)
	}
}

// HandleCancel dismisses the floating control and ends any adjustment
// session without touching the document.
func (c *Controller) HandleCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropAffordance()
	c.endAdjust()
}

// ActivateAffordance removes the highlight the floating control is bound to.
// The control is torn down whether or not the removal patch succeeds.
func (c *Controller) ActivateAffordance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := c.affordance
	if a == nil {
		return
	}
	c.dropAffordance()
	c.endAdjust()

	ctx := context.Background()
	doc, err := c.st.Read(ctx, a.view.Handle())
	if err != nil {
		c.diag.RecordFailure(OpRemove, err)
		return
	}
	next, err := patch.ApplyRemove(doc, a.text)
	if err != nil {
		c.diag.RecordFailure(OpRemove, err)
		return
	}
	if err := c.st.Replace(ctx, a.view.Handle(), next); err != nil {
		c.diag.RecordFailure(OpRemove, err)
		return
	}
	c.diag.RecordSuccess(OpRemove)
}

// create toggles a highlight on the selected text: wraps it when unmarked,
// unwraps it when the selection already spans exactly one highlight. Callers
// hold c.mu.
func (c *Controller) create(v view.View, text string) {
	ctx := context.Background()
	doc, err := c.st.Read(ctx, v.Handle())
	if err != nil {
		c.diag.RecordFailure(OpCreate, err)
		return
	}
	wasRemoval := len(patch.MarkedOccurrences(doc, text)) == 1
	next, err := patch.ApplyCreate(doc, text)
	if err != nil {
		c.diag.RecordFailure(OpCreate, err)
		return
	}
	if err := c.st.Replace(ctx, v.Handle(), next); err != nil {
		c.diag.RecordFailure(OpCreate, err)
		return
	}
	c.diag.RecordSuccess(OpCreate)

	c.dropAffordance()
	c.endAdjust()
	if wasRemoval {
		return
	}
	c.scheduleLocate(v, text)
}

// scheduleLocate waits out the host's re-render before searching the fresh
// tree for the new highlight node. Callers hold c.mu.
func (c *Controller) scheduleLocate(v view.View, text string) {
	if c.locate != nil {
		c.locate.Stop()
	}
	wait := c.cfg.Session().RerenderWait
	c.locate = time.AfterFunc(wait, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.locate = nil
		c.locateHighlight(v, text)
	})
}

// locateHighlight finds the rendered node of a just-created highlight and
// presents the removal control on it. Callers hold c.mu.
func (c *Controller) locateHighlight(v view.View, text string) {
	if _, ok := c.attached[v]; !ok {
		return
	}

	// Match on plain text so cosmetic markup differences between the source
	// slice and the re-serialized node cannot defeat the scan.
	plain, err := c.rend.InlineText(text)
	if err != nil {
		plain = text
	}
	want := renderer.NormalizeSpace(plain)
	marks := renderer.Marks(v.Container())

	var mark *html.Node
	for _, m := range marks {
		if renderer.NormalizeSpace(renderer.Text(m)) == want {
			mark = m
			break
		}
	}
	if mark == nil && len(marks) > 0 {
		// The rendered text can drift from the source slice when the
		// selection crossed inline markup; the newest highlight is the
		// closest match we have.
		mark = marks[len(marks)-1]
	}
	if mark == nil {
		c.diag.RecordFailure(OpCreate, ErrNoHighlightNode)
		return
	}

	canonical := serialize.NodeText(mark)
	c.presentAffordance(v, mark, canonical)
	if c.touchFirst(v) {
		c.startAdjust(v, mark, canonical)
	}
}

// commitAdjust patches the highlight boundary from the session's committed
// text to the candidate. The session survives failures unchanged so the next
// boundary can still anchor on the committed text. Callers hold c.mu.
func (c *Controller) commitAdjust(s *AdjustSession, candidate string) {
	s.stopTimer()
	if candidate == "" || candidate == s.current {
		return
	}

	ctx := context.Background()
	doc, err := c.st.Read(ctx, s.view.Handle())
	if err != nil {
		c.diag.RecordFailure(OpAdjust, err)
		return
	}
	next, err := patch.ApplyAdjust(doc, s.current, candidate)
	if err != nil {
		c.diag.RecordFailure(OpAdjust, err)
		return
	}
	if err := c.st.Replace(ctx, s.view.Handle(), next); err != nil {
		c.diag.RecordFailure(OpAdjust, err)
		return
	}
	c.diag.RecordSuccess(OpAdjust)
	s.current = candidate

	if a := c.affordance; a != nil && a.view == s.view {
		a.text = candidate
	}
}

// presentAffordance binds the floating removal control to a highlight,
// superseding any previous control. Callers hold c.mu.
func (c *Controller) presentAffordance(v view.View, mark *html.Node, text string) {
	target, ok := v.HighlightRect(mark)
	if !ok {
		return
	}
	rect := affordanceRect(target, v.Viewport(), c.cfg.Affordance(), c.touchFirst(v))
	c.affordance = newAffordance(v, mark, text, rect)
}

// startAdjust opens an adjustment session for a highlight, superseding any
// previous session. Callers hold c.mu.
func (c *Controller) startAdjust(v view.View, mark *html.Node, text string) {
	c.endAdjust()
	c.adjust = newAdjustSession(v, block.Of(mark), text)
}

func (c *Controller) dropAffordance() {
	c.affordance = nil
}

func (c *Controller) endAdjust() {
	if c.adjust != nil {
		c.adjust.stopTimer()
		c.adjust = nil
	}
}

// touchFirst resolves the effective input mode: an explicit config override
// wins over the platform report.
func (c *Controller) touchFirst(v view.View) bool {
	sc := c.cfg.Session()
	if sc.TouchFirstSet {
		return sc.TouchFirst
	}
	return v.TouchFirst()
}
