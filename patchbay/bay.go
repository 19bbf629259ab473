package patchbay

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/graph"
)

// Jack is a snapshot of a registered endpoint.
type Jack struct {
	ID      string
	Role    Role
	Label   string
	Node    graph.Node
	Element Element
}

// Cable is a snapshot of a live connection.
type Cable struct {
	ID       string
	OutputID string
	InputID  string
	Curve    Curve
}

type jack struct {
	Jack

	cables []string // outputs: fan-out in connect order
	cable  string   // inputs: at most one
}

type cable struct {
	Cable

	// the graph edge this cable represents
	src graph.Node
	dst graph.Node
}

// Option configures a Bay.
type Option func(*Bay)

// WithOverlay sets the cable renderer.
func WithOverlay(o Overlay) Option {
	return func(b *Bay) {
		if o != nil {
			b.overlay = o
		}
	}
}

// WithFrameScheduler sets the scheduler used to coalesce redraws.
func WithFrameScheduler(f FrameScheduler) Option {
	return func(b *Bay) {
		if f != nil {
			b.frames = f
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bay) {
		if l != nil {
			b.logger = l
		}
	}
}

// Bay is the jack registry, cable manager and patch interaction machine.
type Bay struct {
	mu sync.Mutex

	outputs map[string]*jack
	inputs  map[string]*jack
	cables  map[string]*cable
	order   []string // live cable ids in creation order
	counter uint64

	state State

	overlay       Overlay
	frames        FrameScheduler
	redrawPending bool

	logger *slog.Logger
}

// New creates an empty Bay.
func New(opts ...Option) *Bay {
	b := &Bay{
		outputs: make(map[string]*jack),
		inputs:  make(map[string]*jack),
		cables:  make(map[string]*cable),
		overlay: nopOverlay{},
		frames:  TimerFrames{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// RegisterOutput adds an output jack. Registering an existing id replaces
// the old jack after tearing down its cables.
func (b *Bay) RegisterOutput(id string, node graph.Node, label string, el Element) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.register(RoleOutput, id, node, label, el)
}

// RegisterInput adds an input jack. Registering an existing id replaces the
// old jack after tearing down its cable.
func (b *Bay) RegisterInput(id string, node graph.Node, label string, el Element) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.register(RoleInput, id, node, label, el)
}

func (b *Bay) register(role Role, id string, node graph.Node, label string, el Element) {
	if id == "" {
		return
	}

	registry := b.registry(role)
	if _, ok := registry[id]; ok {
		b.unregister(role, id)
	}

	j := &jack{Jack: Jack{ID: id, Role: role, Label: label, Node: node, Element: el}}
	registry[id] = j

	if el != nil {
		if label == "" {
			label = "Output"
			if role == RoleInput {
				label = "Input"
			}
		}

		if role == RoleOutput {
			el.AddClass(ClassJack, ClassOutput)
		} else {
			el.AddClass(ClassJack, ClassInput)
			if !b.state.Idle() {
				el.AddClass(ClassPendingTarget)
			}
		}
		el.SetTitle(label)

		if binder, ok := el.(Binder); ok {
			binder.Bind(b.handlers(role, id))
		}
	}

	b.logger.Debug("jack registered", "role", role, "id", id, "label", j.Label)
}

func (b *Bay) handlers(role Role, id string) Handlers {
	if role == RoleOutput {
		return Handlers{Activate: func() { b.ActivateOutput(id) }}
	}
	return Handlers{
		Activate:  func() { b.ActivateInput(id) },
		Secondary: func() { b.DisconnectInput(id) },
	}
}

// UnregisterOutput removes an output jack and every cable it feeds. A
// pending patch from this jack is cancelled.
func (b *Bay) UnregisterOutput(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unregister(RoleOutput, id)
}

// UnregisterInput removes an input jack and its cable. A pending patch is
// cancelled.
func (b *Bay) UnregisterInput(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unregister(RoleInput, id)
}

func (b *Bay) unregister(role Role, id string) {
	registry := b.registry(role)
	j, ok := registry[id]
	if !ok {
		return
	}

	b.dispatch(Gesture{Kind: JackRemoved, Jack: id, Role: role})

	if role == RoleOutput {
		for _, cid := range slices.Clone(j.cables) {
			b.disconnect(cid)
		}
	} else if j.cable != "" {
		b.disconnect(j.cable)
	}

	if j.Element != nil {
		if binder, ok := j.Element.(Binder); ok {
			binder.Unbind()
		}
		if role == RoleOutput {
			j.Element.RemoveClass(ClassJack, ClassOutput, ClassConnected, ClassPending)
		} else {
			j.Element.RemoveClass(ClassJack, ClassInput, ClassConnected, ClassPendingTarget)
		}
	}

	delete(registry, id)
	b.logger.Debug("jack unregistered", "role", role, "id", id)
}

func (b *Bay) registry(role Role) map[string]*jack {
	if role == RoleInput {
		return b.inputs
	}
	return b.outputs
}

// Connect wires an output jack to an input jack and returns the new cable
// id. It returns false when either jack is unknown. A cable already on the
// input is disconnected first.
func (b *Bay) Connect(outputID, inputID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.connect(outputID, inputID)
}

func (b *Bay) connect(outputID, inputID string) (string, bool) {
	out, ok := b.outputs[outputID]
	if !ok {
		return "", false
	}
	in, ok := b.inputs[inputID]
	if !ok {
		return "", false
	}

	if in.cable != "" {
		b.disconnect(in.cable)
	}

	b.counter++
	id := fmt.Sprintf("cable-%d", b.counter)

	if out.Node != nil && in.Node != nil {
		if err := out.Node.Connect(in.Node); err != nil {
			b.logger.Warn("audio connect failed",
				"cable", id, "output", outputID, "input", inputID, "error", err)
		}
	}

	c := &cable{
		Cable: Cable{
			ID:       id,
			OutputID: outputID,
			InputID:  inputID,
			Curve:    NewCurve(center(out.Element), center(in.Element)),
		},
		src: out.Node,
		dst: in.Node,
	}

	b.cables[id] = c
	b.order = append(b.order, id)
	out.cables = append(out.cables, id)
	in.cable = id

	b.overlay.AddCable(id, c.Curve)
	if out.Element != nil {
		out.Element.AddClass(ClassConnected)
	}
	if in.Element != nil {
		in.Element.AddClass(ClassConnected)
	}

	b.logger.Debug("cable connected", "cable", id, "output", outputID, "input", inputID)

	return id, true
}

// Disconnect removes a cable. Unknown ids are ignored, so calling it twice
// is the same as calling it once.
func (b *Bay) Disconnect(cableID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.disconnect(cableID)
}

func (b *Bay) disconnect(cableID string) {
	c, ok := b.cables[cableID]
	if !ok {
		return
	}

	delete(b.cables, cableID)
	b.order = slices.DeleteFunc(b.order, func(id string) bool { return id == cableID })

	// another cable may still carry the same graph edge
	if c.src != nil && c.dst != nil && !b.edgeInUse(c.src, c.dst) {
		if err := c.src.Disconnect(c.dst); err != nil {
			if errors.Is(err, graph.ErrNotConnected) {
				b.logger.Debug("audio edge already gone", "cable", cableID)
			} else {
				b.logger.Warn("audio disconnect failed", "cable", cableID, "error", err)
			}
		}
	}

	b.overlay.RemoveCable(cableID)

	if out, ok := b.outputs[c.OutputID]; ok {
		out.cables = slices.DeleteFunc(out.cables, func(id string) bool { return id == cableID })
		if len(out.cables) == 0 && out.Element != nil {
			out.Element.RemoveClass(ClassConnected)
		}
	}
	if in, ok := b.inputs[c.InputID]; ok && in.cable == cableID {
		in.cable = ""
		if in.Element != nil {
			in.Element.RemoveClass(ClassConnected)
		}
	}

	b.logger.Debug("cable disconnected", "cable", cableID)
}

func (b *Bay) edgeInUse(src, dst graph.Node) bool {
	for _, c := range b.cables {
		if c.src == src && c.dst == dst {
			return true
		}
	}
	return false
}

// DisconnectInput removes the cable plugged into an input jack, if any.
func (b *Bay) DisconnectInput(inputID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if in, ok := b.inputs[inputID]; ok && in.cable != "" {
		b.disconnect(in.cable)
	}
}

// StartPatching begins a patch from an output jack, cancelling any patch
// already pending. Unknown outputs are ignored.
func (b *Bay) StartPatching(outputID string) {
	b.ActivateOutput(outputID)
}

// CancelPatching aborts a pending patch and clears all of its visuals.
func (b *Bay) CancelPatching() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.dispatch(Gesture{Kind: Cancel})
}

// ActivateOutput handles a primary gesture on an output jack.
func (b *Bay) ActivateOutput(outputID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.outputs[outputID]; !ok {
		return
	}
	b.dispatch(Gesture{Kind: ActivateOutput, Jack: outputID})
}

// ActivateInput handles a primary gesture on an input jack. With a patch
// pending it completes the connection.
func (b *Bay) ActivateInput(inputID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.inputs[inputID]; !ok {
		return
	}
	b.dispatch(Gesture{Kind: ActivateInput, Jack: inputID})
}

// KeyDown cancels a pending patch on Escape.
func (b *Bay) KeyDown(key string) {
	if key == "Escape" {
		b.CancelPatching()
	}
}

// ClickAway handles a pointer press outside any jack.
func (b *Bay) ClickAway() {
	b.CancelPatching()
}

func (b *Bay) dispatch(g Gesture) {
	prev := b.state
	next, eff := Transition(prev, g)

	if eff.ConnectInput != "" {
		b.connect(eff.ConnectOutput, eff.ConnectInput)
	}
	if eff.CancelPending {
		b.clearPending(prev.Pending)
	}

	b.state = next

	if eff.StartPending != "" {
		b.showPending(eff.StartPending)
	}
}

func (b *Bay) showPending(outputID string) {
	if out, ok := b.outputs[outputID]; ok && out.Element != nil {
		out.Element.AddClass(ClassPending)
	}
	for _, in := range b.inputs {
		if in.Element != nil {
			in.Element.AddClass(ClassPendingTarget)
		}
	}
	b.overlay.ShowPhantom()
}

func (b *Bay) clearPending(outputID string) {
	if out, ok := b.outputs[outputID]; ok && out.Element != nil {
		out.Element.RemoveClass(ClassPending)
	}
	for _, in := range b.inputs {
		if in.Element != nil {
			in.Element.RemoveClass(ClassPendingTarget)
		}
	}
	b.overlay.HidePhantom()
}

// State returns the interaction state.
func (b *Bay) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Pending returns the output a patch is pending from.
func (b *Bay) Pending() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state.Pending, !b.state.Idle()
}

// PointerMove reports a pointer or touch position. While a patch is
// pending the phantom cable follows it; while a button is held and cables
// exist a redraw is scheduled, since windows may be dragging jacks along.
func (b *Bay) PointerMove(p Point, buttonHeld bool) {
	b.mu.Lock()
	if out, ok := b.outputs[b.state.Pending]; ok && !b.state.Idle() {
		b.overlay.MovePhantom(NewCurve(center(out.Element), p))
	}
	redraw := buttonHeld && len(b.cables) > 0
	b.mu.Unlock()

	if redraw {
		b.ScheduleRedraw()
	}
}

// ScheduleRedraw requests a redraw on the next frame. Requests made before
// that frame runs are coalesced into one.
func (b *Bay) ScheduleRedraw() {
	b.mu.Lock()
	if b.redrawPending {
		b.mu.Unlock()
		return
	}
	b.redrawPending = true
	frames := b.frames
	b.mu.Unlock()

	frames.RequestFrame(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.redrawPending = false
		b.redraw()
	})
}

// WindowMoved redraws every cable immediately.
func (b *Bay) WindowMoved() {
	b.RedrawCables()
}

// Resized schedules a redraw.
func (b *Bay) Resized() {
	b.ScheduleRedraw()
}

// RedrawCables recomputes every cable curve from the current jack centers.
func (b *Bay) RedrawCables() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.redraw()
}

func (b *Bay) redraw() {
	for _, id := range b.order {
		c := b.cables[id]
		out, okOut := b.outputs[c.OutputID]
		in, okIn := b.inputs[c.InputID]
		if !okOut || !okIn || out.Element == nil || in.Element == nil {
			continue
		}
		c.Curve = NewCurve(out.Element.Center(), in.Element.Center())
		b.overlay.UpdateCable(id, c.Curve)
	}
}

// Output returns a snapshot of an output jack.
func (b *Bay) Output(id string) (Jack, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	j, ok := b.outputs[id]
	if !ok {
		return Jack{}, false
	}
	return j.Jack, true
}

// Input returns a snapshot of an input jack.
func (b *Bay) Input(id string) (Jack, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	j, ok := b.inputs[id]
	if !ok {
		return Jack{}, false
	}
	return j.Jack, true
}

// Outputs returns the registered output ids in sorted order.
func (b *Bay) Outputs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return sortedKeys(b.outputs)
}

// Inputs returns the registered input ids in sorted order.
func (b *Bay) Inputs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return sortedKeys(b.inputs)
}

// OutputCables returns the cable ids fed by an output, in connect order.
func (b *Bay) OutputCables(outputID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if j, ok := b.outputs[outputID]; ok {
		return slices.Clone(j.cables)
	}
	return nil
}

// InputCable returns the cable plugged into an input.
func (b *Bay) InputCable(inputID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if j, ok := b.inputs[inputID]; ok && j.cable != "" {
		return j.cable, true
	}
	return "", false
}

// Cable returns a snapshot of a live cable.
func (b *Bay) Cable(id string) (Cable, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.cables[id]
	if !ok {
		return Cable{}, false
	}
	return c.Cable, true
}

// Cables returns snapshots of every live cable in creation order.
func (b *Bay) Cables() []Cable {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Cable, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.cables[id].Cable)
	}
	return out
}

func sortedKeys(m map[string]*jack) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func center(el Element) Point {
	if el == nil {
		return Point{}
	}
	return el.Center()
}
