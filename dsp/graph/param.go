package graph

import (
	"math"
	"slices"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventRamp
)

type automationEvent struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automatable node parameter. Its per-sample value is the
// automation value plus the sum of every node connected to it, limited to
// the param's nominal range.
type Param struct {
	ctx  *Context
	name string

	defaultValue float64
	minValue     float64
	maxValue     float64

	// value holds once the event list is exhausted
	value float64
	// current is the automation value at the last rendered sample
	current float64

	// start point of a ramp that follows
	anchorTime  float64
	anchorValue float64

	events []automationEvent
	inputs []*nodeBase

	values     []float64
	renderedAt uint64
}

func newParam(ctx *Context, name string, def, minValue, maxValue float64) *Param {
	return &Param{
		ctx:          ctx,
		name:         name,
		defaultValue: def,
		minValue:     minValue,
		maxValue:     maxValue,
		value:        def,
		current:      def,
		anchorValue:  def,
		values:       make([]float64, ctx.cfg.BlockSize),
	}
}

// Name returns the param name.
func (p *Param) Name() string { return p.name }

// DefaultValue returns the initial value.
func (p *Param) DefaultValue() float64 { return p.defaultValue }

// Range returns the nominal [min, max] range.
func (p *Param) Range() (minValue, maxValue float64) { return p.minValue, p.maxValue }

// Value returns the automation value at the most recently rendered sample,
// excluding modulation inputs.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return p.current
}

// SetValue sets the value immediately and drops scheduled automation.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.events = p.events[:0]
	p.value = v
	p.current = v
	p.anchorTime = p.ctx.now()
	p.anchorValue = v
}

// SetValueAtTime schedules a step to v at context time t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.insert(automationEvent{kind: eventSet, time: t, value: v})
}

// LinearRampToValueAtTime schedules a linear ramp ending at v at time t.
// The ramp starts at the previous event, or at the current time and value
// when nothing else is scheduled.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	if len(p.events) == 0 {
		p.anchorTime = p.ctx.now()
		p.anchorValue = p.current
		p.value = p.current
	}
	p.insert(automationEvent{kind: eventRamp, time: t, value: v})
}

// CancelScheduledValues drops every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.events = slices.DeleteFunc(p.events, func(e automationEvent) bool {
		return e.time >= t
	})
}

// Scheduled returns the number of pending automation events.
func (p *Param) Scheduled() int {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return len(p.events)
}

// NumInputs returns the number of nodes modulating p.
func (p *Param) NumInputs() int {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return len(p.inputs)
}

// insert keeps events ordered by time; equal times keep insertion order.
func (p *Param) insert(e automationEvent) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = slices.Insert(p.events, i, e)
}

func (p *Param) automationAt(t float64) float64 {
	for len(p.events) > 0 && p.events[0].time <= t {
		e := p.events[0]
		p.value = e.value
		p.anchorTime = e.time
		p.anchorValue = e.value
		p.events = p.events[1:]
	}

	if len(p.events) > 0 && p.events[0].kind == eventRamp {
		e := p.events[0]
		if span := e.time - p.anchorTime; span > 0 {
			return p.anchorValue + (e.value-p.anchorValue)*(t-p.anchorTime)/span
		}
	}

	return p.value
}

// render computes the param values for the current block.
func (p *Param) render(rs renderState) []float64 {
	if p.renderedAt == rs.id {
		return p.values
	}
	p.renderedAt = rs.id

	if len(p.events) == 0 {
		for i := range p.values {
			p.values[i] = p.value
		}
		p.current = p.value
	} else {
		for i := range p.values {
			p.values[i] = p.automationAt(rs.time(i))
		}
		p.current = p.values[len(p.values)-1]
	}

	for _, src := range p.inputs {
		buf := p.ctx.pull(src, rs)
		if buf == nil {
			continue
		}
		for i, v := range buf[0] {
			p.values[i] += v
		}
	}

	for i, v := range p.values {
		p.values[i] = math.Min(math.Max(v, p.minValue), p.maxValue)
	}

	return p.values
}
