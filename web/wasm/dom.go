//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-rack/patchbay"
)

// domElement is a jack backed by a DOM node.
type domElement struct {
	node     js.Value
	click    js.Func
	menu     js.Func
	bound    bool
	handlers patchbay.Handlers
}

func newDOMElement(node js.Value) *domElement {
	return &domElement{node: node}
}

func (e *domElement) Center() patchbay.Point {
	r := e.node.Call("getBoundingClientRect")
	return patchbay.Point{
		X: r.Get("left").Float() + r.Get("width").Float()/2,
		Y: r.Get("top").Float() + r.Get("height").Float()/2,
	}
}

func (e *domElement) AddClass(names ...string) {
	list := e.node.Get("classList")
	for _, n := range names {
		list.Call("add", n)
	}
}

func (e *domElement) RemoveClass(names ...string) {
	list := e.node.Get("classList")
	for _, n := range names {
		list.Call("remove", n)
	}
}

func (e *domElement) SetTitle(title string) {
	e.node.Set("title", title)
}

func (e *domElement) Bind(h patchbay.Handlers) {
	e.Unbind()
	e.handlers = h

	e.click = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			args[0].Call("stopPropagation")
		}
		if e.handlers.Activate != nil {
			e.handlers.Activate()
		}
		return nil
	})
	e.menu = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if e.handlers.Secondary == nil {
			return nil
		}
		if len(args) > 0 {
			args[0].Call("preventDefault")
		}
		e.handlers.Secondary()
		return nil
	})
	e.node.Call("addEventListener", "click", e.click)
	e.node.Call("addEventListener", "contextmenu", e.menu)
	e.bound = true
}

func (e *domElement) Unbind() {
	if !e.bound {
		return
	}
	e.node.Call("removeEventListener", "click", e.click)
	e.node.Call("removeEventListener", "contextmenu", e.menu)
	e.click.Release()
	e.menu.Release()
	e.handlers = patchbay.Handlers{}
	e.bound = false
}

const svgNS = "http://www.w3.org/2000/svg"

// svgOverlay draws cables as quadratic paths in an SVG element.
type svgOverlay struct {
	svg     js.Value
	paths   map[string]js.Value
	phantom js.Value
}

func newSVGOverlay(svg js.Value) *svgOverlay {
	doc := js.Global().Get("document")
	phantom := doc.Call("createElementNS", svgNS, "path")
	phantom.Get("classList").Call("add", "cable", "cable-phantom")
	phantom.Get("style").Set("display", "none")
	svg.Call("appendChild", phantom)

	return &svgOverlay{svg: svg, paths: make(map[string]js.Value), phantom: phantom}
}

func (o *svgOverlay) AddCable(id string, c patchbay.Curve) {
	path := js.Global().Get("document").Call("createElementNS", svgNS, "path")
	path.Get("classList").Call("add", "cable")
	path.Call("setAttribute", "d", c.Path())
	o.svg.Call("appendChild", path)
	o.paths[id] = path
}

func (o *svgOverlay) UpdateCable(id string, c patchbay.Curve) {
	if path, ok := o.paths[id]; ok {
		path.Call("setAttribute", "d", c.Path())
	}
}

func (o *svgOverlay) RemoveCable(id string) {
	if path, ok := o.paths[id]; ok {
		path.Call("remove")
		delete(o.paths, id)
	}
}

func (o *svgOverlay) ShowPhantom() {
	o.phantom.Get("style").Set("display", "")
}

func (o *svgOverlay) MovePhantom(c patchbay.Curve) {
	o.phantom.Call("setAttribute", "d", c.Path())
}

func (o *svgOverlay) HidePhantom() {
	o.phantom.Get("style").Set("display", "none")
	o.phantom.Call("removeAttribute", "d")
}

// animationFrames schedules redraws with requestAnimationFrame.
type animationFrames struct{}

func (animationFrames) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("requestAnimationFrame", cb)
}
