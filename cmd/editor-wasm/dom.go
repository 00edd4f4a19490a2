//go:build js && wasm

package main

import (
	"syscall/js"

	"twibbon-campaign/editor"
	"twibbon-campaign/models"
)

var document = js.Global().Get("document")

func byID(id string) js.Value {
	return document.Call("getElementById", id)
}

func exists(v js.Value) bool {
	return !v.IsNull() && !v.IsUndefined()
}

// listen adds an event listener to target and returns the subscription removing it
func listen(target js.Value, event string, passive bool, fn func(e js.Value)) *editor.Subscription {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		fn(args[0])
		return nil
	})
	opts := map[string]interface{}{"passive": passive}
	target.Call("addEventListener", event, cb, opts)
	return editor.NewSubscription(func() {
		target.Call("removeEventListener", event, cb, opts)
		cb.Release()
	})
}

// viewport measures the on-screen preview box
func viewport(el js.Value) models.ViewportSize {
	rect := el.Call("getBoundingClientRect")
	return models.ViewportSize{
		Width:  rect.Get("width").Float(),
		Height: rect.Get("height").Float(),
	}
}

func mousePoint(e js.Value) []editor.Point {
	return []editor.Point{{X: e.Get("clientX").Float(), Y: e.Get("clientY").Float()}}
}

// touchPoints converts a TouchList to contact points
func touchPoints(list js.Value) []editor.Point {
	n := list.Get("length").Int()
	points := make([]editor.Point, 0, n)
	for i := 0; i < n; i++ {
		t := list.Call("item", i)
		points = append(points, editor.Point{X: t.Get("clientX").Float(), Y: t.Get("clientY").Float()})
	}
	return points
}

func setHidden(el js.Value, hidden bool) {
	if exists(el) {
		el.Set("hidden", hidden)
	}
}

func setDisabled(el js.Value, disabled bool) {
	if exists(el) {
		el.Set("disabled", disabled)
	}
}

func setText(el js.Value, text string) {
	if exists(el) {
		el.Set("textContent", text)
	}
}
