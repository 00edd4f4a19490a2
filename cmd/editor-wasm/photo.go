//go:build js && wasm

package main

import (
	"context"
	"log"
	"syscall/js"

	"twibbon-campaign/editor"
	"twibbon-campaign/models"
)

// photoEditor binds a photo campaign page to an editor.Session
type photoEditor struct {
	session *editor.Session
	lang    string

	preview    js.Value
	photoLayer js.Value
	fileInput  js.Value
	uploadBtn  js.Value
	changeBtn  js.Value
	resetBtn   js.Value
	downloadBt js.Value
	message    js.Value

	photoURL js.Value
	observer *editor.Subscription
	gesture  editor.Subscriptions // document listeners of the gesture in progress
}

func newPhotoEditor(session *editor.Session, lang string) *photoEditor {
	return &photoEditor{
		session:    session,
		lang:       lang,
		preview:    byID("preview"),
		photoLayer: byID("photo-layer"),
		fileInput:  byID("file-input"),
		uploadBtn:  byID("upload-btn"),
		changeBtn:  byID("change-btn"),
		resetBtn:   byID("reset-btn"),
		downloadBt: byID("download-btn"),
		message:    byID("message"),
		photoURL:   js.Null(),
	}
}

func (p *photoEditor) bind() {
	p.observer = p.session.Subscribe(func(t models.Transform) {
		p.photoLayer.Call("setAttribute", "style", editor.PhotoLayerStyle(t))
	})

	listen(p.uploadBtn, "click", true, func(js.Value) { p.fileInput.Call("click") })
	listen(p.changeBtn, "click", true, func(js.Value) {
		p.session.ChangePhoto()
		p.clearPhoto()
		p.fileInput.Call("click")
	})
	listen(p.resetBtn, "click", true, func(js.Value) {
		p.session.ResetTransform(viewport(p.preview))
		p.refresh()
	})
	listen(p.fileInput, "change", true, func(js.Value) {
		files := p.fileInput.Get("files")
		if files.Get("length").Int() == 0 {
			return
		}
		file := files.Call("item", 0)
		p.fileInput.Set("value", "")
		go p.upload(file)
	})
	listen(p.downloadBt, "click", true, func(js.Value) { go p.download() })

	// mouse: hover for wheel zoom, drag with document-level move/up listeners
	listen(p.preview, "mouseenter", true, func(js.Value) { p.session.SetHover(true) })
	listen(p.preview, "mouseleave", true, func(js.Value) { p.session.SetHover(false) })
	listen(p.preview, "mousedown", false, func(e js.Value) {
		if !p.session.HasPhoto() {
			return
		}
		e.Call("preventDefault")
		p.session.PointerDown(mousePoint(e))
		p.refresh()
		p.gesture.Close()
		p.gesture.Add(listen(document, "mousemove", true, func(e js.Value) {
			p.session.PointerMove(mousePoint(e))
		}))
		p.gesture.Add(listen(document, "mouseup", true, func(js.Value) {
			p.gesture.Close()
			p.session.PointerUp(nil, viewport(p.preview))
			p.refresh()
		}))
	})
	listen(p.preview, "wheel", false, func(e js.Value) {
		if !p.session.HasPhoto() {
			return
		}
		e.Call("preventDefault")
		p.session.Wheel(e.Get("deltaY").Float(), viewport(p.preview))
		p.refresh()
	})

	// touch: one finger drags, two fingers pinch
	listen(p.preview, "touchstart", false, func(e js.Value) {
		if !p.session.HasPhoto() {
			return
		}
		e.Call("preventDefault")
		p.session.PointerDown(touchPoints(e.Get("touches")))
		p.refresh()
	})
	listen(p.preview, "touchmove", false, func(e js.Value) {
		if !p.session.HasPhoto() {
			return
		}
		e.Call("preventDefault")
		p.session.PointerMove(touchPoints(e.Get("touches")))
	})
	touchEnd := func(e js.Value) {
		if !p.session.HasPhoto() {
			return
		}
		p.session.PointerUp(touchPoints(e.Get("touches")), viewport(p.preview))
		p.refresh()
	}
	listen(p.preview, "touchend", true, touchEnd)
	listen(p.preview, "touchcancel", true, touchEnd)

	listen(js.Global(), "resize", true, func(js.Value) {
		p.session.Measure(viewport(p.preview))
		p.refresh()
	})
	listen(js.Global(), "pagehide", true, func(js.Value) {
		p.gesture.Close()
		p.observer.Close()
		p.clearPhoto()
	})

	p.refresh()
}

func (p *photoEditor) upload(file js.Value) {
	uploaded, err := readFile(file)
	if err == nil {
		err = p.session.Upload(uploaded)
	}
	if err != nil {
		setText(p.message, editor.UserMessage(err, p.lang))
		p.refresh()
		return
	}

	p.clearPhoto()
	p.photoURL = js.Global().Get("URL").Call("createObjectURL", file)
	p.photoLayer.Set("src", p.photoURL)
	p.photoLayer.Call("setAttribute", "style", editor.PhotoLayerStyle(p.session.Transform()))
	setHidden(p.photoLayer, false)
	setText(p.message, "")

	// the first capture needs the laid-out preview size
	p.session.Measure(viewport(p.preview))
	p.refresh()
}

func (p *photoEditor) download() {
	setDisabled(p.downloadBt, true)
	filename, err := p.session.Download(context.Background(), editor.DownloadRequest{})
	if err != nil {
		log.Printf("❌ Download failed: %v", err)
		setText(p.message, editor.UserMessage(err, p.lang))
	} else {
		log.Printf("✓ Saved %s", filename)
		setText(p.message, "")
	}
	p.refresh()
}

func (p *photoEditor) clearPhoto() {
	if exists(p.photoURL) {
		js.Global().Get("URL").Call("revokeObjectURL", p.photoURL)
		p.photoURL = js.Null()
	}
	p.photoLayer.Call("removeAttribute", "src")
	setHidden(p.photoLayer, true)
	p.refresh()
}

// refresh syncs the controls with the session state
func (p *photoEditor) refresh() {
	has := p.session.HasPhoto()
	setHidden(p.uploadBtn, has)
	setHidden(p.changeBtn, !has)
	setHidden(p.resetBtn, !has)
	setDisabled(p.downloadBt, !p.session.CanDownload())
}
