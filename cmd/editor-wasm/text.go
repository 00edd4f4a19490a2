//go:build js && wasm

package main

import (
	"context"
	"log"
	"syscall/js"

	"twibbon-campaign/editor"
)

// textEditor binds a text campaign page to an editor.TextSession
type textEditor struct {
	session *editor.TextSession
	lang    string

	nameInput   js.Value
	extraInput  js.Value
	captionName js.Value
	captionNote js.Value
	downloadBt  js.Value
	message     js.Value
}

func newTextEditor(session *editor.TextSession, lang string) *textEditor {
	return &textEditor{
		session:     session,
		lang:        lang,
		nameInput:   byID("name-input"),
		extraInput:  byID("extra-input"),
		captionName: byID("caption-name"),
		captionNote: byID("caption-extra"),
		downloadBt:  byID("download-btn"),
		message:     byID("message"),
	}
}

func (t *textEditor) bind() {
	listen(t.nameInput, "input", true, func(js.Value) {
		name := t.session.SetName(t.nameInput.Get("value").String())
		t.nameInput.Set("value", name)
		setText(t.captionName, name)
		t.refresh()
	})
	listen(t.extraInput, "input", true, func(js.Value) {
		extra := t.session.SetAdditionalText(t.extraInput.Get("value").String())
		t.extraInput.Set("value", extra)
		setText(t.captionNote, extra)
	})
	listen(t.downloadBt, "click", true, func(js.Value) { go t.download() })
	t.refresh()
}

func (t *textEditor) download() {
	setDisabled(t.downloadBt, true)
	filename, err := t.session.Download(context.Background())
	if err != nil {
		log.Printf("❌ Download failed: %v", err)
		setText(t.message, editor.UserMessage(err, t.lang))
	} else {
		log.Printf("✓ Saved %s", filename)
		setText(t.message, "")
	}
	t.refresh()
}

func (t *textEditor) refresh() {
	setDisabled(t.downloadBt, !t.session.CanDownload())
}
