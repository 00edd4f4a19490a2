//go:build js && wasm

// Command editor-wasm is the in-browser campaign editor. Build with
//
//	GOOS=js GOARCH=wasm go build -o dist/editor.wasm ./cmd/editor-wasm
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" dist/
package main

import (
	"encoding/json"
	"log"
	"strconv"
	"syscall/js"

	"twibbon-campaign/compositor"
	"twibbon-campaign/editor"
	"twibbon-campaign/models"
)

func main() {
	root := byID("editor")
	if !exists(root) {
		log.Printf("⚠️  No editor on this page")
		return
	}

	var campaign models.Campaign
	if err := json.Unmarshal([]byte(root.Get("dataset").Get("campaign").String()), &campaign); err != nil {
		log.Printf("❌ Invalid campaign data: %v", err)
		return
	}
	campaign.TemplateURL = absoluteURL(campaign.TemplateURL)

	maxUpload, err := strconv.ParseInt(root.Get("dataset").Get("maxUpload").String(), 10, 64)
	if err != nil {
		maxUpload = editor.DefaultMaxUploadBytes
	}
	lang := js.Global().Get("navigator").Get("language").String()

	comp := compositor.New(compositor.NewHTTPLoader(nil))
	tracker := newAPITracker()

	switch campaign.Type {
	case models.CampaignTypeText:
		session := editor.NewTextSession(editor.TextSessionConfig{
			Campaign: campaign,
			Renderer: comp,
			Tracker:  tracker,
			Saver:    blobSaver{},
		})
		newTextEditor(session, lang).bind()
	default:
		session := editor.NewSession(editor.SessionConfig{
			Campaign:       campaign,
			MaxUploadBytes: maxUpload,
			Compositor:     comp,
			Tracker:        tracker,
			Saver:          blobSaver{},
		})
		newPhotoEditor(session, lang).bind()
	}

	log.Printf("✓ Editor ready for %s (%s)", campaign.Slug, campaign.Type)
	// keep the callbacks alive
	select {}
}
