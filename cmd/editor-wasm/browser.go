//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"syscall/js"

	"twibbon-campaign/editor"
	"twibbon-campaign/models"
)

// absoluteURL resolves ref against the page address
func absoluteURL(ref string) string {
	base, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// apiTracker posts downloads to the tracking endpoint
type apiTracker struct {
	client   *http.Client
	endpoint string
}

var _ editor.Tracker = (*apiTracker)(nil)

func newAPITracker() *apiTracker {
	return &apiTracker{client: http.DefaultClient, endpoint: absoluteURL("/api/downloads")}
}

func (t *apiTracker) TrackDownload(ctx context.Context, req models.TrackDownloadRequest) (*models.TrackDownloadResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tracking request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to track download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracking returned status %d", resp.StatusCode)
	}

	var out models.TrackDownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode tracking response: %w", err)
	}
	return &out, nil
}

// blobSaver triggers a browser download through a temporary object URL
type blobSaver struct{}

var _ editor.Saver = blobSaver{}

func (blobSaver) Save(ctx context.Context, filename string, data []byte) error {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)

	blob := js.Global().Get("Blob").New([]interface{}{arr}, map[string]interface{}{"type": "image/jpeg"})
	urlAPI := js.Global().Get("URL")
	href := urlAPI.Call("createObjectURL", blob)

	doc := js.Global().Get("document")
	a := doc.Call("createElement", "a")
	a.Set("href", href)
	a.Set("download", filename)
	a.Get("style").Set("display", "none")
	doc.Get("body").Call("appendChild", a)
	a.Call("click")
	a.Call("remove")

	// revoke after the click has been handled
	var revoke js.Func
	revoke = js.FuncOf(func(js.Value, []js.Value) interface{} {
		urlAPI.Call("revokeObjectURL", href)
		revoke.Release()
		return nil
	})
	js.Global().Call("setTimeout", revoke, 1000)
	return nil
}

// await blocks the calling goroutine until promise settles.
// It must not be called from inside a js.FuncOf callback.
func await(promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)

	var onOK, onErr js.Func
	onOK = js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		ch <- result{v: args[0]}
		return nil
	})
	onErr = js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		ch <- result{err: fmt.Errorf("%s", args[0].Call("toString").String())}
		return nil
	})
	defer onOK.Release()
	defer onErr.Release()

	promise.Call("then", onOK, onErr)
	r := <-ch
	return r.v, r.err
}

// readFile copies a File object into Go memory
func readFile(file js.Value) (editor.UploadedFile, error) {
	buf, err := await(file.Call("arrayBuffer"))
	if err != nil {
		return editor.UploadedFile{}, fmt.Errorf("failed to read %s: %w", file.Get("name").String(), err)
	}
	arr := js.Global().Get("Uint8Array").New(buf)
	data := make([]byte, arr.Get("length").Int())
	js.CopyBytesToGo(data, arr)
	return editor.UploadedFile{
		Name:        file.Get("name").String(),
		ContentType: file.Get("type").String(),
		Data:        data,
	}, nil
}
