package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	scriptocr "github.com/menta2k/script-ocr"
	"github.com/menta2k/script-ocr/internal/config"
	"github.com/menta2k/script-ocr/pkg/types"
)

type fakeEngine struct {
	id   types.EngineID
	text string
	err  error
}

func (f *fakeEngine) ID() types.EngineID { return f.id }

func (f *fakeEngine) Recognize(context.Context, image.Image) (string, error) {
	return f.text, f.err
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) Translate(context.Context, string, string) (string, error) {
	return f.out, f.err
}

func newTestServer(t *testing.T, debug bool, tr Translator) *httptest.Server {
	t.Helper()
	ex := scriptocr.NewWithEngines(
		&fakeEngine{id: types.EngineVision, text: "नमस्ते संसार"},
		&fakeEngine{id: types.EngineTesseractNep},
		&fakeEngine{id: types.EngineTesseractSin, err: errors.New("sin.traineddata missing")},
	)
	ex.SetNormalization(64, 30)

	cfg := config.Default().Server
	cfg.Debug = debug
	srv := New(cfg, ex, tr, zerolog.Nop())

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// uploadBody builds a multipart body with one file field
func uploadBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestExtractEndpoint(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{})

	body, contentType := uploadBody(t, "file", "scan.png", testPNG(t))
	resp, err := http.Post(ts.URL+"/extract", contentType, body)
	if err != nil {
		t.Fatalf("POST /extract: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got struct {
		Text     string          `json:"text"`
		Language string          `json:"language"`
		Engine   string          `json:"engine"`
		Debug    json.RawMessage `json:"debug"`
	}
	decodeJSON(t, resp, &got)

	if got.Text != "नमस्ते संसार" || got.Language != "ne" || got.Engine != "vision" {
		t.Errorf("got %+v", got)
	}
	if got.Debug != nil {
		t.Error("debug trace should be omitted when Debug is off")
	}
}

func TestExtractEndpointDebugTrace(t *testing.T) {
	ts := newTestServer(t, true, &fakeTranslator{})

	body, contentType := uploadBody(t, "file", "scan.png", testPNG(t))
	resp, err := http.Post(ts.URL+"/extract", contentType, body)
	if err != nil {
		t.Fatalf("POST /extract: %v", err)
	}

	var got struct {
		Debug *types.Diagnostics `json:"debug"`
	}
	decodeJSON(t, resp, &got)

	if got.Debug == nil {
		t.Fatal("debug trace should be present when Debug is on")
	}
	if len(got.Debug.Candidates) != 3 {
		t.Errorf("candidates = %d, want 3", len(got.Debug.Candidates))
	}
	if got.Debug.Errors[types.EngineTesseractSin] == "" {
		t.Error("failed engine should appear in diagnostics errors")
	}
}

func TestExtractEndpointMissingFile(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{})

	body, contentType := uploadBody(t, "wrongfield", "scan.png", testPNG(t))
	resp, err := http.Post(ts.URL+"/extract", contentType, body)
	if err != nil {
		t.Fatalf("POST /extract: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var got map[string]string
	decodeJSON(t, resp, &got)
	if got["error"] != "no file uploaded" {
		t.Errorf("error = %q", got["error"])
	}
}

func TestExtractEndpointUndecodableImage(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{})

	body, contentType := uploadBody(t, "file", "junk.png", []byte("this is not an image"))
	resp, err := http.Post(ts.URL+"/extract", contentType, body)
	if err != nil {
		t.Fatalf("POST /extract: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var got map[string]string
	decodeJSON(t, resp, &got)
	if !strings.Contains(got["error"], "not a decodable image") {
		t.Errorf("error = %q, want actionable decode message", got["error"])
	}
}

func TestTranslateEndpoint(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{out: "hello world"})

	resp, err := http.Post(ts.URL+"/translate", "application/json",
		strings.NewReader(`{"text":"नमस्ते संसार"}`))
	if err != nil {
		t.Fatalf("POST /translate: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got map[string]string
	decodeJSON(t, resp, &got)
	if got["translated"] != "hello world" {
		t.Errorf("translated = %q", got["translated"])
	}
}

func TestTranslateEndpointEmptyText(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{})

	resp, err := http.Post(ts.URL+"/translate", "application/json", strings.NewReader(`{"text":""}`))
	if err != nil {
		t.Fatalf("POST /translate: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTranslateEndpointBackendFailure(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{err: errors.New("model offline")})

	resp, err := http.Post(ts.URL+"/translate", "application/json", strings.NewReader(`{"text":"नमस्ते"}`))
	if err != nil {
		t.Fatalf("POST /translate: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestHealthzAndRequestID(t *testing.T) {
	ts := newTestServer(t, false, &fakeTranslator{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
}
