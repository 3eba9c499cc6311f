// Package server exposes the OCR pipeline over HTTP: POST /extract for
// image uploads, POST /translate for the translation pass-through and
// GET /healthz. Everything here is thin glue around the extractor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	scriptocr "github.com/menta2k/script-ocr"
	"github.com/menta2k/script-ocr/internal/config"
	"github.com/menta2k/script-ocr/internal/utils"
	"github.com/menta2k/script-ocr/pkg/preprocess"
	"github.com/menta2k/script-ocr/pkg/types"
)

// Translator is the server's view of the translation pass-through.
type Translator interface {
	Translate(ctx context.Context, text, dest string) (string, error)
}

// Server wires the extractor and translator into an HTTP handler.
type Server struct {
	cfg        config.ServerConfig
	extractor  *scriptocr.Extractor
	translator Translator
	log        zerolog.Logger
}

// New creates a Server.
func New(cfg config.ServerConfig, ex *scriptocr.Extractor, tr Translator, log zerolog.Logger) *Server {
	return &Server{cfg: cfg, extractor: ex, translator: tr, log: log}
}

// Router builds the chi router with CORS, request-id and access-log
// middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/extract", s.handleExtract)
	r.Post("/translate", s.handleTranslate)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractResponse mirrors types.Result with the diagnostics trace
// gated behind the debug flag.
type extractResponse struct {
	Text     string             `json:"text"`
	Language types.Language     `json:"language"`
	Engine   types.EngineID     `json:"engine"`
	Debug    *types.Diagnostics `json:"debug,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Filename != "" && !utils.IsImageFile(header.Filename) {
		// The decoder has the final say; the extension is only a hint.
		s.log.Debug().Str("filename", header.Filename).Msg("upload without an image extension")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	s.log.Debug().
		Str("filename", header.Filename).
		Str("size", utils.FormatFileSize(int64(len(data)))).
		Msg("upload received")

	res, err := s.extractor.Extract(r.Context(), data)
	if err != nil {
		if errors.Is(err, preprocess.ErrDecode) {
			writeError(w, http.StatusBadRequest,
				"uploaded file is not a decodable image (png, jpeg, gif, bmp, tiff and webp are supported)")
			return
		}
		s.log.Error().Err(err).Msg("extraction failed")
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	resp := extractResponse{
		Text:     res.Text,
		Language: res.Language,
		Engine:   res.Engine,
	}
	if s.cfg.Debug {
		resp.Debug = &res.Diagnostics
	}
	writeJSON(w, http.StatusOK, resp)
}

type translateRequest struct {
	Text string `json:"text"`
	Dest string `json:"dest"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "no text to translate")
		return
	}
	if req.Dest == "" {
		req.Dest = "en"
	}

	translated, err := s.translator.Translate(r.Context(), req.Text, req.Dest)
	if err != nil {
		s.log.Error().Err(err).Msg("translation failed")
		writeError(w, http.StatusBadGateway, "translation backend failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translated": translated})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
