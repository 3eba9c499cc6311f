package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	scriptocr "github.com/menta2k/script-ocr"
	"github.com/menta2k/script-ocr/internal/config"
	"github.com/menta2k/script-ocr/internal/server"
	"github.com/menta2k/script-ocr/pkg/engine"
	"github.com/menta2k/script-ocr/pkg/llamacpp"
	"github.com/menta2k/script-ocr/pkg/ollama"
	"github.com/menta2k/script-ocr/pkg/translate"
)

func main() {
	var envFile, addr string
	flag.StringVar(&envFile, "env", ".env", "optional .env file with SCRIPTOCR_* variables")
	flag.StringVar(&addr, "addr", "", "listen address (overrides SCRIPTOCR_ADDR)")
	flag.Parse()

	log := newLogger()

	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Warn().Str("file", envFile).Err(err).Msg("could not load env file")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	var backend engine.Backend
	switch cfg.Engines.Backend {
	case "ollama":
		backend, err = ollama.NewClient(cfg.Engines.BackendURL)
	case "llamacpp":
		backend, err = llamacpp.NewClient(cfg.Engines.BackendURL)
	default:
		log.Fatal().Str("backend", cfg.Engines.Backend).Msg("unknown backend")
	}
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Engines.Backend).Msg("failed to create backend client")
	}

	extractor := scriptocr.New(backend, cfg.Engines.VisionModel)
	extractor.SetNormalization(cfg.Preprocess.MinWidth, cfg.Preprocess.Contrast)
	translator := translate.New(backend, cfg.Engines.TranslateModel)

	srv := server.New(cfg.Server, extractor, translator, log)

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("backend", cfg.Engines.Backend).
		Str("vision_model", cfg.Engines.VisionModel).
		Bool("debug", cfg.Server.Debug).
		Msg("script-ocr listening")

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(envOr("SCRIPTOCR_LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if envOr("SCRIPTOCR_LOG_FORMAT", "console") == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
