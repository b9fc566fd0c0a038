// Package server exposes ad hoc extraction over HTTP: raw document text in,
// invoice record out. There is no upload or rendering surface here; callers
// OCR their documents elsewhere.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/invoice-extract/internal/extract"
	"github.com/sells-group/invoice-extract/internal/ocr"
)

// maxBodyBytes caps request bodies; OCR text for a multi-page invoice is
// well under this.
const maxBodyBytes = 4 << 20

// New builds the HTTP server for the given extractor.
func New(extractor *extract.Extractor, port int) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/v1/extract", handleExtract(extractor))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// handleExtract accepts text/plain bodies or JSON {"text": ..., "source": ...}
// and responds with the extracted record.
func handleExtract(extractor *extract.Extractor) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, `{"error":"read body"}`, http.StatusBadRequest)
			return
		}

		text := string(body)
		source := ""
		if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
			var in struct {
				Text   string `json:"text"`
				Source string `json:"source"`
			}
			if err := json.Unmarshal(body, &in); err != nil {
				http.Error(w, `{"error":"invalid json body"}`, http.StatusBadRequest)
				return
			}
			text = in.Text
			source = in.Source
		}

		if strings.TrimSpace(text) == "" {
			http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
			return
		}

		record := extractor.Extract(ocr.Normalize(text), source)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(record); err != nil {
			zap.L().Warn("encode response", zap.Error(err))
		}
	}
}
