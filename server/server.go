// Package server exposes the media controller, downloader and assistant
// over HTTP. Handlers are thin: they parse the request, call the
// controller and map its errors onto status codes. All validation of
// paths and durations happens in the controller.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/d1nch8g/office/download"
	"github.com/d1nch8g/office/media"
)

// MediaController is the controller surface the handlers dispatch onto.
type MediaController interface {
	Start(path string) error
	Stop() error
	RecordAudio(name string, duration float64) (string, error)
	RecordVideo(name string, duration float64) (string, error)
	Snapshot(name string) (string, error)
}

// Assistant is the conversational surface the chat handler dispatches
// onto.
type Assistant interface {
	Chat(ctx context.Context, message string) (string, error)
	Translate(ctx context.Context, text, langCode string) (string, error)
}

type Server struct {
	media      MediaController
	assistant  Assistant
	downloader download.Downloader
	outDir     string
	log        zerolog.Logger
}

// New creates the HTTP facade. assistant and downloader may be nil, in
// which case their routes answer 503.
func New(m MediaController, assistant Assistant, downloader download.Downloader, outDir string, log zerolog.Logger) *Server {
	return &Server{
		media:      m,
		assistant:  assistant,
		downloader: downloader,
		outDir:     outDir,
		log:        log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Post("/chat", s.handleChat)
	r.Post("/download", s.handleDownload)
	r.Post("/play", s.handlePlay)
	r.Post("/stop_playback", s.handleStopPlayback)
	r.Post("/record_audio", s.handleRecordAudio)
	r.Post("/record_video", s.handleRecordVideo)
	r.Post("/screenshot", s.handleScreenshot)
	r.Get("/download_file/{name}", s.handleDownloadFile)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

type chatRequest struct {
	Message     string `json:"message"`
	TranslateTo string `json:"translate_to,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "a message is required")
		return
	}

	var (
		reply string
		err   error
	)
	if req.TranslateTo != "" {
		reply, err = s.assistant.Translate(r.Context(), req.Message, req.TranslateTo)
	} else {
		reply, err = s.assistant.Chat(r.Context(), req.Message)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("chat failed")
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if s.downloader == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "downloader is not configured")
		return
	}

	url := r.FormValue("url")
	path, err := s.downloader.Fetch(r.Context(), url)
	if err != nil {
		s.log.Error().Err(err).Str("url", url).Msg("download failed")
		status := http.StatusInternalServerError
		if errors.Is(err, download.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	path := r.FormValue("file_path")
	if err := s.media.Start(path); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "playback started"})
}

func (s *Server) handleStopPlayback(w http.ResponseWriter, r *http.Request) {
	if err := s.media.Stop(); err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "playback stopped"})
}

func (s *Server) handleRecordAudio(w http.ResponseWriter, r *http.Request) {
	duration, err := parseDuration(r.FormValue("duration"))
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	name := fmt.Sprintf("recorded_audio_%d.wav", time.Now().Unix())
	path, err := s.media.RecordAudio(name, duration)
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (s *Server) handleRecordVideo(w http.ResponseWriter, r *http.Request) {
	duration, err := parseDuration(r.FormValue("duration"))
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	name := fmt.Sprintf("recorded_video_%d.avi", time.Now().Unix())
	path, err := s.media.RecordVideo(name, duration)
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("screenshot_%d.png", time.Now().Unix())
	path, err := s.media.Snapshot(name)
	if err != nil {
		s.writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	path := filepath.Join(s.outDir, name)
	if _, err := os.Stat(path); err != nil {
		writeJSONError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}

func parseDuration(raw string) (float64, error) {
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q is not a number", media.ErrInvalidDuration, raw)
	}
	return duration, nil
}

// writeControllerError maps the controller error taxonomy onto HTTP
// status codes.
func (s *Server) writeControllerError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, media.ErrInvalidInput), errors.Is(err, media.ErrInvalidDuration):
		status = http.StatusBadRequest
	case errors.Is(err, media.ErrBusy), errors.Is(err, media.ErrNotPlaying):
		status = http.StatusConflict
	case errors.Is(err, media.ErrDeviceUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("controller operation failed")
	}
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a map of strings cannot fail in a way worth surfacing.
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
