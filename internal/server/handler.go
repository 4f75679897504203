package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/pipeline"
	"github.com/nguyentantai21042004/telop-review/internal/review"
	"github.com/nguyentantai21042004/telop-review/internal/summarizer"
	"github.com/nguyentantai21042004/telop-review/internal/telop"
)

const maxRequestBody = 1 << 16

// Handler exposes analyses over HTTP.
type Handler struct {
	runtime    pipeline.Runtime
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// NewHandler returns a Handler. sum may be nil to disable summaries.
func NewHandler(rt pipeline.Runtime, sum summarizer.Summarizer, log logger.Logger) *Handler {
	return &Handler{runtime: rt, summarizer: sum, logger: log}
}

type analyzeRequest struct {
	URL     string `json:"url"`
	Summary bool   `json:"summary"`
}

type bucketResponse struct {
	Key    int                   `json:"key"`
	Label  string                `json:"label"`
	Link   string                `json:"link"`
	Anchor string                `json:"anchor"`
	Voice  []review.VoiceSegment `json:"voice"`
	Telop  []review.TelopEvent   `json:"telop"`
}

type analyzeResponse struct {
	URL     string           `json:"url"`
	Buckets []bucketResponse `json:"buckets"`
	Stats   telop.Stats      `json:"stats"`
	Summary string           `json:"summary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// Analyze handles POST /analyses.
// Body: { "url": "https://www.youtube.com/watch?v=...", "summary": false }.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.logger.Debug(r.Context(), "Invalid analyze body: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url must be an http(s) URL"})
		return
	}

	res, err := h.runtime.Analyze(r.Context(), req.URL, func(p pipeline.Progress) {
		h.logger.Debug(r.Context(), "[%3d%%] %s", p.Percent, p.Label)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := analyzeResponse{
		URL:     res.URL,
		Buckets: make([]bucketResponse, 0, len(res.Buckets)),
		Stats:   res.Stats,
	}
	for _, b := range res.Buckets {
		resp.Buckets = append(resp.Buckets, bucketResponse{
			Key:    b.Key,
			Label:  review.FormatClock(b.Key),
			Link:   review.DeepLink(res.URL, b.Key),
			Anchor: b.Anchor().String(),
			Voice:  b.Voice,
			Telop:  b.Telop,
		})
	}

	if req.Summary && h.summarizer != nil {
		summary, err := h.summarizer.Summarize(r.Context(), res.URL, res.Buckets)
		if err != nil {
			h.logger.Warn(r.Context(), "Summary unavailable: %v", err)
		}
		resp.Summary = summary
	}

	writeJSON(w, http.StatusOK, resp)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorResponse{Error: err.Error(), Hint: pipeline.Hint(err)}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		body.Stage = stageErr.Stage.String()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrAuthRequired):
		status = http.StatusForbidden
	case errors.Is(err, pipeline.ErrMediaUnavailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrTranscriptionFailed):
		status = http.StatusBadGateway
	}

	h.logger.Error(r.Context(), "Analysis request failed: %v", err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
