package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autodriver-poc/server/internal/agent/graph"
	"github.com/autodriver-poc/server/internal/agent/model"
	errx "github.com/autodriver-poc/server/internal/core/error"
	logx "github.com/autodriver-poc/server/pkg/logger"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Runner graph.Runner
}

// RunRequest is the body of both run endpoints.
type RunRequest struct {
	Messages []model.RawRecord `json:"messages"`
	LLMCalls int               `json:"llm_calls"`
	RunID    string            `json:"run_id,omitempty"`
}

// RunResponse is the result of a blocking run.
type RunResponse struct {
	Answer string `json:"answer"`
	*model.RunResult
}

// streamLine is one NDJSON line; exactly one field is set.
type streamLine struct {
	Stage  *model.StageDelta `json:"stage,omitempty"`
	Result *RunResponse      `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (h *Handlers) CreateRun(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRun(w, r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	res, err := h.Runner.Invoke(r.Context(), in)
	if err != nil {
		logx.Error().Err(err).Str("run_id", in.RunID).Msg("Run failed")
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRunResponse(res))
}

// StreamRun writes one NDJSON line per completed stage followed by the result.
// Failures after the first line are reported in-band.
func (h *Handlers) StreamRun(w http.ResponseWriter, r *http.Request) {
	in, err := decodeRun(w, r)
	if err != nil {
		respondAppError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	emit := func(line streamLine) {
		if err := enc.Encode(line); err != nil {
			logx.Warn().Err(err).Msg("Failed to write stream line")
			return
		}
		flusher.Flush()
	}

	res, err := h.Runner.Stream(r.Context(), in, func(d model.StageDelta) {
		emit(streamLine{Stage: &d})
	})
	if err != nil {
		logx.Error().Err(err).Str("run_id", in.RunID).Msg("Streamed run failed")
		emit(streamLine{Error: publicMessage(err)})
		return
	}
	emit(streamLine{Result: newRunResponse(res)})
}

func decodeRun(w http.ResponseWriter, r *http.Request) (model.RunInput, error) {
	var req RunRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return model.RunInput{}, errx.New(err, http.StatusBadRequest, errx.InvalidInputMessage)
	}
	if req.LLMCalls < 0 {
		return model.RunInput{}, errx.New(errors.New("llm_calls must not be negative"), http.StatusBadRequest, errx.InvalidInputMessage)
	}
	return model.RunInput{
		RunID:    req.RunID,
		Messages: model.Records(req.Messages...),
		LLMCalls: req.LLMCalls,
	}, nil
}

func newRunResponse(res *model.RunResult) *RunResponse {
	resp := &RunResponse{RunResult: res}
	if final := res.Final(); final != nil {
		resp.Answer = final.Content
	}
	return resp
}

func publicMessage(err error) string {
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return errx.SystemErrorMessage
}

func respondAppError(w http.ResponseWriter, err error) {
	respondError(w, errx.StatusOf(err, http.StatusInternalServerError), publicMessage(err))
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Warn().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
