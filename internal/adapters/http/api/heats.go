package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/wildcat/internal/adapters/report"
	"github.com/okian/wildcat/internal/adapters/repository"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/model"
	"github.com/okian/wildcat/internal/domain/racetime"
	"github.com/okian/wildcat/internal/domain/types"
)

// HeatsHandler handles heat submission and retrieval.
type HeatsHandler struct {
	deps     HeatDependencies
	maxLimit int
}

// NewHeatsHandler creates a new heats handler.
func NewHeatsHandler(deps HeatDependencies, maxLimit int) *HeatsHandler {
	return &HeatsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSubmit handles POST /heats. The heat is scored asynchronously.
func (h *HeatsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_heat"
	sub, err := decodeSubmission(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	id, dup, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, types.SubmitResponse{ID: id, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, types.SubmitResponse{ID: id, Status: string(repository.StatusPending)})
}

// HandleScore handles POST /heats/score. The heat is scored before the
// response is written.
func (h *HeatsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_heat"
	sub, err := decodeSubmission(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.ScoreNow(r.Context(), sub)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.document(rec))
}

// HandleList handles GET /heats?limit=N. Without a limit every heat up to
// the configured maximum is listed.
func (h *HeatsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_heats"
	limit := h.maxLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeFailure(w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", s)))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	recs, err := h.deps.Heats(r.Context(), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make([]types.HeatDoc, len(recs))
	for i, rec := range recs {
		out[i] = summary(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /heats/{id}.
func (h *HeatsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_heat"
	rec, err := h.deps.Heat(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.document(rec))
}

// HandleReport handles GET /heats/{id}/report?format=text|yaml|json.
func (h *HeatsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.heat_report"
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec, err := h.deps.Heat(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if rec.Heat == nil {
		writeError(w, http.StatusConflict, "not_scored", fmt.Errorf("heat %s is %s", rec.ID, rec.Status))
		return
	}

	switch format {
	case report.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = report.WriteMeet(w, h.deps.Meet(), rec.Heat)
	case report.FormatSummary:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = report.WriteMeetSummary(w, h.deps.Meet(), rec.Heat)
	case report.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
		_ = report.WriteYAML(w, h.document(rec))
	case report.FormatJSON:
		writeJSON(w, http.StatusOK, h.document(rec))
	}
}

// document renders a stored heat with its results when it has any.
func (h *HeatsHandler) document(rec repository.Record) types.HeatDoc { //nolint:gocritic // hugeParam: read-only copy
	doc := summary(rec)
	if rec.Heat != nil {
		full := report.Document(h.deps.Meet(), rec.Heat)
		doc.Meet = full.Meet
		doc.Divisions = full.Divisions
	}
	return doc
}

func summary(rec repository.Record) types.HeatDoc { //nolint:gocritic // hugeParam: read-only copy
	return types.HeatDoc{
		ID:     rec.ID,
		Mode:   string(rec.Mode),
		Status: string(rec.Status),
		Error:  rec.Error,
	}
}

func decodeSubmission(r *http.Request) (heat.Submission, error) {
	var req types.HeatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return heat.Submission{}, fmt.Errorf("decode body: %w", err)
	}
	return toSubmission(req)
}

// toSubmission validates a request and converts it to domain types.
func toSubmission(req types.HeatRequest) (heat.Submission, error) {
	sub := heat.Submission{ID: strings.TrimSpace(req.SubmissionID)}
	if req.Mode != "" {
		mode, err := heat.ParseMode(req.Mode)
		if err != nil {
			return heat.Submission{}, err
		}
		sub.Mode = mode
	}
	if req.Finishes == nil {
		return heat.Submission{}, errors.New("missing finishes")
	}

	sub.Finishes = make([]model.Finish, len(req.Finishes))
	for i, f := range req.Finishes {
		if f.RunnerID <= 0 {
			return heat.Submission{}, fmt.Errorf("finish %d: missing runner_id", i+1)
		}
		var t racetime.Time
		switch {
		case f.Time != "":
			parsed, err := racetime.Parse(f.Time)
			if err != nil {
				return heat.Submission{}, fmt.Errorf("finish %d: %w", i+1, err)
			}
			t = parsed
		case f.Seconds != nil:
			t = racetime.FromSeconds(*f.Seconds)
		default:
			return heat.Submission{}, fmt.Errorf("finish %d: missing time or seconds", i+1)
		}
		sub.Finishes[i] = model.Finish{RunnerID: model.RunnerID(f.RunnerID), Time: t}
	}
	return sub, nil
}
