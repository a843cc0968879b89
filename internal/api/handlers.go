package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mmrzaf/csvanon/internal/app"
	"github.com/mmrzaf/csvanon/internal/directive"
	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/exec"
	"github.com/mmrzaf/csvanon/internal/infra/repos/profiles"
	"github.com/mmrzaf/csvanon/internal/timeutil"
)

const defaultMaxBodyBytes = 64 << 20

type Handler struct {
	runService   *app.RunService
	maxBodyBytes int64
}

func NewHandler(runService *app.RunService) *Handler {
	return &Handler{runService: runService, maxBodyBytes: defaultMaxBodyBytes}
}

func (h *Handler) ListSpecs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, directive.Combinations())
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := h.runService.ListProfiles()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.runService.GetProfile(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, p)
}

// Anonymize rewrites the CSV request body. The response is buffered so a
// failure part way through still yields an error status instead of a
// truncated 200.
func (h *Handler) Anonymize(w http.ResponseWriter, r *http.Request) {
	req, err := runRequestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	var out bytes.Buffer
	run, err := h.runService.Anonymize(r.Context(), req, body, &out)
	if run != nil && run.ID != "" {
		w.Header().Set("X-Run-Id", run.ID)
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if stats, err := app.RunStats(run); err == nil {
		w.Header().Set("X-Csvanon-Rows", strconv.FormatUint(stats.Rows, 10))
		w.Header().Set("X-Csvanon-Cells", strconv.FormatUint(stats.Cells, 10))
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = w.Write(out.Bytes())
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		limit = n
	}
	var since time.Time
	if v := q.Get("since"); v != "" {
		t, err := timeutil.ParseRelativeTime(v, time.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		since = t
	}

	list, err := h.runService.ListRuns(limit, q.Get("status"), since)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if list == nil {
		list = []*domain.Run{}
	}
	writeJSON(w, list)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runService.GetRun(id)
	if err != nil {
		if errors.Is(err, app.ErrHistoryDisabled) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// runRequestFromQuery reads spec (repeatable, or comma separated), delimiter,
// header, memoize, memo_scope, seed and profile.
func runRequestFromQuery(r *http.Request) (*domain.RunRequest, error) {
	q := r.URL.Query()
	req := &domain.RunRequest{
		ProfileID: q.Get("profile"),
		Delimiter: q.Get("delimiter"),
		MemoScope: domain.MemoScope(q.Get("memo_scope")),
		Source:    "http",
	}
	for _, v := range q["spec"] {
		req.Directives = append(req.Directives, strings.FieldsFunc(v, func(c rune) bool {
			return c == ',' || c == ' '
		})...)
	}

	var err error
	if req.Header, err = boolParam(q.Get("header"), "header"); err != nil {
		return nil, err
	}
	if req.Memoize, err = boolParam(q.Get("memoize"), "memoize"); err != nil {
		return nil, err
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q", v)
		}
		req.Seed = &seed
	}
	return req, nil
}

func boolParam(v, name string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", name, v)
	}
	return &b, nil
}

func statusFor(err error) int {
	var (
		rangeErr *exec.ColumnRangeError
		csvErr   *csv.ParseError
		sizeErr  *http.MaxBytesError
	)
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, profiles.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &rangeErr), errors.As(err, &csvErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
