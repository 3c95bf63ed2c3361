/*
handlers.go - HTTP API handlers for the value algebra

PURPOSE:
  Exposes expression resolution via REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the resolver.

ENDPOINTS:
  POST   /api/resolve        Resolve one expression tree
  POST   /api/resolve/batch  Resolve many trees against one reference
  GET    /api/grains         List calendar grains
  GET    /api/ops            List expression operations
  GET    /api/log?limit=N    Recent resolution attempts
  GET    /api/health         Liveness

REQUEST FLOW:
  1. Decode JSON body
  2. Build the resolve.Context (reference, timezone)
  3. Resolve
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body or expression tree
  - 422: Well-formed expression the algebra rejects
  - 429: Rate limited
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/observability"
	"github.com/warp/value-algebra/resolve"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxBodyBytes    = 1 << 20
	defaultLogLimit = 50
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Resolver *resolve.Resolver
	Logger   *slog.Logger

	timezone string
	maxBatch int
	now      func() time.Time
}

// NewHandler creates a handler resolving in timezone by default and
// accepting batches of at most maxBatch expressions.
func NewHandler(r *resolve.Resolver, timezone string, maxBatch int) *Handler {
	return &Handler{
		Resolver: r,
		Logger:   observability.Discard(),
		timezone: timezone,
		maxBatch: maxBatch,
		now:      time.Now,
	}
}

// WithClock replaces the clock used when a request omits its reference.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// =============================================================================
// RESOLUTION HANDLERS
// =============================================================================

// Resolve resolves one expression tree.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Expression == nil {
		writeError(w, http.StatusBadRequest, "Missing expression", nil)
		return
	}

	rc, err := h.context(req.Reference, req.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timezone", err)
		return
	}

	res, err := h.Resolver.ResolveExpr(r.Context(), rc, *req.Expression)
	if err != nil {
		writeResolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ResolveBatch resolves many trees; failures are reported per item.
func (h *Handler) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Expressions) == 0 {
		writeError(w, http.StatusBadRequest, "No expressions", nil)
		return
	}
	if len(req.Expressions) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "Batch too large", map[string]int{"max": h.maxBatch, "got": len(req.Expressions)})
		return
	}

	rc, err := h.context(req.Reference, req.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timezone", err)
		return
	}

	items, err := h.Resolver.ResolveBatch(r.Context(), rc, req.Expressions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Batch aborted", err)
		return
	}

	resp := BatchResponse{Reference: rc.Reference, Results: make([]BatchItemDTO, len(items))}
	for i, item := range items {
		resp.Results[i] = BatchItemDTO{Index: i, Result: item.Resolution}
		if item.Err != nil {
			_, body := errorBody(item.Err)
			resp.Results[i].Error = &body
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) context(ref *time.Time, tz string) (resolve.Context, error) {
	reference := h.now()
	if ref != nil {
		reference = *ref
	}
	if tz == "" {
		tz = h.timezone
	}
	rc, err := resolve.NewContext(reference, tz)
	rc.Floating = ref == nil
	return rc, err
}

// =============================================================================
// DISCOVERY HANDLERS
// =============================================================================

// ListGrains returns the calendar grains, finest first.
func (h *Handler) ListGrains(w http.ResponseWriter, r *http.Request) {
	grains := moment.Grains()
	names := make([]string, len(grains))
	for i, g := range grains {
		names[i] = g.String()
	}
	writeJSON(w, http.StatusOK, GrainsResponse{Grains: names})
}

// ListOps returns the expression operations.
func (h *Handler) ListOps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OpsResponse{Ops: h.Resolver.Ops()})
}

// RecentLog returns the latest resolution attempts.
func (h *Handler) RecentLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", s)
			return
		}
		limit = n
	}

	records, err := h.Resolver.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read resolution log", err)
		return
	}
	if records == nil {
		records = []resolve.Record{}
	}
	writeJSON(w, http.StatusOK, LogResponse{Records: records})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	resp := ErrorResponse{Error: message}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}

func writeResolveError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, body)
}

// errorBody maps a resolution error to its status and body.
func errorBody(err error) (int, ErrorResponse) {
	outcome := resolve.Classify(err)
	body := ErrorResponse{Error: err.Error(), Code: string(outcome)}
	switch outcome {
	case resolve.OutcomeMalformed:
		return http.StatusBadRequest, body
	case resolve.OutcomeRejected:
		return http.StatusUnprocessableEntity, body
	default:
		if errors.Is(err, resolve.ErrDuplicateRecord) {
			return http.StatusConflict, body
		}
		return http.StatusInternalServerError, body
	}
}
