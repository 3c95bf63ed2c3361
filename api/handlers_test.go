package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/value-algebra/api"
	"github.com/warp/value-algebra/config"
	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/resolve"
	"github.com/warp/value-algebra/resolve/memo"
	"github.com/warp/value-algebra/values"
)

// Tuesday 2013-02-12 04:30:00
var reference = time.Date(2013, time.February, 12, 4, 30, 0, 0, time.UTC)

func setupTestServer(t *testing.T, mutate ...func(*config.Config)) http.Handler {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.RateLimit.RPS = 0
	cfg.Batch.MaxSize = 3
	for _, m := range mutate {
		m(cfg)
	}

	store := memo.NewMemory()
	r := resolve.New(resolve.WithMemo(store), resolve.WithLog(store))
	h := api.NewHandler(r, cfg.Resolver.Timezone, cfg.Batch.MaxSize).
		WithClock(func() time.Time { return reference })
	return api.NewRouter(h, *cfg)
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestResolve_NextTuesday(t *testing.T) {
	// GIVEN: a server whose clock reads Tuesday 2013-02-12
	srv := setupTestServer(t)

	// WHEN: resolving "next tuesday" without an explicit reference
	w := do(t, srv, http.MethodPost, "/api/resolve", `{
		"expression": {"op": "the_nth_not_immediate", "n": 0,
		               "args": [{"op": "day_of_week", "text": "tuesday"}]}
	}`)

	// THEN: the following Tuesday is returned at day grain
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res resolve.Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, values.KindTime, res.Dimension)
	require.NotNil(t, res.Time)
	assert.True(t, time.Date(2013, time.February, 19, 0, 0, 0, 0, time.UTC).Equal(res.Time.Start))
	assert.Equal(t, moment.Day, res.Time.Grain)
	assert.False(t, res.Cached)
}

func TestResolve_ExplicitReferenceAndTimezone(t *testing.T) {
	srv := setupTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/resolve", `{
		"reference": "2020-06-15T10:00:00Z",
		"timezone": "UTC",
		"expression": {"op": "tomorrow"}
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res resolve.Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, time.Date(2020, time.June, 16, 0, 0, 0, 0, time.UTC).Equal(res.Time.Start))
}

func TestResolve_Number(t *testing.T) {
	srv := setupTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/resolve", `{"expression": {"op": "decimal", "text": "3.5"}}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res resolve.Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, values.KindNumber, res.Dimension)
	require.NotNil(t, res.Number)
	assert.Equal(t, "3.5", res.Number.Value.String())
}

func TestResolve_SecondCallIsCached(t *testing.T) {
	srv := setupTestServer(t)
	body := `{"reference": "2013-02-12T04:30:00Z", "expression": {"op": "cycle_nth", "grain": "week", "n": 1}}`

	first := do(t, srv, http.MethodPost, "/api/resolve", body)
	second := do(t, srv, http.MethodPost, "/api/resolve", body)

	require.Equal(t, http.StatusOK, second.Code)
	var a, b resolve.Resolution
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.False(t, a.Cached)
	assert.True(t, b.Cached)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestResolve_ClockReferenceSkipsMemo(t *testing.T) {
	// GIVEN: a memory store and requests without a reference
	store := memo.NewMemory()
	r := resolve.New(resolve.WithMemo(store), resolve.WithLog(store))
	h := api.NewHandler(r, "UTC", 3).WithClock(func() time.Time { return reference })
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.RateLimit.RPS = 0
	srv := api.NewRouter(h, *cfg)
	body := `{"expression": {"op": "today"}}`

	// WHEN: resolving the same tree twice against the server clock
	first := do(t, srv, http.MethodPost, "/api/resolve", body)
	second := do(t, srv, http.MethodPost, "/api/resolve", body)

	// THEN: nothing is cached, but both attempts are logged
	require.Equal(t, http.StatusOK, first.Code)
	var res resolve.Resolution
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &res))
	assert.False(t, res.Cached)

	outputs, records := store.Len()
	assert.Equal(t, 0, outputs)
	assert.Equal(t, 2, records)
}

func TestResolve_Errors(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"not json", `{`, http.StatusBadRequest, ""},
		{"no expression", `{}`, http.StatusBadRequest, ""},
		{"unknown op", `{"expression": {"op": "fortnightly"}}`, http.StatusBadRequest, string(resolve.OutcomeMalformed)},
		{"bad timezone", `{"timezone": "Mars/Olympus", "expression": {"op": "today"}}`, http.StatusBadRequest, ""},
		{"latent", `{"expression": {"op": "latent", "args": [{"op": "today"}]}}`, http.StatusUnprocessableEntity, string(resolve.OutcomeRejected)},
		{"month out of range", `{"expression": {"op": "month", "month": 13}}`, http.StatusUnprocessableEntity, string(resolve.OutcomeRejected)},
		{"operand only", `{"expression": {"op": "unit", "grain": "hour"}}`, http.StatusUnprocessableEntity, string(resolve.OutcomeRejected)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/resolve", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestResolveBatch(t *testing.T) {
	// GIVEN: three expressions, one of them rejected
	srv := setupTestServer(t)

	// WHEN: resolving them in one batch
	w := do(t, srv, http.MethodPost, "/api/resolve/batch", `{
		"expressions": [
			{"op": "today"},
			{"op": "latent", "args": [{"op": "today"}]},
			{"op": "integer", "n": 42}
		]
	}`)

	// THEN: results keep request order and the failure is reported in place
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.True(t, reference.Equal(resp.Reference))

	for i, item := range resp.Results {
		assert.Equal(t, i, item.Index)
	}
	require.NotNil(t, resp.Results[0].Result)
	assert.Equal(t, values.KindTime, resp.Results[0].Result.Dimension)

	assert.Nil(t, resp.Results[1].Result)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, string(resolve.OutcomeRejected), resp.Results[1].Error.Code)

	require.NotNil(t, resp.Results[2].Result)
	assert.Equal(t, "42", resp.Results[2].Result.Number.Value.String())
}

func TestResolveBatch_Limits(t *testing.T) {
	srv := setupTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/resolve/batch", `{"expressions": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	many := `{"expressions": [{"op": "today"}, {"op": "today"}, {"op": "today"}, {"op": "today"}]}`
	w = do(t, srv, http.MethodPost, "/api/resolve/batch", many)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Batch too large")
}

func TestDiscovery(t *testing.T) {
	srv := setupTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/grains", "")
	require.Equal(t, http.StatusOK, w.Code)
	var grains api.GrainsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grains))
	assert.Equal(t, []string{"second", "minute", "hour", "day", "week", "month", "quarter", "year"}, grains.Grains)

	w = do(t, srv, http.MethodGet, "/api/ops", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ops api.OpsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ops))
	assert.NotEmpty(t, ops.Ops)

	w = do(t, srv, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestRecentLog(t *testing.T) {
	// GIVEN: one resolved and one malformed request
	srv := setupTestServer(t)
	do(t, srv, http.MethodPost, "/api/resolve", `{"expression": {"op": "today"}}`)
	do(t, srv, http.MethodPost, "/api/resolve", `{"expression": {"op": "nope"}}`)

	// WHEN: reading the log
	w := do(t, srv, http.MethodGet, "/api/log?limit=10", "")

	// THEN: both attempts are listed newest first
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.LogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, resolve.OutcomeMalformed, resp.Records[0].Outcome)
	assert.Equal(t, resolve.OutcomeResolved, resp.Records[1].Outcome)

	w = do(t, srv, http.MethodGet, "/api/log?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	srv := setupTestServer(t, func(c *config.Config) {
		c.RateLimit.RPS = 1
		c.RateLimit.Burst = 2
	})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, do(t, srv, http.MethodGet, "/api/health", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestBodyLimit(t *testing.T) {
	srv := setupTestServer(t)
	huge := `{"expression": {"op": "integer", "text": "` + strings.Repeat("1", 2<<20) + `"}}`

	w := do(t, srv, http.MethodPost, "/api/resolve", huge)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
