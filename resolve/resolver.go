/*
Package resolve surfaces algebra values against a reference instant.

PURPOSE:
  The values package builds constraints; nothing there reads a clock.
  This package supplies the reference instant and location, walks the
  constraint to its first occurrence and turns the result into a typed
  Output. It is the only place where a latent value is refused.

FLOW:
  plan.Node --Fingerprint--> memo lookup
            --Build-------->  values.Dimension
            --Surface------>  Output
            --------------->  memo store, log append

BATCHES:
  ResolveBatch resolves many trees against one reference with a bounded
  number of workers. Output order matches input order and one failing
  tree never cancels the others.

SEE ALSO:
  - store.go: Memo and Log contracts
  - memo/: in-memory implementation
  - store/sqlite/: persistent implementation
*/
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/observability"
	"github.com/warp/value-algebra/plan"
	"github.com/warp/value-algebra/values"
)

// =============================================================================
// CONTEXT
// =============================================================================

// Context is the anchor of one resolution request.
type Context struct {
	Reference time.Time
	Location  *time.Location
	// Floating marks a reference read from the server clock. Such keys
	// never repeat, so resolutions against them skip the memo.
	Floating bool
}

// NewContext anchors ref in the named IANA location ("" means UTC).
func NewContext(ref time.Time, tz string) (Context, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Context{}, fmt.Errorf("timezone %q: %w", tz, err)
		}
		loc = l
	}
	return Context{Reference: ref.In(loc).Truncate(time.Second), Location: loc}, nil
}

func (c Context) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Context) moment(horizonYears int) moment.Context {
	return moment.NewContext(c.Reference.In(c.location())).WithHorizon(horizonYears)
}

func (c Context) key(fingerprint string) Key {
	return Key{
		Fingerprint: fingerprint,
		Reference:   c.Reference.UTC().Truncate(time.Second),
		Location:    c.location().String(),
	}
}

// =============================================================================
// RESOLVER
// =============================================================================

const defaultWorkers = 8

// Resolution is a surfaced output with the ID of its log record.
type Resolution struct {
	ID     uuid.UUID `json:"id"`
	Cached bool      `json:"cached"`
	Output
}

// Resolver builds, surfaces, caches and logs expression trees.
type Resolver struct {
	builder *plan.Builder
	memo    Memo
	log     Log
	logger  *slog.Logger
	horizon int
	workers int
	now     func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMemo caches outputs in m.
func WithMemo(m Memo) Option { return func(r *Resolver) { r.memo = m } }

// WithLog appends a record per attempt to l.
func WithLog(l Log) Option { return func(r *Resolver) { r.log = l } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(r *Resolver) { r.logger = l } }

// WithHorizon bounds occurrence searches to the given number of years.
func WithHorizon(years int) Option {
	return func(r *Resolver) {
		if years > 0 {
			r.horizon = years
		}
	}
}

// WithWorkers bounds batch parallelism.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithClock overrides the clock stamping log records.
func WithClock(now func() time.Time) Option { return func(r *Resolver) { r.now = now } }

// New creates a resolver. Without a memo or log those steps are skipped.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		builder: plan.NewBuilder(),
		logger:  observability.Discard(),
		horizon: moment.DefaultHorizonYears,
		workers: defaultWorkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ops lists the operations trees may use.
func (r *Resolver) Ops() []plan.OpDoc { return r.builder.Ops() }

// Resolve surfaces an already built value.
func (r *Resolver) Resolve(rc Context, d values.Dimension) (Output, error) {
	return Surface(rc, r.horizon, d)
}

// ResolveExpr builds and surfaces one expression tree.
func (r *Resolver) ResolveExpr(ctx context.Context, rc Context, n plan.Node) (Resolution, error) {
	start := time.Now()
	fp, err := plan.Fingerprint(n)
	if err != nil {
		return Resolution{}, err
	}
	key := rc.key(fp)
	rec := Record{
		ID:          uuid.New(),
		Fingerprint: fp,
		Reference:   key.Reference,
		Location:    key.Location,
		CreatedAt:   r.now().UTC(),
	}

	out, cached, err := r.lookup(ctx, key, n, rc)
	if err != nil {
		rec.Outcome = Classify(err)
		rec.Error = err.Error()
	} else {
		rec.Outcome = OutcomeResolved
		rec.Dimension = out.Dimension
		rec.Cached = cached
	}
	r.append(ctx, rec)

	r.logger.Debug("resolved expression",
		observability.LogFieldResolutionID, rec.ID.String(),
		observability.LogFieldFingerprint, fp,
		observability.LogFieldReference, key.Reference,
		observability.LogFieldCacheHit, cached,
		observability.LogFieldOutcome, string(rec.Outcome),
		observability.LogFieldDuration, time.Since(start).Milliseconds(),
	)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{ID: rec.ID, Cached: cached, Output: out}, nil
}

func (r *Resolver) lookup(ctx context.Context, key Key, n plan.Node, rc Context) (Output, bool, error) {
	memo := r.memo
	if rc.Floating {
		memo = nil
	}
	if memo != nil {
		out, ok, err := memo.Get(ctx, key)
		if err != nil {
			r.logger.Warn("memo lookup failed", "error", err)
		} else if ok {
			return out, true, nil
		}
	}
	v, err := r.builder.Build(n)
	if err != nil {
		return Output{}, false, err
	}
	out, err := r.Resolve(rc, v)
	if err != nil {
		return Output{}, false, err
	}
	if memo != nil {
		if err := memo.Put(ctx, key, out); err != nil {
			r.logger.Warn("memo store failed", "error", err)
		}
	}
	return out, false, nil
}

func (r *Resolver) append(ctx context.Context, rec Record) {
	if r.log == nil {
		return
	}
	if err := r.log.Append(ctx, rec); err != nil {
		r.logger.Warn("resolution log append failed",
			observability.LogFieldResolutionID, rec.ID.String(), "error", err)
	}
}

// Recent returns the latest log records, or nothing without a log.
func (r *Resolver) Recent(ctx context.Context, limit int) ([]Record, error) {
	if r.log == nil {
		return nil, nil
	}
	return r.log.Recent(ctx, limit)
}

// BatchItem is one slot of a batch: a resolution or its error.
type BatchItem struct {
	Resolution *Resolution
	Err        error
}

// ResolveBatch resolves every tree against rc. The returned error is only
// set when ctx is cancelled; per-tree failures live in their item.
func (r *Resolver) ResolveBatch(ctx context.Context, rc Context, nodes []plan.Node) ([]BatchItem, error) {
	items := make([]BatchItem, len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.ResolveExpr(gctx, rc, n)
			if err != nil {
				items[i] = BatchItem{Err: err}
				return nil
			}
			items[i] = BatchItem{Resolution: &res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Classify maps an error to the outcome recorded for it.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, plan.ErrBadNode), errors.Is(err, plan.ErrUnknownOp):
		return OutcomeMalformed
	case values.IsRejection(err):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
