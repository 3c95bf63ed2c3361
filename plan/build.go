package plan

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/warp/value-algebra/moment"
	"github.com/warp/value-algebra/values"
)

// =============================================================================
// BUILDER
// =============================================================================

// Builder replays expression trees against the algebra.
type Builder struct {
	ops map[string]opSpec
}

// NewBuilder creates a builder over the full operation table.
func NewBuilder() *Builder {
	return &Builder{ops: opTable()}
}

// Build evaluates the tree bottom-up: operands first, then the node's op.
func (b *Builder) Build(n Node) (values.Dimension, error) {
	return b.build(n, 0)
}

func (b *Builder) build(n Node, depth int) (values.Dimension, error) {
	if depth > maxDepth {
		return nil, errors.Wrapf(ErrBadNode, "nesting deeper than %d", maxDepth)
	}
	op, ok := b.ops[n.Op]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOp, "%q", n.Op)
	}
	if err := op.checkArity(len(n.Args)); err != nil {
		return nil, errors.Wrap(err, n.Op)
	}
	args := make([]values.Dimension, len(n.Args))
	for i, a := range n.Args {
		v, err := b.build(a, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := op.build(n, args)
	if err != nil {
		return nil, errors.Wrap(err, n.Op)
	}
	return v, nil
}

// OpDoc describes one operation for discovery endpoints.
type OpDoc struct {
	Name  string `json:"name"`
	Arity string `json:"arity"`
	Doc   string `json:"doc"`
}

// Ops lists the operation table sorted by name.
func (b *Builder) Ops() []OpDoc {
	docs := make([]OpDoc, 0, len(b.ops))
	for name, op := range b.ops {
		docs = append(docs, OpDoc{Name: name, Arity: op.arityString(), Doc: op.doc})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

// Fingerprint identifies a tree by the hash of its canonical encoding.
// Trees differing only in JSON whitespace or key order share a fingerprint.
func Fingerprint(n Node) (string, error) {
	b, err := Marshal(n)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// =============================================================================
// OPERATION SPECS
// =============================================================================

// variadic marks an op taking two or more operands.
const variadic = -1

type opSpec struct {
	arity int
	doc   string
	build func(n Node, args []values.Dimension) (values.Dimension, error)
}

func (s opSpec) checkArity(got int) error {
	if s.arity == variadic {
		if got < 2 {
			return errors.Wrapf(ErrBadNode, "want at least 2 operands, got %d", got)
		}
		return nil
	}
	if got != s.arity {
		return errors.Wrapf(ErrBadNode, "want %d operands, got %d", s.arity, got)
	}
	return nil
}

func (s opSpec) arityString() string {
	if s.arity == variadic {
		return "2+"
	}
	return fmt.Sprint(s.arity)
}

// =============================================================================
// OPERAND AND FIELD ACCESS
// =============================================================================

func operand[T values.Dimension](args []values.Dimension, i int, want string) (T, error) {
	v, ok := args[i].(T)
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrBadNode, "operand %d is %s, want %s", i, args[i].Kind(), want)
	}
	return v, nil
}

func timeArg(args []values.Dimension, i int) (values.TimeValue, error) {
	return operand[values.TimeValue](args, i, "time")
}

func numberArg(args []values.Dimension, i int) (values.Number, error) {
	return operand[values.Number](args, i, "number")
}

func integerArg(args []values.Dimension, i int) (values.Integer, error) {
	return operand[values.Integer](args, i, "integer")
}

func durationArg(args []values.Dimension, i int) (values.Duration, error) {
	return operand[values.Duration](args, i, "duration")
}

func grain(n Node) (moment.Grain, error) {
	if n.Grain == "" {
		return 0, errors.Wrap(ErrBadNode, "missing grain")
	}
	g, err := moment.ParseGrain(n.Grain)
	if err != nil {
		return 0, errors.Wrap(stderrors.Join(ErrBadNode, err), "grain")
	}
	return g, nil
}

// singleRune reads a separator field, falling back to def when empty.
func singleRune(field, s string, def rune) (rune, error) {
	if s == "" {
		return def, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, errors.Wrapf(ErrBadNode, "%s %q is not a single character", field, s)
	}
	return r, nil
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func weekday(s string) (time.Weekday, error) {
	w, ok := weekdays[s]
	if !ok {
		return 0, errors.Wrapf(values.ErrOutOfRange, "weekday %q", s)
	}
	return w, nil
}

func precision(s string) (values.Precision, error) {
	var p values.Precision
	if s == "" {
		return 0, errors.Wrap(ErrBadNode, "missing precision")
	}
	if err := p.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrap(stderrors.Join(ErrBadNode, err), "precision")
	}
	return p, nil
}

func direction(s string) (values.Direction, error) {
	var d values.Direction
	if err := d.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrap(stderrors.Join(ErrBadNode, err), "direction")
	}
	return d, nil
}
