/*
Package plan turns JSON expression trees into algebra values.

PURPOSE:
  The rule engine that matches text is an external collaborator. Over
  the wire (API, CLI) it describes what it matched as a tree of algebra
  calls; plan replays that tree against the values package. This lets a
  caller resolve "nächsten Dienstag" without linking Go code:

    {"op": "the_nth_not_immediate", "n": 0,
     "args": [{"op": "day_of_week", "text": "tuesday"}]}

NODE SCHEMA:
  op         operation name (see Ops)
  args       operand nodes, in order
  n          count / offset / ordinal / literal integer
  year, month, day, hour, minute, second
             calendar fields
  clock12    the hour was spoken on a 12h clock
  inclusive  span end is inclusive
  grain      second|minute|hour|day|week|month|quarter|year
  text       names and literals: weekday, holiday, season, part of day,
             precision, direction, digit strings, numeral words
  sep, point group separator and decimal point for literals

ERRORS:
  ErrUnknownOp  op is not in the table
  ErrBadNode    wrong arity, operand of the wrong dimension, bad field
  Any values.* rejection is passed through unchanged.

SEE ALSO:
  - ops.go: the operation table
  - resolve/: resolving the built value against a reference
*/
package plan

import (
	stderrors "errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrUnknownOp is returned for an op name outside the table.
	ErrUnknownOp = stderrors.New("unknown op")

	// ErrBadNode is returned for a structurally invalid node.
	ErrBadNode = stderrors.New("malformed expression node")
)

// maxDepth bounds the nesting of an expression tree.
const maxDepth = 64

// Node is one algebra call in an expression tree.
type Node struct {
	Op        string `json:"op"`
	Args      []Node `json:"args,omitempty"`
	N         int    `json:"n,omitempty"`
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	Day       int    `json:"day,omitempty"`
	Hour      int    `json:"hour,omitempty"`
	Minute    int    `json:"minute,omitempty"`
	Second    int    `json:"second,omitempty"`
	Clock12   bool   `json:"clock12,omitempty"`
	Inclusive bool   `json:"inclusive,omitempty"`
	Grain     string `json:"grain,omitempty"`
	Text      string `json:"text,omitempty"`
	Sep       string `json:"sep,omitempty"`
	Point     string `json:"point,omitempty"`
}

// Parse decodes a JSON expression tree.
func Parse(data []byte) (Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return Node{}, errors.Wrap(stderrors.Join(ErrBadNode, err), "parse expression")
	}
	if n.Op == "" {
		return Node{}, errors.Wrap(ErrBadNode, "parse expression: missing op")
	}
	return n, nil
}

// Marshal encodes n in canonical form: fixed field order, zero fields omitted.
func Marshal(n Node) ([]byte, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, errors.Wrap(err, "marshal expression")
	}
	return b, nil
}
