/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Algebra outputs are
  returned as resolve.Resolution directly; these types wrap them.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers
  - *DTO: Items inside a response

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - plan/plan.go: Expression node schema
*/
package api

import (
	"time"

	"github.com/warp/value-algebra/plan"
	"github.com/warp/value-algebra/resolve"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ResolveRequest resolves one expression. Reference defaults to the server
// clock and Timezone to the configured zone.
type ResolveRequest struct {
	Reference  *time.Time `json:"reference,omitempty"`
	Timezone   string     `json:"timezone,omitempty"`
	Expression *plan.Node `json:"expression"`
}

// BatchRequest resolves many expressions against one reference.
type BatchRequest struct {
	Reference   *time.Time  `json:"reference,omitempty"`
	Timezone    string      `json:"timezone,omitempty"`
	Expressions []plan.Node `json:"expressions"`
}

// BatchItemDTO is one slot of a batch response, in request order.
type BatchItemDTO struct {
	Index  int                 `json:"index"`
	Result *resolve.Resolution `json:"result,omitempty"`
	Error  *ErrorResponse      `json:"error,omitempty"`
}

type BatchResponse struct {
	Reference time.Time      `json:"reference"`
	Results   []BatchItemDTO `json:"results"`
}

type GrainsResponse struct {
	Grains []string `json:"grains"`
}

type OpsResponse struct {
	Ops []plan.OpDoc `json:"ops"`
}

type LogResponse struct {
	Records []resolve.Record `json:"records"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
