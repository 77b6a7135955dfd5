package health

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusOK      HealthStatus = "ok"
	StatusWarning HealthStatus = "warning"
	StatusError   HealthStatus = "error"
)

// EventHealthUpdate is broadcast when a component changes status.
const EventHealthUpdate = "health:update"

// HealthItem is the last observed state of a component.
type HealthItem struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
}

// MarshalJSON omits the message and timestamp for OK items.
func (h HealthItem) MarshalJSON() ([]byte, error) {
	type Alias HealthItem
	alias := Alias(h)

	if h.Status == StatusOK {
		alias.Timestamp = nil
		alias.Message = ""
	}

	return json.Marshal(alias)
}

// HealthResponse lists every component in registration order.
type HealthResponse struct {
	Items     []HealthItem `json:"items"`
	HasIssues bool         `json:"hasIssues"`
}

// Result is what a Checker reports.
type Result struct {
	Status  HealthStatus
	Message string
}

func OK() Result { return Result{Status: StatusOK} }

func Warning(msg string) Result { return Result{Status: StatusWarning, Message: msg} }

func Error(msg string) Result { return Result{Status: StatusError, Message: msg} }

// Checker checks a single component.
type Checker func(ctx context.Context) Result
