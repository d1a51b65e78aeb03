package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers lookups of personal data by national ID.
	// These carry regulatory weight and need long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to abuse monitoring.
	// Examples: rate limit rejections, admin token mismatches.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	// Examples: form link selections, status checks.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// SubjectIDHash is a keyed hash of the national ID being looked up.
	// Raw national IDs never appear in audit events.
	SubjectIDHash string `json:"subject_id_hash,omitempty"`
	// Subject names a non-personal target, e.g. a debenture form code.
	Subject   string `json:"subject,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Count     int    `json:"count,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	// Client is a coarse browser/OS summary, not the raw User-Agent.
	Client string `json:"client,omitempty"`
}

type AuditEvent string

const (
	EventHoldingsSearched  AuditEvent = "search_holdings"
	EventHoldingsListed    AuditEvent = "list_holdings"
	EventDebentureSelected AuditEvent = "select_debenture"
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
	EventAdminTokenDenied  AuditEvent = "admin_token_denied"
)

// Outcomes recorded on events.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeOK       = "ok"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventHoldingsSearched: CategoryCompliance,
	EventHoldingsListed:   CategoryCompliance,

	EventRateLimitExceeded: CategorySecurity,
	EventAdminTokenDenied:  CategorySecurity,

	EventDebentureSelected: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Emitter is what services depend on to record activity.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// NopEmitter discards events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, Event) error { return nil }
