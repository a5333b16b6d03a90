package domain

import "time"

// Audit actions.
const (
	AuditActionTokenIssued = "token.issued"
	AuditActionTokenDenied = "token.denied"
	AuditActionIntrospect  = "token.introspected"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess       = "success"
	AuditOutcomeInvalidClient = "invalid_client"
	AuditOutcomeInvalidScope  = "invalid_scope"
	AuditOutcomeError         = "error"
)

// AuditEvent is a single security-relevant event recorded by the
// authorization server. Events are pruned by the housekeeping worker once
// they pass the configured retention window.
type AuditEvent struct {
	ID        string
	ClientID  string // as presented by the caller, may be unregistered
	Action    string
	Outcome   string
	Detail    string // free-form context, e.g. the rejected scope
	CreatedAt time.Time
}
